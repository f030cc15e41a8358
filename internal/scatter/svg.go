package scatter

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"

	"github.com/nathansso/locvista/internal/geom"
)

const fill = "steelblue"

// WriteSVG draws the plot at the renderer's current instant. Marks still in
// flight carry SMIL animations for the rest of their transition. A non-empty
// brush is drawn as an overlay. A nil writer is logged and ignored.
func (r *Renderer) WriteSVG(w io.Writer, brush geom.Rect) error {
	if w == nil {
		r.opts.Logger.Warn("scatterplot has no render target")
		return nil
	}
	bw := bufio.NewWriter(w)
	a := r.Area()

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" id="chart" viewBox="0 0 %s %s" width="%s" height="%s" style="overflow: visible">`+"\n",
		num(r.opts.Width), num(r.opts.Height), num(r.opts.Width), num(r.opts.Height))

	fmt.Fprintf(bw, `<g class="gridlines" transform="translate(%s, 0)">`+"\n", num(a.Min.X))
	for _, g := range r.Gridlines() {
		fmt.Fprintf(bw, `<line x1="0" x2="%s" y1="%s" y2="%s" stroke="%s" stroke-opacity="%s"/>`+"\n",
			num(a.Width()), num(g.Y), num(g.Y), g.Color, num(g.Opacity))
	}
	bw.WriteString("</g>\n")

	fmt.Fprintf(bw, `<g class="x-axis" transform="translate(0, %s)" font-size="10" text-anchor="middle">`+"\n", num(a.Max.Y))
	fmt.Fprintf(bw, `<path stroke="currentColor" d="M%s,6V0H%s V6"/>`+"\n", num(a.Min.X), num(a.Max.X))
	for _, t := range r.XTicks() {
		fmt.Fprintf(bw, `<g class="tick" transform="translate(%s, 0)"><line stroke="currentColor" y2="6"/><text fill="currentColor" y="9" dy="0.71em">%s</text></g>`+"\n",
			num(t.Pos), html.EscapeString(t.Label))
	}
	bw.WriteString("</g>\n")

	fmt.Fprintf(bw, `<g class="y-axis" transform="translate(%s, 0)" font-size="10" text-anchor="end">`+"\n", num(a.Min.X))
	fmt.Fprintf(bw, `<path stroke="currentColor" d="M-6,%sH0V%sH-6"/>`+"\n", num(a.Max.Y), num(a.Min.Y))
	for _, t := range r.YTicks() {
		fmt.Fprintf(bw, `<g class="tick" transform="translate(0, %s)"><line stroke="currentColor" x2="-6"/><text fill="currentColor" x="-9" dy="0.32em">%s</text></g>`+"\n",
			num(t.Pos), html.EscapeString(t.Label))
	}
	bw.WriteString("</g>\n")

	bw.WriteString(`<g class="dots">` + "\n")
	for _, m := range r.Marks() {
		fmt.Fprintf(bw, `<circle data-id="%s" cx="%s" cy="%s" r="%s" fill="%s" fill-opacity="%s"`,
			html.EscapeString(m.ID), num(m.CX), num(m.CY), num(m.R), fill, num(m.Opacity))
		if m.Remaining <= 0 {
			bw.WriteString("/>\n")
			continue
		}
		bw.WriteString(">")
		dur := strconv.FormatInt(m.Remaining.Milliseconds(), 10) + "ms"
		animate(bw, "cx", m.CX, m.Target.X, dur)
		animate(bw, "cy", m.CY, m.Target.Y, dur)
		animate(bw, "r", m.R, m.TargetR, dur)
		bw.WriteString("</circle>\n")
	}
	bw.WriteString("</g>\n")

	if !brush.Empty() {
		fmt.Fprintf(bw, `<rect class="selection" x="%s" y="%s" width="%s" height="%s" fill="#777" fill-opacity="0.3" stroke="#fff"/>`+"\n",
			num(brush.Min.X), num(brush.Min.Y), num(brush.Width()), num(brush.Height()))
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func animate(w *bufio.Writer, attr string, from, to float64, dur string) {
	if from == to {
		return
	}
	fmt.Fprintf(w, `<animate attributeName="%s" from="%s" to="%s" dur="%s" fill="freeze" calcMode="spline" keyTimes="0;1" keySplines="0.65 0 0.35 1"/>`,
		attr, num(from), num(to), dur)
}

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
