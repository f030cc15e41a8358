package filedots

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
)

// WriteSVG draws the layout with each file's name under its group.
func (l Layout) WriteSVG(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" class="files" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(l.Width), num(l.Height), num(l.Width), num(l.Height))
	for _, g := range l.Groups {
		fmt.Fprintf(bw, `<g class="file" data-file="%s">`+"\n", html.EscapeString(g.File))
		for _, d := range g.Dots {
			fmt.Fprintf(bw, `<rect class="line" x="%s" y="%s" width="%s" height="%s" rx="1" fill="%s"/>`+"\n",
				num(d.X), num(d.Y), num(l.DotSize), num(l.DotSize), html.EscapeString(d.Color))
		}
		fmt.Fprintf(bw, `<text x="%s" y="%s" font-size="10" font-family="monospace">%s <tspan opacity="0.6">%d lines</tspan></text>`+"\n",
			num(g.X), num(g.LabelY-4), html.EscapeString(g.File), g.TotalLines)
		bw.WriteString("</g>\n")
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
