// Package report renders a self-contained HTML snapshot of a session: the
// summary statistics, the scatterplot, the line type breakdown and the file
// dot matrix.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/nathansso/locvista/internal/app"
	"github.com/nathansso/locvista/internal/breakdown"
	"github.com/nathansso/locvista/internal/scale"
	"github.com/nathansso/locvista/internal/stats"
)

// EChartsURL is the script the report loads charts from.
const EChartsURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

const (
	chartWidth  = "520px"
	chartHeight = "360px"
	pieRadius   = "60%"
)

//go:embed templates/*.html
var templateFS embed.FS

var page = template.Must(template.ParseFS(templateFS, "templates/report.html"))

// Options configures Write.
type Options struct {
	Title string
	// Now stamps the report. Defaults to time.Now.
	Now func() time.Time
}

type pageData struct {
	Title      string
	Source     string
	Generated  string
	Cutoff     string
	EChartsURL string
	Stats      []stats.Entry
	Readout    string
	Scatter    template.HTML
	Breakdown  []breakdown.Entry
	Charts     []template.HTML
	Files      template.HTML
}

// Write renders the state as an HTML document. The breakdown covers the
// selection when there is one and every active commit otherwise.
func Write(w io.Writer, s *app.State, o Options) error {
	if !s.Initialized() {
		return app.ErrUninitialized
	}
	if o.Title == "" {
		o.Title = "Codebase overview"
	}
	if o.Now == nil {
		o.Now = time.Now
	}

	f := s.Frame()
	entries := f.Breakdown
	if len(entries) == 0 {
		entries = breakdown.Compute(s.Active(), scale.NewOrdinal(scale.Tableau10, s.Dataset().Types...))
	}

	data := pageData{
		Title:      o.Title,
		Source:     f.Source,
		Generated:  o.Now().Format(time.RFC1123),
		Cutoff:     f.CutoffLabel,
		EChartsURL: EChartsURL,
		Stats:      f.StatsEntries,
		Readout:    f.Readout,
		Scatter:    template.HTML(f.ScatterSVG),
		Breakdown:  entries,
		Files:      template.HTML(f.FilesSVG),
	}

	if len(entries) > 0 {
		html, err := renderChart(breakdownPie(entries))
		if err != nil {
			return err
		}
		data.Charts = append(data.Charts, html)
	}
	if f.Stats != nil {
		html, err := renderChart(weekdayBar(f.Stats.Weekdays))
		if err != nil {
			return err
		}
		data.Charts = append(data.Charts, html)
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("executing report template: %w", err)
	}
	return nil
}

func breakdownPie(entries []breakdown.Entry) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Lines by type", Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	data := make([]opts.PieData, len(entries))
	for i, e := range entries {
		data[i] = opts.PieData{Name: e.Type, Value: e.Count, ItemStyle: &opts.ItemStyle{Color: e.Color}}
	}
	pie.AddSeries("Lines", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
			charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
		)
	return pie
}

func weekdayBar(days []stats.Bucket) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Lines by weekday", Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	labels := make([]string, len(days))
	data := make([]opts.BarData, len(days))
	for i, d := range days {
		labels[i] = d.Label[:3]
		data[i] = opts.BarData{Value: d.Lines}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("Lines", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: scale.Tableau10[0]}))
	return bar
}

type renderable interface {
	Render(w io.Writer) error
}

// renderChart renders a chart page and keeps only its container, so several
// charts can share one document and one script include.
func renderChart(c renderable) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	return template.HTML(chartContent(buf.String())), nil
}

func chartContent(html string) string {
	start := strings.Index(html, `<div class="container">`)
	end := strings.LastIndex(html, `</body>`)
	if start == -1 || end == -1 || end < start {
		return html
	}
	content := html[start:end]
	for {
		i := strings.Index(content, "<style>")
		if i == -1 {
			break
		}
		j := strings.Index(content[i:], "</style>")
		if j == -1 {
			break
		}
		content = content[:i] + content[i+j+len("</style>"):]
	}
	return strings.ReplaceAll(content, `class="container"`, `class="chart"`)
}
