package report

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	histogramColor = "blue"
	densityColor   = "red"
	naColor        = "lightgrey"
)

// palette is the default category cycle plus four extra colours for long value lists.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	"lightsalmon", "greenyellow", "hotpink", "darkviolet",
}

// CategoryColors assigns palette colours in value-count order; the N/A category is grey.
func CategoryColors(counts []Count, na string) map[string]string {
	colors := make(map[string]string, len(counts))
	for i, c := range counts {
		if c.Value == na {
			colors[c.Value] = naColor
			continue
		}
		colors[c.Value] = palette[i%len(palette)]
	}
	return colors
}

// HistogramChart draws the distribution of a numeric column, with the density estimate
// on a second axis when one is given.
func HistogramChart(column string, bins []Bin, density []float64, s Summary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    column + " Distribution",
			Subtitle: fmt.Sprintf("n=%d  mean=%.2f  sd=%.2f  min=%.2f  max=%.2f", s.N, s.Mean, s.SD, s.Min, s.Max),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: column}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Number of Observations"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(bins))
	items := make([]opts.BarData, 0, len(bins))
	for _, b := range bins {
		labels = append(labels, formatEdge(b.Low)+"-"+formatEdge(b.High))
		items = append(items, opts.BarData{
			Value:     b.Count,
			ItemStyle: &opts.ItemStyle{Color: histogramColor},
		})
	}
	bar.SetXAxis(labels).AddSeries(column, items)

	if len(density) == len(bins) && len(density) > 0 {
		bar.ExtendYAxis(opts.YAxis{Name: "KDE", Min: 0})
		points := make([]opts.LineData, 0, len(density))
		for _, d := range density {
			points = append(points, opts.LineData{Value: d})
		}
		line := charts.NewLine()
		line.SetXAxis(labels).AddSeries("KDE", points,
			charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1, Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: densityColor}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: densityColor}),
		)
		bar.Overlap(line)
	}
	return bar
}

// PieChart draws the share of each category.
func PieChart(column string, counts []Count, colors map[string]string) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: column}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Orient:    "vertical",
			Right:     "5%",
			Top:       "middle",
			Formatter: opts.FuncOpts(countTableFormatter(CountTable(counts))),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	items := make([]opts.PieData, 0, len(counts))
	for _, c := range counts {
		items = append(items, opts.PieData{
			Name:      c.Value,
			Value:     c.N,
			ItemStyle: &opts.ItemStyle{Color: colors[c.Value]},
		})
	}
	pie.AddSeries(column, items).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
		charts.WithPieChartOpts(opts.PieChart{Center: []string{"35%", "55%"}, Radius: "60%"}),
	)
	return pie
}

// countTableFormatter builds the legend formatter that prints each category with its
// count and percentage beside the pie. Strings are URI-encoded so no quote or backslash
// reaches the generated script.
func countTableFormatter(rows []CountRow) string {
	entries := make([]string, 0, len(rows))
	for _, r := range rows {
		line := fmt.Sprintf("%s  %d  (%.1f%%)", r.Value, r.N, r.Percent)
		entries = append(entries, fmt.Sprintf("['%s','%s']", url.PathEscape(r.Value), url.PathEscape(line)))
	}
	return "function (name) { var rows = [" + strings.Join(entries, ",") + "]; " +
		"for (var i = 0; i < rows.length; i++) { " +
		"if (decodeURIComponent(rows[i][0]) === name) { return decodeURIComponent(rows[i][1]); } } " +
		"return name; }"
}

// BarChart draws category counts sorted by category.
func BarChart(column string, counts []Count, colors map[string]string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: column}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Values"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	sorted := SortByValue(counts)
	labels := make([]string, 0, len(sorted))
	items := make([]opts.BarData, 0, len(sorted))
	for _, c := range sorted {
		labels = append(labels, c.Value)
		items = append(items, opts.BarData{
			Value:     c.N,
			ItemStyle: &opts.ItemStyle{Color: colors[c.Value]},
		})
	}
	bar.SetXAxis(labels).AddSeries(column, items)
	return bar
}

// Render writes every section's charts to a single HTML page.
func Render(w io.Writer, title string, sections []Section) error {
	page := components.NewPage()
	page.PageTitle = title

	for _, s := range sections {
		if s.Numeric {
			page.AddCharts(HistogramChart(s.Column, s.Bins, s.Density, s.Summary))
			continue
		}
		colors := CategoryColors(s.Counts, s.NA)
		page.AddCharts(PieChart(s.Column, s.Counts, colors), BarChart(s.Column, s.Counts, colors))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
