// charts.go
package report

import (
	"fmt"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"RapidESGDataInsights/src/processor"
	"RapidESGDataInsights/src/utils"
)

// 图表输出子目录与文件名
const (
	VisualizationsDir = "visualizations"

	scatterChartName      = "co2_vs_gdp_scatter.png"
	performersChartName   = "top_bottom_performers.png"
	distributionChartName = "category_distribution.png"
	spreadChartName       = "category_spread.png"
)

var (
	leaderColor  = drawing.Color{R: 0x28, G: 0xA7, B: 0x45, A: 255}
	laggardColor = drawing.Color{R: 0xDC, G: 0x35, B: 0x45, A: 255}
)

// pointStyle 只画散点不连线
// StrokeWidth必须显式置为Disabled，0会被当作"使用默认宽度"
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

// WriteCharts 输出全部四张PNG图表，返回生成的文件路径
func WriteCharts(result *processor.Result, outputDir string) ([]string, error) {
	dir := filepath.Join(outputDir, VisualizationsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建图表目录失败: %w", err)
	}

	renderers := []struct {
		name   string
		render func(*processor.Result, string) error
	}{
		{scatterChartName, renderScatter},
		{performersChartName, renderPerformers},
		{distributionChartName, renderDistribution},
		{spreadChartName, renderSpread},
	}

	var paths []string
	for _, r := range renderers {
		path := filepath.Join(dir, r.name)
		if err := r.render(result, path); err != nil {
			return paths, fmt.Errorf("生成图表 %s 失败: %w", r.name, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// renderScatter CO2 vs GDP 散点图，Leader绿色、Laggard红色
// 比值最极端的国家附加名称标注
func renderScatter(result *processor.Result, path string) error {
	series := []chart.Series{}

	for _, group := range []struct {
		rows  []processor.Row
		name  string
		color drawing.Color
	}{
		{result.Leaders(), processor.CategoryLeader, leaderColor},
		{result.Laggards(), processor.CategoryLaggard, laggardColor},
	} {
		if len(group.rows) == 0 {
			continue
		}
		xs := make([]float64, len(group.rows))
		ys := make([]float64, len(group.rows))
		for i, r := range group.rows {
			xs[i] = r.GDP
			ys[i] = r.CO2
		}
		series = append(series, chart.ContinuousSeries{
			Name:    group.name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(group.color),
		})
	}

	// 标注最好的3个Leader与最差的3个Laggard
	var annotations []chart.Value2
	for _, r := range processor.NSmallest(result.Leaders(), 3) {
		annotations = append(annotations, chart.Value2{XValue: r.GDP, YValue: r.CO2, Label: r.Country})
	}
	for _, r := range processor.NLargest(result.Laggards(), 3) {
		annotations = append(annotations, chart.Value2{XValue: r.GDP, YValue: r.CO2, Label: r.Country})
	}
	if len(annotations) > 0 {
		series = append(series, chart.AnnotationSeries{Annotations: annotations})
	}

	ch := chart.Chart{
		Title:  "CO2 Emissions vs GDP per Capita",
		Width:  1200,
		Height: 800,
		XAxis:  chart.XAxis{Name: "GDP per Capita (USD)"},
		YAxis:  chart.YAxis{Name: "CO2 per Capita (metric tons)"},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return renderToFile(path, func(f *os.File) error {
		return ch.Render(chart.PNG, f)
	})
}

// renderPerformers 最好与最差各10个国家的比值条形图
func renderPerformers(result *processor.Result, path string) error {
	var bars []chart.Value
	for _, r := range processor.NSmallest(result.Rows, 10) {
		bars = append(bars, chart.Value{
			Label: r.Code,
			Value: r.Ratio,
			Style: chart.Style{FillColor: leaderColor, StrokeColor: leaderColor},
		})
	}
	for _, r := range processor.NLargest(result.Rows, 10) {
		bars = append(bars, chart.Value{
			Label: r.Code,
			Value: r.Ratio,
			Style: chart.Style{FillColor: laggardColor, StrokeColor: laggardColor},
		})
	}

	ch := chart.BarChart{
		Title:    "Top 10 Leaders and Laggards by CO2/GDP Ratio",
		Width:    1600,
		Height:   600,
		BarWidth: 40,
		Bars:     bars,
	}

	return renderToFile(path, func(f *os.File) error {
		return ch.Render(chart.PNG, f)
	})
}

// renderDistribution Leader/Laggard数量分布饼图
func renderDistribution(result *processor.Result, path string) error {
	ch := chart.PieChart{
		Title:  "Distribution of ESG Leaders vs Laggards",
		Width:  800,
		Height: 800,
		Values: []chart.Value{
			{
				Value: float64(len(result.Leaders())),
				Label: fmt.Sprintf("%s (%d)", processor.CategoryLeader, len(result.Leaders())),
				Style: chart.Style{FillColor: leaderColor},
			},
			{
				Value: float64(len(result.Laggards())),
				Label: fmt.Sprintf("%s (%d)", processor.CategoryLaggard, len(result.Laggards())),
				Style: chart.Style{FillColor: laggardColor},
			},
		},
	}

	return renderToFile(path, func(f *os.File) error {
		return ch.Render(chart.PNG, f)
	})
}

// renderSpread 两个阵营比值的min/median/max条形图
func renderSpread(result *processor.Result, path string) error {
	var bars []chart.Value
	for _, group := range []struct {
		rows  []processor.Row
		name  string
		color drawing.Color
	}{
		{result.Leaders(), processor.CategoryLeader, leaderColor},
		{result.Laggards(), processor.CategoryLaggard, laggardColor},
	} {
		ratios := processor.RatioValues(group.rows)
		min, max := utils.MinMax(ratios)
		median := utils.Median(ratios)

		style := chart.Style{FillColor: group.color, StrokeColor: group.color}
		bars = append(bars,
			chart.Value{Label: group.name + " min", Value: min, Style: style},
			chart.Value{Label: group.name + " median", Value: median, Style: style},
			chart.Value{Label: group.name + " max", Value: max, Style: style},
		)
	}

	ch := chart.BarChart{
		Title:    "CO2/GDP Ratio Spread: Leaders vs Laggards",
		Width:    1200,
		Height:   600,
		BarWidth: 60,
		Bars:     bars,
	}

	return renderToFile(path, func(f *os.File) error {
		return ch.Render(chart.PNG, f)
	})
}

func renderToFile(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建图表文件失败: %w", err)
	}
	defer f.Close()

	return render(f)
}
