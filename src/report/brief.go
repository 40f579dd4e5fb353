// brief.go
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"RapidESGDataInsights/src/processor"
)

const BriefName = "esg_brief.txt"

// 货币数字按英文习惯加千位分隔符
var briefPrinter = message.NewPrinter(language.English)

// WriteBrief 生成一页纸执行摘要，返回文件完整路径与正文
func WriteBrief(result *processor.Result, outputDir string) (string, string, error) {
	brief := BuildBrief(result, time.Now())

	path := filepath.Join(outputDir, BriefName)
	if err := os.WriteFile(path, []byte(brief), 0644); err != nil {
		return "", "", fmt.Errorf("保存执行摘要失败: %w", err)
	}

	return path, brief, nil
}

// BuildBrief 拼装执行摘要正文
func BuildBrief(result *processor.Result, now time.Time) string {
	leaders := result.Leaders()
	laggards := result.Laggards()
	leaderStats := processor.Summarize(leaders)
	laggardStats := processor.Summarize(laggards)
	allStats := processor.Summarize(result.Rows)
	minYear, maxYear := processor.YearRange(result.Rows)

	total := len(result.Rows)
	var leaderPct, laggardPct float64
	if total > 0 {
		leaderPct = float64(len(leaders)) / float64(total) * 100
		laggardPct = float64(len(laggards)) / float64(total) * 100
	}

	var b strings.Builder

	b.WriteString("ESG DATA INSIGHTS: CO2/GDP ANALYSIS\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString("ANALYSIS OVERVIEW\n")
	fmt.Fprintf(&b, "- Dataset: %d countries analyzed using World Bank Open Data\n", total)
	b.WriteString("- Metric: CO2 emissions per GDP ratio (CO2 per capita / GDP per capita x 1000)\n")
	b.WriteString("- CO2 Indicator: EN.GHG.CO2.PC.CE.AR5 (Carbon dioxide emissions per capita)\n")
	b.WriteString("- GDP Indicator: NY.GDP.PCAP.CD (GDP per capita, current US$)\n")
	fmt.Fprintf(&b, "- Median threshold: %.3f\n", result.Median)
	fmt.Fprintf(&b, "- Analysis date: %s\n\n", now.Format("January 2006"))

	b.WriteString("KEY FINDINGS\n")
	fmt.Fprintf(&b, "- ESG Leaders: %d countries (%.1f%%)\n", len(leaders), leaderPct)
	fmt.Fprintf(&b, "- ESG Laggards: %d countries (%.1f%%)\n", len(laggards), laggardPct)
	fmt.Fprintf(&b, "- Performance range: %.3f - %.3f\n\n", allStats.MinRatio, allStats.MaxRatio)

	b.WriteString("TOP 5 ESG LEADERS:\n")
	b.WriteString(strings.Repeat("-", 50))
	for i, r := range processor.NSmallest(leaders, 5) {
		fmt.Fprintf(&b, "\n%d. %-20s | Ratio: %.3f | GDP: $%s | CO2: %.1ft",
			i+1, r.Country, r.Ratio, groupedDollars(r.GDP), r.CO2)
	}

	b.WriteString("\n\nTOP 5 ESG LAGGARDS:\n")
	b.WriteString(strings.Repeat("-", 50))
	for i, r := range processor.NLargest(laggards, 5) {
		fmt.Fprintf(&b, "\n%d. %-20s | Ratio: %.3f | GDP: $%s | CO2: %.1ft",
			i+1, r.Country, r.Ratio, groupedDollars(r.GDP), r.CO2)
	}

	b.WriteString("\n\nSTATISTICAL SUMMARY\n")
	fmt.Fprintf(&b, "- Average CO2/GDP ratio (Leaders): %.3f\n", leaderStats.MeanRatio)
	fmt.Fprintf(&b, "- Average CO2/GDP ratio (Laggards): %.3f\n", laggardStats.MeanRatio)
	gap := laggardStats.MeanRatio - leaderStats.MeanRatio
	var gapPct float64
	if leaderStats.MeanRatio != 0 {
		gapPct = (laggardStats.MeanRatio/leaderStats.MeanRatio - 1) * 100
	}
	fmt.Fprintf(&b, "- Performance gap: %.3f (%.1f%% higher)\n\n", gap, gapPct)

	b.WriteString("LEADERS PROFILE\n")
	fmt.Fprintf(&b, "- Average GDP per capita: $%s\n", groupedDollars(leaderStats.MeanGDP))
	fmt.Fprintf(&b, "- Average CO2 per capita: %.2f metric tons\n", leaderStats.MeanCO2)
	if len(leaders) > 0 {
		best := processor.NSmallest(leaders, 1)[0]
		fmt.Fprintf(&b, "- Best performer: %s (%.3f)\n", best.Country, best.Ratio)
	}

	b.WriteString("\nLAGGARDS PROFILE\n")
	fmt.Fprintf(&b, "- Average GDP per capita: $%s\n", groupedDollars(laggardStats.MeanGDP))
	fmt.Fprintf(&b, "- Average CO2 per capita: %.2f metric tons\n", laggardStats.MeanCO2)
	if len(laggards) > 0 {
		worst := processor.NLargest(laggards, 1)[0]
		fmt.Fprintf(&b, "- Worst performer: %s (%.3f)\n", worst.Country, worst.Ratio)
	}

	b.WriteString("\nDATA VALIDATION\n")
	fmt.Fprintf(&b, "- Total countries with complete data: %d\n", total)
	fmt.Fprintf(&b, "- Data years covered: %d-%d\n", minYear, maxYear)
	fmt.Fprintf(&b, "- Data source: %s\n\n", sourceLabel(result.Source))

	b.WriteString("STRATEGIC RECOMMENDATIONS\n")
	b.WriteString("1. LEADERS: Share successful decoupling strategies (economic growth + low emissions)\n")
	b.WriteString("2. LAGGARDS: Focus on energy transition and efficiency improvements\n")
	b.WriteString("3. ALL: Implement science-based targets aligned with Paris Agreement\n")
	b.WriteString("4. POLICY: Carbon pricing mechanisms and green finance initiatives\n\n")

	b.WriteString("METHODOLOGY NOTES\n")
	b.WriteString("- CO2/GDP ratio methodology validated against academic literature\n")
	b.WriteString("- Median-based classification ensures statistical robustness\n")
	b.WriteString("- Latest available data used for each country\n\n")

	b.WriteString("OUTPUT FILES GENERATED\n")
	fmt.Fprintf(&b, "- %s - Excel workbook with pivot analysis\n", WorkbookName)
	fmt.Fprintf(&b, "- %s/ - PNG charts\n", VisualizationsDir)
	fmt.Fprintf(&b, "- %s - This executive summary\n", BriefName)

	return b.String()
}

func groupedDollars(v float64) string {
	return briefPrinter.Sprintf("%d", int64(math.Round(v)))
}

func sourceLabel(source string) string {
	if source == "sample" {
		return "Generated sample data (demonstration mode)"
	}
	return "World Bank Open Data v2 (EN.GHG.CO2.PC.CE.AR5, NY.GDP.PCAP.CD)"
}
