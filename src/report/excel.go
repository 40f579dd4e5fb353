// excel.go
package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"RapidESGDataInsights/src/processor"
)

const WorkbookName = "esg_analysis.xlsx"

// 工作表名称，与分析报告的固定结构对应
const (
	sheetRaw       = "Raw_Data"
	sheetSummary   = "Summary_Data"
	sheetPivot     = "Pivot_Analysis"
	sheetCategory  = "Pivot_by_Category"
	sheetTop       = "Pivot_Top_Countries"
	sheetCountries = "Pivot_Country_Analysis"
	sheetDashboard = "Dashboard"
)

// ExcelWriter 生成分析结果工作簿
type ExcelWriter struct {
	headerStyle   int
	titleStyle    int
	dataStyle     int // 三位小数
	currencyStyle int
	scoreStyle    int // 一位小数
	leaderStyle   int // 浅绿底色
	laggardStyle  int // 浅红底色
}

// WriteWorkbook 将分析结果写入Excel工作簿，返回文件完整路径
func WriteWorkbook(result *processor.Result, outputDir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	w := &ExcelWriter{}
	if err := w.initStyles(f); err != nil {
		return "", fmt.Errorf("创建单元格样式失败: %w", err)
	}

	f.SetSheetName("Sheet1", sheetRaw)

	w.writeRawData(f, result)
	w.writeSummaryData(f, result)
	w.writePivotAnalysis(f, result)
	if err := w.writeCategoryPivot(f, result); err != nil {
		return "", err
	}
	if err := w.writeTopCountries(f, result); err != nil {
		return "", err
	}
	w.writeCountryAnalysis(f, result)
	w.writeDashboard(f, result)

	path := filepath.Join(outputDir, WorkbookName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("保存Excel文件失败: %w", err)
	}

	return path, nil
}

func (w *ExcelWriter) initStyles(f *excelize.File) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	var err error
	w.headerStyle, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return err
	}

	w.titleStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2C3E50"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	numFmt := "#,##0.000"
	w.dataStyle, err = f.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}

	curFmt := "$#,##0"
	w.currencyStyle, err = f.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &curFmt})
	if err != nil {
		return err
	}

	scoreFmt := "0.0"
	w.scoreStyle, err = f.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &scoreFmt})
	if err != nil {
		return err
	}

	w.leaderStyle, err = f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"D4EDDA"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return err
	}

	w.laggardStyle, err = f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"F8D7DA"}, Pattern: 1},
		Border: border,
	})
	return err
}

// writeDataTable 在指定工作表写入标准数据表(标题行+记录)
// 返回最后写入的行号
func (w *ExcelWriter) writeDataTable(f *excelize.File, sheet string, rows []processor.Row) int {
	headers := []string{"Country", "Category", "CO2_per_Capita", "GDP_per_Capita", "CO2_GDP_Ratio", "Year"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, w.headerStyle)
	}

	for i, r := range rows {
		rowIdx := i + 2
		w.setCell(f, sheet, 1, rowIdx, r.Country, 0)
		w.setCell(f, sheet, 2, rowIdx, r.Category, 0)
		w.setCell(f, sheet, 3, rowIdx, r.CO2, w.dataStyle)
		w.setCell(f, sheet, 4, rowIdx, r.GDP, w.currencyStyle)
		w.setCell(f, sheet, 5, rowIdx, r.Ratio, w.dataStyle)
		w.setCell(f, sheet, 6, rowIdx, r.Year, 0)
	}

	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "B", 12)
	f.SetColWidth(sheet, "C", "E", 15)
	f.SetColWidth(sheet, "F", "F", 8)

	return len(rows) + 1
}

func (w *ExcelWriter) setCell(f *excelize.File, sheet string, col, row int, value interface{}, style int) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	f.SetCellValue(sheet, cell, value)
	if style != 0 {
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

// writeRawData 完整结果数据表
func (w *ExcelWriter) writeRawData(f *excelize.File, result *processor.Result) {
	w.writeDataTable(f, sheetRaw, result.Rows)
}

// writeSummaryData 按国家的汇总表(每国一行，含阵营)
func (w *ExcelWriter) writeSummaryData(f *excelize.File, result *processor.Result) {
	f.NewSheet(sheetSummary)

	headers := []string{"Country", "Category", "CO2_per_Capita", "GDP_per_Capita", "CO2_GDP_Ratio"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetSummary, cell, h)
		f.SetCellStyle(sheetSummary, cell, cell, w.headerStyle)
	}

	for i, r := range processor.SortByRatio(result.Rows) {
		rowIdx := i + 2
		w.setCell(f, sheetSummary, 1, rowIdx, r.Country, 0)
		w.setCell(f, sheetSummary, 2, rowIdx, r.Category, 0)
		w.setCell(f, sheetSummary, 3, rowIdx, r.CO2, w.dataStyle)
		w.setCell(f, sheetSummary, 4, rowIdx, r.GDP, w.currencyStyle)
		w.setCell(f, sheetSummary, 5, rowIdx, r.Ratio, w.dataStyle)
	}

	f.SetColWidth(sheetSummary, "A", "A", 20)
	f.SetColWidth(sheetSummary, "B", "E", 15)
}

// writePivotAnalysis 阵营级 mean/min/max/count 矩阵
func (w *ExcelWriter) writePivotAnalysis(f *excelize.File, result *processor.Result) {
	f.NewSheet(sheetPivot)

	headers := []string{
		"Category",
		"co2_per_capita_mean", "co2_per_capita_min", "co2_per_capita_max",
		"gdp_per_capita_mean", "gdp_per_capita_min", "gdp_per_capita_max",
		"co2_gdp_ratio_mean", "co2_gdp_ratio_min", "co2_gdp_ratio_max",
		"country_count",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetPivot, cell, h)
		f.SetCellStyle(sheetPivot, cell, cell, w.headerStyle)
	}

	rowIdx := 2
	for _, category := range []string{processor.CategoryLaggard, processor.CategoryLeader} {
		stats := processor.Summarize(processor.ByCategory(result.Rows, category))
		values := []interface{}{
			category,
			stats.MeanCO2, stats.MinCO2, stats.MaxCO2,
			stats.MeanGDP, stats.MinGDP, stats.MaxGDP,
			stats.MeanRatio, stats.MinRatio, stats.MaxRatio,
			stats.Count,
		}
		for i, v := range values {
			style := w.dataStyle
			if i == 0 || i == len(values)-1 {
				style = 0
			}
			w.setCell(f, sheetPivot, i+1, rowIdx, v, style)
		}
		rowIdx++
	}

	f.SetColWidth(sheetPivot, "A", "K", 18)
}

// writeCategoryPivot 阵营汇总 + 原生柱状图
func (w *ExcelWriter) writeCategoryPivot(f *excelize.File, result *processor.Result) error {
	f.NewSheet(sheetCategory)

	w.writeDataTable(f, sheetCategory, result.Rows)

	// 右侧汇总块
	f.SetCellValue(sheetCategory, "H1", "PIVOT SUMMARY BY CATEGORY")
	f.SetCellStyle(sheetCategory, "H1", "H1", w.headerStyle)

	summaryHeaders := map[string]string{
		"H3": "Category",
		"I3": "Count",
		"J3": "Avg CO2/GDP Ratio",
		"K3": "Avg GDP per Capita",
		"L3": "Avg CO2 per Capita",
	}
	for cell, h := range summaryHeaders {
		f.SetCellValue(sheetCategory, cell, h)
		f.SetCellStyle(sheetCategory, cell, cell, w.headerStyle)
	}

	leaders := processor.Summarize(result.Leaders())
	laggards := processor.Summarize(result.Laggards())

	f.SetCellValue(sheetCategory, "H4", processor.CategoryLeader)
	f.SetCellValue(sheetCategory, "I4", leaders.Count)
	w.styledValue(f, sheetCategory, "J4", leaders.MeanRatio, w.dataStyle)
	w.styledValue(f, sheetCategory, "K4", leaders.MeanGDP, w.currencyStyle)
	w.styledValue(f, sheetCategory, "L4", leaders.MeanCO2, w.dataStyle)

	f.SetCellValue(sheetCategory, "H5", processor.CategoryLaggard)
	f.SetCellValue(sheetCategory, "I5", laggards.Count)
	w.styledValue(f, sheetCategory, "J5", laggards.MeanRatio, w.dataStyle)
	w.styledValue(f, sheetCategory, "K5", laggards.MeanGDP, w.currencyStyle)
	w.styledValue(f, sheetCategory, "L5", laggards.MeanCO2, w.dataStyle)

	// 阵营平均比值柱状图
	return f.AddChart(sheetCategory, "H8", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       "Avg CO2/GDP Ratio by Category",
				Categories: fmt.Sprintf("%s!$H$4:$H$5", sheetCategory),
				Values:     fmt.Sprintf("%s!$J$4:$J$5", sheetCategory),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: "Average CO2/GDP Ratio by ESG Category"},
		},
	})
}

func (w *ExcelWriter) styledValue(f *excelize.File, sheet, cell string, value interface{}, style int) {
	f.SetCellValue(sheet, cell, value)
	f.SetCellStyle(sheet, cell, cell, style)
}

// writeTopCountries 最好/最差各10个国家 + 条形图
func (w *ExcelWriter) writeTopCountries(f *excelize.File, result *processor.Result) error {
	f.NewSheet(sheetTop)

	f.SetCellValue(sheetTop, "A1", "TOP 10 ESG LEADERS (Lowest CO2/GDP Ratio)")
	f.SetCellStyle(sheetTop, "A1", "A1", w.headerStyle)
	w.writeRankedBlock(f, sheetTop, 1, processor.NSmallest(result.Rows, 10))

	f.SetCellValue(sheetTop, "G1", "TOP 10 ESG LAGGARDS (Highest CO2/GDP Ratio)")
	f.SetCellStyle(sheetTop, "G1", "G1", w.headerStyle)
	w.writeRankedBlock(f, sheetTop, 7, processor.NLargest(result.Rows, 10))

	f.SetColWidth(sheetTop, "A", "A", 12)
	f.SetColWidth(sheetTop, "B", "B", 20)
	f.SetColWidth(sheetTop, "C", "E", 15)
	f.SetColWidth(sheetTop, "G", "G", 12)
	f.SetColWidth(sheetTop, "H", "H", 20)
	f.SetColWidth(sheetTop, "I", "K", 15)

	// 前5名对比条形图
	return f.AddChart(sheetTop, "A16", &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{
			{
				Name:       "Top 5 Leaders",
				Categories: fmt.Sprintf("%s!$B$4:$B$8", sheetTop),
				Values:     fmt.Sprintf("%s!$C$4:$C$8", sheetTop),
			},
			{
				Name:       "Top 5 Laggards",
				Categories: fmt.Sprintf("%s!$H$4:$H$8", sheetTop),
				Values:     fmt.Sprintf("%s!$I$4:$I$8", sheetTop),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: "ESG Leaders vs Laggards: CO2/GDP Ratio"},
		},
	})
}

// writeRankedBlock 从startCol开始写入一个带排名的数据块，标题行在第3行
func (w *ExcelWriter) writeRankedBlock(f *excelize.File, sheet string, startCol int, rows []processor.Row) {
	headers := []string{"Rank", "Country", "CO2/GDP Ratio", "GDP per Capita", "CO2 per Capita"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(startCol+i, 3)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, w.headerStyle)
	}

	for i, r := range rows {
		rowIdx := i + 4
		w.setCell(f, sheet, startCol, rowIdx, i+1, 0)
		w.setCell(f, sheet, startCol+1, rowIdx, r.Country, 0)
		w.setCell(f, sheet, startCol+2, rowIdx, r.Ratio, w.dataStyle)
		w.setCell(f, sheet, startCol+3, rowIdx, r.GDP, w.currencyStyle)
		w.setCell(f, sheet, startCol+4, rowIdx, r.CO2, w.dataStyle)
	}
}

// writeCountryAnalysis 全量国家排名，阵营底色 + 表现得分
func (w *ExcelWriter) writeCountryAnalysis(f *excelize.File, result *processor.Result) {
	f.NewSheet(sheetCountries)

	f.SetCellValue(sheetCountries, "A1", "COMPREHENSIVE COUNTRY ESG ANALYSIS")
	f.SetCellStyle(sheetCountries, "A1", "A1", w.headerStyle)

	headers := []string{"Rank", "Country", "Category", "CO2/GDP Ratio", "GDP per Capita", "CO2 per Capita", "Year", "Performance Score"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheetCountries, cell, h)
		f.SetCellStyle(sheetCountries, cell, cell, w.headerStyle)
	}

	sorted := processor.SortByRatio(result.Rows)
	var maxRatio float64
	if len(sorted) > 0 {
		maxRatio = sorted[len(sorted)-1].Ratio
	}

	for i, r := range sorted {
		rowIdx := i + 4
		w.setCell(f, sheetCountries, 1, rowIdx, i+1, 0)
		w.setCell(f, sheetCountries, 2, rowIdx, r.Country, 0)

		categoryStyle := w.laggardStyle
		if r.Category == processor.CategoryLeader {
			categoryStyle = w.leaderStyle
		}
		w.setCell(f, sheetCountries, 3, rowIdx, r.Category, categoryStyle)
		w.setCell(f, sheetCountries, 4, rowIdx, r.Ratio, w.dataStyle)
		w.setCell(f, sheetCountries, 5, rowIdx, r.GDP, w.currencyStyle)
		w.setCell(f, sheetCountries, 6, rowIdx, r.CO2, w.dataStyle)
		w.setCell(f, sheetCountries, 7, rowIdx, r.Year, 0)
		w.setCell(f, sheetCountries, 8, rowIdx, processor.PerformanceScore(r.Ratio, maxRatio), w.scoreStyle)
	}

	f.SetColWidth(sheetCountries, "A", "A", 12)
	f.SetColWidth(sheetCountries, "B", "B", 20)
	f.SetColWidth(sheetCountries, "C", "H", 15)
}

// writeDashboard 执行摘要页
func (w *ExcelWriter) writeDashboard(f *excelize.File, result *processor.Result) {
	f.NewSheet(sheetDashboard)

	f.MergeCell(sheetDashboard, "A1", "F1")
	f.SetCellValue(sheetDashboard, "A1", "ESG DATA INSIGHTS DASHBOARD")
	f.SetCellStyle(sheetDashboard, "A1", "F1", w.titleStyle)

	f.SetCellValue(sheetDashboard, "A3", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	f.SetCellValue(sheetDashboard, "A4", fmt.Sprintf("Countries Analyzed: %d", len(result.Rows)))
	f.SetCellValue(sheetDashboard, "A5", "Data Source: World Bank ESG Data")

	f.SetCellValue(sheetDashboard, "A7", "KEY METRICS")
	f.SetCellStyle(sheetDashboard, "A7", "A7", w.headerStyle)
	f.SetCellValue(sheetDashboard, "A9", "ESG Leaders:")
	f.SetCellValue(sheetDashboard, "B9", len(result.Leaders()))
	f.SetCellValue(sheetDashboard, "A10", "ESG Laggards:")
	f.SetCellValue(sheetDashboard, "B10", len(result.Laggards()))
	f.SetCellValue(sheetDashboard, "A11", "Median CO2/GDP Ratio:")
	w.styledValue(f, sheetDashboard, "B11", result.Median, w.dataStyle)

	f.SetCellValue(sheetDashboard, "D7", "PERFORMANCE HIGHLIGHTS")
	f.SetCellStyle(sheetDashboard, "D7", "D7", w.headerStyle)

	if len(result.Rows) > 0 {
		best := processor.NSmallest(result.Rows, 1)[0]
		worst := processor.NLargest(result.Rows, 1)[0]
		f.SetCellValue(sheetDashboard, "D9", "Best Performer:")
		f.SetCellValue(sheetDashboard, "E9", fmt.Sprintf("%s (%.3f)", best.Country, best.Ratio))
		f.SetCellValue(sheetDashboard, "D10", "Worst Performer:")
		f.SetCellValue(sheetDashboard, "E10", fmt.Sprintf("%s (%.3f)", worst.Country, worst.Ratio))
	}

	f.SetColWidth(sheetDashboard, "A", "A", 22)
	f.SetColWidth(sheetDashboard, "D", "D", 22)
	f.SetColWidth(sheetDashboard, "E", "E", 28)
}
