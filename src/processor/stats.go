// stats.go
package processor

import (
	"sort"

	"RapidESGDataInsights/src/utils"
)

// CategoryStats 单个阵营的汇总统计
type CategoryStats struct {
	Count     int
	MeanCO2   float64
	MinCO2    float64
	MaxCO2    float64
	MeanGDP   float64
	MinGDP    float64
	MaxGDP    float64
	MeanRatio float64
	MinRatio  float64
	MaxRatio  float64
}

// ByCategory 过滤出某个阵营的记录
func ByCategory(rows []Row, category string) []Row {
	var out []Row
	for _, r := range rows {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// Summarize 计算一组记录的汇总统计
func Summarize(rows []Row) CategoryStats {
	if len(rows) == 0 {
		return CategoryStats{}
	}

	co2s := make([]float64, len(rows))
	gdps := make([]float64, len(rows))
	ratios := make([]float64, len(rows))
	for i, r := range rows {
		co2s[i] = r.CO2
		gdps[i] = r.GDP
		ratios[i] = r.Ratio
	}

	stats := CategoryStats{Count: len(rows)}
	stats.MeanCO2 = utils.Mean(co2s)
	stats.MinCO2, stats.MaxCO2 = utils.MinMax(co2s)
	stats.MeanGDP = utils.Mean(gdps)
	stats.MinGDP, stats.MaxGDP = utils.MinMax(gdps)
	stats.MeanRatio = utils.Mean(ratios)
	stats.MinRatio, stats.MaxRatio = utils.MinMax(ratios)
	return stats
}

// SortByRatio 按比值升序排序，返回新切片
func SortByRatio(rows []Row) []Row {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Ratio < sorted[j].Ratio
	})
	return sorted
}

// NSmallest 比值最小的n条记录（表现最好的国家）
func NSmallest(rows []Row, n int) []Row {
	sorted := SortByRatio(rows)
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// NLargest 比值最大的n条记录（表现最差的国家）
func NLargest(rows []Row, n int) []Row {
	sorted := SortByRatio(rows)
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]Row, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		out = append(out, sorted[i])
	}
	return out
}

// PerformanceScore 相对最差表现的得分: (1 - ratio/maxRatio) × 100
func PerformanceScore(ratio, maxRatio float64) float64 {
	if maxRatio == 0 {
		return 0
	}
	return (1 - ratio/maxRatio) * 100
}

// RatioValues 提取比值序列
func RatioValues(rows []Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Ratio
	}
	return out
}

// YearRange 记录覆盖的年份范围
func YearRange(rows []Row) (min, max int) {
	if len(rows) == 0 {
		return 0, 0
	}
	min, max = rows[0].Year, rows[0].Year
	for _, r := range rows[1:] {
		if r.Year < min {
			min = r.Year
		}
		if r.Year > max {
			max = r.Year
		}
	}
	return min, max
}
