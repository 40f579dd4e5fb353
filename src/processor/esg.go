// esg.go
package processor

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"RapidESGDataInsights/src/utils"
)

// 分类标签
const (
	CategoryLeader  = "Leader"
	CategoryLaggard = "Laggard"
)

// 结果DataFrame的固定列名
const (
	ColCountry  = "country"
	ColCode     = "country_code"
	ColYear     = "year"
	ColCO2      = "co2_per_capita"
	ColGDP      = "gdp_per_capita"
	ColRatio    = "co2_gdp_ratio"
	ColCategory = "category"
)

// Row 单个国家某一年的完整记录
type Row struct {
	Country  string
	Code     string
	Year     int
	CO2      float64
	GDP      float64
	Ratio    float64
	Category string
}

// MergeIndicators 将CO2与GDP两张表按国家和年份做内连接
// 两边都有值的(国家,年份)才会保留
func MergeIndicators(co2, gdp dataframe.DataFrame) (dataframe.DataFrame, error) {
	if co2.Nrow() == 0 || gdp.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("指标数据为空，无法合并")
	}

	merged := co2.InnerJoin(gdp, ColCountry, ColCode, ColYear)
	if merged.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("合并指标失败: %w", merged.Err)
	}
	if merged.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("CO2与GDP数据没有重叠的(国家,年份)")
	}

	return merged, nil
}

// ComputeRatio 计算排放强度: co2_per_capita / gdp_per_capita × 1000
// GDP为0或缺失的行直接剔除，比值只在两个指标都有值时定义
func ComputeRatio(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	df = df.Filter(
		dataframe.F{
			Colname:    ColGDP,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				if el.IsNA() {
					return false
				}
				v := el.Float()
				return v != 0 && !math.IsNaN(v)
			},
		},
	).Filter(
		dataframe.F{
			Colname:    ColCO2,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				return !el.IsNA() && !math.IsNaN(el.Float())
			},
		},
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("过滤无效行失败: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("没有可计算比值的数据行")
	}

	co2s := df.Col(ColCO2).Float()
	gdps := df.Col(ColGDP).Float()

	ratios := make([]float64, len(co2s))
	for i := range co2s {
		ratios[i] = co2s[i] / gdps[i] * 1000
	}

	return df.Mutate(series.New(ratios, series.Float, ColRatio)), nil
}

// LatestYear 每个国家只保留年份最大的一行
func LatestYear(df dataframe.DataFrame) dataframe.DataFrame {
	codes := df.Col(ColCode).Records()
	years, _ := df.Col(ColYear).Int()

	best := make(map[string]int) // 编码 -> 行号
	bestYear := make(map[string]int)
	var order []string

	for i, code := range codes {
		if _, seen := best[code]; !seen {
			best[code] = i
			bestYear[code] = years[i]
			order = append(order, code)
			continue
		}
		if years[i] > bestYear[code] {
			best[code] = i
			bestYear[code] = years[i]
		}
	}

	indices := make([]int, 0, len(order))
	for _, code := range order {
		indices = append(indices, best[code])
	}

	return df.Subset(indices)
}

// Categorize 按比值中位数划分阵营
// 严格小于中位数为Leader，其余为Laggard
func Categorize(df dataframe.DataFrame) (dataframe.DataFrame, float64) {
	ratios := df.Col(ColRatio).Float()
	median := utils.Median(ratios)

	categories := make([]string, len(ratios))
	for i, r := range ratios {
		if r < median {
			categories[i] = CategoryLeader
		} else {
			categories[i] = CategoryLaggard
		}
	}

	return df.Mutate(series.New(categories, series.String, ColCategory)), median
}

// Rows 将结果DataFrame展开为记录切片，报告生成按此遍历
func Rows(df dataframe.DataFrame) []Row {
	n := df.Nrow()
	rows := make([]Row, 0, n)

	countries := df.Col(ColCountry).Records()
	codes := df.Col(ColCode).Records()
	years, _ := df.Col(ColYear).Int()
	co2s := df.Col(ColCO2).Float()
	gdps := df.Col(ColGDP).Float()

	var ratios []float64
	if utils.HasColumn(df, ColRatio) {
		ratios = df.Col(ColRatio).Float()
	}
	var categories []string
	if utils.HasColumn(df, ColCategory) {
		categories = df.Col(ColCategory).Records()
	}

	for i := 0; i < n; i++ {
		row := Row{
			Country: countries[i],
			Code:    codes[i],
			Year:    years[i],
			CO2:     co2s[i],
			GDP:     gdps[i],
		}
		if ratios != nil {
			row.Ratio = ratios[i]
		}
		if categories != nil {
			row.Category = categories[i]
		}
		rows = append(rows, row)
	}

	return rows
}
