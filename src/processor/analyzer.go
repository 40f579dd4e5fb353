// analyzer.go
package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"RapidESGDataInsights/src/datasource/worldbank"
	"RapidESGDataInsights/src/storage"
	"RapidESGDataInsights/src/utils"
)

// Result 一次分析的完整结果
type Result struct {
	Frame  dataframe.DataFrame // 最终结果表(含比值与阵营列)
	Rows   []Row               // Frame的记录展开
	Median float64             // 比值中位数(分类阈值)
	Source string              // 数据来源: real / sample
}

// Leaders 返回Leader阵营记录
func (r *Result) Leaders() []Row { return ByCategory(r.Rows, CategoryLeader) }

// Laggards 返回Laggard阵营记录
func (r *Result) Laggards() []Row { return ByCategory(r.Rows, CategoryLaggard) }

// Analyzer 分析主流程
type Analyzer struct {
	indicators map[string]string // 指标别名到编码
	logger     *storage.Logger
}

func NewAnalyzer(indicators map[string]string, logger *storage.Logger) *Analyzer {
	return &Analyzer{
		indicators: indicators,
		logger:     logger,
	}
}

// AnalyzeReal 从World Bank API抓取两个指标并完成分析
// countries非空时只保留组合内的国家
func (a *Analyzer) AnalyzeReal(fetcher worldbank.IndicatorService, countries []string) (*Result, error) {
	a.logger.Info("开始抓取CO2排放数据...")
	co2Obs, err := fetcher.FetchIndicator(a.indicators["co2"])
	if err != nil {
		return nil, fmt.Errorf("抓取CO2数据失败: %w", err)
	}
	if len(co2Obs) == 0 {
		return nil, fmt.Errorf("World Bank API未返回任何CO2数据")
	}

	a.logger.Info("开始抓取人均GDP数据...")
	gdpObs, err := fetcher.FetchIndicator(a.indicators["gdp"])
	if err != nil {
		return nil, fmt.Errorf("抓取GDP数据失败: %w", err)
	}
	if len(gdpObs) == 0 {
		return nil, fmt.Errorf("World Bank API未返回任何GDP数据")
	}

	co2 := worldbank.ToDataFrame(co2Obs, ColCO2)
	gdp := worldbank.ToDataFrame(gdpObs, ColGDP)
	a.logger.Info(fmt.Sprintf("CO2数据 %d 行, GDP数据 %d 行", co2.Nrow(), gdp.Nrow()))

	merged, err := MergeIndicators(co2, gdp)
	if err != nil {
		return nil, err
	}

	result, err := a.finish(merged, countries)
	if err != nil {
		return nil, err
	}
	result.Source = "real"
	return result, nil
}

// AnalyzeSample 对样例数据表完成分析
// 样例表中CO2与GDP已经在同一张表里，不需要合并
func (a *Analyzer) AnalyzeSample(df dataframe.DataFrame, countries []string) (*Result, error) {
	for _, col := range []string{ColCountry, ColCode, ColYear, ColCO2, ColGDP} {
		if !utils.HasColumn(df, col) {
			return nil, fmt.Errorf("样例数据缺少 %s 列", col)
		}
	}

	result, err := a.finish(df, countries)
	if err != nil {
		return nil, err
	}
	result.Source = "sample"
	return result, nil
}

// finish 比值计算、最新年份筛选与阵营划分的公共尾部
func (a *Analyzer) finish(df dataframe.DataFrame, countries []string) (*Result, error) {
	if len(countries) > 0 {
		df = df.Filter(
			dataframe.F{
				Colname:    ColCode,
				Comparator: series.CompFunc,
				Comparando: func(el series.Element) bool {
					return utils.Contains(countries, el.String())
				},
			},
		)
		if df.Nrow() == 0 {
			return nil, fmt.Errorf("组合中的国家在数据中均不存在")
		}
	}

	withRatio, err := ComputeRatio(df)
	if err != nil {
		return nil, err
	}

	latest := LatestYear(withRatio)
	final, median := Categorize(latest)
	rows := Rows(final)

	a.logger.Info(fmt.Sprintf("分析完成: %d 个国家, 比值中位数 %.3f", len(rows), median))

	return &Result{
		Frame:  final,
		Rows:   rows,
		Median: median,
	}, nil
}
