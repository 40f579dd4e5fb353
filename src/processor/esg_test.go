package processor

import (
	"math"
	"strconv"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func indicatorFrame(alias string, records [][]string) dataframe.DataFrame {
	countries := make([]string, len(records))
	codes := make([]string, len(records))
	years := make([]int, len(records))
	values := make([]float64, len(records))
	for i, r := range records {
		countries[i] = r[0]
		codes[i] = r[1]
		years[i], _ = strconv.Atoi(r[2])
		values[i], _ = strconv.ParseFloat(r[3], 64)
	}
	return dataframe.New(
		series.New(countries, series.String, ColCountry),
		series.New(codes, series.String, ColCode),
		series.New(years, series.Int, ColYear),
		series.New(values, series.Float, alias),
	)
}

func TestMergeIndicators(t *testing.T) {
	co2 := indicatorFrame(ColCO2, [][]string{
		{"United States", "USA", "2022", "14.2"},
		{"United States", "USA", "2021", "14.5"},
		{"Germany", "DEU", "2022", "7.9"},
	})
	gdp := indicatorFrame(ColGDP, [][]string{
		{"United States", "USA", "2022", "76399"},
		{"Germany", "DEU", "2022", "48718"},
		{"Germany", "DEU", "2021", "51204"},
	})

	merged, err := MergeIndicators(co2, gdp)
	if err != nil {
		t.Fatalf("MergeIndicators failed: %v", err)
	}

	// 内连接后只剩(USA,2022)和(DEU,2022)
	if merged.Nrow() != 2 {
		t.Fatalf("expected 2 rows, got %d", merged.Nrow())
	}
}

func TestMergeIndicatorsEmpty(t *testing.T) {
	co2 := indicatorFrame(ColCO2, [][]string{{"United States", "USA", "2022", "14.2"}})

	if _, err := MergeIndicators(co2, dataframe.DataFrame{}); err == nil {
		t.Error("expected error for empty gdp frame")
	}

	// 没有重叠的(国家,年份)
	gdp := indicatorFrame(ColGDP, [][]string{{"Germany", "DEU", "2021", "51204"}})
	if _, err := MergeIndicators(co2, gdp); err == nil {
		t.Error("expected error for disjoint frames")
	}
}

func TestComputeRatio(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{ColCountry, ColCode, ColYear, ColCO2, ColGDP},
		{"United States", "USA", "2022", "14.2", "76399"},
		{"Germany", "DEU", "2022", "7.9", "48718"},
	})

	out, err := ComputeRatio(df)
	if err != nil {
		t.Fatalf("ComputeRatio failed: %v", err)
	}

	ratios := out.Col(ColRatio).Float()
	want := 14.2 / 76399 * 1000
	if math.Abs(ratios[0]-want) > 1e-9 {
		t.Errorf("ratio[0] = %v, want %v", ratios[0], want)
	}
}

func TestComputeRatioDropsZeroGDP(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{ColCountry, ColCode, ColYear, ColCO2, ColGDP},
		{"United States", "USA", "2022", "14.2", "76399"},
		{"Nowhere", "NWR", "2022", "5.0", "0"},
	})

	out, err := ComputeRatio(df)
	if err != nil {
		t.Fatalf("ComputeRatio failed: %v", err)
	}
	if out.Nrow() != 1 {
		t.Fatalf("expected zero-GDP row to be dropped, got %d rows", out.Nrow())
	}
	if code := out.Col(ColCode).Records()[0]; code != "USA" {
		t.Errorf("remaining row = %q, want USA", code)
	}
}

func TestComputeRatioAllInvalid(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{ColCountry, ColCode, ColYear, ColCO2, ColGDP},
		{"Nowhere", "NWR", "2022", "5.0", "0"},
	})

	if _, err := ComputeRatio(df); err == nil {
		t.Error("expected error when no valid rows remain")
	}
}

func TestLatestYear(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{ColCountry, ColCode, ColYear, ColCO2, ColGDP},
		{"United States", "USA", "2020", "13.0", "63528"},
		{"United States", "USA", "2022", "14.2", "76399"},
		{"Germany", "DEU", "2021", "8.1", "51204"},
		{"Germany", "DEU", "2019", "8.4", "46794"},
	})

	latest := LatestYear(df)
	if latest.Nrow() != 2 {
		t.Fatalf("expected 2 rows, got %d", latest.Nrow())
	}

	codes := latest.Col(ColCode).Records()
	years := latest.Col(ColYear).Records()
	if codes[0] != "USA" || years[0] != "2022" {
		t.Errorf("row 0 = (%s, %s), want (USA, 2022)", codes[0], years[0])
	}
	if codes[1] != "DEU" || years[1] != "2021" {
		t.Errorf("row 1 = (%s, %s), want (DEU, 2021)", codes[1], years[1])
	}
}

func TestLatestYearNumericCompare(t *testing.T) {
	// 位数不同的年份按数值而不是字符串比较
	df := dataframe.LoadRecords([][]string{
		{ColCountry, ColCode, ColYear, ColCO2, ColGDP},
		{"United States", "USA", "999", "10.0", "30000"},
		{"United States", "USA", "1000", "11.0", "31000"},
	})

	latest := LatestYear(df)
	if latest.Nrow() != 1 {
		t.Fatalf("expected 1 row, got %d", latest.Nrow())
	}
	if year := latest.Col(ColYear).Records()[0]; year != "1000" {
		t.Errorf("kept year %s, want 1000", year)
	}
}

func TestCategorize(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{ColCountry, ColCode, ColYear, ColCO2, ColGDP, ColRatio},
		{"A", "AAA", "2022", "1", "1000", "0.10"},
		{"B", "BBB", "2022", "2", "1000", "0.20"},
		{"C", "CCC", "2022", "3", "1000", "0.30"},
		{"D", "DDD", "2022", "4", "1000", "0.40"},
	})

	out, median := Categorize(df)
	if math.Abs(median-0.25) > 1e-9 {
		t.Fatalf("median = %v, want 0.25", median)
	}

	categories := out.Col(ColCategory).Records()
	want := []string{CategoryLeader, CategoryLeader, CategoryLaggard, CategoryLaggard}
	for i := range want {
		if categories[i] != want[i] {
			t.Errorf("category[%d] = %q, want %q", i, categories[i], want[i])
		}
	}
}

func TestCategorizeMedianIsLaggard(t *testing.T) {
	// 与中位数相等的行不算Leader
	df := dataframe.LoadRecords([][]string{
		{ColCountry, ColCode, ColYear, ColCO2, ColGDP, ColRatio},
		{"A", "AAA", "2022", "1", "1000", "0.10"},
		{"B", "BBB", "2022", "2", "1000", "0.20"},
		{"C", "CCC", "2022", "3", "1000", "0.30"},
	})

	out, median := Categorize(df)
	if math.Abs(median-0.20) > 1e-9 {
		t.Fatalf("median = %v, want 0.20", median)
	}
	categories := out.Col(ColCategory).Records()
	if categories[1] != CategoryLaggard {
		t.Errorf("row at median = %q, want Laggard", categories[1])
	}
}

func TestRows(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{ColCountry, ColCode, ColYear, ColCO2, ColGDP, ColRatio, ColCategory},
		{"United States", "USA", "2022", "14.2", "76399", "0.186", "Laggard"},
	})

	rows := Rows(df)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Country != "United States" || r.Code != "USA" || r.Year != 2022 {
		t.Errorf("unexpected row: %+v", r)
	}
	if r.CO2 != 14.2 || r.GDP != 76399 || r.Ratio != 0.186 || r.Category != "Laggard" {
		t.Errorf("unexpected row values: %+v", r)
	}
}
