package utils

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func TestContains(t *testing.T) {
	codes := []string{"USA", "CHN", "DEU"}
	if !Contains(codes, "CHN") {
		t.Error("expected CHN to be found")
	}
	if Contains(codes, "TWN") {
		t.Error("did not expect TWN to be found")
	}

	years := []int{2018, 2019, 2020}
	if !Contains(years, 2020) {
		t.Error("expected 2020 to be found")
	}
}

func TestHasColumn(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"USA"}, series.String, "country_code"),
		series.New([]float64{14.2}, series.Float, "co2_per_capita"),
	)
	if !HasColumn(df, "co2_per_capita") {
		t.Error("expected column co2_per_capita")
	}
	if HasColumn(df, "gdp_per_capita") {
		t.Error("did not expect column gdp_per_capita")
	}
}

func TestMedian(t *testing.T) {
	cases := []struct {
		values []float64
		want   float64
	}{
		{nil, 0},
		{[]float64{5}, 5},
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
	}
	for _, c := range cases {
		if got := Median(c.values); got != c.want {
			t.Errorf("Median(%v) = %v, want %v", c.values, got, c.want)
		}
	}

	// 不修改输入切片
	values := []float64{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Error("Median modified input slice")
	}
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v", got)
	}
	if got := Mean([]float64{1, 2, 3, 4}); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("Mean = %v, want 2.5", got)
	}
}

func TestMinMax(t *testing.T) {
	min, max := MinMax([]float64{3.5, 0.2, 7.1, 1.0})
	if min != 0.2 || max != 7.1 {
		t.Errorf("MinMax = (%v, %v), want (0.2, 7.1)", min, max)
	}

	min, max = MinMax(nil)
	if min != 0 || max != 0 {
		t.Errorf("MinMax(nil) = (%v, %v)", min, max)
	}
}
