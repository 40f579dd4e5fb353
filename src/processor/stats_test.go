package processor

import (
	"math"
	"testing"
)

func sampleRows() []Row {
	return []Row{
		{Country: "Norway", Code: "NOR", Year: 2022, CO2: 7.5, GDP: 106149, Ratio: 0.071, Category: CategoryLeader},
		{Country: "Germany", Code: "DEU", Year: 2022, CO2: 7.9, GDP: 48718, Ratio: 0.162, Category: CategoryLeader},
		{Country: "United States", Code: "USA", Year: 2022, CO2: 14.2, GDP: 76399, Ratio: 0.186, Category: CategoryLaggard},
		{Country: "South Africa", Code: "ZAF", Year: 2021, CO2: 6.7, GDP: 7055, Ratio: 0.950, Category: CategoryLaggard},
	}
}

func TestByCategory(t *testing.T) {
	rows := sampleRows()

	leaders := ByCategory(rows, CategoryLeader)
	if len(leaders) != 2 {
		t.Errorf("expected 2 leaders, got %d", len(leaders))
	}
	laggards := ByCategory(rows, CategoryLaggard)
	if len(laggards) != 2 {
		t.Errorf("expected 2 laggards, got %d", len(laggards))
	}
	if len(ByCategory(nil, CategoryLeader)) != 0 {
		t.Error("expected empty result for nil input")
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize(sampleRows())

	if stats.Count != 4 {
		t.Errorf("Count = %d, want 4", stats.Count)
	}
	if stats.MinCO2 != 6.7 || stats.MaxCO2 != 14.2 {
		t.Errorf("CO2 range = (%v, %v)", stats.MinCO2, stats.MaxCO2)
	}
	if stats.MinGDP != 7055 || stats.MaxGDP != 106149 {
		t.Errorf("GDP range = (%v, %v)", stats.MinGDP, stats.MaxGDP)
	}
	wantMean := (0.071 + 0.162 + 0.186 + 0.950) / 4
	if math.Abs(stats.MeanRatio-wantMean) > 1e-9 {
		t.Errorf("MeanRatio = %v, want %v", stats.MeanRatio, wantMean)
	}

	empty := Summarize(nil)
	if empty.Count != 0 || empty.MeanRatio != 0 {
		t.Errorf("Summarize(nil) = %+v", empty)
	}
}

func TestSortByRatio(t *testing.T) {
	rows := sampleRows()
	sorted := SortByRatio(rows)

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Ratio < sorted[i-1].Ratio {
			t.Fatalf("not sorted at %d: %v > %v", i, sorted[i-1].Ratio, sorted[i].Ratio)
		}
	}
	// 原切片不受影响
	if rows[0].Code != "NOR" {
		t.Error("SortByRatio modified input slice")
	}
}

func TestNSmallestNLargest(t *testing.T) {
	rows := sampleRows()

	best := NSmallest(rows, 2)
	if len(best) != 2 || best[0].Code != "NOR" || best[1].Code != "DEU" {
		t.Errorf("unexpected NSmallest: %+v", best)
	}

	worst := NLargest(rows, 2)
	if len(worst) != 2 || worst[0].Code != "ZAF" || worst[1].Code != "USA" {
		t.Errorf("unexpected NLargest: %+v", worst)
	}

	// n超过长度时全量返回
	if got := NSmallest(rows, 10); len(got) != 4 {
		t.Errorf("NSmallest(10) returned %d rows", len(got))
	}
}

func TestPerformanceScore(t *testing.T) {
	if got := PerformanceScore(0.950, 0.950); got != 0 {
		t.Errorf("worst performer score = %v, want 0", got)
	}
	if got := PerformanceScore(0, 0.950); got != 100 {
		t.Errorf("zero ratio score = %v, want 100", got)
	}
	want := (1 - 0.186/0.950) * 100
	if got := PerformanceScore(0.186, 0.950); math.Abs(got-want) > 1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
	if got := PerformanceScore(0.5, 0); got != 0 {
		t.Errorf("score with zero max = %v, want 0", got)
	}
}

func TestYearRange(t *testing.T) {
	min, max := YearRange(sampleRows())
	if min != 2021 || max != 2022 {
		t.Errorf("YearRange = (%d, %d), want (2021, 2022)", min, max)
	}

	min, max = YearRange(nil)
	if min != 0 || max != 0 {
		t.Errorf("YearRange(nil) = (%d, %d)", min, max)
	}
}
