package worldbank

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"RapidESGDataInsights/src/config"
	"RapidESGDataInsights/src/storage"
)

const sampleResponse = `[
  {"page": 1, "pages": 1, "per_page": "100", "total": 5},
  [
    {"indicator": {"id": "EN.GHG.CO2.PC.CE.AR5", "value": "CO2 emissions per capita"},
     "country": {"id": "US", "value": "United States"},
     "countryiso3code": "USA", "date": "2022", "value": 14.21},
    {"indicator": {"id": "EN.GHG.CO2.PC.CE.AR5", "value": "CO2 emissions per capita"},
     "country": {"id": "US", "value": "United States"},
     "countryiso3code": "USA", "date": "2021", "value": null},
    {"indicator": {"id": "EN.GHG.CO2.PC.CE.AR5", "value": "CO2 emissions per capita"},
     "country": {"id": "US", "value": "United States"},
     "countryiso3code": "USA", "date": "2020", "value": 13.03}
  ]
]`

func newTestLogger(t *testing.T) *storage.Logger {
	t.Helper()
	logger, err := storage.NewLogger(filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

func TestParseResponse(t *testing.T) {
	obs, err := parseResponse([]byte(sampleResponse))
	if err != nil {
		t.Fatalf("parseResponse failed: %v", err)
	}
	if len(obs) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(obs))
	}

	first := obs[0]
	if first.CountryISO3 != "USA" || first.Date != "2022" {
		t.Errorf("unexpected observation: %+v", first)
	}
	if first.Value == nil || *first.Value != 14.21 {
		t.Errorf("unexpected value: %v", first.Value)
	}
	if obs[1].Value != nil {
		t.Error("expected null value to stay nil")
	}
}

func TestParseResponseErrorBody(t *testing.T) {
	// API出错时返回只有message的单元素数组
	body := `[{"message": [{"id": "120", "value": "Invalid indicator"}]}]`
	if _, err := parseResponse([]byte(body)); err == nil {
		t.Error("expected error for single-element response")
	}

	if _, err := parseResponse([]byte("not json")); err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestFetchIndicator(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.String())

		// DEU模拟失败，应被跳过
		if strings.Contains(r.URL.Path, "/country/DEU/") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, sampleResponse)
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.WorldBank.BaseURL = server.URL
	cfg.WorldBank.StartYear = 2018
	cfg.WorldBank.EndYear = 2022
	cfg.WorldBank.PerPage = 100

	dcfg := &config.DataConfig{
		CountryCodes: []string{"USA", "DEU", "CHN"},
	}

	client := NewClient(cfg, dcfg, newTestLogger(t))
	obs, err := client.FetchIndicator("EN.GHG.CO2.PC.CE.AR5")
	if err != nil {
		t.Fatalf("FetchIndicator failed: %v", err)
	}

	// USA和CHN各3条，DEU失败被跳过
	if len(obs) != 6 {
		t.Errorf("expected 6 observations, got %d", len(obs))
	}
	if len(requests) != 3 {
		t.Errorf("expected 3 requests, got %d", len(requests))
	}

	first := requests[0]
	for _, want := range []string{"/country/USA/indicator/EN.GHG.CO2.PC.CE.AR5", "format=json", "date=2018%3A2022", "per_page=100"} {
		if !strings.Contains(first, want) {
			t.Errorf("request %q missing %q", first, want)
		}
	}
}

func TestToDataFrame(t *testing.T) {
	obs, err := parseResponse([]byte(sampleResponse))
	if err != nil {
		t.Fatal(err)
	}

	df := ToDataFrame(obs, "co2_per_capita")
	if df.Nrow() != 2 {
		t.Fatalf("expected 2 rows after dropping null, got %d", df.Nrow())
	}

	want := []string{"country", "country_code", "year", "co2_per_capita"}
	names := df.Names()
	if len(names) != len(want) {
		t.Fatalf("unexpected columns: %v", names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("column %d = %q, want %q", i, names[i], n)
		}
	}

	codes := df.Col("country_code").Records()
	if codes[0] != "USA" || codes[1] != "USA" {
		t.Errorf("unexpected codes: %v", codes)
	}
	values := df.Col("co2_per_capita").Float()
	if values[0] != 14.21 || values[1] != 13.03 {
		t.Errorf("unexpected values: %v", values)
	}
}
