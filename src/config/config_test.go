package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfigJSON = `{
    "worldbank": {
        "base_url": "https://api.worldbank.org/v2",
        "timeout": "10s",
        "start_year": 2018,
        "end_year": 2022,
        "per_page": 100
    },
    "email": {
        "server": "imap.example.com:993",
        "username": "",
        "password": "",
        "target_subject": "ESG国家组合",
        "check_interval": "5m"
    },
    "send_email": {
        "server": "smtp.example.com:465",
        "username": "",
        "password": "",
        "to": ""
    },
    "serve": {
        "refresh_interval": "24h",
        "listen_addr": ":8080"
    },
    "push": {
        "webhook_url": "",
        "enable": false
    },
    "output_dir": "./output",
    "data_dir": "./data",
    "log_name": "app.log",
    "log_max_size": "10 * 1024 * 1024"
}`

const testDataConfigJSON = `{
    "countrycodes": ["USA", "CHN", "NOR"],
    "countrynames": {"USA": "United States", "CHN": "China", "NOR": "Norway"},
    "indicators": {"co2": "EN.GHG.CO2.PC.CE.AR5", "gdp": "NY.GDP.PCAP.CD"},
    "sampletiers": {"high_co2": ["USA"], "very_high_income": ["USA", "NOR"]}
}`

func writeTestConfigs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(testConfigJSON), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dataconfig.json"), []byte(testDataConfigJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeTestConfigs(t)

	cfg, dcfg, err := LoadConfig(dir, "config.json", "dataconfig.json")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.WorldBank.BaseURL != "https://api.worldbank.org/v2" {
		t.Errorf("unexpected base_url: %s", cfg.WorldBank.BaseURL)
	}
	if time.Duration(cfg.WorldBank.Timeout) != 10*time.Second {
		t.Errorf("unexpected timeout: %v", time.Duration(cfg.WorldBank.Timeout))
	}
	if cfg.WorldBank.StartYear != 2018 || cfg.WorldBank.EndYear != 2022 {
		t.Errorf("unexpected year range: %d - %d", cfg.WorldBank.StartYear, cfg.WorldBank.EndYear)
	}
	if time.Duration(cfg.Serve.RefreshInterval) != 24*time.Hour {
		t.Errorf("unexpected refresh interval: %v", time.Duration(cfg.Serve.RefreshInterval))
	}

	if got := len(dcfg.Countries()); got != 3 {
		t.Errorf("expected 3 countries, got %d", got)
	}
	if name := dcfg.CountryName("USA"); name != "United States" {
		t.Errorf("unexpected country name: %s", name)
	}
	if name := dcfg.CountryName("XXX"); name != "XXX" {
		t.Errorf("unknown code should fall back to itself, got %s", name)
	}
	if ind := dcfg.GetIndicator("co2"); ind != "EN.GHG.CO2.PC.CE.AR5" {
		t.Errorf("unexpected co2 indicator: %s", ind)
	}
	if tier := dcfg.GetSampleTier("very_high_income"); len(tier) != 2 {
		t.Errorf("unexpected tier length: %d", len(tier))
	}
}

func TestLoadConfigSingleton(t *testing.T) {
	dir := writeTestConfigs(t)

	cfg1, _, err := LoadConfig(dir, "config.json", "dataconfig.json")
	if err != nil {
		t.Fatal(err)
	}
	cfg2, _, err := LoadConfig(dir, "config.json", "dataconfig.json")
	if err != nil {
		t.Fatal(err)
	}
	if cfg1 != cfg2 {
		t.Error("LoadConfig should return the same instance")
	}
}

func TestCountriesReturnsCopy(t *testing.T) {
	dcfg := &DataConfig{CountryCodes: []string{"USA", "CHN"}}

	countries := dcfg.Countries()
	countries[0] = "XXX"

	if dcfg.CountryCodes[0] != "USA" {
		t.Error("Countries should return a copy")
	}
}

func TestDurationUnmarshal(t *testing.T) {
	var d Duration
	if err := d.UnmarshalJSON([]byte(`"90s"`)); err != nil {
		t.Fatal(err)
	}
	if time.Duration(d) != 90*time.Second {
		t.Errorf("unexpected duration: %v", time.Duration(d))
	}

	if err := d.UnmarshalJSON([]byte(`"not-a-duration"`)); err == nil {
		t.Error("expected error for invalid duration")
	}
}
