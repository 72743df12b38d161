package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		DataDir      string `yaml:"data_dir"`
		OutputCSV    string `yaml:"output_csv"`
		Companies    string `yaml:"companies_file"`
		CacheTTLDays int    `yaml:"cache_ttl_days"`
	} `yaml:"app"`

	Limits struct {
		RequestsPerSec        float64 `yaml:"requests_per_sec"`
		Burst                 int     `yaml:"burst"`
		CompanyWorkers        int     `yaml:"company_workers"`
		EmailWorkers          int     `yaml:"email_workers"`
		MaxEmailsPerDomain    int     `yaml:"max_emails_per_domain"`
		MaxContactsPerCompany int     `yaml:"max_contacts_per_company"`
		PerCompanySeconds     int     `yaml:"per_company_seconds"`
		RunMinutes            int     `yaml:"run_minutes"`
	} `yaml:"limits"`

	Search struct {
		SerpURL        string   `yaml:"serp_url"`        // keyed backend; blank uses the default endpoint
		BlockedDomains []string `yaml:"blocked_domains"` // extra, on top of built-ins
	} `yaml:"search"`

	Emails struct {
		ProviderURL string `yaml:"provider_url"`
	} `yaml:"emails"`

	Profile struct {
		Site              string  `yaml:"site"`
		MinNameConfidence float64 `yaml:"min_name_confidence"`
		BroadFallback     bool    `yaml:"broad_fallback"`
	} `yaml:"profile"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// ApplyDefaults fills anything the file left at zero.
func ApplyDefaults(cfg *Config) {
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = "."
	}
	if cfg.App.OutputCSV == "" {
		cfg.App.OutputCSV = "contacts.csv"
	}
	if cfg.App.CacheTTLDays <= 0 {
		cfg.App.CacheTTLDays = 30
	}
	if cfg.Limits.RequestsPerSec <= 0 {
		cfg.Limits.RequestsPerSec = 1.0
	}
	if cfg.Limits.Burst <= 0 {
		cfg.Limits.Burst = 2
	}
	if cfg.Limits.CompanyWorkers <= 0 {
		cfg.Limits.CompanyWorkers = 10
	}
	if cfg.Limits.EmailWorkers <= 0 {
		cfg.Limits.EmailWorkers = 5
	}
	if cfg.Limits.MaxEmailsPerDomain <= 0 {
		cfg.Limits.MaxEmailsPerDomain = 15
	}
	if cfg.Limits.MaxContactsPerCompany == 0 {
		cfg.Limits.MaxContactsPerCompany = 4
	}
	if cfg.Limits.PerCompanySeconds <= 0 {
		cfg.Limits.PerCompanySeconds = 90
	}
	if cfg.Profile.Site == "" {
		cfg.Profile.Site = "linkedin.com/in"
	}
}
