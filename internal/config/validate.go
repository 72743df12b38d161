package config

import (
	"errors"
	"fmt"
	"strings"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.Limits.RequestsPerSec <= 0 {
		errs = append(errs, "limits.requests_per_sec must be > 0")
	}
	if cfg.Limits.RequestsPerSec > 50 {
		errs = append(errs, "limits.requests_per_sec over 50 will get every credential banned")
	}
	if cfg.Limits.CompanyWorkers < 1 || cfg.Limits.CompanyWorkers > 64 {
		errs = append(errs, "limits.company_workers must be 1..64")
	}
	if cfg.Limits.EmailWorkers < 1 || cfg.Limits.EmailWorkers > 32 {
		errs = append(errs, "limits.email_workers must be 1..32")
	}
	if cfg.Limits.MaxEmailsPerDomain < 1 || cfg.Limits.MaxEmailsPerDomain > 50 {
		errs = append(errs, "limits.max_emails_per_domain must be 1..50")
	}
	if cfg.Profile.MinNameConfidence < 0 || cfg.Profile.MinNameConfidence > 1 {
		errs = append(errs, "profile.min_name_confidence must be 0..1")
	}
	if cfg.App.Companies == "" {
		errs = append(errs, "app.companies_file is required")
	}

	for i, d := range cfg.Search.BlockedDomains {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, fmt.Sprintf("search.blocked_domains[%d] cannot be empty", i))
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
