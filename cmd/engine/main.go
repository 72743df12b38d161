package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"leadscout-engine/internal/config"
	"leadscout-engine/internal/emails"
	"leadscout-engine/internal/enrich"
	"leadscout-engine/internal/export"
	"leadscout-engine/internal/ratelimit"
	"leadscout-engine/internal/search"
	"leadscout-engine/internal/secrets"
	"leadscout-engine/internal/store"
)

func main() {
	_ = godotenv.Load() // optional .env, real config is the yaml file

	cfgPath := os.Getenv("LEADSCOUT_CONFIG")
	if cfgPath == "" {
		cfgPath = filepath.Join("config", "config.yml")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	config.ApplyDefaults(&cfg)
	if err := config.Validate(cfg); err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// Credentials are a startup concern only (missing ones must never
	// surface mid-run).
	emailKey, err := secrets.EmailAPIKey()
	if err != nil {
		log.Fatal(err)
	}
	serpKeys := secrets.SerpAPIKeys()

	cache, err := store.Open(
		filepath.Join(cfg.App.DataDir, "leadscout.db"),
		time.Duration(cfg.App.CacheTTLDays)*24*time.Hour,
	)
	if err != nil {
		log.Fatalf("cache open: %v", err)
	}
	defer cache.Close()

	limiter := ratelimit.NewLimiter(cfg.Limits.RequestsPerSec, cfg.Limits.Burst)
	policy := ratelimit.DefaultPolicy()

	// With API keys, searches go through the keyed SERP backend with
	// round-robin rotation; without them, the keyless DDG HTML endpoint.
	var webSearch, profileSearch search.Provider
	if len(serpKeys) > 0 {
		creds := ratelimit.NewCredentials(serpKeys)
		serp := search.NewSerpAPI(cfg.Search.SerpURL)
		webSearch = search.NewKeyedClient(serp, creds, limiter, "serp", policy)
		profileSearch = search.NewKeyedClient(serp, creds, limiter, "profile", policy)
		log.Printf("[engine] serp backend with %d rotating keys", creds.Len())
	} else {
		ddg := search.NewDDG()
		webSearch = search.NewClient(ddg, limiter, "serp", policy)
		profileSearch = search.NewClient(ddg, limiter, "profile", policy)
	}

	provider := emails.NewHTTPProvider(cfg.Emails.ProviderURL, emailKey)
	discovery := emails.NewDiscovery(provider, limiter, policy, cfg.Limits.MaxEmailsPerDomain)

	resolver := enrich.NewResolver(webSearch, cache, cfg.Search.BlockedDomains...)
	profiles := enrich.NewSearcher(profileSearch, enrich.ProfileConfig{
		Site:              cfg.Profile.Site,
		MinNameConfidence: cfg.Profile.MinNameConfidence,
		BroadFallback:     cfg.Profile.BroadFallback,
	})

	csvSink, err := export.NewCSV(filepath.Join(cfg.App.DataDir, cfg.App.OutputCSV))
	if err != nil {
		log.Fatalf("output: %v", err)
	}
	sink := export.NewBuffered(csvSink, 256, policy)

	source, err := NewFileSource(cfg.App.Companies)
	if err != nil {
		log.Fatalf("companies file: %v", err)
	}

	pipe := enrich.NewPipeline(resolver, discovery, profiles, sink, cache, enrich.Options{
		CompanyWorkers:    cfg.Limits.CompanyWorkers,
		EmailWorkers:      cfg.Limits.EmailWorkers,
		MaxContacts:       cfg.Limits.MaxContactsPerCompany,
		PerCompanyTimeout: time.Duration(cfg.Limits.PerCompanySeconds) * time.Second,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Limits.RunMinutes > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Limits.RunMinutes)*time.Minute)
		defer cancel()
	}

	sum, runErr := pipe.Run(ctx, source)

	if err := sink.Close(); err != nil {
		log.Printf("[export] %v", err)
	}
	if err := csvSink.Close(); err != nil {
		log.Printf("[export] close csv: %v", err)
	}

	log.Printf("run %s: %d companies, %d resolved, %d contacts (%s)",
		sum.RunID, sum.Companies, sum.Resolved, sum.Contacts, sum.Elapsed.Round(time.Second))
	if runErr != nil {
		log.Printf("run ended early: %v", runErr)
	}
}
