package enrich

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"leadscout-engine/internal/domain"
	"leadscout-engine/internal/emails"
	"leadscout-engine/internal/export"
	"leadscout-engine/internal/store"
)

// CompanySource produces the companies to enrich. How they were scraped is
// somebody else's problem.
type CompanySource interface {
	Next(ctx context.Context) (domain.Company, bool, error)
}

// Options bounds the fan-out.
type Options struct {
	CompanyWorkers    int           // outer pool
	EmailWorkers      int           // inner pool, per company
	MaxContacts       int           // per company; 0 = unlimited
	PerCompanyTimeout time.Duration // wall clock for one company end to end
}

func (o Options) withDefaults() Options {
	if o.CompanyWorkers <= 0 {
		o.CompanyWorkers = 10
	}
	if o.EmailWorkers <= 0 {
		o.EmailWorkers = 5
	}
	if o.MaxContacts < 0 {
		o.MaxContacts = 0
	}
	if o.PerCompanyTimeout <= 0 {
		o.PerCompanyTimeout = 90 * time.Second
	}
	return o
}

// Summary is what a finished run reports.
type Summary struct {
	RunID     string
	Companies int
	Resolved  int
	Contacts  int
	Elapsed   time.Duration
}

// Pipeline coordinates resolver -> discovery -> extraction -> profile search
// -> classification across many companies, deduping and streaming as it goes.
type Pipeline struct {
	resolver  *Resolver
	discovery *emails.Discovery
	profiles  *Searcher
	sink      export.Sink
	audit     *store.Cache
	opts      Options

	mu   sync.Mutex
	seen map[string]bool // contact dedup keys, run-scoped
}

func NewPipeline(resolver *Resolver, discovery *emails.Discovery, profiles *Searcher, sink export.Sink, audit *store.Cache, opts Options) *Pipeline {
	return &Pipeline{
		resolver:  resolver,
		discovery: discovery,
		profiles:  profiles,
		sink:      sink,
		audit:     audit,
		opts:      opts.withDefaults(),
		seen:      make(map[string]bool),
	}
}

// Run drains the source. One broken company never takes down the run; a
// cancelled ctx winds everything down cooperatively and whatever was already
// streamed stands.
func (p *Pipeline) Run(ctx context.Context, source CompanySource) (Summary, error) {
	start := time.Now()
	runID := ulid.Make().String()
	log.Printf("[pipeline] run %s starting (companies=%d workers, emails=%d workers)",
		runID, p.opts.CompanyWorkers, p.opts.EmailWorkers)

	var (
		g, gctx = errgroup.WithContext(ctx)
		sum     Summary
		sumMu   sync.Mutex
	)
	g.SetLimit(p.opts.CompanyWorkers)

	sum.RunID = runID

drain:
	for {
		co, ok, err := source.Next(ctx)
		if err != nil {
			log.Printf("[pipeline] source: %v", err)
			break
		}
		if !ok {
			break
		}
		select {
		case <-gctx.Done():
			break drain
		default:
		}

		g.Go(func() error {
			report := p.processCompany(gctx, runID, co)

			sumMu.Lock()
			sum.Companies++
			if report.State != domain.StateWebsiteFailed {
				sum.Resolved++
			}
			sum.Contacts += len(report.Contacts)
			sumMu.Unlock()

			p.recordAudit(report, runID)
			return nil // isolation: never cancel siblings
		})
	}

	_ = g.Wait()
	sum.Elapsed = time.Since(start)
	log.Printf("[pipeline] run %s done: companies=%d resolved=%d contacts=%d in %s",
		runID, sum.Companies, sum.Resolved, sum.Contacts, sum.Elapsed.Round(time.Millisecond))

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	return sum, nil
}

// processCompany walks one company through the state machine. Every outcome
// is a report; errors are downgraded to states.
func (p *Pipeline) processCompany(ctx context.Context, runID string, co domain.Company) (report domain.CompanyReport) {
	report = domain.CompanyReport{
		Company:   co,
		State:     domain.StatePending,
		StartedAt: time.Now(),
	}
	defer func() { report.Elapsed = time.Since(report.StartedAt) }()

	cctx, cancel := context.WithTimeout(ctx, p.opts.PerCompanyTimeout)
	defer cancel()

	if err := p.resolver.Resolve(cctx, &co); err != nil {
		log.Printf("[pipeline] resolve %q: %v", co.RawName, err)
	}
	if co.Domain == "" {
		report.State = domain.StateWebsiteFailed
		log.Printf("[pipeline] %q: no website found, skipping", co.RawName)
		return report
	}
	report.Company = co
	report.State = domain.StateWebsiteResolved

	candidates, err := p.discovery.Candidates(cctx, co.Domain)
	if err != nil {
		log.Printf("[pipeline] emails for %s: %v", co.Domain, err)
	}
	if len(candidates) == 0 {
		report.State = domain.StateEmailsEmpty
		log.Printf("[pipeline] %q: no emails at %s", co.RawName, co.Domain)
		return report
	}
	report.State = domain.StateEmailsFetched
	report.Emails = len(candidates)

	contacts := p.enrichEmails(cctx, runID, co, candidates)
	report.Contacts = contacts
	report.State = domain.StateAggregated
	return report
}

// enrichEmails fans out over a company's candidates with the inner pool and
// funnels survivors through the single dedup point.
func (p *Pipeline) enrichEmails(ctx context.Context, runID string, co domain.Company, candidates []domain.EmailCandidate) []domain.Contact {
	var (
		g, gctx = errgroup.WithContext(ctx)
		mu      sync.Mutex
		out     []domain.Contact
	)
	g.SetLimit(p.opts.EmailWorkers)

	for _, ec := range candidates {
		ec := ec
		g.Go(func() error {
			person, ok := ExtractName(ec)
			if !ok {
				return nil
			}

			match, ok, err := p.profiles.Find(gctx, person, co)
			if err != nil || !ok {
				return nil
			}

			contact := domain.Contact{
				Person:             person,
				Title:              match.Title,
				ProfileURL:         match.ProfileURL,
				Company:            co,
				IsDecisionMaker:    IsDecisionMaker(match.Title),
				SearchAttemptIndex: match.AttemptIndex,
				RunID:              runID,
			}

			if !p.admit(contact) {
				return nil
			}

			mu.Lock()
			if p.opts.MaxContacts > 0 && len(out) >= p.opts.MaxContacts {
				mu.Unlock()
				return nil
			}
			out = append(out, contact)
			mu.Unlock()

			if err := p.sink.Emit(gctx, contact); err != nil {
				log.Printf("[pipeline] emit %s: %v", contact.Person.FullName, err)
			}
			return nil
		})
	}

	_ = g.Wait()
	return out
}

// admit is the run's single dedup gate: at most one contact per
// (company, person) no matter which worker gets there first.
func (p *Pipeline) admit(c domain.Contact) bool {
	key := c.DedupKey()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seen[key] {
		return false
	}
	p.seen[key] = true
	return true
}

func (p *Pipeline) recordAudit(report domain.CompanyReport, runID string) {
	if p.audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.audit.PutAudit(ctx, runID, report); err != nil {
		log.Printf("[pipeline] audit %q: %v", report.Company.RawName, err)
	}
}
