package domain

import "time"

// CompanyState tracks how far a company made it through the pipeline.
type CompanyState string

const (
	StatePending         CompanyState = "pending"
	StateWebsiteResolved CompanyState = "website_resolved"
	StateWebsiteFailed   CompanyState = "website_failed"
	StateEmailsFetched   CompanyState = "emails_fetched"
	StateEmailsEmpty     CompanyState = "emails_empty"
	StateAggregated      CompanyState = "aggregated"
)

// CompanyReport is the per-company aggregate streamed out as each company
// finishes. Contacts is already deduped; a company that failed early has
// State explaining why and zero contacts.
type CompanyReport struct {
	Company   Company
	State     CompanyState
	Contacts  []Contact
	Emails    int // candidates that survived domain validation
	StartedAt time.Time
	Elapsed   time.Duration
}
