package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"leadscout-engine/internal/domain"
)

// CSV appends one row per contact. Flushes on every write so a cancelled run
// keeps everything already streamed.
type CSV struct {
	mu sync.Mutex
	f  *os.File
	w  *csv.Writer
}

var csvHeader = []string{
	"run_id", "company", "domain", "full_name", "email", "title",
	"profile_url", "decision_maker", "name_confidence", "attempt",
}

func NewCSV(path string) (*CSV, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("export csv open: %w", err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			_ = f.Close()
			return nil, err
		}
		w.Flush()
	}
	return &CSV{f: f, w: w}, nil
}

func (c *CSV) Emit(_ context.Context, contact domain.Contact) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	row := []string{
		contact.RunID,
		contact.Company.RawName,
		contact.Company.Domain,
		contact.Person.FullName,
		contact.Person.SourceEmail,
		contact.Title,
		contact.ProfileURL,
		strconv.FormatBool(contact.IsDecisionMaker),
		strconv.FormatFloat(contact.Person.Confidence, 'f', 2, 64),
		strconv.Itoa(contact.SearchAttemptIndex),
	}
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("export csv write: %w", err)
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSV) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		_ = c.f.Close()
		return err
	}
	return c.f.Close()
}
