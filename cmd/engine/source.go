package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"leadscout-engine/internal/domain"
)

// FileSource reads companies from a CSV: name[,location]. A header row is
// skipped if its first cell looks like one.
type FileSource struct {
	companies []domain.Company
	pos       int
}

func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []domain.Company
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("companies csv: %w", err)
		}
		if len(rec) == 0 {
			continue
		}

		name := strings.TrimSpace(rec[0])
		if name == "" {
			continue
		}
		if len(out) == 0 && strings.EqualFold(name, "company") {
			continue
		}

		location := ""
		if len(rec) > 1 {
			location = strings.TrimSpace(rec[1])
		}
		out = append(out, domain.NewCompany(name, location))
	}

	return &FileSource{companies: out}, nil
}

func (s *FileSource) Next(ctx context.Context) (domain.Company, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Company{}, false, err
	}
	if s.pos >= len(s.companies) {
		return domain.Company{}, false, nil
	}
	c := s.companies[s.pos]
	s.pos++
	return c, true, nil
}
