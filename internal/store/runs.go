package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crewcall/crewcall/internal/extract"
)

// Run is one persisted extraction run.
type Run struct {
	ID                string    `json:"id"`
	SourceFile        string    `json:"source_file,omitempty"`
	StructureType     string    `json:"structure_type"`
	DocumentType      string    `json:"document_type,omitempty"`
	ProductionType    string    `json:"production_type,omitempty"`
	SectionsFound     int       `json:"sections_found"`
	RawCandidates     int       `json:"raw_candidates"`
	DuplicatesRemoved int       `json:"duplicates_removed"`
	ContactCount      int       `json:"contact_count"`
	AverageConfidence float64   `json:"average_confidence"`
	Notes             []string  `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListOpts controls pagination for ListRuns.
type ListOpts struct {
	Limit  int
	Offset int
}

// SaveRun persists one extraction result and its contacts in a single
// transaction, returning the new run ID.
func (s *Store) SaveRun(ctx context.Context, run Run, contacts []extract.Contact) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	notes, err := json.Marshal(run.Notes)
	if err != nil {
		return "", fmt.Errorf("encoding notes: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source_file, structure_type, document_type, production_type,
			sections_found, raw_candidates, duplicates_removed, contact_count,
			average_confidence, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceFile, run.StructureType, run.DocumentType, run.ProductionType,
		run.SectionsFound, run.RawCandidates, run.DuplicatesRemoved, len(contacts),
		run.AverageConfidence, string(notes), run.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, c := range contacts {
		lines, err := json.Marshal(c.SourceLines)
		if err != nil {
			return "", fmt.Errorf("encoding source lines: %w", err)
		}
		strategies, err := json.Marshal(c.Strategies)
		if err != nil {
			return "", fmt.Errorf("encoding strategies: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO contacts (run_id, name, email, phone, role, company, department,
				reports_to, confidence, confidence_level, source_lines, strategies)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, c.Name, c.Email, c.Phone, c.Role, c.Company, c.Department,
			c.ReportsTo, c.Confidence, string(c.Level), string(lines), string(strategies),
		)
		if err != nil {
			return "", fmt.Errorf("inserting contact %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// GetRun retrieves one run by ID. Returns nil when not found.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_file, structure_type, document_type, production_type,
			sections_found, raw_candidates, duplicates_removed, contact_count,
			average_confidence, notes, created_at
		 FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs newest-first.
func (s *Store) ListRuns(ctx context.Context, opts ListOpts) ([]*Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_file, structure_type, document_type, production_type,
			sections_found, raw_candidates, duplicates_removed, contact_count,
			average_confidence, notes, created_at
		 FROM runs ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("reading run row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and (via cascade) its contacts.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run   Run
		notes string
	)
	err := row.Scan(&run.ID, &run.SourceFile, &run.StructureType, &run.DocumentType,
		&run.ProductionType, &run.SectionsFound, &run.RawCandidates,
		&run.DuplicatesRemoved, &run.ContactCount, &run.AverageConfidence,
		&notes, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	if notes != "" && notes != "null" {
		if err := json.Unmarshal([]byte(notes), &run.Notes); err != nil {
			return nil, fmt.Errorf("decoding notes: %w", err)
		}
	}
	return &run, nil
}

// ContactsForRun returns a run's merged contacts in stored order.
func (s *Store) ContactsForRun(ctx context.Context, runID string) ([]extract.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, email, phone, role, company, department, reports_to,
			confidence, confidence_level, source_lines, strategies
		 FROM contacts WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()
	return scanContacts(rows)
}

// SearchContacts finds contacts across all runs whose name, email, role, or
// company contains the query, case-insensitively, newest runs first.
func (s *Store) SearchContacts(ctx context.Context, query string, limit int) ([]extract.Contact, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + strings.ToLower(q) + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.name, c.email, c.phone, c.role, c.company, c.department, c.reports_to,
			c.confidence, c.confidence_level, c.source_lines, c.strategies
		 FROM contacts c JOIN runs r ON r.id = c.run_id
		 WHERE lower(c.name) LIKE ? OR lower(c.email) LIKE ?
			OR lower(c.role) LIKE ? OR lower(c.company) LIKE ?
		 ORDER BY r.created_at DESC, c.id LIMIT ?`,
		pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching contacts: %w", err)
	}
	defer rows.Close()
	return scanContacts(rows)
}

func scanContacts(rows *sql.Rows) ([]extract.Contact, error) {
	var contacts []extract.Contact
	for rows.Next() {
		var (
			c          extract.Contact
			level      string
			lines      string
			strategies string
		)
		err := rows.Scan(&c.Name, &c.Email, &c.Phone, &c.Role, &c.Company,
			&c.Department, &c.ReportsTo, &c.Confidence, &level, &lines, &strategies)
		if err != nil {
			return nil, fmt.Errorf("reading contact row: %w", err)
		}
		c.Level = extract.ConfidenceLevel(level)
		if err := json.Unmarshal([]byte(lines), &c.SourceLines); err != nil {
			return nil, fmt.Errorf("decoding source lines: %w", err)
		}
		if strategies != "" && strategies != "null" {
			if err := json.Unmarshal([]byte(strategies), &c.Strategies); err != nil {
				return nil, fmt.Errorf("decoding strategies: %w", err)
			}
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// Stats summarizes the archive for observability.
type Stats struct {
	RunCount     int64   `json:"run_count"`
	ContactCount int64   `json:"contact_count"`
	AvgContacts  float64 `json:"avg_contacts_per_run"`
}

// Stats returns archive-wide counts.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&st.RunCount); err != nil {
		return nil, fmt.Errorf("counting runs: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&st.ContactCount); err != nil {
		return nil, fmt.Errorf("counting contacts: %w", err)
	}
	if st.RunCount > 0 {
		st.AvgContacts = float64(st.ContactCount) / float64(st.RunCount)
	}
	return &st, nil
}
