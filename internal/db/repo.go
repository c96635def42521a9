// Package db is the optional case archive. The triage engine itself is
// in-memory and per-case; when a database is configured, completed turns are
// copied here write-behind so cases survive a restart for read-only review.
package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"healthguard/pkg"
)

// Repository wraps database operations for archived cases. The caller is
// responsible for the DB connection lifecycle.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a Repository from an existing sql.DB.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// CreateCase registers a case. Safe to call more than once per case.
func (r *Repository) CreateCase(ctx context.Context, caseID pkg.CaseID) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO cases (id) VALUES ($1)
         ON CONFLICT (id) DO NOTHING`,
		string(caseID),
	)
	return err
}

// ArchiveMessage appends one transcript message to the archive. Message IDs
// are unique, so replays of the same message are no-ops.
func (r *Repository) ArchiveMessage(ctx context.Context, caseID pkg.CaseID, m pkg.Message) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO case_messages (id, case_id, role, content, synthetic_warning, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)
         ON CONFLICT (id) DO NOTHING`,
		string(m.ID), string(caseID), string(m.Role), m.Content, m.SyntheticWarning, m.CreatedAt,
	)
	return err
}

// UpsertSummary stores the current case summary, replacing any previous one.
func (r *Repository) UpsertSummary(ctx context.Context, caseID pkg.CaseID, s pkg.CaseSummary) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO case_summaries (case_id, age, gender, risk_level, key_symptoms, likely_condition, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, NOW())
         ON CONFLICT (case_id) DO UPDATE SET
             age = EXCLUDED.age,
             gender = EXCLUDED.gender,
             risk_level = EXCLUDED.risk_level,
             key_symptoms = EXCLUDED.key_symptoms,
             likely_condition = EXCLUDED.likely_condition,
             updated_at = EXCLUDED.updated_at`,
		string(caseID), s.Age, string(s.Gender), string(s.RiskLevel),
		pq.Array(s.KeySymptoms), s.LikelyCondition,
	)
	return err
}

// DeleteCase removes an archived case and, via cascade, its messages and
// summary. Used when a case file is reset.
func (r *Repository) DeleteCase(ctx context.Context, caseID pkg.CaseID) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM cases WHERE id = $1`, string(caseID))
	return err
}

// GetTranscript returns the archived messages of a case in chronological
// order. A case with no messages yields an empty slice, not an error.
func (r *Repository) GetTranscript(ctx context.Context, caseID pkg.CaseID) ([]pkg.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, role, content, synthetic_warning, created_at
         FROM case_messages
         WHERE case_id = $1
         ORDER BY created_at ASC`,
		string(caseID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transcript []pkg.Message
	for rows.Next() {
		var m pkg.Message
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.SyntheticWarning, &m.CreatedAt); err != nil {
			return nil, err
		}
		transcript = append(transcript, m)
	}
	return transcript, rows.Err()
}

// GetSummary returns the archived summary for a case, or nil when the case
// is unknown.
func (r *Repository) GetSummary(ctx context.Context, caseID pkg.CaseID) (*pkg.CaseSummary, error) {
	var s pkg.CaseSummary
	var symptoms pq.StringArray
	err := r.DB.QueryRowContext(ctx,
		`SELECT age, gender, risk_level, key_symptoms, likely_condition
         FROM case_summaries
         WHERE case_id = $1`,
		string(caseID),
	).Scan(&s.Age, &s.Gender, &s.RiskLevel, &symptoms, &s.LikelyCondition)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.KeySymptoms = []string(symptoms)
	return &s, nil
}
