// internal/stores/internships/store.go
package internships

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/models"
)

// Store reads internship listings from Postgres. Required skills are
// persisted as a JSON text column and decoded on read.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "internship-store"}),
	}
}

// ListOpen returns listings that are active with a deadline at or
// after the given time, soonest deadline first. Education gating is
// left to the ranking engine.
func (s *Store) ListOpen(ctx context.Context, now time.Time, limit int) ([]models.InternshipListing, error) {
	query := `
		SELECT id, title, sector, org_name, description, stipend_min, stipend_max,
		       city, state, pin, remote, min_education, application_url, deadline,
		       active, required_skills
		FROM internships
		WHERE active = true AND deadline >= $1
		ORDER BY deadline ASC`
	args := []interface{}{now}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query open internships: %w", err)
	}
	defer rows.Close()

	var listings []models.InternshipListing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}
	return listings, rows.Err()
}

// GetByIDs fetches specific listings, silently skipping unknown IDs.
func (s *Store) GetByIDs(ctx context.Context, ids []string) ([]models.InternshipListing, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idsJSON, _ := json.Marshal(ids)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, sector, org_name, description, stipend_min, stipend_max,
		       city, state, pin, remote, min_education, application_url, deadline,
		       active, required_skills
		FROM internships
		WHERE id IN (SELECT json_array_elements_text($1::json))`, string(idsJSON))
	if err != nil {
		return nil, fmt.Errorf("query internships by id: %w", err)
	}
	defer rows.Close()

	var listings []models.InternshipListing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}
	return listings, rows.Err()
}

func scanListing(rows *sql.Rows) (*models.InternshipListing, error) {
	var l models.InternshipListing
	var description, city, state, pin sql.NullString
	var stipendMin, stipendMax sql.NullInt64
	var skills []byte

	err := rows.Scan(&l.ID, &l.Title, &l.Sector, &l.OrgName, &description,
		&stipendMin, &stipendMax, &city, &state, &pin, &l.Remote,
		&l.MinEducation, &l.ApplicationURL, &l.Deadline, &l.Active, &skills)
	if err != nil {
		return nil, fmt.Errorf("scan internship: %w", err)
	}

	l.Description = description.String
	l.City = city.String
	l.State = state.String
	l.Pin = pin.String
	if stipendMin.Valid {
		v := int(stipendMin.Int64)
		l.StipendMin = &v
	}
	if stipendMax.Valid {
		v := int(stipendMax.Int64)
		l.StipendMax = &v
	}
	if err := json.Unmarshal(skills, &l.RequiredSkills); err != nil {
		l.RequiredSkills = []string{}
	}
	return &l, nil
}
