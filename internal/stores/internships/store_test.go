// internal/stores/internships/store_test.go
package internships

import (
	"context"
	"testing"
	"time"

	"internship-match-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func listingColumns() []string {
	return []string{
		"id", "title", "sector", "org_name", "description", "stipend_min",
		"stipend_max", "city", "state", "pin", "remote", "min_education",
		"application_url", "deadline", "active", "required_skills",
	}
}

func TestStore_ListOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	deadline := time.Now().Add(14 * 24 * time.Hour).UTC()
	rows := sqlmock.NewRows(listingColumns()).
		AddRow("i1", "Data Analyst Intern", "Analytics", "DataWorks", "Work with dashboards",
			10000, 15000, "Bengaluru", "Karnataka", "560001", false, "UNDERGRADUATE",
			"https://example.com/apply", deadline, true, `["Python","SQL"]`).
		AddRow("i2", "Field Officer Intern", "Agriculture", "AgriCo", nil, nil, nil,
			nil, nil, nil, true, "TENTH_PLUS_TWO",
			"https://example.com/apply2", deadline.Add(24*time.Hour), true, `["Communication"]`)

	mock.ExpectQuery("SELECT id, title, sector, org_name").
		WillReturnRows(rows)

	store := NewStore(db, logger.NewTestLogger(t))
	listings, err := store.ListOpen(context.Background(), time.Now(), 0)

	assert.NoError(t, err)
	assert.Len(t, listings, 2)

	assert.Equal(t, "i1", listings[0].ID)
	assert.Equal(t, []string{"Python", "SQL"}, listings[0].RequiredSkills)
	assert.NotNil(t, listings[0].StipendMin)
	assert.Equal(t, 10000, *listings[0].StipendMin)
	assert.Equal(t, "Bengaluru", listings[0].City)

	// Nullable columns decay to zero values.
	assert.Equal(t, "i2", listings[1].ID)
	assert.Nil(t, listings[1].StipendMin)
	assert.Equal(t, "", listings[1].City)
	assert.True(t, listings[1].Remote)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListOpen_BadSkillsColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(listingColumns()).
		AddRow("i1", "Intern", "IT", "Org", nil, nil, nil, nil, nil, nil, true,
			"UNDERGRADUATE", "https://example.com", time.Now().Add(time.Hour), true, "oops")

	mock.ExpectQuery("SELECT id, title, sector, org_name").
		WillReturnRows(rows)

	store := NewStore(db, logger.NewTestLogger(t))
	listings, err := store.ListOpen(context.Background(), time.Now(), 0)

	assert.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, []string{}, listings[0].RequiredSkills)
}

func TestStore_ListOpen_WithLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, title, sector, org_name").
		WillReturnRows(sqlmock.NewRows(listingColumns()))

	store := NewStore(db, logger.NewTestLogger(t))
	listings, err := store.ListOpen(context.Background(), time.Now(), 25)

	assert.NoError(t, err)
	assert.Empty(t, listings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetByIDs_Empty(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	store := NewStore(db, logger.NewTestLogger(t))
	listings, err := store.GetByIDs(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, listings)
}

func TestStore_GetByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(listingColumns()).
		AddRow("i1", "Intern", "IT", "Org", nil, nil, nil, nil, nil, nil, true,
			"UNDERGRADUATE", "https://example.com", time.Now().Add(time.Hour), true, `[]`)

	mock.ExpectQuery("SELECT id, title, sector, org_name").
		WithArgs(`["i1","i9"]`).
		WillReturnRows(rows)

	store := NewStore(db, logger.NewTestLogger(t))
	listings, err := store.GetByIDs(context.Background(), []string{"i1", "i9"})

	assert.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, "i1", listings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
