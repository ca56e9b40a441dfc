// internal/workers/data-access/query-internships/handler_test.go
package queryinternships

import (
	"context"
	"errors"
	"testing"
	"time"

	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/models"
	"internship-match-workers/internal/stores/internships"

	"github.com/stretchr/testify/assert"
)

// ==========================================
// Test Helpers
// ==========================================

type stubStore struct {
	listings []models.InternshipListing
	err      error
	calls    int
}

func (s *stubStore) ListOpen(ctx context.Context, now time.Time, limit int) ([]models.InternshipListing, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if limit > 0 && limit < len(s.listings) {
		return s.listings[:limit], nil
	}
	return s.listings, nil
}

type stubSearcher struct {
	listings  []models.InternshipListing
	totalHits int64
	err       error
	calls     int
	lastQuery internships.SearchQuery
}

func (s *stubSearcher) Search(ctx context.Context, q internships.SearchQuery) ([]models.InternshipListing, int64, error) {
	s.calls++
	s.lastQuery = q
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.listings, s.totalHits, nil
}

func createTestConfig() *Config {
	return LoadConfig()
}

func testListing(id, sector string, remote bool) models.InternshipListing {
	return models.InternshipListing{
		ID:       id,
		Title:    "Intern " + id,
		Sector:   sector,
		Remote:   remote,
		Active:   true,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	}
}

// ==========================================
// Source Routing Tests
// ==========================================

func TestExecute_PostgresSource(t *testing.T) {
	store := &stubStore{listings: []models.InternshipListing{
		testListing("l1", "analytics", false),
		testListing("l2", "healthcare", true),
	}}
	searcher := &stubSearcher{}
	handler := NewHandler(createTestConfig(), store, searcher, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Source: SourcePostgres})

	assert.NoError(t, err)
	assert.Equal(t, SourcePostgres, output.Source)
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, int64(2), output.TotalHits)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 0, searcher.calls)
}

func TestExecute_ElasticsearchSource(t *testing.T) {
	store := &stubStore{}
	searcher := &stubSearcher{
		listings:  []models.InternshipListing{testListing("l1", "it", true)},
		totalHits: 42,
	}
	handler := NewHandler(createTestConfig(), store, searcher, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Source:     SourceElasticsearch,
		Keywords:   "python data",
		Sectors:    []string{"it"},
		RemoteOnly: true,
		Limit:      10,
		Offset:     20,
	})

	assert.NoError(t, err)
	assert.Equal(t, SourceElasticsearch, output.Source)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, int64(42), output.TotalHits)
	assert.Equal(t, 0, store.calls)
	assert.Equal(t, "python data", searcher.lastQuery.Keywords)
	assert.Equal(t, []string{"it"}, searcher.lastQuery.Sectors)
	assert.True(t, searcher.lastQuery.RemoteOnly)
	assert.Equal(t, 20, searcher.lastQuery.From)
	assert.Equal(t, 10, searcher.lastQuery.Size)
}

func TestExecute_DefaultSourceSelection(t *testing.T) {
	tests := []struct {
		name           string
		input          *Input
		expectedSource string
	}{
		{
			name:           "no keywords defaults to postgres",
			input:          &Input{},
			expectedSource: SourcePostgres,
		},
		{
			name:           "keywords default to elasticsearch",
			input:          &Input{Keywords: "machine learning"},
			expectedSource: SourceElasticsearch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{}
			searcher := &stubSearcher{}
			handler := NewHandler(createTestConfig(), store, searcher, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), tt.input)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedSource, output.Source)
		})
	}
}

// ==========================================
// Filtering Tests
// ==========================================

func TestExecute_PostgresInMemoryFilters(t *testing.T) {
	store := &stubStore{listings: []models.InternshipListing{
		testListing("l1", "Analytics", false),
		testListing("l2", "healthcare", true),
		testListing("l3", "analytics", true),
	}}
	handler := NewHandler(createTestConfig(), store, &stubSearcher{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Source:     SourcePostgres,
		Sectors:    []string{"ANALYTICS"},
		RemoteOnly: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, "l3", output.Internships[0].ID)
}

func TestExecute_LimitClamp(t *testing.T) {
	store := &stubStore{}
	handler := NewHandler(createTestConfig(), store, &stubSearcher{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Source: SourcePostgres,
		Limit:  100000,
	})

	assert.NoError(t, err)
	assert.NotNil(t, output.Internships)
	assert.Equal(t, 0, output.Count)
}

// ==========================================
// Error Handling Tests
// ==========================================

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       *Input
		storeErr    error
		searchErr   error
		expectedErr error
	}{
		{
			name:        "unknown source",
			input:       &Input{Source: "mongodb"},
			expectedErr: ErrInvalidSource,
		},
		{
			name:        "postgres failure",
			input:       &Input{Source: SourcePostgres},
			storeErr:    errors.New("connection refused"),
			expectedErr: ErrQueryFailed,
		},
		{
			name:        "elasticsearch failure",
			input:       &Input{Source: SourceElasticsearch},
			searchErr:   errors.New("index unavailable"),
			expectedErr: ErrSearchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{err: tt.storeErr}
			searcher := &stubSearcher{err: tt.searchErr}
			handler := NewHandler(createTestConfig(), store, searcher, logger.NewTestLogger(t))

			output, err := handler.Execute(context.Background(), tt.input)

			assert.Nil(t, output)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestExecute_NilInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), &stubStore{}, &stubSearcher{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), nil)

	assert.Nil(t, output)
	assert.Error(t, err)
}

func TestMapErrorToCode(t *testing.T) {
	handler := NewHandler(createTestConfig(), &stubStore{}, &stubSearcher{}, logger.NewNoOpLogger())

	assert.Equal(t, "QUERY_TIMEOUT", handler.mapErrorToCode(ErrQueryTimeout))
	assert.Equal(t, "INVALID_SOURCE", handler.mapErrorToCode(ErrInvalidSource))
	assert.Equal(t, "SEARCH_FAILED", handler.mapErrorToCode(ErrSearchFailed))
	assert.Equal(t, "QUERY_FAILED", handler.mapErrorToCode(ErrQueryFailed))
	assert.Equal(t, "UNKNOWN_ERROR", handler.mapErrorToCode(errors.New("other")))

	assert.Equal(t, int32(2), handler.getRetryCount(ErrQueryFailed))
	assert.Equal(t, int32(0), handler.getRetryCount(ErrInvalidSource))
}
