// internal/workers/data-access/query-internships/handler.go
package queryinternships

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/models"
	"internship-match-workers/internal/stores/internships"
)

const (
	TaskType = "query-internships"
)

var (
	ErrInvalidSource = errors.New("INVALID_SOURCE")
	ErrQueryFailed   = errors.New("QUERY_FAILED")
	ErrSearchFailed  = errors.New("SEARCH_FAILED")
	ErrQueryTimeout  = errors.New("QUERY_TIMEOUT")
)

// ListingStore pages open listings out of Postgres.
type ListingStore interface {
	ListOpen(ctx context.Context, now time.Time, limit int) ([]models.InternshipListing, error)
}

// ListingSearcher runs relevance queries against the search index.
type ListingSearcher interface {
	Search(ctx context.Context, q internships.SearchQuery) ([]models.InternshipListing, int64, error)
}

type Handler struct {
	config   *Config
	store    ListingStore
	searcher ListingSearcher
	logger   logger.Logger
}

func NewHandler(config *Config, store ListingStore, searcher ListingSearcher, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		store:    store,
		searcher: searcher,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, h.mapErrorToCode(err), err.Error(), h.getRetryCount(err))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	if limit > h.config.MaxLimit {
		limit = h.config.MaxLimit
	}

	source := input.Source
	if source == "" {
		// Keyword queries need relevance scoring, plain listing does not.
		if input.Keywords != "" {
			source = SourceElasticsearch
		} else {
			source = SourcePostgres
		}
	}

	start := time.Now()
	var (
		listings  []models.InternshipListing
		totalHits int64
		err       error
	)

	switch source {
	case SourcePostgres:
		listings, err = h.store.ListOpen(ctx, time.Now(), limit)
		if err == nil {
			listings = filterListings(listings, input)
			totalHits = int64(len(listings))
		}
	case SourceElasticsearch:
		listings, totalHits, err = h.searcher.Search(ctx, internships.SearchQuery{
			Keywords:   input.Keywords,
			Sectors:    input.Sectors,
			RemoteOnly: input.RemoteOnly,
			Now:        time.Now(),
			From:       input.Offset,
			Size:       limit,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidSource, input.Source)
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrQueryTimeout
		}
		if source == SourceElasticsearch {
			return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	h.logger.Info("query completed", map[string]interface{}{
		"source":     source,
		"count":      len(listings),
		"totalHits":  totalHits,
		"durationMs": time.Since(start).Milliseconds(),
	})

	if listings == nil {
		listings = []models.InternshipListing{}
	}

	return &Output{
		Internships: listings,
		Count:       len(listings),
		TotalHits:   totalHits,
		Source:      source,
	}, nil
}

// filterListings applies sector and remote filters in memory for the
// Postgres path, where ListOpen only constrains on activity and deadline.
func filterListings(listings []models.InternshipListing, input *Input) []models.InternshipListing {
	if len(input.Sectors) == 0 && !input.RemoteOnly {
		return listings
	}

	sectors := make(map[string]bool, len(input.Sectors))
	for _, s := range input.Sectors {
		sectors[strings.ToLower(s)] = true
	}

	out := make([]models.InternshipListing, 0, len(listings))
	for _, l := range listings {
		if input.RemoteOnly && !l.Remote {
			continue
		}
		if len(sectors) > 0 && !sectors[strings.ToLower(l.Sector)] {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) mapErrorToCode(err error) string {
	if errors.Is(err, ErrQueryTimeout) {
		return "QUERY_TIMEOUT"
	} else if errors.Is(err, ErrInvalidSource) {
		return "INVALID_SOURCE"
	} else if errors.Is(err, ErrSearchFailed) {
		return "SEARCH_FAILED"
	} else if errors.Is(err, ErrQueryFailed) {
		return "QUERY_FAILED"
	}
	return "UNKNOWN_ERROR"
}

func (h *Handler) getRetryCount(err error) int32 {
	if errors.Is(err, ErrQueryTimeout) || errors.Is(err, ErrSearchFailed) || errors.Is(err, ErrQueryFailed) {
		return 2
	}
	return 0
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
