// internal/workers/recommendation/generate-recommendations/handler.go
package generaterecommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/common/metrics"
	"internship-match-workers/internal/models"
	"internship-match-workers/internal/recommend"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "generate-recommendations"
)

var (
	ErrNilInput       = errors.New("input cannot be nil")
	ErrMissingProfile = errors.New("profile or profileId is required")
)

// ProfileStore resolves a profile identifier before ranking.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.CandidateProfile, error)
}

// ListingStore supplies the candidate pool when the job does not
// carry listings inline.
type ListingStore interface {
	ListOpen(ctx context.Context, now time.Time, limit int) ([]models.InternshipListing, error)
}

type Handler struct {
	config   *Config
	profiles ProfileStore
	listings ListingStore
	oracle   recommend.Oracle
	logger   logger.Logger
}

func NewHandler(config *Config, profiles ProfileStore, listings ListingStore, oracle recommend.Oracle, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		profiles: profiles,
		listings: listings,
		oracle:   oracle,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, "PARSE_ERROR").Inc()
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "RECOMMENDATION_FAILED"
		if errors.Is(err, ErrMissingProfile) {
			errorCode = "MISSING_PROFILE"
		}
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
		h.failJob(client, job, errorCode, err.Error())
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.completeJob(client, job, output)
}

// trackingOracle records whether the engine actually consulted the
// oracle and got a usable answer, so the output can report aiApplied.
type trackingOracle struct {
	inner   recommend.Oracle
	applied bool
}

func (t *trackingOracle) Rerank(ctx context.Context, candidate *models.CandidateProfile, items []recommend.RerankItem) ([]recommend.RerankResult, error) {
	results, err := t.inner.Rerank(ctx, candidate, items)
	if err == nil && len(results) > 0 {
		t.applied = true
	}
	return results, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	start := time.Now()

	profile, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}
	if !profile.EducationLevel.Valid() {
		// Unknown levels rank lowest downstream; worth a trace here.
		h.logger.Warn("unrecognized education level", map[string]interface{}{
			"profileId":      profile.ID,
			"educationLevel": string(profile.EducationLevel),
		})
	}

	now := time.Now()
	listings := input.Listings
	if len(listings) == 0 && h.listings != nil {
		listings, err = h.listings.ListOpen(ctx, now, h.config.MaxListings)
		if err != nil {
			return nil, fmt.Errorf("load listings: %w", err)
		}
	}

	opts := recommend.Options{
		TopN: h.config.TopN,
		TopK: h.config.TopK,
		Now:  now,
	}
	if input.TopN > 0 {
		opts.TopN = input.TopN
	}

	var tracker *trackingOracle
	if input.UseAI && h.oracle != nil {
		tracker = &trackingOracle{inner: h.oracle}
		opts.Oracle = tracker
	}

	matches := recommend.Recommend(ctx, profile, listings, opts)
	metrics.RecommendationPoolSize.Observe(float64(len(listings)))

	duration := time.Since(start).Milliseconds()
	aiApplied := tracker != nil && tracker.applied
	if tracker != nil {
		outcome := "applied"
		if !tracker.applied {
			outcome = "skipped"
		}
		metrics.OracleReranks.WithLabelValues(outcome).Inc()
	}
	h.logger.Info("recommendations generated", map[string]interface{}{
		"profileId":  profile.ID,
		"poolSize":   len(listings),
		"matchCount": len(matches),
		"aiApplied":  aiApplied,
		"durationMs": duration,
	})
	if duration > 500 {
		h.logger.Warn("recommendation generation exceeded 500ms", map[string]interface{}{
			"durationMs": duration,
		})
	}

	return &Output{
		Recommendations: matches,
		Count:           len(matches),
		BatchID:         uuid.New().String(),
		GeneratedAt:     now.UTC().Format(time.RFC3339),
		AIApplied:       aiApplied,
	}, nil
}

func (h *Handler) resolveProfile(ctx context.Context, input *Input) (*models.CandidateProfile, error) {
	if input.Profile != nil {
		return input.Profile, nil
	}
	if input.ProfileID != "" && h.profiles != nil {
		profile, err := h.profiles.GetProfile(ctx, input.ProfileID)
		if err != nil {
			return nil, fmt.Errorf("resolve profile %s: %w", input.ProfileID, err)
		}
		return profile, nil
	}
	return nil, ErrMissingProfile
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
