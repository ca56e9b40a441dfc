// internal/workers/recommendation/validate-profile/handler.go
package validateprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const (
	TaskType = "validate-profile"
)

var (
	ErrNilInput       = errors.New("input cannot be nil")
	ErrMissingProfile = errors.New("profile payload is required")
)

// profileSchema is the boundary contract for external profile JSON.
// Everything entering the ranking engine passes through it first.
const profileSchema = `{
	"type": "object",
	"required": ["name", "educationLevel", "skills"],
	"properties": {
		"id": {"type": "string"},
		"name": {"type": "string", "minLength": 1},
		"educationLevel": {
			"type": "string",
			"enum": ["TENTH_PLUS_TWO", "DIPLOMA", "UNDERGRADUATE", "POSTGRADUATE"]
		},
		"major": {"type": "string"},
		"stream": {"type": "string"},
		"skills": {"type": "array", "items": {"type": "string"}},
		"sectorInterests": {"type": "array", "items": {"type": "string"}},
		"preferredLocations": {"type": "array", "items": {"type": "string"}},
		"residencyPin": {"type": "string", "pattern": "^[0-9]*$"},
		"ruralFlag": {"type": "boolean"}
	}
}`

type Handler struct {
	config *Config
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(profileSchema))
	if err != nil {
		// The schema is a compile-time constant; failing to parse it
		// is a programming error.
		panic(fmt.Sprintf("invalid profile schema: %v", err))
	}

	return &Handler{
		config: config,
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "PROFILE_VALIDATION_FAILED", err.Error())
		return
	}

	if !output.Valid {
		fields := make([]string, 0, len(output.ValidationErrors))
		for _, ve := range output.ValidationErrors {
			fields = append(fields, ve.Field)
		}
		h.failJob(client, job, "INVALID_PROFILE", fmt.Sprintf("invalid profile fields: %s", strings.Join(fields, ", ")))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if len(input.Profile) == 0 {
		return nil, ErrMissingProfile
	}

	result, err := h.schema.Validate(gojsonschema.NewBytesLoader(input.Profile))
	if err != nil {
		return nil, fmt.Errorf("validate profile: %w", err)
	}

	if !result.Valid() {
		var validationErrors []ValidationError
		for _, desc := range result.Errors() {
			validationErrors = append(validationErrors, ValidationError{
				Field:   desc.Field(),
				Message: desc.Description(),
			})
		}
		h.logger.Warn("profile rejected", map[string]interface{}{
			"errorCount": len(validationErrors),
		})
		return &Output{Valid: false, ValidationErrors: validationErrors}, nil
	}

	var profile models.CandidateProfile
	if err := json.Unmarshal(input.Profile, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	normalizeProfile(&profile)

	h.logger.Info("profile validated", map[string]interface{}{
		"profileId":  profile.ID,
		"skillCount": len(profile.Skills),
	})

	return &Output{
		Valid:            true,
		Profile:          &profile,
		ValidationErrors: []ValidationError{},
	}, nil
}

// normalizeProfile trims whitespace and drops case-insensitive
// duplicate skills, keeping the first spelling seen.
func normalizeProfile(p *models.CandidateProfile) {
	p.Name = strings.TrimSpace(p.Name)
	p.Major = strings.TrimSpace(p.Major)
	p.Stream = strings.TrimSpace(p.Stream)
	p.ResidencyPin = strings.TrimSpace(p.ResidencyPin)

	p.Skills = dedupe(p.Skills)
	p.SectorInterests = dedupe(p.SectorInterests)
	p.PreferredLocations = dedupe(p.PreferredLocations)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
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
