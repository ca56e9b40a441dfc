// internal/workers/communication/notify-candidate/handler.go
package notifycandidate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-candidate"
)

var (
	ErrNilInput           = errors.New("input cannot be nil")
	ErrMissingCandidateID = errors.New("candidateId is required")
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Handler{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
	}, nil
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
		h.failJob(client, job, "NOTIFICATION_SEND_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.CandidateID == "" {
		return nil, ErrMissingCandidateID
	}

	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	if len(input.Recommendations) == 0 {
		h.logger.Info("no recommendations to deliver", map[string]interface{}{
			"candidateId": input.CandidateID,
		})
		return &Output{
			NotificationID: notificationID,
			Status:         StatusDisabled,
			SentAt:         sentAt,
		}, nil
	}

	emailSent := false
	smsSent := false

	if h.config.EmailEnabled && input.Email != "" {
		subject, body := h.buildDigest(input)
		if err := h.sendEmail(ctx, input.Email, subject, body); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error":       err,
				"candidateId": input.CandidateID,
			})
			return &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		emailSent = true
	}

	// SMS is reserved for strong matches to keep the channel low noise.
	best := input.Recommendations[0]
	if h.config.SMSEnabled && input.Phone != "" && best.Score >= h.config.MinScoreForSMS {
		if err := h.sendSMS(ctx, input.Phone, h.buildSMS(&best)); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error":       err,
				"candidateId": input.CandidateID,
			})
			return &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt, EmailSent: emailSent}, nil
		}
		smsSent = true
	}

	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusSent
	}

	h.logger.Info("notification delivered", map[string]interface{}{
		"candidateId": input.CandidateID,
		"status":      status,
		"emailSent":   emailSent,
		"smsSent":     smsSent,
	})

	return &Output{
		NotificationID: notificationID,
		Status:         status,
		EmailSent:      emailSent,
		SMSSent:        smsSent,
		SentAt:         sentAt,
	}, nil
}

func (h *Handler) buildDigest(input *Input) (string, string) {
	name := input.CandidateName
	if name == "" {
		name = "there"
	}

	count := len(input.Recommendations)
	if h.config.MaxDigestItems > 0 && count > h.config.MaxDigestItems {
		count = h.config.MaxDigestItems
	}

	subject := fmt.Sprintf("%d internship matches picked for you", count)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nHere are your top internship matches:\n\n", name)
	for i, rec := range input.Recommendations[:count] {
		fmt.Fprintf(&b, "%d. %s (%s) - match score %.0f\n", i+1, rec.Internship.Title, rec.Internship.Sector, rec.Score)
		for _, reason := range rec.MatchReasons {
			fmt.Fprintf(&b, "   - %s\n", reason)
		}
		fmt.Fprintf(&b, "   Apply by %s\n\n", rec.Internship.Deadline.Format("02 Jan 2006"))
	}
	b.WriteString("Log in to view details and apply.\n")

	return subject, b.String()
}

func (h *Handler) buildSMS(best *models.RecommendationMatch) string {
	return fmt.Sprintf("Top internship match for you: %s (%s), score %.0f. Apply by %s.",
		best.Internship.Title, best.Internship.Sector, best.Score,
		best.Internship.Deadline.Format("02 Jan"))
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
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
