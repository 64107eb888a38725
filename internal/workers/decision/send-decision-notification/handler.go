// internal/workers/decision/send-decision-notification/handler.go
package senddecisionnotification

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	commonerrors "algolend-workers/internal/common/errors"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/common/metrics"
	"algolend-workers/internal/models"
)

const (
	TaskType = "send-decision-notification"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config       *Config
	db           *sql.DB
	sesClient    SESService
	snsClient    SNSService
	logger       logger.Logger
	errorHandler *commonerrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
		sesClient:    sesClient,
		snsClient:    snsClient,
		logger:       scoped,
		errorHandler: commonerrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, commonerrors.NewParseError(err))
		metrics.RecordJobFailure(TaskType, time.Since(started))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		metrics.RecordJobFailure(TaskType, time.Since(started))
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.RecordJobSuccess(TaskType, time.Since(started))
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	// Recipient contact normally travels with the workflow; fall back to
	// the application record when the variables carry none.
	if input.RecipientEmail == "" && input.RecipientPhone == "" && input.ApplicationID != "" {
		email, phone, err := h.getRecipientContact(ctx, input.ApplicationID)
		if err != nil {
			h.logger.Warn("recipient lookup failed", map[string]interface{}{
				"applicationId": input.ApplicationID,
				"error":         err.Error(),
			})
		} else {
			input.RecipientEmail = email
			input.RecipientPhone = phone
		}
	}

	subject, body := h.composeMessage(input)

	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)
	emailSent := false
	smsSent := false

	if h.config.EmailEnabled && input.RecipientEmail != "" {
		if err := h.sendEmail(ctx, input.RecipientEmail, subject, body); err != nil {
			return nil, commonerrors.NewNotificationSendFailedError(err)
		}
		emailSent = true
	}

	// SMS only carries the short outcome line, and only for terminal bands
	if h.config.SMSEnabled && input.RecipientPhone != "" && input.Recommendation != models.RecommendationRefer {
		if err := h.sendSMS(ctx, input.RecipientPhone, subject); err != nil {
			return nil, commonerrors.NewNotificationSendFailedError(err)
		}
		smsSent = true
	}

	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusSent
	}

	h.logger.Info("decision notification processed", map[string]interface{}{
		"notificationId": notificationID,
		"status":         status,
		"emailSent":      emailSent,
		"smsSent":        smsSent,
	})

	return &Output{
		NotificationID: notificationID,
		Status:         status,
		EmailSent:      emailSent,
		SMSSent:        smsSent,
		SentAt:         sentAt,
		CorrelationID:  input.CorrelationID,
	}, nil
}

func (h *Handler) composeMessage(input *Input) (subject, body string) {
	name := input.Forename
	if name == "" {
		name = "there"
	}

	var b strings.Builder
	switch input.Recommendation {
	case models.RecommendationApprove:
		subject = "Your credit application has been approved"
		fmt.Fprintf(&b, "Hi %s,\n\nGood news: your application has been approved.\n", name)
	case models.RecommendationRefer:
		subject = "Your credit application is under review"
		fmt.Fprintf(&b, "Hi %s,\n\nYour application needs a manual review. We will be in touch shortly.\n", name)
	default:
		subject = "Your credit application outcome"
		fmt.Fprintf(&b, "Hi %s,\n\nUnfortunately we could not approve your application at this time.\n", name)
	}

	if len(input.ReasonCodes) > 0 {
		b.WriteString("\nFactors that affected the outcome:\n")
		for _, reason := range input.ReasonCodes {
			fmt.Fprintf(&b, "  - %s\n", reason)
		}
	}
	fmt.Fprintf(&b, "\nReference: %s\n", input.CorrelationID)

	return subject, b.String()
}

func (h *Handler) getRecipientContact(ctx context.Context, applicationID string) (string, string, error) {
	if h.db == nil {
		return "", "", fmt.Errorf("no application store configured")
	}
	var email, phone string
	err := h.db.QueryRowContext(ctx,
		`SELECT email, phone FROM applications WHERE id = $1`, applicationID,
	).Scan(&email, &phone)
	return email, phone, err
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
		Source: aws.String(h.config.SenderEmail),
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

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
	}
}
