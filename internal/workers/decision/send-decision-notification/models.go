// internal/workers/decision/send-decision-notification/models.go
package senddecisionnotification

const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
)

type Input struct {
	ApplicationID   string   `json:"applicationId"`
	CorrelationID   string   `json:"correlationId"`
	Recommendation  string   `json:"recommendation"`
	NormalizedScore float64  `json:"normalizedScore"`
	ReasonCodes     []string `json:"reasonCodes"`
	RecipientEmail  string   `json:"recipientEmail,omitempty"`
	RecipientPhone  string   `json:"recipientPhone,omitempty"`
	Forename        string   `json:"forename,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	EmailSent      bool   `json:"emailSent"`
	SMSSent        bool   `json:"smsSent"`
	SentAt         string `json:"sentAt"`
	CorrelationID  string `json:"correlationId"`
}
