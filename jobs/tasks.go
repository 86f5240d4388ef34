// Package jobs hosts the asynq task definitions, the background worker and
// the queue client.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/shinshu-solutions/shinshu-web/internal/messages"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeSessionSweep is the task type for purging expired sessions.
	TaskTypeSessionSweep = "session:sweep"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an asynq task carrying the email payload.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewSessionSweepTask constructs the parameterless sweep task.
func NewSessionSweepTask() *asynq.Task {
	return asynq.NewTask(TaskTypeSessionSweep, nil)
}

// NewSendEmailHandler returns the handler processing TaskTypeSendEmail tasks.
func NewSendEmailHandler(mailer *Mailer, logger *slog.Logger) asynq.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := mailer.Send(payload.To, payload.Subject, payload.Body); err != nil {
			logger.Warn("send email", slog.String("to", payload.To), slog.Any("error", err))
			return err
		}
		return nil
	}
}

// ContactNotifier enqueues a notification email for new contact messages.
// It satisfies messages.Notifier.
type ContactNotifier struct {
	client *Client
	to     string
}

// NewContactNotifier constructs a ContactNotifier sending to the given inbox.
func NewContactNotifier(client *Client, to string) *ContactNotifier {
	return &ContactNotifier{client: client, to: to}
}

// NotifyContact enqueues a mail:send task for the submitted message.
func (n *ContactNotifier) NotifyContact(ctx context.Context, msg *messages.Message) error {
	subject := msg.Subject
	if subject == "" {
		subject = "New contact message"
	}
	body := fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Body)
	_, err := n.client.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      n.to,
		Subject: subject,
		Body:    body,
	})
	return err
}

var _ messages.Notifier = (*ContactNotifier)(nil)
