package service

import (
	"context"
	"encoding/json"

	"consultation-be/internal/pkg/logger"
	"consultation-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// INotificationDispatcher is the fire-and-forget notification edge used by
// the lifecycle and feedback services.
type INotificationDispatcher interface {
	Notify(recipient, subject, body string)
}

type emailJob struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// NotificationDispatcher queues email jobs on a watermill gochannel topic and
// drains them with a single consumer that calls the mailer.
type NotificationDispatcher struct {
	pubSub   *gochannel.GoChannel
	topic    string
	notifier mailer.INotifier
	logger   logger.ILogger
}

func NewNotificationDispatcher(pubSub *gochannel.GoChannel, topic string, notifier mailer.INotifier, log logger.ILogger) *NotificationDispatcher {
	return &NotificationDispatcher{
		pubSub:   pubSub,
		topic:    topic,
		notifier: notifier,
		logger:   log,
	}
}

func (d *NotificationDispatcher) Notify(recipient, subject, body string) {
	if recipient == "" {
		return
	}
	payload, err := json.Marshal(emailJob{Recipient: recipient, Subject: subject, Body: body})
	if err != nil {
		d.logger.Warn("NotificationDispatcher", "Failed to encode email job", map[string]interface{}{"error": err})
		return
	}
	if err := d.pubSub.Publish(d.topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		d.logger.Warn("NotificationDispatcher", "Failed to queue email job", map[string]interface{}{
			"recipient": recipient,
			"error":     err,
		})
	}
}

// Consume starts the delivery loop. It returns once subscribed; the loop ends
// when ctx is cancelled or the pubsub is closed.
func (d *NotificationDispatcher) Consume(ctx context.Context) error {
	messages, err := d.pubSub.Subscribe(ctx, d.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			d.deliver(msg)
		}
	}()
	return nil
}

// deliver always acks: a failed email is logged and dropped.
func (d *NotificationDispatcher) deliver(msg *message.Message) {
	defer msg.Ack()

	var job emailJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		d.logger.Warn("NotificationDispatcher", "Dropping malformed email job", map[string]interface{}{"error": err})
		return
	}
	if err := d.notifier.Notify(job.Recipient, job.Subject, job.Body); err != nil {
		d.logger.Warn("NotificationDispatcher", "Email delivery failed", map[string]interface{}{
			"recipient": job.Recipient,
			"subject":   job.Subject,
			"error":     err,
		})
		return
	}
	d.logger.Debug("NotificationDispatcher", "Email delivered", map[string]interface{}{"recipient": job.Recipient})
}
