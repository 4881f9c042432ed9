package notification

import (
	"context"
	"fmt"

	"cleaningmanager/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService pushes assignment changes to the affected cleaner.
type NotificationService interface {
	NotifyCleanerAssigned(ctx context.Context, a models.CleaningAssignment) error
	NotifyCleanerUnassigned(ctx context.Context, a models.CleaningAssignment, cleanerID string) error
}

// Sender is satisfied by *messaging.Client.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// DefaultNotificationService sends FCM messages to per-cleaner topics.
type DefaultNotificationService struct {
	sender Sender
	logger *zap.Logger
}

func NewDefaultNotificationService(sender Sender, logger *zap.Logger) (*DefaultNotificationService, error) {
	if sender == nil {
		return nil, fmt.Errorf("notification service initialization error: sender is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{sender: sender, logger: logger}, nil
}

// CleanerTopic is the FCM topic a cleaner's devices subscribe to.
func CleanerTopic(cleanerID string) string {
	return "cleaner-" + cleanerID
}

func (s *DefaultNotificationService) NotifyCleanerAssigned(ctx context.Context, a models.CleaningAssignment) error {
	if a.CleanerID == nil {
		return nil
	}
	n := models.Notification{
		Topic: CleanerTopic(*a.CleanerID),
		Type:  models.NotificationCleanerAssigned,
		Title: "New cleaning assigned",
		Body:  fmt.Sprintf("You are cleaning after %s on %s.", guest(a), a.CleaningDate()),
		Data:  assignmentData(a),
	}
	return s.send(ctx, n)
}

func (s *DefaultNotificationService) NotifyCleanerUnassigned(ctx context.Context, a models.CleaningAssignment, cleanerID string) error {
	if cleanerID == "" {
		return nil
	}
	n := models.Notification{
		Topic: CleanerTopic(cleanerID),
		Type:  models.NotificationCleanerUnassigned,
		Title: "Cleaning unassigned",
		Body:  fmt.Sprintf("The cleaning after %s on %s is no longer yours.", guest(a), a.CleaningDate()),
		Data:  assignmentData(a),
	}
	return s.send(ctx, n)
}

func (s *DefaultNotificationService) send(ctx context.Context, n models.Notification) error {
	data := map[string]string{"type": n.Type}
	for k, v := range n.Data {
		data[k] = v
	}
	msg := &messaging.Message{
		Topic: n.Topic,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "assignments",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("send %s to %s: %w", n.Type, n.Topic, err)
	}
	s.logger.Debug("Push notification sent", zap.String("topic", n.Topic), zap.String("messageId", id))
	return nil
}

func assignmentData(a models.CleaningAssignment) map[string]string {
	return map[string]string{
		"assignmentId": a.ID,
		"bookingId":    a.BookingID,
		"date":         a.CleaningDate(),
	}
}

func guest(a models.CleaningAssignment) string {
	if a.GuestName == "" {
		return "checkout"
	}
	return a.GuestName
}

// NoopNotificationService is used when push notifications are disabled.
type NoopNotificationService struct{}

func (NoopNotificationService) NotifyCleanerAssigned(context.Context, models.CleaningAssignment) error {
	return nil
}

func (NoopNotificationService) NotifyCleanerUnassigned(context.Context, models.CleaningAssignment, string) error {
	return nil
}
