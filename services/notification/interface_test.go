package notification

import (
	"context"
	"errors"
	"testing"

	"cleaningmanager/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []*messaging.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, m)
	return "projects/p/messages/1", nil
}

func assigned() models.CleaningAssignment {
	id, name := "c1", "Sarah"
	return models.CleaningAssignment{
		ID:                  "2025-03-21_bk1",
		OriginalBookingDate: "2025-03-21",
		CurrentCleaningDate: "2025-03-22",
		BookingID:           "bk1",
		GuestName:           "Jones",
		CleanerID:           &id,
		CleanerName:         &name,
	}
}

func TestNotifyCleanerAssignedTargetsCleanerTopic(t *testing.T) {
	sender := &recordingSender{}
	svc, err := NewDefaultNotificationService(sender, nil)
	require.NoError(t, err)

	require.NoError(t, svc.NotifyCleanerAssigned(context.Background(), assigned()))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "cleaner-c1", msg.Topic)
	assert.Equal(t, models.NotificationCleanerAssigned, msg.Data["type"])
	assert.Equal(t, "2025-03-22", msg.Data["date"])
	assert.Contains(t, msg.Notification.Body, "Jones")
}

func TestNotifyCleanerAssignedWithoutCleanerSendsNothing(t *testing.T) {
	sender := &recordingSender{}
	svc, err := NewDefaultNotificationService(sender, nil)
	require.NoError(t, err)

	a := assigned()
	a.CleanerID, a.CleanerName = nil, nil
	require.NoError(t, svc.NotifyCleanerAssigned(context.Background(), a))
	assert.Empty(t, sender.sent)
}

func TestNotifyCleanerUnassignedWrapsSendError(t *testing.T) {
	cause := errors.New("quota exceeded")
	svc, err := NewDefaultNotificationService(&recordingSender{err: cause}, nil)
	require.NoError(t, err)

	err = svc.NotifyCleanerUnassigned(context.Background(), assigned(), "c1")
	assert.ErrorIs(t, err, cause)
}

func TestNewDefaultNotificationServiceRequiresSender(t *testing.T) {
	_, err := NewDefaultNotificationService(nil, nil)
	assert.Error(t, err)
}
