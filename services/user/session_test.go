package user

import (
	"testing"

	"cleaningmanager/models"

	"github.com/stretchr/testify/assert"
)

func TestSessionNotifierUnsubscribe(t *testing.T) {
	n := NewSessionNotifier()
	var first, second []SessionEventType
	unsubscribe := n.Subscribe(func(e SessionEvent) { first = append(first, e.Type) })
	n.Subscribe(func(e SessionEvent) { second = append(second, e.Type) })

	n.Publish(SessionEvent{Type: SessionSignedIn, UID: "u1"})
	unsubscribe()
	unsubscribe()
	n.Publish(SessionEvent{Type: SessionSignedOut, UID: "u1"})

	assert.Equal(t, []SessionEventType{SessionSignedIn}, first)
	assert.Equal(t, []SessionEventType{SessionSignedIn, SessionSignedOut}, second)
}

func TestSessionIsAdmin(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.IsAdmin())
	assert.True(t, (&Session{User: models.User{Role: models.RoleAdmin}}).IsAdmin())
	assert.False(t, (&Session{User: models.User{Role: models.RoleCleaner}}).IsAdmin())
}
