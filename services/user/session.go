package user

import (
	"context"
	"sync"
	"time"

	"cleaningmanager/models"
	"cleaningmanager/utils"

	"github.com/go-redis/redis/v8"
)

// Session is the authenticated caller threaded through a request.
type Session struct {
	UID  string      `json:"uid"`
	User models.User `json:"user"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.User.IsAdmin()
}

type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
	SessionRestored  SessionEventType = "restored"
)

type SessionEvent struct {
	Type SessionEventType
	UID  string
	At   time.Time
}

// SessionNotifier fans session events out to subscribers. Listeners run
// synchronously on the publishing goroutine.
type SessionNotifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(SessionEvent)
}

func NewSessionNotifier() *SessionNotifier {
	return &SessionNotifier{listeners: make(map[int]func(SessionEvent))}
}

// Subscribe registers listener and returns a func that removes it. The
// returned func may be called more than once.
func (n *SessionNotifier) Subscribe(listener func(SessionEvent)) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = listener
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

func (n *SessionNotifier) Publish(event SessionEvent) {
	n.mu.Lock()
	listeners := make([]func(SessionEvent), 0, len(n.listeners))
	for _, l := range n.listeners {
		listeners = append(listeners, l)
	}
	n.mu.Unlock()

	for _, l := range listeners {
		l(event)
	}
}

// SessionCache holds restored profiles so token checks skip the store.
type SessionCache interface {
	Get(ctx context.Context, uid string) (*models.User, bool, error)
	Put(ctx context.Context, u models.User) error
	Drop(ctx context.Context, uid string) error
}

// RedisSessionCache stores profiles under auth:<uid>.
type RedisSessionCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionCache(client *redis.Client, ttl time.Duration) *RedisSessionCache {
	return &RedisSessionCache{Client: client, TTL: ttl}
}

func (c *RedisSessionCache) Get(ctx context.Context, uid string) (*models.User, bool, error) {
	var u models.User
	found, err := utils.GetAuthSession(ctx, c.Client, uid, &u)
	if err != nil || !found {
		return nil, false, err
	}
	return &u, true, nil
}

func (c *RedisSessionCache) Put(ctx context.Context, u models.User) error {
	return utils.SaveAuthSession(ctx, c.Client, u.ID, u, c.TTL)
}

func (c *RedisSessionCache) Drop(ctx context.Context, uid string) error {
	return utils.DeleteAuthSession(ctx, c.Client, uid)
}
