package cache

import (
	"sync"
	"time"

	"github.com/getmentor/engineer-form/internal/form"
	"github.com/getmentor/engineer-form/pkg/logger"
	"github.com/getmentor/engineer-form/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const sessionsCacheName = "sessions"

// SessionCache holds the live form sessions. Each lookup extends a session's
// lifetime by ttl; idle sessions are evicted and closed.
type SessionCache struct {
	cache *gocache.Cache
	ttl   time.Duration
	mu    sync.Mutex
}

// NewSessionCache creates a session cache. A cleanupInterval of zero
// disables the background janitor; Sweep then evicts expired sessions.
func NewSessionCache(ttl, cleanupInterval time.Duration) *SessionCache {
	c := gocache.New(ttl, cleanupInterval)
	c.OnEvicted(func(id string, value interface{}) {
		session, ok := value.(*form.Session)
		if !ok {
			logger.Error("Invalid session cache data type", zap.String("session_id", id))
			return
		}
		session.Close()
		logger.Debug("Form session evicted", zap.String("session_id", id))
	})

	return &SessionCache{cache: c, ttl: ttl}
}

// Get returns the live session id and refreshes its expiration
func (sc *SessionCache) Get(id string) (*form.Session, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.getLocked(id)
}

// GetOrOpen returns the live session id, or stores the one open returns.
// open runs at most once per missing id.
func (sc *SessionCache) GetOrOpen(id string, open func() *form.Session) (*form.Session, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if session, ok := sc.getLocked(id); ok && !session.Closed() {
		return session, true
	}

	session := open()
	// An expired or already closed entry may still be held; Delete closes it
	// before it is replaced.
	sc.cache.Delete(id)
	sc.cache.Set(id, session, sc.ttl)
	sc.updateSize()
	return session, false
}

func (sc *SessionCache) getLocked(id string) (*form.Session, bool) {
	data, found := sc.cache.Get(id)
	if !found {
		metrics.CacheMisses.WithLabelValues(sessionsCacheName).Inc()
		return nil, false
	}
	session, ok := data.(*form.Session)
	if !ok {
		logger.Error("Invalid session cache data type", zap.String("session_id", id))
		sc.cache.Delete(id)
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(sessionsCacheName).Inc()
	sc.cache.Set(id, session, sc.ttl)
	return session, true
}

// Remove evicts and closes the session id
func (sc *SessionCache) Remove(id string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache.Delete(id)
	sc.updateSize()
}

// Sweep evicts and closes every expired session
func (sc *SessionCache) Sweep() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache.DeleteExpired()
	sc.updateSize()
}

// Count returns the number of held sessions, expired ones included
func (sc *SessionCache) Count() int {
	return sc.cache.ItemCount()
}

// Close evicts and closes every session
func (sc *SessionCache) Close() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache.DeleteExpired()
	for id := range sc.cache.Items() {
		sc.cache.Delete(id)
	}
	sc.updateSize()
}

func (sc *SessionCache) updateSize() {
	n := sc.cache.ItemCount()
	metrics.ActiveSessions.Set(float64(n))
	metrics.CacheSize.WithLabelValues(sessionsCacheName).Set(float64(n))
}
