package form

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/getmentor/engineer-form/pkg/logger"
	"github.com/getmentor/engineer-form/pkg/metrics"
	"go.uber.org/zap"
)

// EmailPhase is the state of the asynchronous email check
type EmailPhase int

const (
	EmailIdle EmailPhase = iota
	EmailChecking
	EmailResolved
)

func (p EmailPhase) String() string {
	switch p {
	case EmailChecking:
		return "checking"
	case EmailResolved:
		return "resolved"
	default:
		return "idle"
	}
}

// EmailStatus is the latest known result of the email check. Message is nil
// when the address is available.
type EmailStatus struct {
	Phase     EmailPhase
	Message   *string
	RequestID uint64
}

// EmailLookup answers whether an address is already registered
type EmailLookup interface {
	IsTaken(ctx context.Context, email string) (bool, error)
}

// DefaultReservedEmail is always reported as taken
const DefaultReservedEmail = "test@test.test"

// ReservedEmails is an EmailLookup over a fixed set of taken addresses
type ReservedEmails struct {
	taken map[string]struct{}
}

// NewReservedEmails builds a lookup that reports DefaultReservedEmail and the
// given addresses as taken
func NewReservedEmails(emails ...string) *ReservedEmails {
	r := &ReservedEmails{taken: map[string]struct{}{DefaultReservedEmail: {}}}
	for _, e := range emails {
		if e = strings.TrimSpace(e); e != "" {
			r.taken[e] = struct{}{}
		}
	}
	return r
}

func (r *ReservedEmails) IsTaken(_ context.Context, email string) (bool, error) {
	_, ok := r.taken[email]
	return ok, nil
}

// EmailChecker runs one simulated round trip per email edit. Starting a new
// check cancels the one in flight, so only the latest edit can report.
type EmailChecker struct {
	lookup EmailLookup
	delay  time.Duration

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// NewEmailChecker creates a checker that waits delay before asking lookup
func NewEmailChecker(lookup EmailLookup, delay time.Duration) *EmailChecker {
	return &EmailChecker{lookup: lookup, delay: delay}
}

// Start supersedes any in-flight check and begins a new one for email.
// onResult is called from the check goroutine with the request id and the
// conflict message (nil when available), unless the check was cancelled.
func (c *EmailChecker) Start(email string, onResult func(id uint64, message *string)) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	id := c.seq
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.closed {
		return id
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	go c.run(ctx, id, email, onResult)
	return id
}

func (c *EmailChecker) run(ctx context.Context, id uint64, email string, onResult func(uint64, *string)) {
	defer c.wg.Done()

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		metrics.EmailChecks.WithLabelValues("superseded").Inc()
		return
	case <-timer.C:
	}

	taken, err := c.lookup.IsTaken(ctx, email)
	if ctx.Err() != nil {
		metrics.EmailChecks.WithLabelValues("superseded").Inc()
		return
	}

	var message *string
	switch {
	case err != nil:
		logger.Warn("Email availability lookup failed", zap.Uint64("request_id", id), zap.Error(err))
		metrics.EmailChecks.WithLabelValues("error").Inc()
		msg := MsgEmailCheckFailed
		message = &msg
	case taken:
		metrics.EmailChecks.WithLabelValues("taken").Inc()
		msg := MsgEmailTaken
		message = &msg
	default:
		metrics.EmailChecks.WithLabelValues("available").Inc()
	}

	onResult(id, message)
}

// Cancel stops the in-flight check, if any, and invalidates its id
func (c *EmailChecker) Cancel() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return c.seq
}

// Close cancels the in-flight check and waits for its goroutine to exit.
// Callers must not hold a lock that onResult needs.
func (c *EmailChecker) Close() {
	c.mu.Lock()
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}
