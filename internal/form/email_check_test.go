package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedResult struct {
	id      uint64
	message *string
}

type resultRecorder struct {
	mu      sync.Mutex
	results []recordedResult
}

func (r *resultRecorder) record(id uint64, message *string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, recordedResult{id: id, message: message})
}

func (r *resultRecorder) all() []recordedResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedResult(nil), r.results...)
}

type erroringLookup struct{}

func (erroringLookup) IsTaken(context.Context, string) (bool, error) {
	return false, errors.New("lookup unavailable")
}

func TestReservedEmails(t *testing.T) {
	lookup := NewReservedEmails(" test@test.test ", "")

	taken, err := lookup.IsTaken(context.Background(), "test@test.test")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = lookup.IsTaken(context.Background(), "john.doe@example.com")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestReservedEmails_SentinelAlwaysTaken(t *testing.T) {
	for _, lookup := range []*ReservedEmails{NewReservedEmails(), NewReservedEmails("", "  "), NewReservedEmails("admin@example.com")} {
		taken, err := lookup.IsTaken(context.Background(), DefaultReservedEmail)
		require.NoError(t, err)
		assert.True(t, taken)
	}

	taken, err := NewReservedEmails("admin@example.com").IsTaken(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestEmailChecker_ResolvesAfterDelay(t *testing.T) {
	checker := NewEmailChecker(NewReservedEmails("test@test.test"), 5*time.Millisecond)
	defer checker.Close()
	rec := &resultRecorder{}

	id := checker.Start("test@test.test", rec.record)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, time.Millisecond)
	got := rec.all()[0]
	assert.Equal(t, id, got.id)
	require.NotNil(t, got.message)
	assert.Equal(t, MsgEmailTaken, *got.message)
}

func TestEmailChecker_AvailableResolvesToNil(t *testing.T) {
	checker := NewEmailChecker(NewReservedEmails("test@test.test"), time.Millisecond)
	defer checker.Close()
	rec := &resultRecorder{}

	checker.Start("john.doe@example.com", rec.record)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, time.Millisecond)
	assert.Nil(t, rec.all()[0].message)
}

func TestEmailChecker_LookupErrorResolvesToMessage(t *testing.T) {
	checker := NewEmailChecker(erroringLookup{}, time.Millisecond)
	defer checker.Close()
	rec := &resultRecorder{}

	checker.Start("john.doe@example.com", rec.record)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, time.Millisecond)
	require.NotNil(t, rec.all()[0].message)
	assert.Equal(t, MsgEmailCheckFailed, *rec.all()[0].message)
}

func TestEmailChecker_NewCheckSupersedesInFlight(t *testing.T) {
	checker := NewEmailChecker(NewReservedEmails("test@test.test"), 50*time.Millisecond)
	defer checker.Close()
	rec := &resultRecorder{}

	first := checker.Start("test@test.test", rec.record)
	second := checker.Start("john.doe@example.com", rec.record)
	assert.Greater(t, second, first)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	results := rec.all()
	require.Len(t, results, 1)
	assert.Equal(t, second, results[0].id)
	assert.Nil(t, results[0].message)
}

func TestEmailChecker_CancelDropsResult(t *testing.T) {
	checker := NewEmailChecker(NewReservedEmails(), 20*time.Millisecond)
	rec := &resultRecorder{}

	first := checker.Start("john.doe@example.com", rec.record)
	cancelled := checker.Cancel()
	assert.Greater(t, cancelled, first)

	checker.Close()
	assert.Empty(t, rec.all())
}

func TestEmailChecker_StartAfterCloseDoesNothing(t *testing.T) {
	checker := NewEmailChecker(NewReservedEmails(), time.Millisecond)
	checker.Close()
	rec := &resultRecorder{}

	checker.Start("john.doe@example.com", rec.record)
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, rec.all())
}

func TestEmailPhase_String(t *testing.T) {
	assert.Equal(t, "idle", EmailIdle.String())
	assert.Equal(t, "checking", EmailChecking.String())
	assert.Equal(t, "resolved", EmailResolved.String())
}
