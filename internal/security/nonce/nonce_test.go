package nonce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestService_IssueAndVerify(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService([]byte("secret"), 24*time.Hour, WithClock(fixedClock(now)))

	token := svc.Issue(ScopeOrderExport, "sess-1")
	assert.Len(t, token, tokenLen)
	assert.True(t, svc.Verify(token, ScopeOrderExport, "sess-1"))
}

func TestService_RejectsEmptyToken(t *testing.T) {
	svc := NewService([]byte("secret"), 24*time.Hour)

	assert.False(t, svc.Verify("", ScopeOrderExport, "sess-1"))
}

func TestService_RejectsWrongScopeOrSession(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService([]byte("secret"), 24*time.Hour, WithClock(fixedClock(now)))

	token := svc.Issue(ScopeOrderExport, "sess-1")

	assert.False(t, svc.Verify(token, "other_action", "sess-1"))
	assert.False(t, svc.Verify(token, ScopeOrderExport, "sess-2"))
}

func TestService_AcceptsPreviousTick(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := issued

	svc := NewService([]byte("secret"), 24*time.Hour, WithClock(func() time.Time { return now }))
	token := svc.Issue(ScopeOrderExport, "sess-1")

	// One tick later the token still verifies; two ticks later it dies.
	now = issued.Add(12 * time.Hour)
	assert.True(t, svc.Verify(token, ScopeOrderExport, "sess-1"))

	now = issued.Add(24 * time.Hour)
	assert.False(t, svc.Verify(token, ScopeOrderExport, "sess-1"))
}

func TestService_DifferentSecretsDiffer(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := NewService([]byte("secret-a"), 24*time.Hour, WithClock(fixedClock(now)))
	b := NewService([]byte("secret-b"), 24*time.Hour, WithClock(fixedClock(now)))

	token := a.Issue(ScopeOrderExport, "sess-1")
	assert.False(t, b.Verify(token, ScopeOrderExport, "sess-1"))
}
