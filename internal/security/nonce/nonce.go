package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ScopeOrderExport is the action scope of the export trigger form.
const ScopeOrderExport = "order_pdf_export"

// tokenLen is the number of hex characters kept from the MAC.
const tokenLen = 12

// Service issues and verifies anti-forgery tokens. A token is an HMAC
// over (tick, scope, session) truncated to tokenLen characters; the
// current and the previous tick both verify, so a form rendered just
// before rollover stays usable for at least half the lifetime.
type Service struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

type option func(*Service)

func NewService(secret []byte, lifetime time.Duration, opts ...option) *Service {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	s := &Service{
		secret:   secret,
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *Service) {
		s.now = now
	}
}

// Issue creates a token bound to an action scope and a session.
func (s *Service) Issue(scope, sessionID string) string {
	return s.tokenAt(s.tick(), scope, sessionID)
}

// Verify checks a token against the current and the previous tick. The
// MAC comparison is constant-time.
func (s *Service) Verify(token, scope, sessionID string) bool {
	if token == "" {
		return false
	}

	tick := s.tick()
	for _, t := range []int64{tick, tick - 1} {
		if hmac.Equal([]byte(token), []byte(s.tokenAt(t, scope, sessionID))) {
			return true
		}
	}

	return false
}

func (s *Service) tick() int64 {
	half := int64(s.lifetime/time.Second) / 2
	if half < 1 {
		half = 1
	}

	return s.now().Unix() / half
}

func (s *Service) tokenAt(tick int64, scope, sessionID string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d|%s|%s", tick, scope, sessionID)

	return hex.EncodeToString(mac.Sum(nil))[:tokenLen]
}
