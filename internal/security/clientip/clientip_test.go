package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_ForwardedFor(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "10.0.0.5:44321"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	assert.Equal(t, "203.0.113.9", FromRequest(r))
}

func TestFromRequest_SkipsPrivateAddresses(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "192.168.1.10:9000"
	r.Header.Set("X-Forwarded-For", "192.168.1.2, 10.0.0.1, 198.51.100.4")

	assert.Equal(t, "198.51.100.4", FromRequest(r))
}

func TestFromRequest_SecondaryHeader(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "10.0.0.5:44321"
	r.Header.Set("X-Real-Ip", "198.51.100.7")

	assert.Equal(t, "198.51.100.7", FromRequest(r))
}

func TestFromRequest_FallsBackToPeer(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "10.1.2.3:5555"
	r.Header.Set("X-Forwarded-For", "not-an-ip, 127.0.0.1")

	assert.Equal(t, "10.1.2.3", FromRequest(r))
}
