package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// forwardHeaders are checked in order; proxies may stack several.
var forwardHeaders = []string{"X-Forwarded-For", "X-Real-Ip", "Client-Ip"}

// FromRequest returns the first valid public address found among
// forwarded-for style headers, falling back to the direct peer address.
func FromRequest(r *http.Request) string {
	for _, h := range forwardHeaders {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for _, part := range strings.Split(v, ",") {
			addr, err := netip.ParseAddr(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			if isPublic(addr) {
				return addr.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

func isPublic(addr netip.Addr) bool {
	return addr.IsValid() &&
		!addr.IsPrivate() &&
		!addr.IsLoopback() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsLinkLocalMulticast() &&
		!addr.IsUnspecified()
}
