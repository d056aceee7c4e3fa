package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ClientID picks the best available origin signal for r: the first
// X-Forwarded-For hop, then X-Real-IP, then the connection address. The
// headers are only read when trustProxy is set, since any client can send them.
func ClientID(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if id := forwardedClient(r); id != "" {
			return id
		}
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func forwardedClient(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	return strings.TrimSpace(r.Header.Get("X-Real-IP"))
}
