package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"bigoffice/pkg/requestcontext"
)

// MaxXFFHeaderLength caps the X-Forwarded-For header to prevent header
// injection through oversized values.
const MaxXFFHeaderLength = 500

// ClientMetadata extracts the client IP address and User-Agent and adds them
// to the context for the audit recorder. X-Forwarded-For and X-Real-IP are
// honored only when the direct peer is inside one of the trusted prefixes
// (CIDR notation); with no trusted proxies configured they are never trusted.
func ClientMetadata(trustedProxies []string) func(http.Handler) http.Handler {
	var prefixes []netip.Prefix
	for _, p := range trustedProxies {
		if prefix, err := netip.ParsePrefix(p); err == nil {
			prefixes = append(prefixes, prefix)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractClientIP(r, prefixes)
			userAgent := r.Header.Get("User-Agent")

			ctx := requestcontext.WithClientMetadata(r.Context(), ip, userAgent)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractClientIP(r *http.Request, trusted []netip.Prefix) string {
	remoteIP := parseRemoteAddr(r.RemoteAddr)
	if remoteIP == "" {
		return "unknown"
	}

	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		if xri := r.Header.Get("X-Real-IP"); xri != "" && isTrustedProxy(remoteIP, trusted) && len(xri) <= MaxXFFHeaderLength {
			return strings.TrimSpace(xri)
		}
		return remoteIP
	}

	if !isTrustedProxy(remoteIP, trusted) || len(xff) > MaxXFFHeaderLength {
		return remoteIP
	}

	// First IP in the XFF chain is the original client.
	clientIP := xff
	if before, _, ok := strings.Cut(xff, ","); ok {
		clientIP = before
	}
	clientIP = strings.TrimSpace(clientIP)
	if clientIP == "" {
		return remoteIP
	}
	return clientIP
}

func parseRemoteAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// RemoteAddr without a port (tests, unix sockets)
		host = remoteAddr
	}
	return strings.TrimSpace(host)
}

func isTrustedProxy(ip string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
