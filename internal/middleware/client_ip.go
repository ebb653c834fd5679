package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RealIP rewrites r.RemoteAddr to the originating client address, but only
// when the direct peer is one of the trusted proxies. X-Forwarded-For is read
// right to left and trusted hops are skipped; the first untrusted hop is the
// client. Forwarding headers from any other peer are ignored.
func RealIP(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(trusted) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip, ok := forwardedClient(r, trusted); ok {
				r.RemoteAddr = ip.String()
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forwardedClient(r *http.Request, trusted []netip.Prefix) (netip.Addr, bool) {
	peer, ok := parseAddr(remoteHost(r.RemoteAddr))
	if !ok || !isTrusted(peer, trusted) {
		return netip.Addr{}, false
	}

	var hops []string
	for _, header := range r.Header.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(header, ",")...)
	}

	var leftmost netip.Addr
	for i := len(hops) - 1; i >= 0; i-- {
		hop, ok := parseAddr(hops[i])
		if !ok {
			// a malformed hop ends the chain we can vouch for
			break
		}
		if !isTrusted(hop, trusted) {
			return hop, true
		}
		leftmost = hop
	}
	if leftmost.IsValid() {
		return leftmost, true
	}

	if realIP, ok := parseAddr(r.Header.Get("X-Real-IP")); ok {
		return realIP, true
	}

	return netip.Addr{}, false
}

func isTrusted(ip netip.Addr, trusted []netip.Prefix) bool {
	for _, prefix := range trusted {
		if prefix.Contains(ip) {
			return true
		}
	}
	return false
}

func parseAddr(raw string) (netip.Addr, bool) {
	ip, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return netip.Addr{}, false
	}
	return ip.Unmap(), true
}

func remoteHost(remote string) string {
	remote = strings.TrimSpace(remote)
	if host, _, err := net.SplitHostPort(remote); err == nil {
		return host
	}
	return remote
}

// ClientIP is the address of the request's peer. Behind RealIP this is the
// client as reported by a trusted proxy; forwarding headers are never read here.
func ClientIP(r *http.Request) string {
	if host := remoteHost(r.RemoteAddr); host != "" {
		return host
	}
	return "unknown"
}
