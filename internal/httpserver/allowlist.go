package httpserver

import (
	"net"
	"net/http"
	"strings"
)

type cidrAllowlist struct {
	nets   []*net.IPNet
	onDeny func(w http.ResponseWriter, r *http.Request, status int, msg string)
}

func newCIDRAllowlist(cidrs []string) (*cidrAllowlist, error) {
	a := &cidrAllowlist{}
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(strings.TrimSpace(c))
		if err != nil {
			return nil, err
		}
		a.nets = append(a.nets, n)
	}
	return a, nil
}

func (a *cidrAllowlist) allows(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// RealIP leaves a bare address
		host = remoteAddr
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	if ip == nil {
		return false
	}
	for _, n := range a.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func (a *cidrAllowlist) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.allows(r.RemoteAddr) {
			next.ServeHTTP(w, r)
			return
		}
		if a.onDeny != nil {
			a.onDeny(w, r, http.StatusForbidden, "forbidden")
			return
		}
		http.Error(w, "forbidden", http.StatusForbidden)
	})
}
