package sysinfo

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"devops-info-service/internal/config"
	"devops-info-service/internal/httpserver"
	"devops-info-service/internal/info"
	"devops-info-service/internal/uptime"

	"github.com/rs/zerolog"
)

func TestInfoEndpointWithCollector(t *testing.T) {
	cases := []struct {
		name     string
		hostname func(ctx context.Context) (string, error)
		want     string
	}{
		{
			name:     "resolvable host",
			hostname: func(ctx context.Context) (string, error) { return "box-1", nil },
			want:     "box-1",
		},
		{
			name:     "unresolvable host",
			hostname: func(ctx context.Context) (string, error) { return "", errors.New("lookup box-1: no such host") },
			want:     "unknown",
		},
		{
			name: "lookup timeout",
			hostname: func(ctx context.Context) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
			want: "unknown",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCollector(20 * time.Millisecond)
			c.hostname = tc.hostname
			c.kernelVersion = func(ctx context.Context) (string, error) { return "6.1.0", nil }

			cfg := config.Config{
				ServiceName:    "devops-info-service",
				ServiceVersion: "1.0.0",
				RequestTimeout: 2 * time.Second,
			}
			h, err := httpserver.NewRouter(httpserver.RouterDeps{
				Config:   cfg,
				Logger:   zerolog.Nop(),
				Reporter: info.NewReporter(cfg.ServiceName, cfg.ServiceVersion, uptime.New(), c),
			})
			if err != nil {
				t.Fatalf("NewRouter: %v", err)
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			var resp info.ServiceResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.System.Hostname != tc.want {
				t.Errorf("hostname = %q; want %q", resp.System.Hostname, tc.want)
			}
			if resp.System.PlatformVersion != "6.1.0" || resp.System.Platform != runtime.GOOS {
				t.Errorf("system = %+v", resp.System)
			}
		})
	}
}

func TestCheckResolves(t *testing.T) {
	// Go resolver with no reachable DNS server
	offline := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			return nil, errors.New("dns unreachable")
		},
	}

	cases := []struct {
		name    string
		host    string
		want    string
		wantErr bool
	}{
		{"ip literal needs no lookup", "127.0.0.1", "127.0.0.1", false},
		{"unresolvable name", "no-such-host.invalid", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := checkResolves(context.Background(), offline, tc.host)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v; wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("checkResolves = %q; want %q", got, tc.want)
			}
		})
	}
}

func TestDefaultCollectorNeverEmpty(t *testing.T) {
	c := NewCollector(time.Second)
	if got := c.Hostname(context.Background()); got == "" {
		t.Fatalf("Hostname returned empty string")
	}
}
