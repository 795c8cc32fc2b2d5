// Package info assembles the payloads served on / and /health.
package info

import (
	"context"
	"net"
	"net/http"

	"devops-info-service/internal/uptime"
)

const (
	Unknown = "unknown"

	serviceDescription = "DevOps course info service"
	serviceFramework   = "go-chi"
	healthyStatus      = "healthy"
	timezoneUTC        = "UTC"
)

// SystemSource reports host facts. It must not fail; missing values come back as Unknown.
type SystemSource interface {
	System(ctx context.Context) SystemInfo
}

type Reporter struct {
	service ServiceInfo
	clock   *uptime.Clock
	system  SystemSource
}

func NewReporter(name, version string, clock *uptime.Clock, system SystemSource) *Reporter {
	return &Reporter{
		service: ServiceInfo{
			Name:        name,
			Version:     version,
			Description: serviceDescription,
			Framework:   serviceFramework,
		},
		clock:  clock,
		system: system,
	}
}

func (r *Reporter) Service() ServiceInfo { return r.service }

// ServiceResponse builds the payload for GET /.
func (r *Reporter) ServiceResponse(req *http.Request) ServiceResponse {
	return ServiceResponse{
		Service:   r.service,
		System:    r.system.System(req.Context()),
		Runtime:   r.Runtime(),
		Request:   RequestFrom(req),
		Endpoints: Endpoints(),
	}
}

func (r *Reporter) Runtime() RuntimeInfo {
	now := r.clock.Now()
	secs := r.clock.Elapsed(now)
	return RuntimeInfo{
		UptimeSeconds: secs,
		UptimeHuman:   uptime.Human(secs),
		CurrentTime:   uptime.Timestamp(now),
		Timezone:      timezoneUTC,
	}
}

// Health builds the payload for GET /health. It touches nothing but the clock.
func (r *Reporter) Health() HealthResponse {
	now := r.clock.Now()
	return HealthResponse{
		Status:        healthyStatus,
		Timestamp:     uptime.Timestamp(now),
		UptimeSeconds: r.clock.Elapsed(now),
	}
}

func RequestFrom(req *http.Request) RequestInfo {
	ua := req.Header.Get("User-Agent")
	if ua == "" {
		ua = Unknown
	}
	return RequestInfo{
		ClientIP:  clientIP(req.RemoteAddr),
		UserAgent: ua,
		Method:    req.Method,
		Path:      req.URL.Path,
	}
}

// clientIP strips the port from a RemoteAddr. chi's RealIP stores a bare IP,
// so a value without a port is returned as is.
func clientIP(remoteAddr string) string {
	if remoteAddr == "" {
		return Unknown
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	if host == "" {
		return Unknown
	}
	return host
}

// Endpoints is the fixed catalog advertised on GET /. It is not derived from the router.
func Endpoints() []EndpointInfo {
	return []EndpointInfo{
		{Path: "/", Method: http.MethodGet, Description: "Service information"},
		{Path: "/health", Method: http.MethodGet, Description: "Health check"},
	}
}
