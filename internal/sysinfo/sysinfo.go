// internal/sysinfo/sysinfo.go
package sysinfo

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"strings"
	"time"

	"devops-info-service/internal/info"

	"github.com/shirou/gopsutil/v4/host"
)

// Collector reads host facts on every call. Nothing is cached; each request
// sees the current hostname and kernel.
type Collector struct {
	lookupTimeout time.Duration

	hostname      func(ctx context.Context) (string, error)
	kernelVersion func(ctx context.Context) (string, error)
}

func NewCollector(lookupTimeout time.Duration) *Collector {
	if lookupTimeout <= 0 {
		lookupTimeout = 500 * time.Millisecond
	}
	return &Collector{
		lookupTimeout: lookupTimeout,
		hostname:      resolvedHostname,
		kernelVersion: host.KernelVersionWithContext,
	}
}

func (c *Collector) System(ctx context.Context) info.SystemInfo {
	return info.SystemInfo{
		Hostname:        c.Hostname(ctx),
		Platform:        runtime.GOOS,
		PlatformVersion: c.platformVersion(ctx),
		Architecture:    runtime.GOARCH,
		CPUCount:        runtime.NumCPU(),
		RuntimeVersion:  runtime.Version(),
	}
}

// Hostname returns the local host name, or "unknown" when it cannot be read
// or does not resolve within the lookup timeout.
func (c *Collector) Hostname(ctx context.Context) string {
	cctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	name, err := c.hostname(cctx)
	name = strings.TrimSpace(name)
	if err != nil || name == "" {
		return info.Unknown
	}
	return name
}

func (c *Collector) platformVersion(ctx context.Context) string {
	v, err := c.kernelVersion(ctx)
	v = strings.TrimSpace(v)
	if err != nil || v == "" {
		return info.Unknown
	}
	return v
}

// resolvedHostname returns os.Hostname only if the name resolves to an address.
func resolvedHostname(ctx context.Context) (string, error) {
	name, err := os.Hostname()
	if err != nil {
		return "", err
	}
	return checkResolves(ctx, net.DefaultResolver, name)
}

func checkResolves(ctx context.Context, r *net.Resolver, name string) (string, error) {
	if _, err := r.LookupHost(ctx, name); err != nil {
		return "", fmt.Errorf("resolve %s: %w", name, err)
	}
	return name, nil
}
