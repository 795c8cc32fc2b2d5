// Package version holds the default service version reported by devops-info-service.
package version

// Version is the release version used when SERVICE_VERSION is not set.
// Override at build time with:
//
//	go build -ldflags "-X devops-info-service/internal/version.Version=x.y.z"
var Version = "1.0.0"
