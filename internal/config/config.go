package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"devops-info-service/internal/version"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServiceName = "devops-info-service"
	defaultHost        = "0.0.0.0"
	defaultPort        = "5000"
)

type Config struct {
	ListenAddr string `validate:"required,listen_addr"`

	ServiceName    string `validate:"required"`
	ServiceVersion string `validate:"required"`

	Debug    bool
	LogLevel string `validate:"oneof=trace debug info warn error fatal panic disabled"`

	ReadHeaderTimeout     time.Duration `validate:"gt=0"`
	RequestTimeout        time.Duration `validate:"gt=0"`
	ShutdownTimeout       time.Duration `validate:"gt=0"`
	HostnameLookupTimeout time.Duration `validate:"gt=0"`

	TrustProxyHeaders bool
	AllowedSubnets    []string `validate:"dive,cidr"`

	StatusSerialPort string
	StatusSerialBaud int           `validate:"gt=0"`
	StatusInterval   time.Duration `validate:"gt=0"`
}

// fileConfig is the optional YAML file pointed to by CONFIG_FILE.
type fileConfig struct {
	Service struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"service"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
}

// Load reads .env (if present), then CONFIG_FILE (if set), then the process
// environment. Environment values win over the file.
func Load() (Config, error) {
	// missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load()

	var fc fileConfig
	if path := env("CONFIG_FILE", ""); path != "" {
		var err error
		fc, err = loadFile(path)
		if err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		ListenAddr: env("LISTEN_ADDR", firstNonEmpty(
			fc.Server.ListenAddr,
			net.JoinHostPort(env("HOST", defaultHost), env("PORT", defaultPort)),
		)),
		ServiceName:    env("SERVICE_NAME", firstNonEmpty(fc.Service.Name, DefaultServiceName)),
		ServiceVersion: env("SERVICE_VERSION", firstNonEmpty(fc.Service.Version, version.Version)),

		Debug:    envBool("DEBUG", false),
		LogLevel: strings.ToLower(env("LOG_LEVEL", "info")),

		ReadHeaderTimeout:     envDuration("READ_HEADER_TIMEOUT", 2*time.Second),
		RequestTimeout:        envDuration("REQUEST_TIMEOUT", 3*time.Second),
		ShutdownTimeout:       envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HostnameLookupTimeout: envDuration("HOSTNAME_LOOKUP_TIMEOUT", 500*time.Millisecond),

		TrustProxyHeaders: envBool("TRUST_PROXY_HEADERS", false),
		AllowedSubnets:    splitCSV(env("ALLOWED_SUBNETS", "")),

		StatusSerialPort: env("STATUS_SERIAL_PORT", ""),
		StatusSerialBaud: envInt("STATUS_SERIAL_BAUD", 115200),
		StatusInterval:   envDuration("STATUS_INTERVAL", 5*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("listen_addr", validListenAddr); err != nil {
		return fmt.Errorf("register listen_addr validation: %w", err)
	}
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("invalid config: %w", err)
}

var hostValidator = validator.New()

// validListenAddr accepts host:port where host is empty, an IP literal
// (IPv6 bracketed) or an RFC 1123 hostname, and port is 0-65535.
func validListenAddr(fl validator.FieldLevel) bool {
	host, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil {
		return false
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return false
	}
	if host == "" || net.ParseIP(host) != nil {
		return true
	}
	return hostValidator.Var(host, "hostname_rfc1123") == nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

func env(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
