package httpserver

import (
	"net/http"

	"devops-info-service/internal/config"
	"devops-info-service/internal/info"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type RouterDeps struct {
	Config   config.Config
	Logger   zerolog.Logger
	Reporter *info.Reporter
}

type Server struct {
	cfg config.Config
	log zerolog.Logger
	rep *info.Reporter
}

func NewRouter(deps RouterDeps) (http.Handler, error) {
	s := &Server{
		cfg: deps.Config,
		log: deps.Logger,
		rep: deps.Reporter,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// off by default: clientIp must be the connection peer unless a trusted proxy sits in front
	if s.cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	if len(s.cfg.AllowedSubnets) > 0 {
		allow, err := newCIDRAllowlist(s.cfg.AllowedSubnets)
		if err != nil {
			return nil, err
		}
		allow.onDeny = s.writeError
		r.Use(allow.middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", s.handleInfo)
	r.Get("/health", s.handleHealth)

	return r, nil
}
