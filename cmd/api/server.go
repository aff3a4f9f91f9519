package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/binti59/finance-app/internal/interfaces/scheduler"
	"github.com/binti59/finance-app/internal/shared/config"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	TLSEnabled   bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
	AllowedHosts []string
}

func NewServerConfigFromConfig(cfg *config.Config) ServerConfig {
	return ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		TLSEnabled:   cfg.TLS.Enabled,
		CertPath:     cfg.TLS.CertPath,
		KeyPath:      cfg.TLS.KeyPath,
		RedirectHTTP: cfg.TLS.RedirectHTTP,
		AllowedHosts: cfg.Server.AllowedHosts,
	}
}

// StartServers starts the main server and, when TLS with redirect is
// enabled, a plain HTTP listener on :80 that forwards to HTTPS. Both
// run in goroutines; errors other than ErrServerClosed are fatal.
func StartServers(handler http.Handler, cfg ServerConfig) (*http.Server, *http.Server) {
	addr := cfg.Host + ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var redirectSrv *http.Server
	if cfg.TLSEnabled && cfg.RedirectHTTP {
		redirectSrv = createRedirectServer(cfg.Host, cfg.AllowedHosts)
		go func() {
			log.Info().Str("addr", redirectSrv.Addr).Msg("starting HTTP redirect server")
			if err := redirectSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("redirect server failed")
			}
		}()
	}

	go func() {
		if cfg.TLSEnabled {
			log.Info().Str("addr", addr).Msg("starting HTTPS server")
			if err := srv.ListenAndServeTLS(cfg.CertPath, cfg.KeyPath); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("server failed")
			}
		} else {
			log.Info().Str("addr", addr).Msg("starting HTTP server")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("server failed")
			}
		}
	}()

	return srv, redirectSrv
}

func createRedirectServer(host string, allowedHosts []string) *http.Server {
	return &http.Server{
		Addr: host + ":80",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !middleware.IsHostAllowed(r.Host, allowedHosts) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// GracefulShutdown drains in-flight requests, stops the scheduler, and
// shuts both listeners down within the given timeout.
func GracefulShutdown(srv, redirectSrv *http.Server, sched *scheduler.Scheduler, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if sched != nil {
		sched.Shutdown(timeout / 2)
	}

	if redirectSrv != nil {
		if err := redirectSrv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("redirect server shutdown failed")
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
