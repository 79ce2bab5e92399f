package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harvestlink/farmgate/internal/identitystub"
	"github.com/harvestlink/farmgate/internal/pkg/goroutine"
	"github.com/harvestlink/farmgate/internal/pkg/hash"
	"github.com/harvestlink/farmgate/internal/pkg/jwt"
	"github.com/harvestlink/farmgate/internal/pkg/mail"
	"github.com/harvestlink/farmgate/internal/pkg/otp"
	"github.com/harvestlink/farmgate/internal/pkg/router"
	"github.com/harvestlink/farmgate/internal/pkg/uid"
	"github.com/redis/go-redis/v9"
)

// Server is the development identity service process.
type Server struct {
	app        *App
	goroutine  *goroutine.Manager
	cacheConn  *redis.Client
	router     *router.Router
	httpServer *http.Server
}

// NewServer wires the identity stub onto an HTTP server.
func (a *App) NewServer() *Server {
	s := &Server{
		app:       a,
		goroutine: goroutine.NewManager(a.config.GetInt("app.server.max_goroutine")),
	}

	s.initCache()
	s.initHTTPServer()
	s.initModules()

	return s
}

func (s *Server) initCache() {
	if s.app.config.GetString("modules.identitystub.code_store") != "redis" {
		return
	}

	opt, err := redis.ParseURL(s.app.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(s.app.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	s.cacheConn = rdb
}

func (s *Server) initHTTPServer() {
	s.router = router.NewRouter(router.Config{
		UUID:           s.app.uuid,
		Instrument:     s.app.ins,
		ServiceName:    s.app.config.GetString("instrument.service_name"),
		AllowedOrigins: s.app.config.GetArray("app.server.cors"),
	})

	s.httpServer = &http.Server{
		Addr:              s.app.config.GetString("app.server.http.address"),
		Handler:           s.router,
		ReadTimeout:       s.app.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: s.app.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      s.app.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       s.app.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (s *Server) initModules() {
	cfg := s.app.config

	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(cfg.GetString("jwt.secret")),
		Issuer:    cfg.GetString("jwt.issuer"),
		Audiences: cfg.GetArray("jwt.audiences"),
		TTL:       cfg.GetMinute("jwt.ttl_minutes"),
		Clock:     s.app.clock,
		UUID:      s.app.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}

	var mailer mail.Mail
	if cfg.GetBool("mail.enabled") {
		smtp, err := mail.NewSMTP(mail.SMTPConfig{
			Host:     cfg.GetString("mail.host"),
			Port:     cfg.GetInt("mail.port"),
			Username: cfg.GetString("mail.username"),
			Password: cfg.GetString("mail.password"),
			From:     cfg.GetString("mail.from"),
		})
		if err != nil {
			slog.Error("failed to init mail", "error", err)
			os.Exit(1)
		}
		mailer = smtp
	}

	err = identitystub.New(s.app.ctx, identitystub.Dependency{
		Router:     s.router,
		Config:     cfg,
		Instrument: s.app.ins,
		Validator:  s.app.validator,
		Clock:      s.app.clock,
		Goroutine:  s.goroutine,
		UID:        snow,
		HMAC:       hash.NewHMACSHA256(cfg.GetString("modules.identitystub.hmac_secret")),
		JWT:        signer,
		Totp: otp.NewTOTP(
			cfg.GetString("modules.identitystub.totp_seed"),
			cfg.GetUint("modules.identitystub.totp_period_seconds"),
			cfg.GetUint("modules.identitystub.totp_skew"),
		),
		CacheConn: s.cacheConn,
		Mail:      mailer,
	})
	if err != nil {
		slog.Error("failed to init module identitystub", "error", err)
		os.Exit(1)
	}
}

// Start launches the HTTP server and returns a channel closed on shutdown.
func (s *Server) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	go func() {
		slog.Info("http server listening", "address", s.httpServer.Addr)

		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		<-sigint

		if s.app.cancel != nil {
			s.app.cancel()
		}

		close(terminateChan)

		slog.Info("application gracefully shutdown")
	}()

	return terminateChan
}

// Serve runs the HTTP server on the provided listener for tests.
func (s *Server) Serve(l net.Listener) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		errChan <- s.httpServer.Serve(l)
		close(errChan)
	}()

	return errChan
}

// Stop gracefully shuts down the server and closes resources.
func (s *Server) Stop(ctx context.Context) {
	if s.app.cancel != nil {
		s.app.cancel()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := s.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}

	if s.cacheConn != nil {
		if err := s.cacheConn.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", "Redis", "error", err)
		}
	}

	s.app.Close(ctx)
}
