// Command trackkit-demo runs a self-contained tracking pipeline: a session
// wired with the simulated email transport, a synthetic event generator
// standing in for the backend feed, and a small JSON API standing in for
// the presentation layer.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/trackkit"
	"github.com/dmitrymomot/trackkit/pkg/bus"
	"github.com/dmitrymomot/trackkit/pkg/config"
	"github.com/dmitrymomot/trackkit/pkg/dispatch"
	"github.com/dmitrymomot/trackkit/pkg/email"
	"github.com/dmitrymomot/trackkit/pkg/logger"
	"github.com/dmitrymomot/trackkit/pkg/notifications"
)

type demoConfig struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	UserEmail         string        `env:"DEMO_USER_EMAIL" envDefault:"demo@example.com"`
	GeneratorInterval time.Duration `env:"GENERATOR_INTERVAL" envDefault:"3s"`
	SendDelay         time.Duration `env:"SEND_DELAY" envDefault:"100ms"`
	SendFailureRate   float64       `env:"SEND_FAILURE_RATE" envDefault:"0.05"`
	MailDir           string        `env:"MAIL_DIR"`
	LogFormat         string        `env:"LOG_FORMAT" envDefault:"text"`
}

func main() {
	var cfg demoConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithAttr(slog.String("service", "trackkit-demo")),
	)

	// MailDir switches the transport to on-disk mail for inspection;
	// otherwise sends are simulated in memory.
	var sender email.Sender = email.NewSimSender(
		email.WithDelay(cfg.SendDelay),
		email.WithFailureRate(cfg.SendFailureRate),
	)
	if cfg.MailDir != "" {
		sender = email.NewDevSender(cfg.MailDir)
	}

	sess := trackkit.NewSession(sender, trackkit.WithLogger(log))
	sess.Initialize(dispatch.Preferences{
		Email:   cfg.UserEmail,
		Enabled: true,
		Categories: map[string]bool{
			dispatch.CategoryShipmentCreated:   true,
			dispatch.CategoryShipmentDelivered: true,
			dispatch.CategoryShipmentDelayed:   true,
			dispatch.CategorySystemAlert:       true,
			dispatch.CategoryUserMention:       true,
		},
	})
	sess.Start()
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runGenerator(ctx, sess.Bus(), cfg.GeneratorInterval, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(sess, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("trackkit-demo listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func newRouter(sess *trackkit.Session, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/notifications", func(w http.ResponseWriter, req *http.Request) {
		opts := notifications.ListOptions{
			OnlyUnread: req.URL.Query().Get("filter") == "unread",
			Kind:       bus.Kind(req.URL.Query().Get("kind")),
		}
		writeJSON(w, map[string]any{
			"notifications": sess.Notifications().List(opts),
			"unread":        sess.Notifications().Unread(),
		})
	})

	r.Post("/notifications/{id}/read", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid notification id", http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"changed": sess.Notifications().MarkRead(id)})
	})

	r.Post("/notifications/read-all", func(w http.ResponseWriter, req *http.Request) {
		sess.Notifications().MarkAllRead()
		w.WriteHeader(http.StatusNoContent)
	})

	r.Delete("/notifications", func(w http.ResponseWriter, req *http.Request) {
		sess.Notifications().Clear()
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, sess.Metrics().Snapshot())
	})

	r.Get("/deliveries", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, sess.Dispatcher().Queue())
	})

	r.Get("/deliveries/stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, sess.Dispatcher().Stats())
	})

	// Event injection: how external producers (or a curious operator)
	// push state changes into the pipeline.
	r.Post("/events", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Kind    string         `json:"kind"`
			Payload map[string]any `json:"payload"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Kind == "" {
			http.Error(w, "expected {kind, payload}", http.StatusBadRequest)
			return
		}
		sess.Bus().Publish(bus.Kind(body.Kind), body.Payload)
		w.WriteHeader(http.StatusAccepted)
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
