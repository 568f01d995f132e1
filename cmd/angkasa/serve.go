package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/pgxstore"
	"github.com/alexedwards/scs/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/angkasa-id/angkasa/internal/alert"
	"github.com/angkasa-id/angkasa/internal/auth"
	"github.com/angkasa-id/angkasa/internal/config"
	"github.com/angkasa-id/angkasa/internal/db"
	"github.com/angkasa-id/angkasa/internal/docstore"
	"github.com/angkasa-id/angkasa/internal/domain/forum"
	"github.com/angkasa-id/angkasa/internal/domain/member"
	"github.com/angkasa-id/angkasa/internal/email"
	httpapp "github.com/angkasa-id/angkasa/internal/http"
	"github.com/angkasa-id/angkasa/internal/http/handlers"
	"github.com/angkasa-id/angkasa/internal/identity"
	"github.com/angkasa-id/angkasa/internal/listview"
	"github.com/angkasa-id/angkasa/internal/logging"
	"github.com/angkasa-id/angkasa/internal/metrics"
	"github.com/angkasa-id/angkasa/internal/session"
	"github.com/angkasa-id/angkasa/internal/treestore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Angkasa web server.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.BootstrapFromEnv(logging.BootstrapOptions{Command: "serve"})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	queries := db.New(pool)
	docs := docstore.New(pool, docstore.WithLogger(logger))
	tree := treestore.New(pool, treestore.WithLogger(logger))

	alerts := alert.New(
		alert.WithAutoDismiss(cfg.AlertAutoDismiss),
		alert.WithLogger(logger),
	)
	defer alerts.Close()

	mailer := email.NewMailer(cfg.ResendAPIKey, cfg.MailFrom, logger)
	ident := identity.NewService(queries, docs, mailer, identity.Options{
		BaseURL:          cfg.BaseURL,
		RegistrationOpen: cfg.RegistrationOpen,
		VerifyCooldown:   cfg.VerifyCooldown,
		Logger:           logger,
	})
	unsubscribeAuth := ident.OnAuthStateChange(func(ev session.Event) {
		logger.Info("auth state change", "event", string(ev.Type), "user_id", ev.Identity.ID)
	})
	defer unsubscribeAuth()

	if cfg.DevSeedAdmin {
		if err := devSeedAdmin(ctx, queries, logger); err != nil {
			return err
		}
	}

	feed := listview.NewController("feed", forum.ListFields,
		listview.WithSort[forum.Post](forum.NewestFirst),
		listview.WithAlerts[forum.Post](alerts),
		listview.WithLogger[forum.Post](logger),
	)
	defer feed.Close()

	feedSub, err := docs.Watch(ctx, forum.Collection)
	if err != nil {
		return err
	}
	feed.Run(listview.MapStream(feedSub, func(d docstore.Document) (forum.Post, bool) {
		return forum.FromDocument(d), true
	}))

	members := listview.NewController("members", member.ListFields,
		listview.WithSort[member.Member](member.NewestFirst),
		listview.WithAlerts[member.Member](alerts),
		listview.WithLogger[member.Member](logger),
	)
	defer members.Close()

	memberSub, err := docs.Watch(ctx, member.Collection)
	if err != nil {
		return err
	}
	members.Run(listview.MapStream(memberSub, func(d docstore.Document) (member.Member, bool) {
		return member.FromDocument(d), true
	}))

	sessions := scs.New()
	sessions.Store = pgxstore.New(pool)
	sessions.Lifetime = 7 * 24 * time.Hour
	sessions.Cookie.HttpOnly = true
	sessions.Cookie.SameSite = http.SameSiteLaxMode
	sessions.Cookie.Secure = cfg.AuthCookieSecure

	if _, metricsErrs := metrics.StartServer(ctx, cfg.MetricsAddr); metricsErrs != nil {
		go func() {
			if err := <-metricsErrs; err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	h := &handlers.Handlers{
		Cfg:      cfg,
		Q:        queries,
		Pool:     pool,
		Sessions: sessions,
		Docs:     docs,
		Tree:     tree,
		Identity: ident,
		Alerts:   alerts,
		Feed:     feed,
		Members:  members,
		Logger:   logger,
	}

	srv, err := httpapp.NewEchoServer(h, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		errCh <- srv.StartServer(httpServer)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// devSeedAdmin creates a throwaway admin account on an empty database. Only
// reachable behind DEV_SEED_ADMIN; production bootstrap goes through the
// users bootstrap-admin command.
func devSeedAdmin(ctx context.Context, q *db.Queries, logger *slog.Logger) error {
	count, err := q.CountAuthAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin12345")
	if err != nil {
		return err
	}
	u, err := q.CreateAuthUser(ctx, db.CreateAuthUserParams{
		Email:         "admin@angkasa.local",
		DisplayName:   "Admin",
		PasswordHash:  hash,
		Role:          auth.RoleAdmin,
		EmailVerified: true,
	})
	if err != nil {
		return err
	}
	logger.Info("seeded dev admin", "user_id", u.ID, "email", u.Email)
	return nil
}
