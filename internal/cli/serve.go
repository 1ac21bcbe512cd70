package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wedding-memories/internal/auth"
	"wedding-memories/internal/config"
	"wedding-memories/internal/feed"
	"wedding-memories/internal/handler"
	"wedding-memories/internal/media"
	"wedding-memories/internal/moderation"
	"wedding-memories/internal/notify"
	"wedding-memories/internal/router"
	"wedding-memories/internal/stats"
	"wedding-memories/internal/storage"
	"wedding-memories/internal/whatsapp"
)

const shutdownTimeout = 10 * time.Second

type ServeOptions struct {
	*RootOptions
	Port string
}

func NewServeCommand(root *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			if opts.Port != "" {
				cfg.Port = opts.Port
			}
			return runServe(cmd.Context(), cfg, log)
		},
	}

	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store, err := storage.NewStorage(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	log.Info().Str("driver", cfg.DatabaseType).Msg("Database ready")

	photos, err := media.NewLocalStore(cfg.MediaDir, cfg.MediaBaseURL, log)
	if err != nil {
		return err
	}

	wall := stats.NewWall(store, nil)
	if err := wall.Reload(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial wall load failed")
	}
	guestbook := stats.NewGuestbook(store)
	if err := guestbook.Reload(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial guestbook load failed")
	}

	hub := feed.NewHub(log)
	go hub.Run()
	defer hub.Stop()
	changes := feed.New(hub, log)

	if cfg.AMQPURL != "" {
		relay := feed.NewRelay(cfg.AMQPURL, cfg.AMQPExchange, changes.Origin(), wall, hub, log)
		changes.AttachRelay(relay)
		relay.Start(ctx)
		defer relay.Stop()
	}

	gate := auth.NewGate(cfg.AdminPassword)
	if !gate.Enabled() {
		log.Warn().Msg("ADMIN_PASSWORD is not set, admin endpoints are disabled")
	}

	var notifier notify.Notifier = notify.Noop{}
	var wa *whatsapp.Service
	if cfg.WhatsAppEnabled {
		if err := os.MkdirAll(cfg.WhatsAppDataDir, 0755); err != nil {
			return fmt.Errorf("failed to create WhatsApp data directory: %w", err)
		}
		wa, err = whatsapp.NewService(ctx, &whatsapp.Config{
			DataDir:            cfg.WhatsAppDataDir,
			DefaultCountryCode: cfg.DefaultCountryCode,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize WhatsApp service: %w", err)
		}
		notifier = notify.NewConfirmer(wa, notify.Event{
			CoupleNames: cfg.CoupleNames,
			Date:        cfg.WeddingDate,
			Location:    cfg.WeddingLocation,
		}, log)
	}

	h := handler.New(handler.Deps{
		Store:          store,
		Photos:         photos,
		Gate:           gate,
		Wall:           wall,
		Guestbook:      guestbook,
		Moderation:     moderation.NewCoordinator(store, photos, wall, guestbook, changes, log),
		Feed:           changes,
		Notifier:       notifier,
		PublicBaseURL:  cfg.PublicBaseURL,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Log:            log,
	})

	if wa != nil {
		wa.SetMessageHandler(notify.NewReplies(h, log).Handle)
		go func() {
			if err := wa.Connect(ctx); err != nil {
				log.Error().Err(err).Msg("WhatsApp connect failed, confirmations disabled")
			}
		}()
		defer wa.Disconnect()
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(h, router.Options{MediaDir: cfg.MediaDir, Log: log}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down server")
	}
	log.Info().Msg("Shutdown complete")
	return nil
}
