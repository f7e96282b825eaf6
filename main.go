package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentry "github.com/getsentry/sentry-go"
	"go.mongodb.org/mongo-driver/mongo"

	"thinktank/internal/activity"
	"thinktank/internal/announce"
	"thinktank/internal/cli"
	"thinktank/internal/config"
	"thinktank/internal/locales"
	"thinktank/internal/tokenstore"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Configuration error: %v", err)
		return 1
	}
	if !cfg.Debug {
		// keep diagnostics out of command output
		log.SetOutput(io.Discard)
	}

	// Initialize localization bundle
	if err := locales.Init(cfg.Language); err != nil {
		log.Printf("Failed to initialize locales: %v", err)
		return 1
	}

	// Initialize Sentry (if DSN is provided)
	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		Release:          cfg.Version,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            cfg.Debug,
	})
	if err != nil {
		log.Printf("sentry.Init: %s", err)
		return 1
	}
	defer sentry.Flush(2 * time.Second)

	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			sentry.Flush(2 * time.Second)
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			code = 2
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := tokenstore.NewFileStore(cfg.PrefsFile)
	if err != nil {
		sentry.CaptureException(err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	deps := cli.Deps{
		Config: cfg,
		Tokens: tokens,
		Out:    os.Stdout,
		Err:    os.Stderr,
	}

	// Optional MongoDB action log
	if cfg.ActivityLogEnabled() {
		client, db, err := activity.Connect(ctx, cfg.MongoDBURI, cfg.MongoDBDatabase)
		if err != nil {
			sentry.CaptureException(err)
			log.Printf("Activity log disabled: %v", err)
		} else {
			defer disconnect(client)
			logger := activity.NewMongoLogger(db)
			deps.Actions = logger
			deps.History = logger
		}
	}

	// Optional Telegram announcements of approved ideas
	if cfg.AnnouncementsEnabled() {
		if announcer, err := newAnnouncer(ctx, cfg); err != nil {
			sentry.CaptureException(err)
			log.Printf("Announcements disabled: %v", err)
		} else {
			deps.Notifier = announcer
		}
	}

	if err := cli.Execute(ctx, deps, os.Args[1:]); err != nil {
		report(err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newAnnouncer(ctx context.Context, cfg *config.Config) (*announce.Announcer, error) {
	bot, err := announce.NewBot(cfg.BotToken, cfg.Debug)
	if err != nil {
		return nil, err
	}
	announcer, err := announce.New(bot, cfg.ChannelID, locales.NewTranslator(cfg.Language))
	if err != nil {
		return nil, err
	}
	if err := announcer.Verify(ctx); err != nil {
		return nil, err
	}
	return announcer, nil
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
		sentry.CaptureException(err)
	}
}

func report(err error) {
	if cli.Reportable(err) {
		sentry.CaptureException(err)
	}
}
