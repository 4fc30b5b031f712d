package main

import (
	"context"
	"fmt"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-pkgz/lgr"

	"github.com/agalitsyn/taskflow/internal/app"
	"github.com/agalitsyn/taskflow/internal/taskstore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := ParseFlags()
	setupLog(cfg.Debug)

	if cfg.Debug {
		lgr.Printf("[DEBUG] running with config")
		fmt.Fprintln(os.Stdout, cfg.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage, err := app.OpenStorage(cfg.Storage)
	if err != nil {
		lgr.Fatalf("[ERROR] could not open storage: %v", err)
	}

	store, err := taskstore.Open(ctx, storage,
		taskstore.WithKey(cfg.Storage.Key),
		taskstore.WithLogger(lgr.Default()),
	)
	if err != nil {
		storage.Close()
		lgr.Fatalf("[ERROR] could not load tasks: %v", err)
	}

	bot, err := app.NewBot(
		app.BotConfig{UpdateTimeout: cfg.UpdateTimeout},
		cfg.Token.Unmask(),
		BotDebugLogger{},
		store,
		lgr.Default(),
	)
	if err != nil {
		storage.Close()
		lgr.Fatalf("[ERROR] could not init bot: %v", err)
	}
	bot.SetDebug(cfg.Debug)
	lgr.Printf("[INFO] authorized as %s", bot.GetSelf().UserName)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		bot.Start(ctx)
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"bot": func(ctx context.Context) error {
				cancel()
				select {
				case <-stopped:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
			"storage": func(ctx context.Context) error {
				select {
				case <-stopped:
				case <-ctx.Done():
				}
				return storage.Close()
			},
		},
	)

	exitCode := <-wait
	lgr.Printf("[INFO] exited with code %d", exitCode)
	os.Exit(exitCode)
}

func setupLog(debug bool) {
	if debug {
		lgr.Setup(lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.CallerFunc)
		return
	}
	lgr.Setup(lgr.Msec, lgr.LevelBraces)
}

// BotDebugLogger routes telegram client logs to the debug level.
type BotDebugLogger struct{}

func (l BotDebugLogger) Printf(msg string, args ...interface{}) {
	lgr.Printf("[DEBUG] "+msg, args...)
}

func (l BotDebugLogger) Println(v ...interface{}) {
	lgr.Printf("[DEBUG] %s", fmt.Sprint(v...))
}
