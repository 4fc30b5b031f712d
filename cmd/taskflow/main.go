package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"

	"github.com/agalitsyn/taskflow/internal/app"
	"github.com/agalitsyn/taskflow/internal/taskstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := ParseFlags()
	if cfg.Debug {
		lgr.Setup(lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.CallerFunc)
		lgr.Printf("[DEBUG] running with config")
		fmt.Fprintln(os.Stdout, cfg.String())
	} else {
		lgr.Setup(lgr.Msec, lgr.LevelBraces)
	}
	if cfg.NoColor {
		color.NoColor = true
	}

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

	cli := NewCLI(store, os.Stdout, os.Stderr)
	code := cli.Run(ctx, flag.Args())

	if err := storage.Close(); err != nil {
		lgr.Printf("[WARN] could not close storage: %v", err)
	}
	os.Exit(code)
}
