package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/agalitsyn/flagutils"
	"github.com/agalitsyn/secret"

	"github.com/agalitsyn/taskflow/internal/app"
	"github.com/agalitsyn/taskflow/internal/taskstore"
	"github.com/agalitsyn/taskflow/version"
)

const EnvPrefix = "TASKFLOW"

type Config struct {
	Debug   bool
	NoColor bool

	Storage app.StorageConfig
}

func (c Config) String() string {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stdout, err)
		os.Exit(0)
	}
	return string(b)
}

func ParseFlags() Config {
	var cfg Config

	flag.Usage = usage
	printVersion := flag.Bool("version", false, "Show version.")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging.")
	flag.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")

	flag.StringVar(&cfg.Storage.Driver, "storage", app.StorageSQLite, "Storage backend (sqlite | redis | memory).")
	flag.StringVar(&cfg.Storage.Key, "storage-key", taskstore.DefaultKey, "Key of the slot tasks are stored under.")
	flag.StringVar(&cfg.Storage.SQLite.Path, "sqlite-path", "taskflow.db", "SQLite database file.")
	flag.StringVar(&cfg.Storage.Redis.Host, "redis-host", "localhost", "Redis host.")
	flag.IntVar(&cfg.Storage.Redis.Port, "redis-port", 6379, "Redis port.")
	redisPassword := flag.String("redis-password", "", "Redis password.")
	flag.IntVar(&cfg.Storage.Redis.Database, "redis-db", 0, "Redis database number.")

	flagutils.Prefix = EnvPrefix
	flagutils.Parse()
	flag.Parse()

	cfg.Storage.Redis.Password = secret.NewString(*redisPassword)

	if *printVersion {
		fmt.Fprintln(os.Stdout, version.String())
		os.Exit(0)
	}

	return cfg
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: taskflow [flags] <command> [args]

Commands:
  add [-p priority] [-d due] [-n notes] <title>
  edit [-t title] [-p priority] [-d due|none] [-n notes] <task>
  done <task>
  undo <task>
  rm <task>
  clear -y
  show <task>
  list [-s all|active|completed] [-p all|high|medium|low] [-q text]
  stats [-range week|month|all]
  dashboard

A <task> is a position from "list" or an id (prefix). Flags may come before
or after the positional arguments.

Flags:
`)
	flag.PrintDefaults()
}
