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

const EnvPrefix = "TASKFLOW_BOT"

type Config struct {
	Debug bool

	Token         secret.String
	UpdateTimeout int

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

	printVersion := flag.Bool("version", false, "Show version.")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging.")
	token := flag.String("token", "", "Telegram bot token.")
	flag.IntVar(&cfg.UpdateTimeout, "update-timeout", 60, "Long polling timeout in seconds.")

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

	cfg.Token = secret.NewString(*token)
	cfg.Storage.Redis.Password = secret.NewString(*redisPassword)

	if *printVersion {
		fmt.Fprintln(os.Stdout, version.String())
		os.Exit(0)
	}

	return cfg
}
