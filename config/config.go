package config

import (
	"github.com/namsral/flag"
)

type Config struct {
	DBConnUri        string
	DBMigrationsPath string
	LogLevel         string

	DueHorizonDays    int
	DefaultQueueLimit int
	ReviewTxRetries   int
}

// Load loads the configs from the given arguments. namsral/flag also reads
// each flag from the environment (DB_CONN_URI, LOG_LEVEL, ...).
func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("cardvault", flag.ContinueOnError)

	fs.StringVar(&c.DBConnUri, "db-conn-uri", "", "postgres connection URI")
	fs.StringVar(&c.DBMigrationsPath, "db-migrations-path", "file://db/migrations", "migrations source for golang-migrate")
	fs.StringVar(&c.LogLevel, "log-level", "info", "log level")

	fs.IntVar(&c.DueHorizonDays, "due-horizon-days", 7, "how far ahead of its due date a card may enter the queue")
	fs.IntVar(&c.DefaultQueueLimit, "default-queue-limit", 50, "queue size when the caller does not pass a limit")
	fs.IntVar(&c.ReviewTxRetries, "review-tx-retries", 3, "bounded retries for conflicting review transactions")

	return fs.Parse(args)
}
