package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"hackathon_hub/internal/platform/config"
	"hackathon_hub/internal/platform/database"
	"hackathon_hub/internal/platform/logging"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "hubctl",
		Usage: "operate a hackathon hub database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			slog.SetDefault(logging.New(os.Stderr, cfg.LogLevel, !cfg.IsProduction()))
			return nil
		},
		After: func(c *cli.Context) error {
			database.Close()
			return nil
		},
		Commands: []*cli.Command{
			newMigrateCommand(),
			newSeedCommand(),
			newCreateAdminCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "hubctl:", err)
		os.Exit(1)
	}
}

// openDB connects lazily so commands like --help work without a database.
func openDB(c *cli.Context) (*sql.DB, error) {
	if database.DB != nil {
		return database.DB, nil
	}
	return database.Connect(c.Context, config.AppConfig.DBConnStr)
}
