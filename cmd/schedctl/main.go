package main

import (
	"fmt"
	"os"

	"github.com/alexdunne/not-so-smart-cal/scheduler/config"
	"github.com/alexdunne/not-so-smart-cal/scheduler/logger"
	"github.com/alexdunne/not-so-smart-cal/scheduler/postgres"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "schedctl",
		Usage: "Inspect and maintain the scheduler from the command line.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", EnvVars: []string{"CONFIG_FILE"}, Usage: "path to a YAML config file"},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			promoteCommand(),
			monthCommand(),
			weekCommand(),
			checkCommand(),
			addCommand(),
			auditCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "schedctl: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command needs: the loaded config, a logger and an open
// database.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *postgres.DB
}

func openEnv(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error creating the logger: %w", err)
	}

	db := postgres.NewDB(cfg.Postgres.DSN(), log)
	if err := db.Open(c.Context); err != nil {
		log.Sync()
		return nil, fmt.Errorf("cannot open db: %w", err)
	}

	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) Close() {
	e.db.Close()
	e.log.Sync()
}

func (e *env) events() *postgres.EventService {
	return &postgres.EventService{DB: e.db, Logger: e.log}
}
