// posctl herramienta de operación: migraciones del esquema y carga de datos de ejemplo.
//
// Uso:
//
//	go run ./cmd/posctl migrate up|down|status|reset
//	go run ./cmd/posctl seed [--seed N] [--keep]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/jhoicas/pos-admin/internal/application/seed"
	"github.com/jhoicas/pos-admin/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-admin/pkg/config"
	"github.com/jhoicas/pos-admin/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "posctl",
		Usage: "migraciones y datos de ejemplo de pos-admin",
		Commands: []*cli.Command{
			migrateCommand(),
			seedCommand(),
		},
	}
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "posctl: %v\n", err)
		os.Exit(1)
	}
}

// env carga configuración, logger y pool compartidos por los comandos.
type env struct {
	cfg  *config.Config
	log  zerolog.Logger
	pool *pgxpool.Pool
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	lg := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "posctl"})
	if cfg.App.StoreDriver != "postgres" {
		return nil, fmt.Errorf("posctl requiere STORE_DRIVER=postgres (actual %q)", cfg.App.StoreDriver)
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &env{cfg: cfg, log: lg.Zerolog(), pool: pool}, nil
}

func migrateCommand() *cli.Command {
	sub := func(cmd postgres.MigrationCommand, usage string) *cli.Command {
		return &cli.Command{
			Name:  string(cmd),
			Usage: usage,
			Action: func(c *cli.Context) error {
				e, err := setup(c.Context)
				if err != nil {
					return err
				}
				defer e.pool.Close()
				if err := postgres.Migrate(c.Context, e.pool, cmd); err != nil {
					return err
				}
				e.log.Info().Str("command", string(cmd)).Msg("migraciones ejecutadas")
				return nil
			},
		}
	}
	return &cli.Command{
		Name:  "migrate",
		Usage: "gestiona el esquema de la base de datos",
		Subcommands: []*cli.Command{
			sub(postgres.MigrateUp, "aplica las migraciones pendientes"),
			sub(postgres.MigrateDown, "revierte la última migración"),
			sub(postgres.MigrateStatus, "muestra el estado de cada migración"),
			sub(postgres.MigrateReset, "revierte todas las migraciones"),
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "borra los documentos y carga 15 facturas, 200 ventas y 30 recibos",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "seed", Usage: "semilla del generador (0 = aleatoria)"},
			&cli.BoolFlag{Name: "keep", Usage: "no borrar los datos existentes antes de cargar"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.pool.Close()

			if err := postgres.Migrate(c.Context, e.pool, postgres.MigrateUp); err != nil {
				return err
			}
			if !c.Bool("keep") {
				if err := postgres.Truncate(c.Context, e.pool); err != nil {
					return err
				}
			}
			s := c.Uint64("seed")
			if s == 0 {
				s = uint64(time.Now().UnixNano())
			}
			ds := seed.Generate(seed.Options{Seed: s})
			if err := seed.Load(c.Context, postgres.NewTxRunner(e.pool), ds); err != nil {
				return err
			}
			e.log.Info().
				Uint64("seed", s).
				Int("invoices", len(ds.Invoices)).
				Int("transactions", len(ds.Transactions)).
				Int("receipts", len(ds.Receipts)).
				Msg("datos de ejemplo cargados")
			return nil
		},
	}
}
