// Command fitscore-seed fills a fitscore store with synthetic measurement
// records and installs the training catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/fitscore/internal/adapters/repository"
	"github.com/okian/fitscore/internal/config"
	"github.com/okian/fitscore/pkg/logger"
)

var (
	// Global flags; empty values fall back to the service configuration.
	flagDriver  string
	flagDSN     string
	flagVerbose bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fitscore-seed",
		Short:         "Seed a fitscore store with synthetic records",
		Long:          `fitscore-seed generates reproducible synthetic measurement sessions for a population of subjects and writes them to the record store, or posts them to a running fitscore server. It can also install a training catalog.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := logger.Init(); err != nil {
				return err
			}
			if flagVerbose {
				return logger.SetLevelString("debug")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flagDriver, "driver", "", "store driver: sqlite or postgres (default from FITSCORE_DB_DRIVER)")
	root.PersistentFlags().StringVar(&flagDSN, "dsn", "", "store DSN (default from FITSCORE_DB_DSN)")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	root.AddCommand(newRecordsCmd(), newPostCmd(), newTrainingsCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// openStore opens the record store named by the flags, falling back to the
// service configuration for anything unset.
func openStore(ctx context.Context) (*repository.SQLStore, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	driver, dsn := cfg.DBDriver, cfg.DBDSN
	if flagDriver != "" {
		driver = flagDriver
	}
	if flagDSN != "" {
		dsn = flagDSN
	}
	return repository.Open(ctx,
		repository.WithDriver(driver),
		repository.WithDSN(dsn),
		repository.WithConnectTimeout(cfg.ConnectTimeout()),
	)
}
