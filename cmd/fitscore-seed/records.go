package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/fitscore/internal/seed"
	"github.com/okian/fitscore/pkg/logger"
)

// generatorFlags binds the generation knobs shared by records and post.
func generatorFlags(cmd *cobra.Command, cfg *seed.Config) {
	f := cmd.Flags()
	f.IntVar(&cfg.Subjects, "subjects", seed.DefaultSubjects, "number of distinct subjects")
	f.IntVar(&cfg.Visits, "visits", seed.DefaultVisits, "measurement sessions per subject")
	f.IntVar(&cfg.Stores, "stores", seed.DefaultStores, "number of stores")
	f.IntVar(&cfg.Workers, "workers", seed.DefaultWorkers, "concurrent writers")
	f.Uint64Var(&cfg.Seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	f.IntVar(&cfg.Span, "span", seed.DefaultSpan, "months covered by the visits")
	f.StringVar(&cfg.Output, "output", "", "also write the generated records to this JSON file")
}

func newRecordsCmd() *cobra.Command {
	var cfg seed.Config
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Write synthetic records directly into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			records := seed.Generate(cfg)
			if cfg.Output != "" {
				if err := seed.SaveToFile(ctx, cfg.Output, records); err != nil {
					return err
				}
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Get().Warn(ctx, "closing store", logger.Error(err))
				}
			}()

			_, err = seed.Store(ctx, cfg, store, records)
			return err
		},
	}
	generatorFlags(cmd, &cfg)
	return cmd
}

func newPostCmd() *cobra.Command {
	var cfg seed.Config
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Submit synthetic records to a running server via POST /diagnosis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			records := seed.Generate(cfg)
			if cfg.Output != "" {
				if err := seed.SaveToFile(ctx, cfg.Output, records); err != nil {
					return err
				}
			}
			_, err := seed.Post(ctx, cfg, records)
			return err
		},
	}
	generatorFlags(cmd, &cfg)
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", seed.DefaultTimeout, "HTTP request timeout")
	return cmd
}
