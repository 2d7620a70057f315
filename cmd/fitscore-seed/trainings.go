package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/training"
	"github.com/okian/fitscore/pkg/logger"
)

func newTrainingsCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "trainings",
		Short: "Replace the store's training catalog",
		Long:  `Replaces the training catalog in the store with the catalog read from --file, or with the built-in catalog when no file is given.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			catalog, err := readCatalog(path)
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.ReplaceTrainings(ctx, catalog); err != nil {
				return err
			}
			logger.Get().Info(ctx, "training catalog installed", logger.Int("trainings", len(catalog)))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "YAML training catalog (default: built-in)")
	return cmd
}

func readCatalog(path string) ([]model.Training, error) {
	if path == "" {
		return training.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return training.Load(f)
}
