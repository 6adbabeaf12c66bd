package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Antagata/Month-recap-AVU/internal/learning"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Learning store maintenance",
}

var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show learning store contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		switch s := store.(type) {
		case *learning.FileStore:
			fmt.Fprintf(os.Stdout, "driver: file\npath: %s\nrecords: %d\n", cfg.Store.Path, s.Len())
		case *learning.SQLiteStore:
			n, err := s.Count(ctx)
			if err != nil {
				return eris.Wrap(err, "store status")
			}
			fmt.Fprintf(os.Stdout, "driver: sqlite\npath: %s\nrecords: %d\n", cfg.Store.Path, n)
		default:
			fmt.Fprintf(os.Stdout, "driver: %s\n", cfg.Store.Driver)
		}
		return nil
	},
}

var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the learning store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		// Opening a database-backed store applies its schema.
		zap.L().Info("learning store ready", zap.String("driver", cfg.Store.Driver))
		return nil
	},
}

// openStore builds the learning store selected by configuration.
func openStore(ctx context.Context) (learning.Store, error) {
	switch cfg.Store.Driver {
	case "file":
		return learning.OpenFile(cfg.Store.Path)
	case "sqlite":
		return learning.OpenSQLite(cfg.Store.Path)
	case "postgres":
		return learning.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "memory":
		return learning.NewMemory(), nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}
}

func init() {
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	rootCmd.AddCommand(storeCmd)
}
