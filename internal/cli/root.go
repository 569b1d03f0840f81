package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bee-market/internal/config"
	"bee-market/internal/productid"
	"bee-market/internal/store"
)

// RootCommand assembles the catalog management CLI.
func RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Marketplace catalog management",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(InitDBCommand())
	root.AddCommand(ProductCommand())
	root.AddCommand(RatingCommand())
	return root
}

// openStore builds a Store from environment configuration, honoring a --db
// override.
func openStore(dbConnStr string) (*store.Store, error) {
	cfg := config.Load()
	if dbConnStr != "" {
		cfg.ConnString = dbConnStr
	}
	codec, err := productid.FromName(cfg.IDStrategy)
	if err != nil {
		return nil, err
	}
	s, err := store.New(cfg.ConnString, codec)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return s, nil
}

// InitDBCommand creates the init-db command.
func InitDBCommand() *cobra.Command {
	var (
		dbConnStr  string
		schemaPath string
	)

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Initialize the catalog database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if schemaPath == "" {
				schemaPath = config.Load().SchemaPath
			}
			s, err := openStore(dbConnStr)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.InitDB(cmd.Context(), schemaPath); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			fmt.Println("Schema initialized.")
			return nil
		},
	}

	cmd.Flags().StringVar(&dbConnStr, "db", "", "Database connection string (overrides env var)")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to the schema SQL file (overrides env var)")

	return cmd
}
