// Command invoicectl runs operator tasks against the invoice database.
package main

import (
	"fmt"
	"os"

	"invoice_server/internal/config"
	"invoice_server/internal/logging"
	"invoice_server/internal/repository"
	"invoice_server/internal/service"
	"invoice_server/internal/utils"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Operator tasks for the invoice API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	return rootCmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the embedded schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := config.Migrate(cfg.DatabaseURL, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", args[0])
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin and sample products when missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

			ctx := cmd.Context()
			pool, err := config.ConnectDB(ctx, cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			seeder := &service.Seeder{
				Users:    repository.NewUserRepository(pool),
				Products: repository.NewProductRepository(pool),
				Logger:   logger,
			}
			products, err := seeder.SeedProducts(ctx)
			if err != nil {
				return err
			}
			admin, err := seeder.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "products seeded: %d, admin created: %t\n", products, admin)
			return nil
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [plain]",
		Short: "Print the bcrypt hash stored for a staff password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
