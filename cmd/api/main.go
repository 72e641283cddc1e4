package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/garage-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/garage-manager/internal/db"
	"github.com/BruksfildServices01/garage-manager/internal/logger"
	"github.com/BruksfildServices01/garage-manager/internal/notification"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "garage-manager",
		Short:        "Gestão de oficina: serviços, pagamentos e lembretes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), config.Load())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API and the reminder scheduler",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), config.Load())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Migrate the schema and seed permissions and the first admin",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg := config.Load()
				log := logger.New(cfg)

				db, err := dbpkg.NewDB(cfg)
				if err != nil {
					return err
				}
				if err := dbpkg.Migrate(db); err != nil {
					return err
				}
				if err := dbpkg.Seed(cmd.Context(), db, cfg, log); err != nil {
					return err
				}

				log.Info("database migrated")
				return nil
			},
		},
		&cobra.Command{
			Use:   "vapid-keys",
			Short: "Print a new VAPID key pair for web push",
			RunE: func(cmd *cobra.Command, _ []string) error {
				priv, pub, err := notification.GenerateVAPIDKeys()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "VAPID_PUBLIC_KEY=%s\nVAPID_PRIVATE_KEY=%s\n", pub, priv)
				return nil
			},
		},
	)

	return root
}
