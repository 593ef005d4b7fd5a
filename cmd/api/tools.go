package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crafts-store/internal/config"
	"crafts-store/internal/middleware"
	"crafts-store/internal/repository"
)

var (
	exportOut    string
	tokenSubject string
	tokenTTL     time.Duration
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes used by the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if a.db == nil {
			return fmt.Errorf("MONGO_URI is required")
		}
		if err := repository.EnsureIndexes(cmd.Context(), a.db); err != nil {
			return err
		}
		a.logger.Info("indexes ensured", zap.String("database", a.cfg.MongoDB))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all products to an Excel file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		n, err := a.admin.ExportProducts(cmd.Context(), f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		a.logger.Info("products exported", zap.Int("products", n), zap.String("file", exportOut))
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed admin token (JWT_SECRET must be set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		token, err := middleware.IssueAdminToken([]byte(cfg.JWTSecret), tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexesCmd, exportCmd, tokenCmd)

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "products.xlsx", "Output file")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}
