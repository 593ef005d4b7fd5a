package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crafts-store",
	Short: "Storefront and admin API for the crafts catalog",
	Long: `crafts-store serves the storefront (catalog, cart, checkout) and the
admin panel API on top of MongoDB, or an in-memory store when MONGO_URI
is not set.

Examples:
  crafts-store                         # same as "serve"
  crafts-store indexes                 # create MongoDB indexes
  crafts-store export --out p.xlsx     # export products to Excel
  crafts-store token --subject owner   # mint an admin token`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
