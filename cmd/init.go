package cmd

import (
	"fmt"

	"storemy/pkg/registry"
	"storemy/pkg/session"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the base directory and the system database",
	Long: `Create <base-dir>/db and the system database "sys" if they are missing,
then sync and close everything. Running it again is harmless.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	return withRegistry(func(reg *registry.Registry, _ *session.Session) error {
		fmt.Fprintf(cmd.OutOrStdout(), "initialized %s (databases: %d)\n", reg.DBDir(), reg.Len())
		return nil
	})
}
