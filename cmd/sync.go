package cmd

import (
	"fmt"

	"storemy/pkg/registry"
	"storemy/pkg/session"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync every open database and report each result",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, _ []string) error {
	return withRegistry(func(reg *registry.Registry, _ *session.Session) error {
		results := reg.SyncAll()

		failed := 0
		for _, name := range reg.Names() {
			rc := results[name]
			if !rc.OK() {
				failed++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, rc)
		}
		if failed > 0 {
			return fmt.Errorf("%d database(s) failed to sync", failed)
		}
		return nil
	})
}
