package cmd

import (
	"fmt"

	"storemy/pkg/registry"
	"storemy/pkg/session"

	"github.com/spf13/cobra"
)

var createDBCmd = &cobra.Command{
	Use:   "createdb NAME",
	Short: "Create an empty database directory",
	Long: `Create <base-dir>/db/NAME. The database is not opened; use
"exec --db NAME" or "\c NAME" in the shell to open it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreateDB,
}

func runCreateDB(cmd *cobra.Command, args []string) error {
	name := args[0]
	return withRegistry(func(reg *registry.Registry, _ *session.Session) error {
		if rc := reg.CreateDB(name); !rc.OK() {
			return fmt.Errorf("create database %s: %s", name, rc)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created database %s\n", name)
		return nil
	})
}
