package cmd

import (
	"fmt"
	"io"
	"strings"

	"storemy/pkg/registry"
	"storemy/pkg/session"
	"storemy/pkg/ui"

	"github.com/spf13/cobra"
)

// ExecDB is the database exec runs against. Empty means sys.
var ExecDB string

var execCmd = &cobra.Command{
	Use:   "exec [SQL...]",
	Short: "Dispatch SQL statements and print the responses",
	Long: `Parse the arguments (or stdin when there are none) as semicolon separated
SQL and dispatch every statement against the current database, "sys" unless
--db is given. One response line is printed per statement.

Examples:
  storemy exec "DROP TABLE users"
  storemy exec --db shop "drop table a; drop table b"
  echo "DROP TABLE t;" | storemy exec`,
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringVar(&ExecDB, "db", "", "Database to open and use (default sys)")
}

func runExec(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		input = string(data)
	}

	return withRegistry(func(reg *registry.Registry, sess *session.Session) error {
		if ExecDB != "" && ExecDB != registry.SysDB {
			if rc := reg.OpenDB(ExecDB); !rc.OK() {
				return fmt.Errorf("open database %s: %s", ExecDB, rc)
			}
			sess.SetCurrentDB(ExecDB)
		}

		res := ui.NewExecutor(reg, sess).Execute(input)
		if res.Err != nil {
			return res.Err
		}
		fmt.Fprint(cmd.OutOrStdout(), res.Response)
		return nil
	})
}
