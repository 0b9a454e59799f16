package cmd

import (
	"fmt"

	"storemy/pkg/logging"
	"storemy/pkg/registry"
	"storemy/pkg/session"

	"github.com/spf13/cobra"
)

var (
	BaseDir       string
	TrxKit        string
	LogHandler    string
	StorageEngine string
	LogLevel      string

	appConfig registry.Config
)

var rootCmd = &cobra.Command{
	Use:   "storemy",
	Short: "Database registry and SQL shell",
	Long: `storemy manages a directory of databases and dispatches SQL commands to them.

Every database lives in its own directory under <base-dir>/db. The system
database "sys" is created on first start and opened on every start.
Settings come from STOREMY_* environment variables and can be overridden
with flags.

Examples:
  storemy init --base-dir ./data
  storemy createdb shop
  storemy exec --db shop "DROP TABLE users"
  storemy sync
  storemy shell`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runShell,
}

// Execute runs the root command.
func Execute() error {
	defer logging.Close()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&BaseDir, "base-dir", "", "Base directory holding the db/ tree (env STOREMY_BASE_DIR)")
	rootCmd.PersistentFlags().StringVar(&TrxKit, "trx-kit", "", "Transaction kit name (env STOREMY_TRX_KIT)")
	rootCmd.PersistentFlags().StringVar(&LogHandler, "log-handler", "", "Log handler name (env STOREMY_LOG_HANDLER)")
	rootCmd.PersistentFlags().StringVar(&StorageEngine, "storage-engine", "", "Storage engine name (env STOREMY_STORAGE_ENGINE)")
	rootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level: debug, info, warn, error (env STOREMY_LOG_LEVEL)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(createDBCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(shellCmd)
}

// loadConfig reads the environment, applies flags that were set explicitly
// and initializes logging.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := registry.LoadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-dir") {
		cfg.BaseDir = BaseDir
	}
	if flags.Changed("trx-kit") {
		cfg.TrxKitName = TrxKit
	}
	if flags.Changed("log-handler") {
		cfg.LogHandlerName = LogHandler
	}
	if flags.Changed("storage-engine") {
		cfg.StorageEngine = StorageEngine
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logging.LogLevel(LogLevel)
	}

	logging.Close()
	if err := logging.Init(cfg.Logging); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	appConfig = cfg
	return nil
}

// withRegistry locks the base directory, initializes a registry with the
// bootstrap session and tears both down after fn returns.
func withRegistry(fn func(reg *registry.Registry, sess *session.Session) error) error {
	fileLock, err := registry.LockBaseDir(appConfig.BaseDir)
	if err != nil {
		return err
	}
	defer fileLock.Unlock()

	sess := session.Default()
	reg := registry.New()
	if rc := reg.Init(appConfig, sess); !rc.OK() {
		return fmt.Errorf("init registry in %s: %s", appConfig.BaseDir, rc)
	}
	defer reg.Destroy()

	return fn(reg, sess)
}
