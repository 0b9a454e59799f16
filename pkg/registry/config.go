package registry

import (
	"fmt"
	"path/filepath"

	"storemy/pkg/database"
	"storemy/pkg/logging"

	"github.com/caarlos0/env/v11"
)

// DBSubdir is the directory under the base directory that holds one
// subdirectory per logical database.
const DBSubdir = "db"

// Config is the registry configuration. It is fixed by Init and forwarded
// unchanged to every database the registry opens.
type Config struct {
	BaseDir        string `env:"STOREMY_BASE_DIR" envDefault:"./data"`
	TrxKitName     string `env:"STOREMY_TRX_KIT" envDefault:"vacuous"`
	LogHandlerName string `env:"STOREMY_LOG_HANDLER" envDefault:"vacuous"`
	StorageEngine  string `env:"STOREMY_STORAGE_ENGINE" envDefault:"heap"`

	Logging logging.Config
}

// DefaultConfig returns the configuration used when nothing is set in the
// environment.
func DefaultConfig() Config {
	return Config{
		BaseDir:        "./data",
		TrxKitName:     database.TrxKitVacuous,
		LogHandlerName: database.LogHandlerVacuous,
		StorageEngine:  database.StorageEngineHeap,
		Logging:        logging.Config{Level: logging.LevelInfo, Format: "text"},
	}
}

// LoadConfig reads the configuration from STOREMY_* environment variables.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// DBDir returns BaseDir/db.
func (c Config) DBDir() string {
	return filepath.Join(c.BaseDir, DBSubdir)
}
