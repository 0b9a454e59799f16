package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"storemy/pkg/database"
	dberror "storemy/pkg/error"
	"storemy/pkg/logging"
	"storemy/pkg/session"

	"github.com/samber/mo"
)

// SysDB is the bootstrap database every initialized registry has open.
const SysDB = "sys"

// Factory constructs an uninitialized Database.
type Factory func() database.Database

// Registry maps names of open logical databases to their instances and
// manages the on-disk directory layout <base>/db/<name>/.
//
// The registry is the sole owner of every Database it opens. Instances are
// released only by Destroy.
type Registry struct {
	mu      sync.RWMutex
	cfg     Config
	dbDir   string
	opened  map[string]database.Database
	factory Factory
}

// Option configures a Registry built by New.
type Option func(*Registry)

// WithFactory replaces the Database constructor used by OpenDB.
func WithFactory(f Factory) Option {
	return func(r *Registry) {
		r.factory = f
	}
}

// New returns an uninitialized registry that builds databases with
// database.New unless WithFactory says otherwise.
func New(opts ...Option) *Registry {
	r := &Registry{
		opened:  make(map[string]database.Database),
		factory: database.New,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init prepares the directory layout, stores cfg and bootstraps the "sys"
// database: it is created if missing, opened, and made the current database
// of sess. A nil sess means the process bootstrap session.
//
// The configuration is fixed by the first successful call. Calling Init
// again with the same configuration is harmless; a different one is
// InvalidArgument and leaves the registry untouched.
func (r *Registry) Init(cfg Config, sess *session.Session) dberror.RC {
	log := logging.WithComponent("registry")

	r.mu.RLock()
	current, initialized := r.cfg, r.dbDir != ""
	r.mu.RUnlock()
	if initialized && current != cfg {
		log.Warn("registry already initialized with a different config",
			"base_dir", current.BaseDir, "requested_base_dir", cfg.BaseDir)
		return dberror.InvalidArgument
	}

	dbDir := cfg.DBDir()
	if err := ensureDir(dbDir); err != nil {
		log.Error("cannot access base dir", "db_dir", dbDir, "error", err)
		return dberror.IOErrWrite
	}

	r.mu.Lock()
	r.cfg = cfg
	r.dbDir = dbDir
	r.mu.Unlock()

	if rc := r.CreateDB(SysDB); rc != dberror.Success && rc != dberror.SchemaDBExist {
		log.Error("failed to create system db", "rc", rc)
		return rc
	}

	if rc := r.OpenDB(SysDB); rc != dberror.Success {
		log.Error("failed to open system db", "rc", rc)
		return rc
	}

	if sess == nil {
		sess = session.Default()
	}
	sess.SetCurrentDB(SysDB)

	log.Info("registry initialized", "base_dir", cfg.BaseDir)
	return dberror.Success
}

// ensureDir makes dir exist as a directory. An existing directory is success.
func ensureDir(dir string) error {
	if isDir(dir) {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// validName reports whether name can be a database directory directly
// under <base>/db: not blank, not "." or "..", and free of path separators.
func validName(name string) bool {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// Config returns the configuration stored by Init.
func (r *Registry) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// DBDir returns <base>/db, or "" before Init.
func (r *Registry) DBDir() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dbDir
}

func (r *Registry) dbPath(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filepath.Join(r.dbDir, name)
}

// CreateDB creates the directory for a new database. It never opens it.
func (r *Registry) CreateDB(name string) dberror.RC {
	log := logging.WithDatabase(name)
	if !validName(name) {
		log.Warn("invalid db name")
		return dberror.InvalidArgument
	}

	if r.DBDir() == "" {
		log.Error("create db before registry init")
		return dberror.Internal
	}

	path := r.dbPath(name)
	if isDir(path) {
		log.Warn("db already exists", "path", path)
		return dberror.SchemaDBExist
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		log.Error("create db failed", "path", path, "error", err)
		return dberror.IOErrWrite
	}
	log.Info("db created", "path", path)
	return dberror.Success
}

// DropDB is not supported and always returns Internal. Nothing is removed.
func (r *Registry) DropDB(name string) dberror.RC {
	logging.WithDatabase(name).Warn("drop db is not supported")
	return dberror.Internal
}

// OpenDB constructs and registers the database whose directory already
// exists. Opening a registered name is a no-op. OpenDB never creates the
// directory.
func (r *Registry) OpenDB(name string) dberror.RC {
	log := logging.WithDatabase(name)
	if !validName(name) {
		log.Warn("invalid db name")
		return dberror.InvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.opened[name]; ok {
		return dberror.Success
	}
	if r.dbDir == "" {
		log.Error("open db before registry init")
		return dberror.Internal
	}

	path := filepath.Join(r.dbDir, name)
	if !isDir(path) {
		log.Warn("db does not exist", "path", path)
		return dberror.SchemaDBNotExist
	}

	db := r.factory()
	rc := db.Init(name, path, r.cfg.TrxKitName, r.cfg.LogHandlerName, r.cfg.StorageEngine)
	if rc != dberror.Success {
		log.Error("failed to open db", "rc", rc)
		db.Close()
		return rc
	}

	r.opened[name] = db
	return dberror.Success
}

// CloseDB is not supported and always returns Unimplemented.
func (r *Registry) CloseDB(name string) dberror.RC {
	return dberror.Unimplemented
}

// CreateTable creates a table in the open database dbName with default
// storage options.
func (r *Registry) CreateTable(dbName, tableName string, attributes []database.AttrInfo) dberror.RC {
	return r.CreateTableWithOptions(dbName, tableName, attributes, database.StorageOptions{})
}

// CreateTableWithOptions is CreateTable with explicit storage options.
func (r *Registry) CreateTableWithOptions(dbName, tableName string, attributes []database.AttrInfo, options database.StorageOptions) dberror.RC {
	r.mu.RLock()
	defer r.mu.RUnlock()

	db, ok := r.opened[dbName]
	if !ok {
		logging.WithTable(dbName, tableName).Warn("create table on a db that is not open")
		return dberror.SchemaDBNotOpened
	}
	return db.CreateTable(tableName, attributes, options)
}

// DropTable drops a table from the open database dbName. A database that
// exists on disk but was never opened is SchemaDBNotOpened.
func (r *Registry) DropTable(dbName, tableName string) dberror.RC {
	r.mu.RLock()
	defer r.mu.RUnlock()

	db, ok := r.opened[dbName]
	if !ok {
		logging.WithTable(dbName, tableName).Warn("drop table on a db that is not open")
		return dberror.SchemaDBNotOpened
	}
	return db.DropTable(tableName)
}

// FindDB returns the open database called name. The returned handle is
// borrowed from the registry.
func (r *Registry) FindDB(name string) mo.Option[database.Database] {
	if name == "" {
		return mo.None[database.Database]()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if db, ok := r.opened[name]; ok {
		return mo.Some(db)
	}
	return mo.None[database.Database]()
}

// FindTable returns table tableName of the open database dbName.
func (r *Registry) FindTable(dbName, tableName string) mo.Option[*database.Table] {
	if dbName == "" || tableName == "" {
		logging.Debug("invalid find table arguments", "db", dbName, "table", tableName)
		return mo.None[*database.Table]()
	}

	db, ok := r.FindDB(dbName).Get()
	if !ok {
		return mo.None[*database.Table]()
	}
	return db.FindTable(tableName)
}

// Names returns the sorted names of all open databases.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.opened))
	for name := range r.opened {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of open databases.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.opened)
}

// Exists reports whether the directory for name exists, whether or not the
// database is open.
func (r *Registry) Exists(name string) bool {
	if !validName(name) {
		return false
	}
	return r.DBDir() != "" && isDir(r.dbPath(name))
}

// Destroy syncs, then closes and forgets every open database regardless of
// the sync result. Calling it again is a no-op.
func (r *Registry) Destroy() {
	if rc := r.Sync(); rc != dberror.Success {
		logging.WithComponent("registry").Warn("sync before destroy failed; releasing anyway", "rc", rc)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for name, db := range r.opened {
		if rc := db.Close(); rc != dberror.Success {
			logging.WithDatabase(name).Warn("close failed during destroy", "rc", rc)
		}
	}
	r.opened = make(map[string]database.Database)
}
