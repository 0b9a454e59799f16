package database

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	dberror "storemy/pkg/error"
	"storemy/pkg/logging"

	"github.com/samber/mo"
	_ "modernc.org/sqlite"
)

const (
	// CatalogFile is the SQLite file holding table metadata, inside the
	// database directory.
	CatalogFile = "catalog.db"

	componentCatalog = "Catalog"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS tables (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT    NOT NULL UNIQUE,
	format     TEXT    NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS columns (
	table_id INTEGER NOT NULL REFERENCES tables(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	name     TEXT    NOT NULL,
	type     INTEGER NOT NULL,
	length   INTEGER NOT NULL,
	nullable INTEGER NOT NULL,
	PRIMARY KEY (table_id, position)
);`

// CatalogDB is the default Database. Table metadata lives in a SQLite
// catalog inside the database directory and is cached in memory after Init.
type CatalogDB struct {
	mu sync.RWMutex

	name          string
	path          string
	trxKitName    string
	logHandler    string
	storageEngine string

	catalog *sql.DB
	tables  map[string]*Table
}

// New returns an uninitialized CatalogDB; call Init before use.
func New() Database {
	return &CatalogDB{tables: make(map[string]*Table)}
}

// Init opens or creates the catalog file under path and loads its tables.
func (d *CatalogDB) Init(name, path, trxKitName, logHandlerName, storageEngine string) dberror.RC {
	if err := d.init(name, path, trxKitName, logHandlerName, storageEngine); err != nil {
		logging.WithDatabase(name).Error("failed to init db", "path", path, "error", err)
		return dberror.CodeOf(err)
	}
	logging.WithDatabase(name).Info("db opened",
		"path", path,
		"trx_kit", trxKitName,
		"log_handler", logHandlerName,
		"storage_engine", storageEngine,
		"tables", len(d.tables))
	return dberror.Success
}

func (d *CatalogDB) init(name, path, trxKitName, logHandlerName, storageEngine string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
		return dberror.New(dberror.InvalidArgument, dberror.ErrCategoryUser, "INVALID_DB_ARGS",
			"db name and path are required")
	}
	if err := ValidateSelectors(trxKitName, logHandlerName, storageEngine); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.catalog != nil {
		return dberror.New(dberror.Internal, dberror.ErrCategorySystem, "DB_ALREADY_INITIALIZED",
			"db already initialized").WithDetail("%s", d.name)
	}

	dsn := filepath.Join(filepath.Clean(path), CatalogFile) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	catalog, err := sql.Open("sqlite", dsn)
	if err != nil {
		return dberror.Wrap(err, dberror.IOErrRead, "CATALOG_OPEN_FAILED", "Init", componentCatalog)
	}
	if _, err := catalog.Exec(catalogSchema); err != nil {
		_ = catalog.Close()
		return dberror.Wrap(err, dberror.IOErrWrite, "CATALOG_SCHEMA_FAILED", "Init", componentCatalog)
	}

	tables, err := loadTables(catalog)
	if err != nil {
		_ = catalog.Close()
		return dberror.Wrap(err, dberror.IOErrRead, "CATALOG_LOAD_FAILED", "Init", componentCatalog)
	}

	d.name = name
	d.path = path
	d.trxKitName = trxKitName
	d.logHandler = logHandlerName
	d.storageEngine = storageEngine
	d.catalog = catalog
	d.tables = tables
	return nil
}

func loadTables(catalog *sql.DB) (map[string]*Table, error) {
	tables := make(map[string]*Table)
	byID := make(map[int64]*Table)

	rows, err := catalog.Query(`SELECT id, name, format, created_at FROM tables`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t         Table
			format    string
			createdAt int64
		)
		if err := rows.Scan(&t.ID, &t.Name, &format, &createdAt); err != nil {
			return nil, err
		}
		t.Format = StorageFormat(format)
		t.CreatedAt = time.UnixMilli(createdAt).UTC()
		tables[t.Name] = &t
		byID[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cols, err := catalog.Query(`SELECT table_id, name, type, length, nullable FROM columns ORDER BY table_id, position`)
	if err != nil {
		return nil, err
	}
	defer cols.Close()

	for cols.Next() {
		var (
			tableID  int64
			attr     AttrInfo
			attrType int
			nullable int
		)
		if err := cols.Scan(&tableID, &attr.Name, &attrType, &attr.Length, &nullable); err != nil {
			return nil, err
		}
		t, ok := byID[tableID]
		if !ok {
			return nil, dberror.New(dberror.Internal, dberror.ErrCategoryData, "ORPHAN_COLUMN",
				"column references unknown table").WithDetail("table_id=%d column=%s", tableID, attr.Name)
		}
		attr.Type = AttrType(attrType)
		attr.Nullable = nullable != 0
		t.Attributes = append(t.Attributes, attr)
	}
	return tables, cols.Err()
}

// Name returns the database name.
func (d *CatalogDB) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.name
}

// Path returns the database directory.
func (d *CatalogDB) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// CreateTable records a new table in the catalog.
func (d *CatalogDB) CreateTable(name string, attributes []AttrInfo, options StorageOptions) dberror.RC {
	log := logging.WithTable(d.Name(), name)
	if err := d.createTable(name, attributes, options); err != nil {
		log.Warn("failed to create table", "error", err)
		return dberror.CodeOf(err)
	}
	log.Info("table created", "attributes", len(attributes), "format", options.format())
	return dberror.Success
}

func (d *CatalogDB) createTable(name string, attributes []AttrInfo, options StorageOptions) error {
	if err := validateTableDef(name, attributes, options); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.catalog == nil {
		return errNotInitialized("CreateTable")
	}
	if _, exists := d.tables[name]; exists {
		return dberror.New(dberror.SchemaTableExist, dberror.ErrCategoryUser, "TABLE_EXISTS",
			"table already exists").WithDetail("%s", name)
	}

	table := &Table{
		Name:       name,
		Attributes: normalizeAttrs(attributes),
		Format:     options.format(),
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}

	tx, err := d.catalog.Begin()
	if err != nil {
		return dberror.Wrap(err, dberror.IOErrWrite, "CATALOG_TX_FAILED", "CreateTable", componentCatalog)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`INSERT INTO tables (name, format, created_at) VALUES (?, ?, ?)`,
		table.Name, string(table.Format), table.CreatedAt.UnixMilli())
	if err != nil {
		return dberror.Wrap(err, dberror.IOErrWrite, "CATALOG_WRITE_FAILED", "CreateTable", componentCatalog)
	}
	if table.ID, err = res.LastInsertId(); err != nil {
		return dberror.Wrap(err, dberror.IOErrWrite, "CATALOG_WRITE_FAILED", "CreateTable", componentCatalog)
	}

	for i, a := range table.Attributes {
		if _, err := tx.Exec(`INSERT INTO columns (table_id, position, name, type, length, nullable) VALUES (?, ?, ?, ?, ?, ?)`,
			table.ID, i, a.Name, int(a.Type), a.Length, boolToInt(a.Nullable)); err != nil {
			return dberror.Wrap(err, dberror.IOErrWrite, "CATALOG_WRITE_FAILED", "CreateTable", componentCatalog)
		}
	}

	if err := tx.Commit(); err != nil {
		return dberror.Wrap(err, dberror.IOErrWrite, "CATALOG_COMMIT_FAILED", "CreateTable", componentCatalog)
	}

	d.tables[name] = table
	return nil
}

func validateTableDef(name string, attributes []AttrInfo, options StorageOptions) error {
	invalid := func(msg string) *dberror.DBError {
		return dberror.New(dberror.InvalidArgument, dberror.ErrCategoryUser, "INVALID_TABLE_DEF", msg)
	}

	if strings.TrimSpace(name) == "" {
		return invalid("table name cannot be blank")
	}
	if len(attributes) == 0 {
		return invalid("table needs at least one attribute").WithDetail("%s", name)
	}
	if f := options.format(); f != RowFormat && f != PaxFormat {
		return invalid("unknown storage format").WithDetail("%q", f)
	}

	seen := make(map[string]struct{}, len(attributes))
	for _, a := range attributes {
		if strings.TrimSpace(a.Name) == "" {
			return invalid("attribute name cannot be blank").WithDetail("table %s", name)
		}
		key := strings.ToLower(a.Name)
		if _, dup := seen[key]; dup {
			return invalid("duplicate attribute").WithDetail("%s.%s", name, a.Name)
		}
		seen[key] = struct{}{}

		if a.Type == Undefined || a.Type > Dates {
			return dberror.New(dberror.SchemaFieldTypeMismatch, dberror.ErrCategoryUser, "INVALID_ATTR_TYPE",
				"invalid attribute type").WithDetail("%s.%s", name, a.Name)
		}
		if a.Type == Chars && a.Length <= 0 {
			return invalid("CHARS attribute needs a positive length").WithDetail("%s.%s", name, a.Name)
		}
	}
	return nil
}

func normalizeAttrs(attributes []AttrInfo) []AttrInfo {
	out := make([]AttrInfo, len(attributes))
	for i, a := range attributes {
		if n := a.Type.fixedLength(); n > 0 {
			a.Length = n
		}
		out[i] = a
	}
	return out
}

// FindTable looks up a table by name.
func (d *CatalogDB) FindTable(name string) mo.Option[*Table] {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if t, ok := d.tables[name]; ok {
		return mo.Some(t)
	}
	return mo.None[*Table]()
}

// Tables returns the sorted names of every table in the database.
func (d *CatalogDB) Tables() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DropTable removes a table from the catalog.
func (d *CatalogDB) DropTable(name string) dberror.RC {
	log := logging.WithTable(d.Name(), name)
	if err := d.dropTable(name); err != nil {
		log.Warn("failed to drop table", "error", err)
		return dberror.CodeOf(err)
	}
	log.Info("table dropped")
	return dberror.Success
}

func (d *CatalogDB) dropTable(name string) error {
	if strings.TrimSpace(name) == "" {
		return dberror.New(dberror.InvalidArgument, dberror.ErrCategoryUser, "INVALID_TABLE_NAME",
			"table name cannot be blank")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.catalog == nil {
		return errNotInitialized("DropTable")
	}
	table, ok := d.tables[name]
	if !ok {
		return dberror.New(dberror.SchemaTableNotExist, dberror.ErrCategoryUser, "TABLE_NOT_EXIST",
			"table does not exist").WithDetail("%s", name)
	}

	tx, err := d.catalog.Begin()
	if err != nil {
		return dberror.Wrap(err, dberror.IOErrWrite, "CATALOG_TX_FAILED", "DropTable", componentCatalog)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM columns WHERE table_id = ?`, table.ID); err != nil {
		return dberror.Wrap(err, dberror.IOErrWrite, "CATALOG_WRITE_FAILED", "DropTable", componentCatalog)
	}
	if _, err := tx.Exec(`DELETE FROM tables WHERE id = ?`, table.ID); err != nil {
		return dberror.Wrap(err, dberror.IOErrWrite, "CATALOG_WRITE_FAILED", "DropTable", componentCatalog)
	}
	if err := tx.Commit(); err != nil {
		return dberror.Wrap(err, dberror.IOErrWrite, "CATALOG_COMMIT_FAILED", "DropTable", componentCatalog)
	}

	delete(d.tables, name)
	return nil
}

// Sync checkpoints the catalog's write-ahead log into the main file.
func (d *CatalogDB) Sync() dberror.RC {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.catalog == nil {
		return dberror.CodeOf(errNotInitialized("Sync"))
	}
	if _, err := d.catalog.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		wrapped := dberror.Wrap(err, dberror.IOErrSync, "CATALOG_SYNC_FAILED", "Sync", componentCatalog)
		logging.WithDatabase(d.name).Error("failed to sync db", "error", wrapped)
		return wrapped.RC
	}
	return dberror.Success
}

// Close releases the catalog connection.
func (d *CatalogDB) Close() dberror.RC {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.catalog == nil {
		return dberror.Success
	}
	err := d.catalog.Close()
	d.catalog = nil
	d.tables = make(map[string]*Table)
	if err != nil {
		wrapped := dberror.Wrap(err, dberror.IOErrWrite, "CATALOG_CLOSE_FAILED", "Close", componentCatalog)
		logging.WithDatabase(d.name).Error("failed to close db", "error", wrapped)
		return wrapped.RC
	}
	return dberror.Success
}

func errNotInitialized(op string) *dberror.DBError {
	return dberror.New(dberror.Internal, dberror.ErrCategorySystem, "DB_NOT_INITIALIZED",
		fmt.Sprintf("%s on uninitialized db", op))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
