package registry

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"storemy/pkg/database"
	dberror "storemy/pkg/error"
	"storemy/pkg/session"

	"github.com/samber/mo"
)

// fakeDB records calls made by the registry.
type fakeDB struct {
	mu sync.Mutex

	name   string
	path   string
	initRC dberror.RC
	syncRC dberror.RC
	tables map[string]*database.Table

	syncCalls  int
	closeCalls int
}

func (f *fakeDB) Init(name, path, trxKitName, logHandlerName, storageEngine string) dberror.RC {
	f.name = name
	f.path = path
	return f.initRC
}

func (f *fakeDB) Name() string { return f.name }

func (f *fakeDB) CreateTable(name string, attributes []database.AttrInfo, options database.StorageOptions) dberror.RC {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[name]; ok {
		return dberror.SchemaTableExist
	}
	f.tables[name] = &database.Table{Name: name, Attributes: attributes}
	return dberror.Success
}

func (f *fakeDB) FindTable(name string) mo.Option[*database.Table] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tables[name]; ok {
		return mo.Some(t)
	}
	return mo.None[*database.Table]()
}

func (f *fakeDB) DropTable(name string) dberror.RC {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tables[name]; !ok {
		return dberror.SchemaTableNotExist
	}
	delete(f.tables, name)
	return dberror.Success
}

func (f *fakeDB) Sync() dberror.RC {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncCalls++
	return f.syncRC
}

func (f *fakeDB) Close() dberror.RC {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls++
	return dberror.Success
}

func (f *fakeDB) syncs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.syncCalls
}

// fakeFactory hands out fakeDBs and remembers every instance it built.
type fakeFactory struct {
	mu     sync.Mutex
	built  []*fakeDB
	initRC map[string]dberror.RC
	syncRC map[string]dberror.RC
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		initRC: make(map[string]dberror.RC),
		syncRC: make(map[string]dberror.RC),
	}
}

func (ff *fakeFactory) New() database.Database {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	db := &fakeDB{tables: make(map[string]*database.Table), initRC: dberror.Success}
	ff.built = append(ff.built, db)
	return &lazyFakeDB{fakeDB: db, factory: ff}
}

func (ff *fakeFactory) count() int {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	return len(ff.built)
}

// lazyFakeDB applies the per-name results configured on the factory once
// Init tells it which database it is.
type lazyFakeDB struct {
	*fakeDB
	factory *fakeFactory
}

func (l *lazyFakeDB) Init(name, path, trxKitName, logHandlerName, storageEngine string) dberror.RC {
	l.factory.mu.Lock()
	if rc, ok := l.factory.initRC[name]; ok {
		l.initRC = rc
	}
	if rc, ok := l.factory.syncRC[name]; ok {
		l.syncRC = rc
	}
	l.factory.mu.Unlock()
	return l.fakeDB.Init(name, path, trxKitName, logHandlerName, storageEngine)
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseDir = filepath.Join(t.TempDir(), "base")
	return cfg
}

func setupFakeRegistry(t *testing.T) (*Registry, *fakeFactory, *session.Session) {
	t.Helper()

	ff := newFakeFactory()
	reg := New(WithFactory(ff.New))
	sess := session.New()
	if rc := reg.Init(testConfig(t), sess); rc != dberror.Success {
		t.Fatalf("Init failed: %v", rc)
	}
	t.Cleanup(reg.Destroy)
	return reg, ff, sess
}

func fakeOf(t *testing.T, reg *Registry, name string) *fakeDB {
	t.Helper()
	db, ok := reg.FindDB(name).Get()
	if !ok {
		t.Fatalf("db %q is not open", name)
	}
	return db.(*lazyFakeDB).fakeDB
}

func TestRegistry_InitTwiceSameBaseDir(t *testing.T) {
	cfg := testConfig(t)
	reg := New()
	defer reg.Destroy()
	sess := session.New()

	for i := 0; i < 2; i++ {
		if rc := reg.Init(cfg, sess); rc != dberror.Success {
			t.Fatalf("Init #%d failed: %v", i+1, rc)
		}
	}

	entries, err := os.ReadDir(cfg.DBDir())
	if err != nil {
		t.Fatalf("failed to read db dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != SysDB || !entries[0].IsDir() {
		t.Errorf("expected exactly one 'sys' directory, got %v", entries)
	}

	if sess.CurrentDB() != SysDB {
		t.Errorf("expected current db 'sys', got %q", sess.CurrentDB())
	}
	if reg.Len() != 1 || reg.FindDB(SysDB).IsAbsent() {
		t.Errorf("expected only 'sys' to be open, got %v", reg.Names())
	}

	// A second registry over the same base directory also initializes.
	other := New()
	defer other.Destroy()
	if rc := other.Init(cfg, session.New()); rc != dberror.Success {
		t.Errorf("Init on existing layout failed: %v", rc)
	}
}

func TestRegistry_InitUsesBootstrapSession(t *testing.T) {
	reg := New(WithFactory(newFakeFactory().New))
	defer reg.Destroy()

	if rc := reg.Init(testConfig(t), nil); rc != dberror.Success {
		t.Fatalf("Init failed: %v", rc)
	}
	if session.Default().CurrentDB() != SysDB {
		t.Errorf("expected bootstrap session to point at 'sys', got %q", session.Default().CurrentDB())
	}
}

func TestRegistry_InitFailures(t *testing.T) {
	t.Run("BaseDirIsAFile", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(base, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg := DefaultConfig()
		cfg.BaseDir = base

		reg := New(WithFactory(newFakeFactory().New))
		if rc := reg.Init(cfg, session.New()); rc != dberror.IOErrWrite {
			t.Errorf("expected IOERR_WRITE, got %v", rc)
		}
	})

	t.Run("SysOpenFails", func(t *testing.T) {
		ff := newFakeFactory()
		ff.initRC[SysDB] = dberror.IOErrRead
		reg := New(WithFactory(ff.New))
		sess := session.New()

		if rc := reg.Init(testConfig(t), sess); rc != dberror.IOErrRead {
			t.Errorf("expected IOERR_READ, got %v", rc)
		}
		if sess.CurrentDB() != "" {
			t.Errorf("current db should not be set on failure, got %q", sess.CurrentDB())
		}
	})
}

func TestRegistry_CreateDB(t *testing.T) {
	reg, _, _ := setupFakeRegistry(t)

	if rc := reg.CreateDB("shop"); rc != dberror.Success {
		t.Fatalf("CreateDB failed: %v", rc)
	}
	if !reg.Exists("shop") {
		t.Error("expected directory to exist after CreateDB")
	}
	if reg.FindDB("shop").IsPresent() {
		t.Error("CreateDB must not open the database")
	}

	if rc := reg.CreateDB("shop"); rc != dberror.SchemaDBExist {
		t.Errorf("expected SCHEMA_DB_EXIST, got %v", rc)
	}
}

func TestRegistry_BlankNames(t *testing.T) {
	reg, _, _ := setupFakeRegistry(t)

	for _, name := range []string{"", "   ", "\t"} {
		if rc := reg.CreateDB(name); rc != dberror.InvalidArgument {
			t.Errorf("CreateDB(%q): expected INVALID_ARGUMENT, got %v", name, rc)
		}
		if rc := reg.OpenDB(name); rc != dberror.InvalidArgument {
			t.Errorf("OpenDB(%q): expected INVALID_ARGUMENT, got %v", name, rc)
		}
	}
}

func TestRegistry_NamesOutsideLayout(t *testing.T) {
	reg, ff, _ := setupFakeRegistry(t)
	base := reg.Config().BaseDir

	tests := []struct {
		name   string
		dbName string
	}{
		{"ParentEscape", "../../escaped"},
		{"Nested", "sys/inner"},
		{"Parent", ".."},
		{"Current", "."},
		{"Backslash", `a\b`},
		{"TrailingSlash", "shop/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rc := reg.CreateDB(tt.dbName); rc != dberror.InvalidArgument {
				t.Errorf("CreateDB(%q): expected INVALID_ARGUMENT, got %v", tt.dbName, rc)
			}
			if rc := reg.OpenDB(tt.dbName); rc != dberror.InvalidArgument {
				t.Errorf("OpenDB(%q): expected INVALID_ARGUMENT, got %v", tt.dbName, rc)
			}
			if reg.Exists(tt.dbName) {
				t.Errorf("Exists(%q) should be false", tt.dbName)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(base, "..", "..", "escaped")); !os.IsNotExist(err) {
		t.Errorf("nothing may be created outside the base dir, stat err=%v", err)
	}
	if reg.Len() != 1 || ff.count() != 1 {
		t.Errorf("expected only 'sys' open and built, got %v (built %d)", reg.Names(), ff.count())
	}
}

func TestRegistry_InitKeepsFirstConfig(t *testing.T) {
	reg, _, sess := setupFakeRegistry(t)
	first := reg.Config()

	other := first
	other.BaseDir = filepath.Join(t.TempDir(), "other")
	if rc := reg.Init(other, sess); rc != dberror.InvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT for a different config, got %v", rc)
	}
	if reg.Config() != first || reg.DBDir() != first.DBDir() {
		t.Errorf("config changed to %+v", reg.Config())
	}
	if _, err := os.Stat(other.DBDir()); !os.IsNotExist(err) {
		t.Errorf("rejected Init must not touch the filesystem, stat err=%v", err)
	}

	if rc := reg.Init(first, sess); rc != dberror.Success {
		t.Errorf("Init with the original config should succeed, got %v", rc)
	}
}

func TestRegistry_BeforeInit(t *testing.T) {
	reg := New(WithFactory(newFakeFactory().New))

	if rc := reg.CreateDB("shop"); rc != dberror.Internal {
		t.Errorf("CreateDB: expected INTERNAL, got %v", rc)
	}
	if rc := reg.OpenDB("shop"); rc != dberror.Internal {
		t.Errorf("OpenDB: expected INTERNAL, got %v", rc)
	}
	if reg.Exists("shop") {
		t.Error("nothing exists before Init")
	}
}

func TestRegistry_OpenMissingDB(t *testing.T) {
	reg, ff, _ := setupFakeRegistry(t)
	before := reg.Len()
	built := ff.count()

	if rc := reg.OpenDB("ghost"); rc != dberror.SchemaDBNotExist {
		t.Errorf("expected SCHEMA_DB_NOT_EXIST, got %v", rc)
	}
	if reg.Len() != before {
		t.Errorf("mapping changed: %d -> %d", before, reg.Len())
	}
	if ff.count() != built {
		t.Error("no instance should be constructed for a missing db")
	}
	if reg.Exists("ghost") {
		t.Error("OpenDB must not create the directory")
	}
}

func TestRegistry_CreateThenOpen(t *testing.T) {
	reg, _, _ := setupFakeRegistry(t)
	before := reg.Len()

	if rc := reg.CreateDB("shop"); rc != dberror.Success {
		t.Fatalf("CreateDB failed: %v", rc)
	}
	if rc := reg.OpenDB("shop"); rc != dberror.Success {
		t.Fatalf("OpenDB failed: %v", rc)
	}

	if reg.Len() != before+1 {
		t.Errorf("expected %d open dbs, got %d", before+1, reg.Len())
	}
	db := fakeOf(t, reg, "shop")
	if db.name != "shop" || db.path != filepath.Join(reg.DBDir(), "shop") {
		t.Errorf("unexpected init args: name=%q path=%q", db.name, db.path)
	}
}

func TestRegistry_OpenIsIdempotent(t *testing.T) {
	reg, ff, _ := setupFakeRegistry(t)
	reg.CreateDB("shop")

	if rc := reg.OpenDB("shop"); rc != dberror.Success {
		t.Fatalf("first OpenDB failed: %v", rc)
	}
	first := reg.FindDB("shop").MustGet()
	built := ff.count()

	if rc := reg.OpenDB("shop"); rc != dberror.Success {
		t.Fatalf("second OpenDB failed: %v", rc)
	}
	second := reg.FindDB("shop").MustGet()

	if first != second {
		t.Error("expected the same handle after reopening")
	}
	if ff.count() != built {
		t.Error("a second instance was constructed")
	}
}

func TestRegistry_OpenConcurrent(t *testing.T) {
	reg, ff, _ := setupFakeRegistry(t)
	reg.CreateDB("shop")
	built := ff.count()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rc := reg.OpenDB("shop"); rc != dberror.Success {
				t.Errorf("OpenDB failed: %v", rc)
			}
			_ = reg.FindTable("shop", "t")
		}()
	}
	wg.Wait()

	if ff.count() != built+1 {
		t.Errorf("expected exactly one construction, got %d", ff.count()-built)
	}
}

func TestRegistry_OpenFailureDiscardsInstance(t *testing.T) {
	reg, ff, _ := setupFakeRegistry(t)
	ff.initRC["broken"] = dberror.IOErrRead
	reg.CreateDB("broken")

	if rc := reg.OpenDB("broken"); rc != dberror.IOErrRead {
		t.Errorf("expected IOERR_READ, got %v", rc)
	}
	if reg.FindDB("broken").IsPresent() {
		t.Error("failed db must not be registered")
	}

	last := ff.built[len(ff.built)-1]
	if last.closeCalls != 1 {
		t.Errorf("expected discarded instance to be closed once, got %d", last.closeCalls)
	}
}

func TestRegistry_DropTableRequiresOpenDB(t *testing.T) {
	reg, _, _ := setupFakeRegistry(t)
	reg.CreateDB("shop")

	if rc := reg.DropTable("shop", "orders"); rc != dberror.SchemaDBNotOpened {
		t.Errorf("expected SCHEMA_DB_NOT_OPENED for an unopened db on disk, got %v", rc)
	}
	if rc := reg.CreateTable("shop", "orders", nil); rc != dberror.SchemaDBNotOpened {
		t.Errorf("expected SCHEMA_DB_NOT_OPENED, got %v", rc)
	}
	if rc := reg.DropTable("nowhere", "orders"); rc != dberror.SchemaDBNotOpened {
		t.Errorf("expected SCHEMA_DB_NOT_OPENED, got %v", rc)
	}
}

func TestRegistry_TableDelegation(t *testing.T) {
	reg, _, _ := setupFakeRegistry(t)
	attrs := []database.AttrInfo{{Name: "id", Type: database.Ints}}

	if rc := reg.CreateTable(SysDB, "orders", attrs); rc != dberror.Success {
		t.Fatalf("CreateTable failed: %v", rc)
	}
	table, ok := reg.FindTable(SysDB, "orders").Get()
	if !ok || table.Name != "orders" {
		t.Fatalf("expected to find 'orders', got %+v ok=%v", table, ok)
	}

	if rc := reg.CreateTable(SysDB, "orders", attrs); rc != dberror.SchemaTableExist {
		t.Errorf("expected SCHEMA_TABLE_EXIST, got %v", rc)
	}
	if rc := reg.DropTable(SysDB, "orders"); rc != dberror.Success {
		t.Errorf("DropTable failed: %v", rc)
	}
	if rc := reg.DropTable(SysDB, "orders"); rc != dberror.SchemaTableNotExist {
		t.Errorf("expected SCHEMA_TABLE_NOT_EXIST, got %v", rc)
	}
}

func TestRegistry_FindAbsence(t *testing.T) {
	reg, _, _ := setupFakeRegistry(t)
	reg.CreateTable(SysDB, "orders", []database.AttrInfo{{Name: "id", Type: database.Ints}})

	tests := []struct {
		name, db, table string
	}{
		{"EmptyDB", "", "orders"},
		{"EmptyTable", SysDB, ""},
		{"MissingDB", "ghost", "orders"},
		{"MissingTable", SysDB, "ghosts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if reg.FindTable(tt.db, tt.table).IsPresent() {
				t.Error("expected absence")
			}
		})
	}

	if reg.FindDB("").IsPresent() || reg.FindDB("ghost").IsPresent() {
		t.Error("expected FindDB absence")
	}
}

func TestRegistry_StubOperations(t *testing.T) {
	reg, _, _ := setupFakeRegistry(t)

	if rc := reg.DropDB(SysDB); rc != dberror.Internal {
		t.Errorf("DropDB: expected INTERNAL, got %v", rc)
	}
	if !reg.Exists(SysDB) || reg.FindDB(SysDB).IsAbsent() {
		t.Error("DropDB must not remove or deregister anything")
	}

	if rc := reg.CloseDB(SysDB); rc != dberror.Unimplemented {
		t.Errorf("CloseDB: expected UNIMPLEMENTED, got %v", rc)
	}
	if reg.FindDB(SysDB).IsAbsent() {
		t.Error("CloseDB must not deregister the db")
	}
}

func TestRegistry_DestroyTwice(t *testing.T) {
	ff := newFakeFactory()
	reg := New(WithFactory(ff.New))
	if rc := reg.Init(testConfig(t), session.New()); rc != dberror.Success {
		t.Fatalf("Init failed: %v", rc)
	}
	reg.CreateDB("shop")
	reg.OpenDB("shop")

	reg.Destroy()
	if reg.Len() != 0 {
		t.Errorf("expected empty registry after Destroy, got %v", reg.Names())
	}

	reg.Destroy()
	if reg.Len() != 0 {
		t.Errorf("expected empty registry after second Destroy, got %v", reg.Names())
	}

	for _, db := range ff.built {
		if db.closeCalls != 1 {
			t.Errorf("db %q closed %d times, want 1", db.name, db.closeCalls)
		}
		if db.syncCalls != 1 {
			t.Errorf("db %q synced %d times, want 1", db.name, db.syncCalls)
		}
	}
}

func TestRegistry_DestroyIgnoresSyncFailure(t *testing.T) {
	ff := newFakeFactory()
	ff.syncRC[SysDB] = dberror.IOErrSync
	reg := New(WithFactory(ff.New))
	if rc := reg.Init(testConfig(t), session.New()); rc != dberror.Success {
		t.Fatalf("Init failed: %v", rc)
	}

	reg.Destroy()

	if reg.Len() != 0 {
		t.Error("Destroy must release databases even when sync fails")
	}
	if ff.built[0].closeCalls != 1 {
		t.Error("expected sys to be closed")
	}
}

func TestRegistry_WithCatalogDB(t *testing.T) {
	cfg := testConfig(t)
	reg := New()
	defer reg.Destroy()

	if rc := reg.Init(cfg, session.New()); rc != dberror.Success {
		t.Fatalf("Init failed: %v", rc)
	}

	attrs := []database.AttrInfo{
		{Name: "id", Type: database.Ints},
		{Name: "title", Type: database.Chars, Length: 64},
	}
	if rc := reg.CreateTable(SysDB, "books", attrs); rc != dberror.Success {
		t.Fatalf("CreateTable failed: %v", rc)
	}
	if reg.FindTable(SysDB, "books").IsAbsent() {
		t.Fatal("expected 'books' to be found")
	}
	if _, err := os.Stat(filepath.Join(cfg.DBDir(), SysDB, database.CatalogFile)); err != nil {
		t.Errorf("expected catalog file in sys dir: %v", err)
	}
	if rc := reg.Sync(); rc != dberror.Success {
		t.Errorf("Sync failed: %v", rc)
	}
	if rc := reg.DropTable(SysDB, "books"); rc != dberror.Success {
		t.Errorf("DropTable failed: %v", rc)
	}

	pax := database.StorageOptions{Format: database.PaxFormat}
	if rc := reg.CreateTableWithOptions(SysDB, "events", attrs, pax); rc != dberror.Success {
		t.Fatalf("CreateTableWithOptions failed: %v", rc)
	}
	if table, ok := reg.FindTable(SysDB, "events").Get(); !ok || table.Format != database.PaxFormat {
		t.Errorf("expected pax table, got %+v", table)
	}
}
