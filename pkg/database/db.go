package database

import (
	"fmt"
	"strings"
	"time"

	dberror "storemy/pkg/error"

	"github.com/samber/mo"
)

// Database is one logical, directory-backed database. The registry owns every
// instance it opens; callers only ever borrow the handles it returns.
type Database interface {
	// Init binds the instance to its directory and the engine selectors.
	Init(name, path, trxKitName, logHandlerName, storageEngine string) dberror.RC
	Name() string
	CreateTable(name string, attributes []AttrInfo, options StorageOptions) dberror.RC
	FindTable(name string) mo.Option[*Table]
	DropTable(name string) dberror.RC
	// Sync makes all metadata durable.
	Sync() dberror.RC
	// Close releases every resource held by the instance. It is only called
	// by the registry during teardown.
	Close() dberror.RC
}

// Selector names accepted by Init.
const (
	TrxKitVacuous = "vacuous"
	TrxKitMVCC    = "mvcc"

	LogHandlerVacuous = "vacuous"
	LogHandlerDisk    = "disk"

	StorageEngineHeap = "heap"
	StorageEngineLSM  = "lsm"
)

var (
	trxKits        = []string{TrxKitVacuous, TrxKitMVCC}
	logHandlers    = []string{LogHandlerVacuous, LogHandlerDisk}
	storageEngines = []string{StorageEngineHeap, StorageEngineLSM}
)

// ValidateSelectors checks the three engine selector names. Matching is case-insensitive.
func ValidateSelectors(trxKitName, logHandlerName, storageEngine string) error {
	checks := []struct {
		kind  string
		value string
		known []string
	}{
		{"trx kit", trxKitName, trxKits},
		{"log handler", logHandlerName, logHandlers},
		{"storage engine", storageEngine, storageEngines},
	}

	for _, c := range checks {
		if !containsFold(c.known, c.value) {
			return dberror.New(dberror.InvalidArgument, dberror.ErrCategoryUser, "UNKNOWN_SELECTOR",
				fmt.Sprintf("unknown %s", c.kind)).
				WithDetail("%q (known: %s)", c.value, strings.Join(c.known, ", "))
		}
	}
	return nil
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

// AttrType is the declared type of a table attribute.
type AttrType int

const (
	Undefined AttrType = iota
	Chars
	Ints
	Floats
	Booleans
	Dates
)

func (t AttrType) String() string {
	switch t {
	case Chars:
		return "CHARS"
	case Ints:
		return "INTS"
	case Floats:
		return "FLOATS"
	case Booleans:
		return "BOOLEANS"
	case Dates:
		return "DATES"
	default:
		return "UNDEFINED"
	}
}

// ParseAttrType maps a SQL type name onto an AttrType.
func ParseAttrType(name string) (AttrType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "CHAR", "CHARS", "VARCHAR", "TEXT", "STRING":
		return Chars, nil
	case "INT", "INTS", "INTEGER":
		return Ints, nil
	case "FLOAT", "FLOATS", "DOUBLE", "REAL":
		return Floats, nil
	case "BOOL", "BOOLEAN", "BOOLEANS":
		return Booleans, nil
	case "DATE", "DATES":
		return Dates, nil
	default:
		return Undefined, fmt.Errorf("unknown attribute type %q", name)
	}
}

// fixedLength is the on-disk width of fixed-size types; 0 means the
// declared length is used.
func (t AttrType) fixedLength() int {
	switch t {
	case Ints, Floats, Dates:
		return 4
	case Booleans:
		return 1
	default:
		return 0
	}
}

// AttrInfo describes one attribute of a table being created.
type AttrInfo struct {
	Name     string
	Type     AttrType
	Length   int
	Nullable bool
}

// StorageFormat selects how rows of a table are laid out.
type StorageFormat string

const (
	RowFormat StorageFormat = "row"
	PaxFormat StorageFormat = "pax"
)

// StorageOptions are extra, optional parameters for CreateTable. The zero
// value means row format.
type StorageOptions struct {
	Format StorageFormat
}

// ParseStorageFormat maps a format name from SQL (case-insensitive) to a
// StorageFormat.
func ParseStorageFormat(name string) (StorageFormat, error) {
	switch f := StorageFormat(strings.ToLower(strings.TrimSpace(name))); f {
	case RowFormat, PaxFormat:
		return f, nil
	default:
		return "", fmt.Errorf("unknown storage format %q", name)
	}
}

func (o StorageOptions) format() StorageFormat {
	if o.Format == "" {
		return RowFormat
	}
	return o.Format
}

// Table is the metadata of one table. Handles are borrowed from the owning
// database and stay valid only while it remains open.
type Table struct {
	ID         int64
	Name       string
	Attributes []AttrInfo
	Format     StorageFormat
	CreatedAt  time.Time
}
