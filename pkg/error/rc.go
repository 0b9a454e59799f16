package error

import "errors"

// RC is the result code every registry, database and dispatcher operation
// returns to its immediate caller.
type RC int

const (
	Success RC = iota
	Internal
	InvalidArgument
	SchemaDBExist
	SchemaDBNotExist
	SchemaDBNotOpened
	IOErrWrite
	Unimplemented

	// Codes below are produced by the database implementation.
	SchemaTableExist
	SchemaTableNotExist
	SchemaFieldMissing
	SchemaFieldTypeMismatch
	IOErrRead
	IOErrSync
)

// String returns the upper-case identifier of the code.
func (rc RC) String() string {
	switch rc {
	case Success:
		return "SUCCESS"
	case Internal:
		return "INTERNAL"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case SchemaDBExist:
		return "SCHEMA_DB_EXIST"
	case SchemaDBNotExist:
		return "SCHEMA_DB_NOT_EXIST"
	case SchemaDBNotOpened:
		return "SCHEMA_DB_NOT_OPENED"
	case IOErrWrite:
		return "IOERR_WRITE"
	case Unimplemented:
		return "UNIMPLEMENTED"
	case SchemaTableExist:
		return "SCHEMA_TABLE_EXIST"
	case SchemaTableNotExist:
		return "SCHEMA_TABLE_NOT_EXIST"
	case SchemaFieldMissing:
		return "SCHEMA_FIELD_MISSING"
	case SchemaFieldTypeMismatch:
		return "SCHEMA_FIELD_TYPE_MISMATCH"
	case IOErrRead:
		return "IOERR_READ"
	case IOErrSync:
		return "IOERR_SYNC"
	default:
		return "UNKNOWN"
	}
}

// OK reports whether rc is Success.
func (rc RC) OK() bool {
	return rc == Success
}

// CodeOf maps an error chain to a result code. A nil error is Success, a
// DBError anywhere in the chain yields its RC and anything else is Internal.
func CodeOf(err error) RC {
	if err == nil {
		return Success
	}
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.RC
	}
	return Internal
}
