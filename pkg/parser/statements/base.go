package statements

import "strings"

// statementBuilder wraps strings.Builder with helpers for Statement.String() methods.
type statementBuilder struct {
	strings.Builder
}

// writeIf appends s only when cond is true.
func (b *statementBuilder) writeIf(cond bool, s string) {
	if cond {
		b.WriteString(s)
	}
}

// BaseStatement provides common functionality for all statement types
type BaseStatement struct {
	stmtType StatementType
}

// NewBaseStatement returns a BaseStatement of the given type.
func NewBaseStatement(stmtType StatementType) BaseStatement {
	return BaseStatement{stmtType: stmtType}
}

// GetType returns the statement kind.
func (bs *BaseStatement) GetType() StatementType {
	return bs.stmtType
}

// requireNonEmpty returns a ValidationError when value is blank.
func (bs *BaseStatement) requireNonEmpty(fieldName, value, msg string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(bs.stmtType, fieldName, msg)
	}
	return nil
}

// requireNonEmptySlice returns a ValidationError when length is zero.
func (bs *BaseStatement) requireNonEmptySlice(fieldName string, length int, msg string) error {
	if length == 0 {
		return NewValidationError(bs.stmtType, fieldName, msg)
	}
	return nil
}
