package statements

import "fmt"

// ValidationError reports a statement that parsed but is not well formed.
type ValidationError struct {
	Statement StatementType
	Field     string
	Message   string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("%s validation error: %s - %s", ve.Statement, ve.Field, ve.Message)
}

// NewValidationError reports a problem with field of a stmt statement.
func NewValidationError(stmt StatementType, field, message string) *ValidationError {
	return &ValidationError{
		Statement: stmt,
		Field:     field,
		Message:   message,
	}
}
