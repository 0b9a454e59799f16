package statements

import (
	"fmt"
	"strings"

	"storemy/pkg/database"
)

// CreateStatement represents a SQL CREATE TABLE statement.
type CreateStatement struct {
	BaseStatement
	TableName   string
	Fields      []database.AttrInfo
	IfNotExists bool
	Format      database.StorageFormat // empty means the database default
}

// NewCreateStatement returns a CREATE TABLE statement with no columns.
func NewCreateStatement(tableName string, ifNotExists bool) *CreateStatement {
	return &CreateStatement{
		BaseStatement: NewBaseStatement(CreateTable),
		TableName:     tableName,
		IfNotExists:   ifNotExists,
		Fields:        make([]database.AttrInfo, 0),
	}
}

// AddField appends a column definition.
func (cts *CreateStatement) AddField(name string, fieldType database.AttrType, length int, nullable bool) {
	cts.Fields = append(cts.Fields, database.AttrInfo{
		Name:     name,
		Type:     fieldType,
		Length:   length,
		Nullable: nullable,
	})
}

// Validate checks that the table has a name and at least one uniquely named column.
func (cts *CreateStatement) Validate() error {
	if err := cts.requireNonEmpty("TableName", cts.TableName, "table name cannot be empty"); err != nil {
		return err
	}
	if err := cts.requireNonEmptySlice("Fields", len(cts.Fields), "table needs at least one column"); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(cts.Fields))
	for _, f := range cts.Fields {
		key := strings.ToLower(f.Name)
		if _, dup := seen[key]; dup {
			return NewValidationError(CreateTable, "Fields", fmt.Sprintf("duplicate column %s", f.Name))
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (cts *CreateStatement) String() string {
	var sb statementBuilder
	sb.WriteString("CREATE TABLE ")
	sb.writeIf(cts.IfNotExists, "IF NOT EXISTS ")
	sb.WriteString(cts.TableName)
	sb.WriteString(" (")

	for i, field := range cts.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %s", field.Name, field.Type)
		sb.writeIf(field.Type == database.Chars, fmt.Sprintf("(%d)", field.Length))
		sb.writeIf(!field.Nullable, " NOT NULL")
	}

	sb.WriteString(")")
	sb.writeIf(cts.Format != "", fmt.Sprintf(" STORAGE FORMAT = %s", cts.Format))
	return sb.String()
}
