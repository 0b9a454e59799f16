package statements

// DropStatement represents a SQL DROP TABLE statement
type DropStatement struct {
	BaseStatement
	TableName string
	IfExists  bool
}

// NewDropStatement creates a new DROP TABLE statement
func NewDropStatement(tableName string, ifExists bool) *DropStatement {
	return &DropStatement{
		BaseStatement: NewBaseStatement(DropTable),
		TableName:     tableName,
		IfExists:      ifExists,
	}
}

func (dts *DropStatement) Validate() error {
	return dts.requireNonEmpty("TableName", dts.TableName, "table name cannot be empty")
}

// String returns a string representation of the DROP TABLE statement
func (dts *DropStatement) String() string {
	var sb statementBuilder
	sb.WriteString("DROP TABLE ")
	sb.writeIf(dts.IfExists, "IF EXISTS ")
	sb.WriteString(dts.TableName)
	return sb.String()
}
