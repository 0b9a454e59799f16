package statements

// ShowTablesStatement represents SHOW TABLES.
type ShowTablesStatement struct {
	BaseStatement
}

// NewShowTablesStatement returns a SHOW TABLES statement.
func NewShowTablesStatement() *ShowTablesStatement {
	return &ShowTablesStatement{BaseStatement: NewBaseStatement(ShowTables)}
}

func (sts *ShowTablesStatement) Validate() error {
	return nil
}

func (sts *ShowTablesStatement) String() string {
	return "SHOW TABLES"
}
