package statements

// RawStatement is a recognised statement whose body is not parsed further.
// It only carries its kind and source text.
type RawStatement struct {
	BaseStatement
	Text string
}

// NewRawStatement wraps unparsed SQL text as a statement of stmtType.
func NewRawStatement(stmtType StatementType, text string) *RawStatement {
	return &RawStatement{
		BaseStatement: NewBaseStatement(stmtType),
		Text:          text,
	}
}

func (rs *RawStatement) Validate() error {
	return rs.requireNonEmpty("Text", rs.Text, "statement text cannot be empty")
}

func (rs *RawStatement) String() string {
	return rs.Text
}
