// Package parser converts SQL text into statements.Statement values.
//
// DROP TABLE, CREATE TABLE and SHOW TABLES are parsed into typed statements.
// SELECT, INSERT, UPDATE, DELETE, CREATE INDEX and DROP INDEX are only
// classified by their leading keywords and returned as RawStatement, so the
// dispatcher can answer them without a full grammar.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"storemy/pkg/database"
	"storemy/pkg/parser/statements"
)

// ErrEmptyStatement is returned for input with no statement in it.
var ErrEmptyStatement = errors.New("empty statement")

// ParseStatement parses one SQL statement. A trailing semicolon is optional.
func ParseStatement(sql string) (statements.Statement, error) {
	sql = strings.TrimSpace(sql)
	if sql == "" || sql == ";" {
		return nil, ErrEmptyStatement
	}

	if kind, ok := classify(sql); ok {
		return statements.NewRawStatement(kind, strings.TrimSuffix(sql, ";")), nil
	}

	ast, err := sqlParser.ParseString("", sql)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	stmt, err := ast.Body.toStatement()
	if err != nil {
		return nil, err
	}
	if err := stmt.Validate(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// ParseScript splits input on semicolons and parses each non-empty piece.
func ParseScript(input string) ([]statements.Statement, error) {
	var out []statements.Statement
	for i, piece := range strings.Split(input, ";") {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		stmt, err := ParseStatement(piece)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
		out = append(out, stmt)
	}
	return out, nil
}

// classify recognises statements that are passed through unparsed.
func classify(sql string) (statements.StatementType, bool) {
	words := strings.Fields(strings.ToUpper(sql))
	if len(words) == 0 {
		return 0, false
	}

	switch strings.TrimSuffix(words[0], ";") {
	case "SELECT":
		return statements.Select, true
	case "INSERT":
		return statements.Insert, true
	case "UPDATE":
		return statements.Update, true
	case "DELETE":
		return statements.Delete, true
	case "CREATE", "DROP":
		if len(words) > 1 && strings.TrimSuffix(words[1], ";") == "INDEX" {
			if words[0] == "CREATE" {
				return statements.CreateIndex, true
			}
			return statements.DropIndex, true
		}
	}
	return 0, false
}

func (b *astBody) toStatement() (statements.Statement, error) {
	switch {
	case b.Drop != nil:
		return statements.NewDropStatement(b.Drop.Table, b.Drop.IfExists), nil
	case b.Create != nil:
		return b.Create.toStatement()
	case b.Show:
		return statements.NewShowTablesStatement(), nil
	default:
		return nil, errors.New("unsupported statement")
	}
}

func (c *astCreateTable) toStatement() (*statements.CreateStatement, error) {
	stmt := statements.NewCreateStatement(c.Table, c.IfNotExists)
	if c.Format != nil {
		format, err := database.ParseStorageFormat(*c.Format)
		if err != nil {
			return nil, err
		}
		stmt.Format = format
	}
	for _, col := range c.Columns {
		attrType, err := database.ParseAttrType(col.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}

		length := 0
		if col.Length != nil {
			length = *col.Length
		} else if attrType == database.Chars {
			length = 4
		}
		stmt.AddField(col.Name, attrType, length, !col.NotNull)
	}
	return stmt, nil
}
