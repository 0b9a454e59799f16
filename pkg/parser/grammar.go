package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Keyword", Pattern: `(?i)\b(DROP|CREATE|TABLE|TABLES|SHOW|IF|NOT|EXISTS|NULL|STORAGE|FORMAT)\b`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Int", Pattern: `\d+`},
		{Name: "Punct", Pattern: `[(),;=]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	sqlParser = participle.MustBuild[astStatement](
		participle.Lexer(sqlLexer),
		participle.CaseInsensitive("Keyword"),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

type astStatement struct {
	Body *astBody `parser:"@@"`
	Semi bool     `parser:"@';'?"`
}

type astBody struct {
	Drop   *astDropTable   `parser:"  'DROP' 'TABLE' @@"`
	Create *astCreateTable `parser:"| 'CREATE' 'TABLE' @@"`
	Show   bool            `parser:"| @('SHOW' 'TABLES')"`
}

type astDropTable struct {
	IfExists bool   `parser:"@('IF' 'EXISTS')?"`
	Table    string `parser:"@(Ident | Keyword)"`
}

type astCreateTable struct {
	IfNotExists bool         `parser:"@('IF' 'NOT' 'EXISTS')?"`
	Table       string       `parser:"@(Ident | Keyword)"`
	Columns     []*astColumn `parser:"'(' @@ (',' @@)* ')'"`
	Format      *string      `parser:"('STORAGE' 'FORMAT' '=' @Ident)?"`
}

type astColumn struct {
	Name    string `parser:"@(Ident | Keyword)"`
	Type    string `parser:"@Ident"`
	Length  *int   `parser:"('(' @Int ')')?"`
	NotNull bool   `parser:"( @('NOT' 'NULL')"`
	Null    bool   `parser:"| @'NULL' )?"`
}
