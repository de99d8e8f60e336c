// Copyright 2018 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package query

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Query is a parsed SELECT statement.
type Query struct {
	Table   string
	Count   bool     // SELECT COUNT(*)
	Columns []string // projected columns, when !Count
	Where   *Predicate
}

// Predicate is a `column = 'literal'` filter.
type Predicate struct {
	Column string
	Value  string
}

//nolint:govet // participle grammar tags are not standard struct tags
type selectStmt struct {
	Projection *projection  `"SELECT" @@`
	Table      string       `"FROM" @(Ident | Keyword)`
	Where      *whereClause `( "WHERE" @@ )? ";"?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type projection struct {
	Count   bool     `  @( "COUNT" "(" "*" ")" )`
	Columns []string `| @(Ident | Keyword) ( "," @(Ident | Keyword) )*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type whereClause struct {
	Column string `@(Ident | Keyword) "="`
	Value  string `@String`
}

var sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(SELECT|FROM|WHERE|COUNT)\b`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_$]*|"(?:[^"]|"")*"|` + "`[^`]*`" + `|\[[^\]]*\]`},
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "Punct", Pattern: `[(),*=;]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var sqlParser = participle.MustBuild[selectStmt](
	participle.Lexer(sqlLexer),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Keyword"),
	// COUNT as a column name only fails on the token after it.
	participle.UseLookahead(2),
)

// Parse parses a SELECT statement of the form
//
//	SELECT COUNT(*) | col [, col...] FROM table [WHERE col = 'literal']
func Parse(src string) (*Query, error) {
	stmt, err := sqlParser.ParseString("", src)
	if err != nil {
		return nil, &Error{Kind: ErrMalformedQuery, Input: src, Err: err}
	}

	q := &Query{
		Table: unquoteIdent(stmt.Table),
		Count: stmt.Projection.Count,
	}
	for _, col := range stmt.Projection.Columns {
		q.Columns = append(q.Columns, unquoteIdent(col))
	}
	if stmt.Where != nil {
		q.Where = &Predicate{
			Column: unquoteIdent(stmt.Where.Column),
			Value:  unquoteString(stmt.Where.Value),
		}
	}
	return q, nil
}

func unquoteIdent(tok string) string {
	if len(tok) < 2 {
		return tok
	}
	switch tok[0] {
	case '"':
		return strings.ReplaceAll(tok[1:len(tok)-1], `""`, `"`)
	case '`', '[':
		return tok[1 : len(tok)-1]
	}
	return tok
}

func unquoteString(tok string) string {
	return strings.ReplaceAll(tok[1:len(tok)-1], "''", "'")
}
