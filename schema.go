// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"slices"
	"strings"

	"github.com/go-sqlite/litefile/internal/logging"
)

const (
	schemaRootPage = 1
	schemaColumns  = 5 // type, name, tbl_name, rootpage, sql
)

// schema is the decoded content of the schema table.
type schema struct {
	nrows  int
	tables []Table
	byName map[string]int
}

func (f *File) loadSchema() (*schema, error) {
	if f.schema != nil {
		return f.schema, nil
	}

	s := &schema{byName: make(map[string]int)}
	err := f.Visit(schemaRootPage, schemaColumns, func(rec Record) error {
		s.nrows++
		if rec.Values[0].Text() != "table" {
			return nil
		}
		sql := rec.Values[4].Text()
		tbl := Table{
			name:     rec.Values[1].Text(),
			rootPage: int(rec.Values[3].Int()),
			sql:      sql,
			cols:     extractColumns(sql),
		}
		for _, col := range tbl.cols {
			if col.rowid {
				logging.Logger().Debug("column aliases rowid", "table", tbl.name, "column", col.name)
			}
		}
		s.byName[tbl.name] = len(s.tables)
		s.tables = append(s.tables, tbl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Logger().Debug("loaded schema", "rows", s.nrows, "tables", len(s.tables))
	f.schema = s
	return s, nil
}

// Tables returns the tables of the database, in schema order.
func (f *File) Tables() ([]Table, error) {
	s, err := f.loadSchema()
	if err != nil {
		return nil, err
	}
	return slices.Clone(s.tables), nil
}

// Table returns the table with the given name.
// Names are matched exactly.
func (f *File) Table(name string) (*Table, error) {
	s, err := f.loadSchema()
	if err != nil {
		return nil, err
	}
	i, ok := s.byName[name]
	if !ok {
		return nil, errName(ErrTableNotFound, name)
	}
	tbl := s.tables[i]
	return &tbl, nil
}

// SchemaCount returns the number of entries of the schema table
// (tables, indexes, views and triggers).
func (f *File) SchemaCount() (int, error) {
	s, err := f.loadSchema()
	if err != nil {
		return 0, err
	}
	return s.nrows, nil
}

// keywords opening a table constraint.
var tableConstraints = map[string]bool{
	"CONSTRAINT": true,
	"PRIMARY":    true,
	"UNIQUE":     true,
	"CHECK":      true,
	"FOREIGN":    true,
}

// keywords ending the type name of a column definition.
var columnConstraints = map[string]bool{
	"CONSTRAINT": true,
	"PRIMARY":    true,
	"NOT":        true,
	"NULL":       true,
	"UNIQUE":     true,
	"CHECK":      true,
	"DEFAULT":    true,
	"COLLATE":    true,
	"REFERENCES": true,
	"GENERATED":  true,
	"AS":         true,
}

// extractColumns returns the columns declared by a CREATE TABLE statement,
// in declaration order. Table constraints are not columns.
func extractColumns(sql string) []Column {
	toks := sqlTokens(sql)

	open := -1
	for i, tok := range toks {
		if tok == "(" {
			open = i
			break
		}
	}
	if open < 0 {
		return nil
	}

	var (
		frags [][]string
		cur   []string
		depth = 0
		end   = len(toks)
	)
loop:
	for i := open + 1; i < len(toks); i++ {
		switch tok := toks[i]; tok {
		case "(":
			depth++
		case ")":
			if depth == 0 {
				end = i
				break loop
			}
			depth--
		case ",":
			if depth == 0 {
				frags = append(frags, cur)
				cur = nil
				continue
			}
		}
		cur = append(cur, toks[i])
	}
	frags = append(frags, cur)

	var (
		cols []Column
		pk   []string
	)
	for _, frag := range frags {
		if len(frag) == 0 {
			continue
		}
		if tableConstraints[strings.ToUpper(frag[0])] {
			if names, ok := primaryKey(frag); ok {
				pk = names
			}
			continue
		}

		col := Column{name: unquoteIdent(frag[0])}
		i := 1
		var typ strings.Builder
		for i < len(frag) && !columnConstraints[strings.ToUpper(frag[i])] {
			if frag[i] == "(" {
				j := matchParen(frag, i)
				typ.WriteString(strings.Join(frag[i:j+1], ""))
				i = j + 1
				continue
			}
			if typ.Len() > 0 {
				typ.WriteByte(' ')
			}
			typ.WriteString(frag[i])
			i++
		}
		col.typ = typ.String()

		if isIntegerType(col.typ) {
			col.rowid = primaryKeyAscending(frag[i:])
		}
		cols = append(cols, col)
	}

	if len(pk) == 1 {
		for i := range cols {
			if cols[i].name == pk[0] && isIntegerType(cols[i].typ) {
				cols[i].rowid = true
			}
		}
	}

	for _, tok := range toks[end:] {
		if strings.EqualFold(tok, "WITHOUT") {
			for i := range cols {
				cols[i].rowid = false
			}
		}
	}
	return cols
}

func isIntegerType(typ string) bool {
	return strings.EqualFold(typ, "INTEGER")
}

// primaryKeyAscending reports whether the column constraints in toks
// declare an ascending PRIMARY KEY.
func primaryKeyAscending(toks []string) bool {
	for i := 0; i+1 < len(toks); i++ {
		if strings.EqualFold(toks[i], "PRIMARY") && strings.EqualFold(toks[i+1], "KEY") {
			return i+2 >= len(toks) || !strings.EqualFold(toks[i+2], "DESC")
		}
	}
	return false
}

// primaryKey returns the column names of a PRIMARY KEY table constraint.
func primaryKey(frag []string) ([]string, bool) {
	for i := 0; i+2 < len(frag); i++ {
		if !strings.EqualFold(frag[i], "PRIMARY") || !strings.EqualFold(frag[i+1], "KEY") || frag[i+2] != "(" {
			continue
		}
		var names []string
		for j := i + 3; j < len(frag) && frag[j] != ")"; j++ {
			switch {
			case frag[j] == ",":
			case len(names) > 0 && frag[j-1] != ",":
				// ASC, DESC, COLLATE x
			default:
				names = append(names, unquoteIdent(frag[j]))
			}
		}
		return names, true
	}
	return nil, false
}

func matchParen(toks []string, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i] {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks) - 1
}

// sqlTokens splits SQL text into words, quoted tokens and the
// punctuation "(", ")" and ",". Comments are dropped.
func sqlTokens(s string) []string {
	var toks []string
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			i++
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			j := strings.IndexByte(s[i:], '\n')
			if j < 0 {
				return toks
			}
			i += j + 1
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			j := strings.Index(s[i+2:], "*/")
			if j < 0 {
				return toks
			}
			i += j + 4
		case c == '(' || c == ')' || c == ',':
			toks = append(toks, s[i:i+1])
			i++
		case c == '\'' || c == '"' || c == '`':
			j := i + 1
			for j < len(s) {
				if s[j] == c {
					if j+1 < len(s) && s[j+1] == c {
						j += 2
						continue
					}
					break
				}
				j++
			}
			j = min(j+1, len(s))
			toks = append(toks, s[i:j])
			i = j
		case c == '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				j = len(s) - i - 1
			}
			toks = append(toks, s[i:i+j+1])
			i += j + 1
		default:
			j := i
			for j < len(s) && !strings.ContainsRune(" \t\n\r\f(),'\"`[;", rune(s[j])) {
				j++
			}
			if j == i {
				// stray ';'
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		}
	}
	return toks
}

// unquoteIdent strips SQL identifier quoting.
func unquoteIdent(tok string) string {
	if len(tok) < 2 {
		return tok
	}
	switch q := tok[0]; q {
	case '"', '\'', '`':
		if tok[len(tok)-1] == q {
			return strings.ReplaceAll(tok[1:len(tok)-1], string([]byte{q, q}), string(q))
		}
	case '[':
		if tok[len(tok)-1] == ']' {
			return tok[1 : len(tok)-1]
		}
	}
	return tok
}
