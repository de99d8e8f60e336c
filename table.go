// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import "strings"

// Table is a SQLite table
type Table struct {
	name     string
	rootPage int
	sql      string
	cols     []Column
}

// Name returns the name of the table
func (t *Table) Name() string {
	return t.name
}

// RootPage returns the page number of the table's b-tree root.
func (t *Table) RootPage() int {
	return t.rootPage
}

// SQL returns the CREATE TABLE statement the table was declared with.
func (t *Table) SQL() string {
	return t.sql
}

// Columns returns the columns of the table
func (t *Table) Columns() []Column {
	return t.cols
}

// ColumnIndex returns the position of the named column.
// An exact match wins over a case-insensitive one.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, col := range t.cols {
		if col.name == name {
			return i, true
		}
	}
	for i, col := range t.cols {
		if strings.EqualFold(col.name, name) {
			return i, true
		}
	}
	return -1, false
}

// Column describes a column in a SQLite table
type Column struct {
	name  string
	typ   string
	rowid bool
}

// Name returns the name of the column
func (col *Column) Name() string {
	return col.name
}

// Type returns the declared type of the column, possibly empty.
func (col *Column) Type() string {
	return col.typ
}

// IsRowID reports whether the column is an alias for the rowid
// (an INTEGER PRIMARY KEY column).
func (col *Column) IsRowID() bool {
	return col.rowid
}
