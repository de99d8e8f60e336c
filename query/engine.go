// Copyright 2018 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package query runs the dot-commands and the restricted SELECT
// statements understood by litefile against an open database.
package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/go-sqlite/litefile"
	"github.com/go-sqlite/litefile/internal/logging"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMalformedQuery = errors.New("malformed query")
)

// Error reports a command that could not be understood.
type Error struct {
	Kind  error
	Input string
	Err   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("query: %v %q", e.Kind, e.Input)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool { return e.Kind == target }
func (e *Error) Unwrap() error { return e.Err }

// internal tables hidden from .tables
var internalTables = map[string]bool{
	"sqlite_sequence": true,
}

const (
	rowidColumn = -1 // projected or filtered column reading the rowid
	noFilter    = -2
)

// Engine executes commands against one database.
// Like the File it wraps, an Engine is not safe for concurrent use.
type Engine struct {
	db *litefile.File
}

// New returns an Engine querying db.
func New(db *litefile.File) *Engine {
	return &Engine{db: db}
}

// Exec runs a command: ".dbinfo", ".tables" or a SELECT statement.
func (e *Engine) Exec(cmd string) (Result, error) {
	cmd = strings.TrimSpace(cmd)
	logging.Logger().Debug("executing command", "command", cmd)

	switch {
	case cmd == ".dbinfo":
		info, err := e.DBInfo()
		if err != nil {
			return nil, err
		}
		return info, nil
	case cmd == ".tables":
		list, err := e.Tables()
		if err != nil {
			return nil, err
		}
		return list, nil
	case strings.HasPrefix(cmd, "."), !isSelect(cmd):
		return nil, &Error{Kind: ErrUnknownCommand, Input: cmd}
	}

	q, err := Parse(cmd)
	if err != nil {
		return nil, err
	}
	return e.Query(q)
}

// DBInfo reports the page size and the number of schema entries.
func (e *Engine) DBInfo() (*DBInfo, error) {
	n, err := e.db.SchemaCount()
	if err != nil {
		return nil, err
	}
	return &DBInfo{PageSize: e.db.PageSize(), TableCount: n}, nil
}

// Tables lists the user tables, sorted case-insensitively.
func (e *Engine) Tables() (*TableList, error) {
	tables, err := e.db.Tables()
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	var names []string
	for _, t := range tables {
		if internalTables[t.Name()] {
			continue
		}
		names = append(names, t.Name())
	}
	slices.SortStableFunc(names, func(a, b string) int {
		return strings.Compare(fold.String(a), fold.String(b))
	})
	return &TableList{Names: names}, nil
}

// Query runs a parsed SELECT statement in a single pass over the table.
func (e *Engine) Query(q *Query) (Result, error) {
	tbl, err := e.db.Table(q.Table)
	if err != nil {
		return nil, err
	}

	var (
		filter = noFilter
		want   string
	)
	if q.Where != nil {
		filter, err = resolveColumn(tbl, q.Where.Column)
		if err != nil {
			return nil, err
		}
		want = q.Where.Value
	}
	match := func(rec litefile.Record) bool {
		switch filter {
		case noFilter:
			return true
		case rowidColumn:
			return litefile.IntValue(rec.RowID).String() == want
		}
		v := rec.Values[filter]
		return !v.IsNull() && v.String() == want
	}

	if q.Count {
		var n int64
		err := e.db.VisitTable(tbl, func(rec litefile.Record) error {
			if match(rec) {
				n++
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &Count{N: n}, nil
	}

	idx := make([]int, len(q.Columns))
	for i, name := range q.Columns {
		idx[i], err = resolveColumn(tbl, name)
		if err != nil {
			return nil, err
		}
	}

	res := &Rows{Columns: slices.Clone(q.Columns)}
	err = e.db.VisitTable(tbl, func(rec litefile.Record) error {
		if !match(rec) {
			return nil
		}
		row := make([]litefile.Value, len(idx))
		for i, j := range idx {
			if j == rowidColumn {
				row[i] = litefile.IntValue(rec.RowID)
				continue
			}
			row[i] = rec.Values[j]
		}
		res.Rows = append(res.Rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func isSelect(cmd string) bool {
	words := strings.Fields(cmd)
	return len(words) > 0 && strings.EqualFold(words[0], "SELECT")
}

// resolveColumn returns the position of the named column in tbl.
// The names id and rowid read the rowid unless tbl declares a column
// with that name.
func resolveColumn(tbl *litefile.Table, name string) (int, error) {
	if i, ok := tbl.ColumnIndex(name); ok {
		return i, nil
	}
	switch strings.ToLower(name) {
	case "id", "rowid", "_rowid_", "oid":
		return rowidColumn, nil
	}
	return 0, &litefile.Error{
		Kind:   litefile.ErrColumnNotFound,
		Name:   name,
		Offset: -1,
		Msg:    fmt.Sprintf("table %q", tbl.Name()),
	}
}
