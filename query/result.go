// Copyright 2018 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package query

import (
	"github.com/go-sqlite/litefile"
)

// Result is the outcome of a command: one of *DBInfo, *TableList,
// *Count or *Rows.
type Result interface {
	isResult()
}

// DBInfo is the result of .dbinfo.
type DBInfo struct {
	PageSize   int
	TableCount int
}

// TableList is the result of .tables.
type TableList struct {
	Names []string
}

// Count is the result of SELECT COUNT(*).
type Count struct {
	N int64
}

// Rows holds the projected rows of a SELECT, in rowid order.
type Rows struct {
	Columns []string
	Rows    [][]litefile.Value
}

func (*DBInfo) isResult() {}
func (*TableList) isResult() {}
func (*Count) isResult() {}
func (*Rows) isResult() {}
