// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"cmp"
	"io"
	"slices"

	"github.com/go-sqlite/litefile/internal/logging"
)

type btreeTable struct {
	PageHeader
	db    *File
	page  *page // page backing this b-tree node
	addrs []int // cell addresses
}

func newBtreeTable(page *page, db *File) (*btreeTable, error) {
	hdr, err := page.Header()
	if err != nil {
		return nil, err
	}

	addrs, err := page.cellAddrs(&hdr)
	if err != nil {
		return nil, err
	}

	return &btreeTable{
		PageHeader: hdr,
		db:         db,
		page:       page,
		addrs:      addrs,
	}, nil
}

func (btree *btreeTable) ID() int {
	return btree.page.ID()
}

func (btree *btreeTable) NumCell() int {
	return len(btree.addrs)
}

func (btree *btreeTable) loadCell(icell int) (Cell, error) {
	addr := btree.addrs[icell]
	cell, err := decodeCell(btree.Kind, btree.page.buf[addr:], btree.db.UsableSize())
	return cell, atPage(err, btree.ID(), addr)
}

// records decodes every cell of a table leaf page, in ascending rowid order.
func (btree *btreeTable) records(ncols int, aliases []int) ([]Record, error) {
	recs := make([]Record, 0, btree.NumCell())
	for i, addr := range btree.addrs {
		cell, err := btree.loadCell(i)
		if err != nil {
			return nil, err
		}

		values, err := decodeRecord(cell.Payload, btree.db.Encoding())
		if err != nil {
			return nil, atPage(err, btree.ID(), addr)
		}
		if ncols >= 0 && len(values) != ncols {
			return nil, errPage(ErrColumnCountMismatch, btree.ID(), addr,
				"rowid %d has %d values, table declares %d columns", cell.RowID, len(values), ncols)
		}
		for _, idx := range aliases {
			if values[idx].IsNull() {
				values[idx] = IntValue(cell.RowID)
			}
		}
		recs = append(recs, Record{RowID: cell.RowID, Values: values})
	}

	// the cell pointer array is in key order on well-formed pages,
	// but nothing downstream relies on it.
	slices.SortStableFunc(recs, func(a, b Record) int {
		return cmp.Compare(a.RowID, b.RowID)
	})
	return recs, nil
}

type frame struct {
	btree *btreeTable
	next  int // next child to descend into; NumCell() is the right-most pointer
}

// Rows iterates over the records of a table b-tree in ascending rowid order.
type Rows struct {
	db      *File
	root    int
	ncols   int
	aliases []int

	started bool
	stack   []frame  // interior pages being walked
	pending []Record // records of the current leaf page
	err     error
}

// Scan returns an iterator over the table b-tree rooted at page root.
// Each record must hold exactly ncols values; a negative ncols disables
// the check.
func (f *File) Scan(root, ncols int) *Rows {
	return &Rows{db: f, root: root, ncols: ncols}
}

// ScanTable returns an iterator over the rows of t.
// Columns aliasing the rowid are filled in with the row's rowid.
func (f *File) ScanTable(t *Table) *Rows {
	rows := f.Scan(t.RootPage(), len(t.cols))
	for i, col := range t.cols {
		if col.rowid {
			rows.aliases = append(rows.aliases, i)
		}
	}
	return rows
}

// Next returns the next record, or io.EOF once the table is exhausted.
// After any other error, Next keeps returning that error.
func (rows *Rows) Next() (Record, error) {
	if rows.err != nil {
		return Record{}, rows.err
	}
	if !rows.started {
		rows.started = true
		if err := rows.descend(rows.root); err != nil {
			return rows.fail(err)
		}
	}

	for {
		if len(rows.pending) > 0 {
			rec := rows.pending[0]
			rows.pending = rows.pending[1:]
			return rec, nil
		}
		if len(rows.stack) == 0 {
			return Record{}, io.EOF
		}

		top := &rows.stack[len(rows.stack)-1]
		var child int
		switch {
		case top.next < top.btree.NumCell():
			cell, err := top.btree.loadCell(top.next)
			if err != nil {
				return rows.fail(err)
			}
			child = int(cell.ChildPage)
		case top.next == top.btree.NumCell():
			child = int(top.btree.RightMost)
		default:
			rows.stack = rows.stack[:len(rows.stack)-1]
			continue
		}
		top.next++

		if err := rows.descend(child); err != nil {
			return rows.fail(err)
		}
	}
}

// Err returns the error that stopped the iteration, if any.
func (rows *Rows) Err() error {
	return rows.err
}

func (rows *Rows) fail(err error) (Record, error) {
	rows.err = err
	rows.stack = nil
	rows.pending = nil
	return Record{}, err
}

// descend loads page pgno: leaf records are queued, interior pages are
// pushed on the walk stack.
func (rows *Rows) descend(pgno int) error {
	page, err := rows.db.pager.Page(pgno)
	if err != nil {
		return err
	}
	btree, err := newBtreeTable(page, rows.db)
	if err != nil {
		return err
	}

	logging.Logger().Debug("visiting page",
		"page", pgno,
		"kind", btree.Kind.String(),
		"cells", btree.NumCell(),
		"depth", len(rows.stack),
	)

	switch btree.Kind {
	case BTreeLeafTableKind:
		recs, err := btree.records(rows.ncols, rows.aliases)
		if err != nil {
			return err
		}
		rows.pending = recs
	case BTreeInteriorTableKind:
		rows.stack = append(rows.stack, frame{btree: btree})
	default:
		return errPage(ErrUnsupportedPageType, pgno, btree.page.hdrOffset(),
			"%v is not a table b-tree page", btree.Kind)
	}
	return nil
}

// Visit calls fn for every record of the table b-tree rooted at root,
// in ascending rowid order, stopping at the first error.
func (f *File) Visit(root, ncols int, fn func(Record) error) error {
	return f.Scan(root, ncols).each(fn)
}

// VisitTable calls fn for every row of t, in ascending rowid order.
func (f *File) VisitTable(t *Table, fn func(Record) error) error {
	return f.ScanTable(t).each(fn)
}

func (rows *Rows) each(fn func(Record) error) error {
	for {
		rec, err := rows.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
