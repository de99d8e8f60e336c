// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"github.com/gonuts/binary"
)

// Cell is an on-disk b-tree cell.
//
// Kind selects the variant: a BTreeLeafTableKind cell carries a record
// (PayloadSize, RowID, Payload); a BTreeInteriorTableKind cell carries a
// pointer to the child holding keys up to and including RowID.
type Cell struct {
	Kind PageKind

	PayloadSize int64
	RowID       int64
	Payload     []byte

	ChildPage uint32
}

// maxLocal returns the largest payload a table leaf cell stores on its page.
func maxLocal(usable int) int {
	return usable - 35
}

// decodeCell decodes the cell at the start of buf, read from a page
// of the given kind. usable is the usable page size.
func decodeCell(kind PageKind, buf []byte, usable int) (Cell, error) {
	switch kind {
	case BTreeInteriorTableKind:
		if len(buf) < 4 {
			return Cell{}, errPage(ErrTruncatedInput, 0, -1, "child page number")
		}
		pgno := binary.BigEndian.Uint32(buf)
		rowid, n := varint(buf[4:])
		if n <= 0 {
			return Cell{}, errPage(ErrTruncatedInput, 0, -1, "interior cell key")
		}
		return Cell{
			Kind:      kind,
			RowID:     int64(rowid),
			ChildPage: pgno,
		}, nil

	case BTreeLeafTableKind:
		sz, nsz := varint(buf)
		if nsz <= 0 {
			return Cell{}, errPage(ErrTruncatedInput, 0, -1, "cell payload size")
		}
		rowid, nrow := varint(buf[nsz:])
		if nrow <= 0 {
			return Cell{}, errPage(ErrTruncatedInput, 0, -1, "cell rowid")
		}

		// sz is the total payload size.
		// anything larger than the local limit spilled over to
		// overflow pages.
		if sz > uint64(maxLocal(usable)) {
			return Cell{}, errPage(ErrOverflowNotSupported, 0, -1,
				"rowid %d: payload of %d bytes exceeds local limit of %d", int64(rowid), sz, maxLocal(usable))
		}
		// a payload running past the page would continue on an
		// overflow page.
		start := nsz + nrow
		if uint64(len(buf)-start) < sz {
			return Cell{}, errPage(ErrOverflowNotSupported, 0, -1,
				"rowid %d: payload of %d bytes, %d left on page", int64(rowid), sz, len(buf)-start)
		}
		return Cell{
			Kind:        kind,
			PayloadSize: int64(sz),
			RowID:       int64(rowid),
			Payload:     buf[start : start+int(sz)],
		}, nil
	}

	return Cell{}, errPage(ErrUnsupportedPageType, 0, -1, "cannot decode %v cells", kind)
}
