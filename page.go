// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"fmt"

	"github.com/gonuts/binary"
)

// PageKind describes what kind of page is.
type PageKind byte

const (
	intKeyKind   PageKind = 0x01
	zeroDataKind PageKind = 0x02
	leafDataKind PageKind = 0x04
	leafKind     PageKind = 0x08

	BTreeInteriorIndexKind = zeroDataKind
	BTreeInteriorTableKind = leafDataKind | intKeyKind
	BTreeLeafIndexKind     = zeroDataKind | leafKind
	BTreeLeafTableKind     = leafDataKind | intKeyKind | leafKind
)

func (pk PageKind) String() string {
	switch pk {
	case BTreeInteriorIndexKind:
		return "BTreeInteriorIndex"
	case BTreeInteriorTableKind:
		return "BTreeInteriorTable"
	case BTreeLeafIndexKind:
		return "BTreeLeafIndex"
	case BTreeLeafTableKind:
		return "BTreeLeafTable"
	}
	return fmt.Sprintf("PageKind(0x%02x)", byte(pk))
}

// Valid reports whether pk is one of the four b-tree page kinds.
func (pk PageKind) Valid() bool {
	switch pk {
	case BTreeInteriorIndexKind, BTreeInteriorTableKind, BTreeLeafIndexKind, BTreeLeafTableKind:
		return true
	}
	return false
}

// IsLeaf reports whether pk is a leaf page kind.
func (pk PageKind) IsLeaf() bool {
	return pk&leafKind != 0
}

const (
	leafHeaderSize     = 8
	interiorHeaderSize = 12
)

// PageHeader is the b-tree header found at the start of every b-tree page
// (after the database header on page 1).
type PageHeader struct {
	Kind            PageKind // b-tree page kind
	FreeBlockOffset uint16   // byte offset into the page of the first free block
	NCells          uint16   // number of cells on this page
	CellsOffset     uint16   // offset into first byte of the cell content area
	NFreeBytes      uint8    // number of fragmented free bytes within cell area content

	RightMost uint32 // right most pointer (only valid for interior pages)
}

// Size returns the encoded size of the header.
func (h *PageHeader) Size() int {
	if h.Kind.IsLeaf() {
		return leafHeaderSize
	}
	return interiorHeaderSize
}

// CellsAddr returns the start of the cell content area.
func (h *PageHeader) CellsAddr() int {
	if h.CellsOffset == 0 {
		return maxPageSize
	}
	return int(h.CellsOffset)
}

// decodePageHeader decodes a b-tree page header from the start of buf.
func decodePageHeader(buf []byte) (PageHeader, error) {
	var hdr PageHeader
	if len(buf) < leafHeaderSize {
		return hdr, errPage(ErrTruncatedInput, 0, -1, "page header: %d bytes left", len(buf))
	}

	kind := PageKind(buf[0])
	if !kind.Valid() {
		return hdr, errPage(ErrUnsupportedPageType, 0, 0, "%v", kind)
	}

	var raw struct {
		Kind            PageKind
		FreeBlockOffset uint16
		NCells          uint16
		CellsOffset     uint16
		NFreeBytes      uint8
	}
	if _, err := unmarshal(buf[:leafHeaderSize], &raw); err != nil {
		return hdr, err
	}
	hdr = PageHeader{
		Kind:            raw.Kind,
		FreeBlockOffset: raw.FreeBlockOffset,
		NCells:          raw.NCells,
		CellsOffset:     raw.CellsOffset,
		NFreeBytes:      raw.NFreeBytes,
	}

	if !kind.IsLeaf() {
		if len(buf) < interiorHeaderSize {
			return hdr, errPage(ErrTruncatedInput, 0, -1, "interior page header: %d bytes left", len(buf))
		}
		hdr.RightMost = binary.BigEndian.Uint32(buf[leafHeaderSize:])
	}
	return hdr, nil
}

// page is a page loaded from disk.
type page struct {
	id  int
	buf []byte
}

func (p *page) ID() int {
	return p.id
}

func (p *page) PageSize() int {
	return len(p.buf)
}

// hdrOffset returns the offset of the b-tree header within the page.
func (p *page) hdrOffset() int {
	if p.id == 1 {
		// drop first 100-bytes (global file header)
		return dbHeaderSize
	}
	return 0
}

// Header decodes the b-tree page header.
func (p *page) Header() (PageHeader, error) {
	hdr, err := decodePageHeader(p.buf[p.hdrOffset():])
	return hdr, atPage(err, p.id, p.hdrOffset())
}

// cellAddrs decodes the cell pointer array that follows the page header.
// Every address is checked to lie within the cell content area.
func (p *page) cellAddrs(hdr *PageHeader) ([]int, error) {
	start := p.hdrOffset() + hdr.Size()
	end := start + 2*int(hdr.NCells)
	if end > len(p.buf) {
		return nil, errPage(ErrTruncatedInput, p.id, start,
			"cell pointer array of %d cells overruns page", hdr.NCells)
	}

	lo := hdr.CellsAddr()
	if lo < end {
		lo = end
	}
	addrs := make([]int, hdr.NCells)
	for i := range addrs {
		off := start + 2*i
		addr := int(binary.BigEndian.Uint16(p.buf[off:]))
		if addr < lo || addr >= len(p.buf) {
			return nil, errPage(ErrTruncatedInput, p.id, off,
				"cell %d address %d outside cell content area [%d, %d)", i, addr, lo, len(p.buf))
		}
		addrs[i] = addr
	}
	return addrs, nil
}

// atPage fills in the page and offset of a package error that was
// raised without that context.
func atPage(err error, pgno, offset int) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	if e.Page == 0 {
		e.Page = pgno
		if e.Offset < 0 {
			e.Offset = offset
		}
	}
	return e
}
