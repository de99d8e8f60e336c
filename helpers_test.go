// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"
)

// encodeRecord encodes vals (nil, int, int64, float64, string or []byte)
// as a record payload, using the narrowest integer serial types.
func encodeRecord(vals ...interface{}) []byte {
	var (
		hdr  []byte
		body []byte
		tmp  [maxVarintLen]byte
	)
	for _, v := range vals {
		var st uint64
		switch v := v.(type) {
		case nil:
			st = uint64(StNull)
		case int:
			st, body = encodeInt(int64(v), body)
		case int64:
			st, body = encodeInt(v, body)
		case float64:
			st = uint64(StFloat)
			body = binary.BigEndian.AppendUint64(body, math.Float64bits(v))
		case string:
			st = uint64(StText) + 2*uint64(len(v))
			body = append(body, v...)
		case []byte:
			st = uint64(StBlob) + 2*uint64(len(v))
			body = append(body, v...)
		default:
			panic("unsupported value")
		}
		hdr = append(hdr, tmp[:putVarint(tmp[:], st)]...)
	}

	n := 1
	for putVarint(tmp[:], uint64(len(hdr)+n)) != n {
		n++
	}
	out := append([]byte(nil), tmp[:putVarint(tmp[:], uint64(len(hdr)+n))]...)
	out = append(out, hdr...)
	return append(out, body...)
}

func encodeInt(v int64, body []byte) (uint64, []byte) {
	var (
		st uint64
		n  int
	)
	switch {
	case v == 0:
		return uint64(StC0), body
	case v == 1:
		return uint64(StC1), body
	case v >= math.MinInt8 && v <= math.MaxInt8:
		st, n = uint64(StInt8), 1
	case v >= math.MinInt16 && v <= math.MaxInt16:
		st, n = uint64(StInt16), 2
	case v >= -1<<23 && v < 1<<23:
		st, n = uint64(StInt24), 3
	case v >= math.MinInt32 && v <= math.MaxInt32:
		st, n = uint64(StInt32), 4
	case v >= -1<<47 && v < 1<<47:
		st, n = uint64(StInt48), 6
	default:
		st, n = uint64(StInt64), 8
	}
	for i := n - 1; i >= 0; i-- {
		body = append(body, byte(v>>(8*i)))
	}
	return st, body
}

func leafCell(rowid int64, payload []byte) []byte {
	var tmp [maxVarintLen]byte
	cell := append([]byte(nil), tmp[:putVarint(tmp[:], uint64(len(payload)))]...)
	cell = append(cell, tmp[:putVarint(tmp[:], uint64(rowid))]...)
	return append(cell, payload...)
}

func interiorCell(child uint32, key int64) []byte {
	var tmp [maxVarintLen]byte
	cell := binary.BigEndian.AppendUint32(nil, child)
	return append(cell, tmp[:putVarint(tmp[:], uint64(key))]...)
}

// buildPage lays out a b-tree page. The cell pointer array lists cells
// in the given order; cell content is packed from the end of the page.
func buildPage(pgno, pageSize int, kind PageKind, rightMost uint32, cells ...[]byte) []byte {
	buf := make([]byte, pageSize)
	off := 0
	if pgno == 1 {
		off = dbHeaderSize
	}
	hdrSize := leafHeaderSize
	if !kind.IsLeaf() {
		hdrSize = interiorHeaderSize
		binary.BigEndian.PutUint32(buf[off+8:], rightMost)
	}

	content := pageSize
	for i, cell := range cells {
		content -= len(cell)
		copy(buf[content:], cell)
		binary.BigEndian.PutUint16(buf[off+hdrSize+2*i:], uint16(content))
	}

	buf[off] = byte(kind)
	binary.BigEndian.PutUint16(buf[off+3:], uint16(len(cells)))
	binary.BigEndian.PutUint16(buf[off+5:], uint16(content))
	return buf
}

// buildDB writes a database header into the first page and concatenates
// the pages into a file image.
func buildDB(pageSize int, pages ...[]byte) []byte {
	hdr := pages[0][:dbHeaderSize]
	copy(hdr, sqlite3Magic)
	raw := uint16(pageSize)
	if pageSize == maxPageSize {
		raw = 1
	}
	binary.BigEndian.PutUint16(hdr[16:], raw)
	hdr[18], hdr[19] = 1, 1
	hdr[21], hdr[22], hdr[23] = 64, 32, 32
	binary.BigEndian.PutUint32(hdr[24:], 1)
	binary.BigEndian.PutUint32(hdr[28:], uint32(len(pages)))
	binary.BigEndian.PutUint32(hdr[44:], 4)
	binary.BigEndian.PutUint32(hdr[56:], uint32(UTF8))
	binary.BigEndian.PutUint32(hdr[92:], 1)
	binary.BigEndian.PutUint32(hdr[96:], 3045000)
	return bytes.Join(pages, nil)
}

// schemaPage returns page 1 declaring a single table t(a TEXT) rooted at page 2.
func schemaPage(pageSize int) []byte {
	rec := encodeRecord("table", "t", "t", 2, "CREATE TABLE t (a TEXT)")
	return buildPage(1, pageSize, BTreeLeafTableKind, 0, leafCell(1, rec))
}

func openImage(t *testing.T, img []byte) *File {
	t.Helper()
	f, err := NewFile(bytes.NewReader(img), int64(len(img)))
	if err != nil {
		t.Fatalf("could not open image: %v", err)
	}
	return f
}

func readAll(rows *Rows) ([]Record, error) {
	var recs []Record
	for {
		rec, err := rows.Next()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
}
