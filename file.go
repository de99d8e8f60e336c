// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"fmt"
	"io"
	"os"

	"github.com/go-sqlite/litefile/internal/logging"
)

const (
	sqlite3Magic = "SQLite format 3\x00"

	dbHeaderSize = 100
	minPageSize  = 512
	maxPageSize  = 65536
)

// Encoding is the text encoding of a database.
type Encoding uint32

const (
	UTF8    Encoding = 1
	UTF16le Encoding = 2
	UTF16be Encoding = 3
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "UTF-8"
	case UTF16le:
		return "UTF-16le"
	case UTF16be:
		return "UTF-16be"
	}
	return fmt.Sprintf("Encoding(%d)", uint32(e))
}

// DatabaseHeader is the 100-byte header at the start of a database file.
type DatabaseHeader struct {
	Magic        [16]byte
	RawPageSize  uint16 // database page size in bytes; 1 means 65536
	WVersion     byte   // file format write version
	RVersion     byte   // file format read version
	NReserved    byte   // bytes of unused reserved space at the end of each page
	MaxFraction  byte   // maximum embedded payload fraction (must be 64)
	MinFraction  byte   // minimum embedded payload fraction (must be 32)
	LeafFraction byte   // leaf payload fraction (must be 32)
	NFileChanges uint32 // file change counter
	DbSize       uint32 // size of the database file in pages. The "in-header database size".
	FreePage     uint32 // page number of the first freelist trunk page.
	NFreePages   uint32 // total number of freelist pages.
	SchemaCookie uint32 // schema cookie
	SchemaFormat uint32 // schema format number. supported formats are 1,2,3 and 4.
	CacheSize    int32  // default page cache size
	AutoVacuum   uint32 // page number of the largest root b-tree page in auto-vacuum modes, or zero.

	// the database text encoding.
	//  1: UTF-8.
	//  2: UTF-16le
	//  3: UTF-16be
	DbEncoding Encoding

	UserVersion   int32  // the "user version" as read and set by the user_version PRAGMA
	IncrVacuum    uint32 // true (non-zero) for incremental-vacuum mode. False (zero) otherwise
	ApplicationID uint32 // the "Application ID" set by the PRAGMA application_id

	XXX_reserved  [20]byte // reserved for expansion. must be zero
	VersionValid  uint32   // the version-valid-for number
	SqliteVersion uint32   // SQLITE_VERSION_NUMBER
}

// PageSize returns the page size in bytes.
func (h *DatabaseHeader) PageSize() int {
	if h.RawPageSize == 1 {
		return maxPageSize
	}
	return int(h.RawPageSize)
}

func readDatabaseHeader(r io.ReaderAt) (DatabaseHeader, error) {
	var hdr DatabaseHeader
	buf := make([]byte, dbHeaderSize)
	n, err := r.ReadAt(buf, 0)
	if n < dbHeaderSize {
		if err == nil || err == io.EOF {
			return hdr, errPage(ErrTruncatedInput, 0, -1, "database header: read %d of %d bytes", n, dbHeaderSize)
		}
		return hdr, err
	}

	if string(buf[:len(sqlite3Magic)]) != sqlite3Magic {
		return hdr, errPage(ErrInvalidMagic, 0, -1, "got %q, want %q", buf[:len(sqlite3Magic)], sqlite3Magic)
	}

	if _, err := unmarshal(buf, &hdr); err != nil {
		return hdr, fmt.Errorf("litefile: decoding database header: %w", err)
	}

	sz := hdr.PageSize()
	if sz < minPageSize || sz > maxPageSize || sz&(sz-1) != 0 {
		return hdr, errPage(ErrInvalidPageSize, 0, -1, "%d", sz)
	}
	return hdr, nil
}

// File is a read-only handle on a database file.
// A File is not safe for concurrent use.
type File struct {
	r      io.ReaderAt
	c      io.Closer
	header DatabaseHeader
	pager  pager

	schema *schema // loaded on first use
}

// Open opens the named database file.
func Open(fname string) (*File, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	db, err := newFile(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	db.c = f
	return db, nil
}

// NewFile returns a File reading from r, which holds size bytes.
// The returned File does not own r.
func NewFile(r io.ReaderAt, size int64) (*File, error) {
	return newFile(r, size)
}

func newFile(r io.ReaderAt, size int64) (*File, error) {
	hdr, err := readDatabaseHeader(r)
	if err != nil {
		return nil, err
	}

	db := &File{r: r, header: hdr}

	npages := int(size / int64(hdr.PageSize()))
	// the in-header size is only trusted when it was written by a
	// version that maintains it.
	if hdr.DbSize != 0 && hdr.VersionValid == hdr.NFileChanges {
		npages = int(hdr.DbSize)
	}
	db.pager = newPager(r, hdr.PageSize(), npages)

	logging.Logger().Debug("opened database",
		"page_size", hdr.PageSize(),
		"pages", npages,
		"encoding", hdr.DbEncoding.String(),
		"version", hdr.SqliteVersion,
	)
	return db, nil
}

// Close releases the underlying file, if File owns it.
func (f *File) Close() error {
	f.pager.Delete()
	if f.c == nil {
		return nil
	}
	return f.c.Close()
}

// Header returns a copy of the database header.
func (f *File) Header() DatabaseHeader {
	return f.header
}

// PageSize returns the database page size in bytes
func (f *File) PageSize() int {
	return f.header.PageSize()
}

// UsableSize returns the number of usable bytes per page.
func (f *File) UsableSize() int {
	return f.header.PageSize() - int(f.header.NReserved)
}

// NumPage returns the number of pages for this database
func (f *File) NumPage() int {
	return f.pager.npages
}

// Encoding returns the text encoding for this database
func (f *File) Encoding() Encoding {
	if f.header.DbEncoding == 0 {
		return UTF8
	}
	return f.header.DbEncoding
}

// Version returns the sqlite version number used to create this database
func (f *File) Version() int {
	return int(f.header.SqliteVersion)
}
