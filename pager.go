// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"io"
)

const pagerCacheSize = 64

type pager struct {
	r      io.ReaderAt
	size   int           // page size in bytes
	npages int           // total number of pages in db
	pages  map[int]*page // cache of pages
	lru    []int         // list of last used pages, oldest first
}

func newPager(r io.ReaderAt, size, npages int) pager {
	return pager{
		r:      r,
		size:   size,
		npages: npages,
		pages:  make(map[int]*page, pagerCacheSize),
		lru:    make([]int, 0, pagerCacheSize),
	}
}

// Page returns page i, reading it from disk unless it is cached.
func (p *pager) Page(i int) (*page, error) {
	if i < 1 || i > p.npages {
		return nil, errPage(ErrPageOutOfRange, i, -1, "valid pages are [1, %d]", p.npages)
	}

	if pg, ok := p.pages[i]; ok {
		return pg, nil
	}

	buf := make([]byte, p.size)
	n, err := p.r.ReadAt(buf, int64(i-1)*int64(p.size))
	if n != len(buf) {
		if err == nil || err == io.EOF {
			return nil, errPage(ErrTruncatedInput, i, -1, "read %d of %d page bytes", n, len(buf))
		}
		return nil, err
	}

	pg := &page{id: i, buf: buf}

	if len(p.lru) == pagerCacheSize {
		delete(p.pages, p.lru[0])
		p.lru = append(p.lru[:0], p.lru[1:]...)
	}
	p.pages[i] = pg
	p.lru = append(p.lru, i)
	return pg, nil
}

// Delete drops every cached page.
func (p *pager) Delete() {
	p.pages = nil
	p.lru = nil
}
