// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"bytes"

	"github.com/gonuts/binary"
)

const maxVarintLen = 9

func unmarshal(buf []byte, ptr interface{}) (int64, error) {
	r := bytes.NewReader(buf)
	max := r.Len()
	dec := binary.NewDecoder(r)
	dec.Order = binary.BigEndian
	err := dec.Decode(ptr)
	n := max - r.Len()
	return int64(n), err
}

// varint decodes a big-endian variable-length integer from data.
// The first 8 bytes contribute 7 bits each; a 9th byte contributes all 8.
// varint returns n == 0 if data ends before the integer is terminated.
func varint(data []byte) (uint64, int) {
	var val uint64
	for i := 0; i < maxVarintLen-1; i++ {
		if i > len(data)-1 {
			return 0, 0
		}
		val = (val << 7) | uint64(data[i]&0x7f)
		if data[i] < 0x80 {
			return val, i + 1
		}
	}
	if len(data) < maxVarintLen {
		return 0, 0
	}
	return (val << 8) | uint64(data[8]), maxVarintLen
}

// putVarint encodes v into buf, which must hold at least 9 bytes,
// and returns the number of bytes written.
func putVarint(buf []byte, v uint64) int {
	if v&(uint64(0xff000000)<<32) != 0 {
		buf[8] = byte(v)
		v >>= 8
		for i := 7; i >= 0; i-- {
			buf[i] = byte(v&0x7f) | 0x80
			v >>= 7
		}
		return maxVarintLen
	}

	n := 1
	for tmp := v >> 7; tmp > 0; tmp >>= 7 {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		b := byte(v>>(uint(i)*7)) & 0x7f
		if i > 0 {
			b |= 0x80
		}
		buf[n-1-i] = b
	}
	return n
}
