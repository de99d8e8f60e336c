// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import "fmt"

// Record is one table row.
type Record struct {
	RowID  int64
	Values []Value
}

// decodeRecord decodes a record payload into its column values.
func decodeRecord(payload []byte, enc Encoding) ([]Value, error) {
	hdrsz, n := varint(payload)
	if n <= 0 {
		return nil, errPage(ErrTruncatedInput, 0, -1, "record header size")
	}
	if hdrsz > uint64(len(payload)) || hdrsz < uint64(n) {
		return nil, errPage(ErrTruncatedInput, 0, -1,
			"record header of %d bytes in %d byte payload", hdrsz, len(payload))
	}

	hdr := payload[n:hdrsz]
	var types []SerialType
	for len(hdr) > 0 {
		v, n := varint(hdr)
		if n <= 0 {
			return nil, errPage(ErrTruncatedInput, 0, -1, "record header serial type %d", len(types))
		}
		st := SerialType(v)
		if !st.Valid() {
			return nil, errPage(ErrUnsupportedSerialType, 0, -1, "column %d: code %d", len(types), v)
		}
		types = append(types, st)
		hdr = hdr[n:]
	}

	body := payload[hdrsz:]
	values := make([]Value, 0, len(types))
	for i, st := range types {
		v, n, err := decodeValue(st, body, enc)
		if err != nil {
			if e, ok := err.(*Error); ok {
				e.Msg = fmt.Sprintf("column %d: %s", i, e.Msg)
			}
			return nil, err
		}
		body = body[n:]
		values = append(values, v)
	}
	return values, nil
}
