// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"fmt"
	"math"

	"github.com/gonuts/binary"
	"golang.org/x/text/encoding/unicode"
)

// SerialType represents SQLite types on disk
type SerialType uint64

const (
	StNull SerialType = iota
	StInt8
	StInt16
	StInt24
	StInt32
	StInt48
	StInt64
	StFloat
	StC0
	StC1
	stReserved10
	stReserved11

	StBlob SerialType = 12
	StText SerialType = 13
)

func (st SerialType) String() string {
	switch st {
	case StNull:
		return "StNull"
	case StInt8:
		return "StInt8"
	case StInt16:
		return "StInt16"
	case StInt24:
		return "StInt24"
	case StInt32:
		return "StInt32"
	case StInt48:
		return "StInt48"
	case StInt64:
		return "StInt64"
	case StFloat:
		return "StFloat"
	case StC0:
		return "StC0"
	case StC1:
		return "StC1"
	}

	if st.IsBlob() {
		return fmt.Sprintf("StBlob(%d)", st.NBytes())
	}
	if st.IsText() {
		return fmt.Sprintf("StText(%d)", st.NBytes())
	}
	return fmt.Sprintf("SerialType(%d)", uint64(st))
}

func (st SerialType) IsBlob() bool {
	return st >= StBlob && st&1 == 0
}

func (st SerialType) IsText() bool {
	return st >= StText && st&1 == 1
}

// Valid reports whether st is a serial type this package can decode.
func (st SerialType) Valid() bool {
	return st != stReserved10 && st != stReserved11
}

// NBytes returns the number of bytes on disk for this SerialType
// NBytes returns -1 if the SerialType is invalid.
func (st SerialType) NBytes() int {
	switch st {
	case StNull:
		return 0
	case StInt8:
		return 1
	case StInt16:
		return 2
	case StInt24:
		return 3
	case StInt32:
		return 4
	case StInt48:
		return 6
	case StInt64:
		return 8
	case StFloat:
		return 8
	case StC0, StC1:
		return 0
	}

	if st.IsBlob() {
		return int((st - StBlob) / 2)
	}
	if st.IsText() {
		return int((st - StText) / 2)
	}

	return -1
}

// decodeValue decodes the value of serial type st from the start of buf
// and returns it along with the number of bytes consumed.
func decodeValue(st SerialType, buf []byte, enc Encoding) (Value, int, error) {
	n := st.NBytes()
	if n < 0 {
		return Value{}, 0, errPage(ErrUnsupportedSerialType, 0, -1, "code %d", uint64(st))
	}
	if len(buf) < n {
		return Value{}, 0, errPage(ErrTruncatedInput, 0, -1,
			"%v needs %d bytes, %d left", st, n, len(buf))
	}

	switch st {
	case StNull:
		return NullValue(), 0, nil
	case StInt8:
		return IntValue(int64(int8(buf[0]))), n, nil
	case StInt16:
		return IntValue(int64(int16(binary.BigEndian.Uint16(buf)))), n, nil
	case StInt24:
		v := int64(buf[0])<<16 | int64(buf[1])<<8 | int64(buf[2])
		if buf[0]&0x80 != 0 {
			v -= 1 << 24
		}
		return IntValue(v), n, nil
	case StInt32:
		return IntValue(int64(int32(binary.BigEndian.Uint32(buf)))), n, nil
	case StInt48:
		v := int64(binary.BigEndian.Uint16(buf))<<32 | int64(binary.BigEndian.Uint32(buf[2:]))
		if buf[0]&0x80 != 0 {
			v -= 1 << 48
		}
		return IntValue(v), n, nil
	case StInt64:
		return IntValue(int64(binary.BigEndian.Uint64(buf))), n, nil
	case StFloat:
		return FloatValue(math.Float64frombits(binary.BigEndian.Uint64(buf))), n, nil
	case StC0:
		return IntValue(0), 0, nil
	case StC1:
		return IntValue(1), 0, nil
	}

	raw := make([]byte, n)
	copy(raw, buf)
	if st.IsBlob() {
		return BlobValue(raw), n, nil
	}
	s, err := decodeText(raw, enc)
	if err != nil {
		return Value{}, 0, err
	}
	return TextValue(s), n, nil
}

func decodeText(raw []byte, enc Encoding) (string, error) {
	switch enc {
	case UTF16le:
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
		return string(out), err
	case UTF16be:
		out, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
		return string(out), err
	}
	return string(raw), nil
}
