// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"errors"
	"math"
	"testing"
)

func TestSerialTypeNBytes(t *testing.T) {
	for _, test := range []struct {
		st    SerialType
		n     int
		blob  bool
		text  bool
		valid bool
	}{
		{st: StNull, n: 0, valid: true},
		{st: StInt8, n: 1, valid: true},
		{st: StInt16, n: 2, valid: true},
		{st: StInt24, n: 3, valid: true},
		{st: StInt32, n: 4, valid: true},
		{st: StInt48, n: 6, valid: true},
		{st: StInt64, n: 8, valid: true},
		{st: StFloat, n: 8, valid: true},
		{st: StC0, n: 0, valid: true},
		{st: StC1, n: 0, valid: true},
		{st: 10, n: -1},
		{st: 11, n: -1},
		{st: 12, n: 0, blob: true, valid: true},
		{st: 13, n: 0, text: true, valid: true},
		{st: 14, n: 1, blob: true, valid: true},
		{st: 15, n: 1, text: true, valid: true},
		{st: 23, n: 5, text: true, valid: true},
		{st: 1012, n: 500, blob: true, valid: true},
	} {
		t.Run(test.st.String(), func(t *testing.T) {
			if got := test.st.NBytes(); got != test.n {
				t.Errorf("NBytes() = %d, want %d", got, test.n)
			}
			if got := test.st.IsBlob(); got != test.blob {
				t.Errorf("IsBlob() = %v, want %v", got, test.blob)
			}
			if got := test.st.IsText(); got != test.text {
				t.Errorf("IsText() = %v, want %v", got, test.text)
			}
			if got := test.st.Valid(); got != test.valid {
				t.Errorf("Valid() = %v, want %v", got, test.valid)
			}
		})
	}
}

func TestDecodeValue(t *testing.T) {
	for _, test := range []struct {
		name string
		st   SerialType
		buf  []byte
		enc  Encoding
		want Value
		n    int
	}{
		{"null", StNull, nil, UTF8, NullValue(), 0},
		{"int8", StInt8, []byte{0xfe}, UTF8, IntValue(-2), 1},
		{"int16", StInt16, []byte{0x01, 0x00}, UTF8, IntValue(256), 2},
		{"int24-negative", StInt24, []byte{0xff, 0xff, 0xfe}, UTF8, IntValue(-2), 3},
		{"int24-positive", StInt24, []byte{0x7f, 0xff, 0xff}, UTF8, IntValue(1<<23 - 1), 3},
		{"int32", StInt32, []byte{0x80, 0, 0, 0}, UTF8, IntValue(math.MinInt32), 4},
		{"int48-negative", StInt48, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, UTF8, IntValue(-1), 6},
		{"int48-positive", StInt48, []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x00}, UTF8, IntValue(1 << 32), 6},
		{"int64", StInt64, []byte{0x7f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, UTF8, IntValue(math.MaxInt64), 8},
		{"float", StFloat, []byte{0x40, 0x09, 0x21, 0xfb, 0x54, 0x44, 0x2d, 0x18}, UTF8, FloatValue(math.Pi), 8},
		{"zero", StC0, []byte{0xff}, UTF8, IntValue(0), 0},
		{"one", StC1, nil, UTF8, IntValue(1), 0},
		{"blob", 18, []byte{1, 2, 3, 9}, UTF8, BlobValue([]byte{1, 2, 3}), 3},
		{"text", 23, []byte("hello world"), UTF8, TextValue("hello"), 5},
		{"text-utf16le", 25, []byte{'h', 0, 'i', 0, 0xac, 0x20, 0, 0}, UTF16le, TextValue("hi€"), 6},
		{"text-utf16be", 21, []byte{0, 'o', 0, 'k'}, UTF16be, TextValue("ok"), 4},
		{"empty-text", StText, nil, UTF8, TextValue(""), 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, n, err := decodeValue(test.st, test.buf, test.enc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(test.want) {
				t.Errorf("value = %v (%v), want %v (%v)", got, got.Type(), test.want, test.want.Type())
			}
			if n != test.n {
				t.Errorf("consumed %d bytes, want %d", n, test.n)
			}
		})
	}
}

func TestDecodeValueErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		st   SerialType
		buf  []byte
		want error
	}{
		{"reserved-10", 10, []byte{1, 2, 3}, ErrUnsupportedSerialType},
		{"reserved-11", 11, nil, ErrUnsupportedSerialType},
		{"short-int32", StInt32, []byte{1, 2}, ErrTruncatedInput},
		{"short-float", StFloat, make([]byte, 7), ErrTruncatedInput},
		{"short-text", 33, []byte("abc"), ErrTruncatedInput},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := decodeValue(test.st, test.buf, UTF8)
			if !errors.Is(err, test.want) {
				t.Fatalf("error = %v, want %v", err, test.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	for _, test := range []struct {
		v    Value
		want string
	}{
		{NullValue(), ""},
		{IntValue(-42), "-42"},
		{FloatValue(2), "2.0"},
		{FloatValue(0.5), "0.5"},
		{FloatValue(1e300), "1e+300"},
		{FloatValue(math.Inf(1)), "+Inf"},
		{TextValue("Yellow"), "Yellow"},
		{BlobValue([]byte("raw")), "raw"},
	} {
		if got := test.v.String(); got != test.want {
			t.Errorf("%v.String() = %q, want %q", test.v.Type(), got, test.want)
		}
	}
}
