// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType is the storage class of a decoded Value.
type ValueType byte

const (
	NullType ValueType = iota
	IntegerType
	FloatType
	TextType
	BlobType
)

func (vt ValueType) String() string {
	switch vt {
	case NullType:
		return "NULL"
	case IntegerType:
		return "INTEGER"
	case FloatType:
		return "REAL"
	case TextType:
		return "TEXT"
	case BlobType:
		return "BLOB"
	}
	return fmt.Sprintf("ValueType(%d)", byte(vt))
}

// Value is a single decoded column value.
// The zero Value is NULL.
type Value struct {
	typ ValueType
	i   int64
	f   float64
	s   string
	b   []byte
}

func NullValue() Value { return Value{} }
func IntValue(v int64) Value { return Value{typ: IntegerType, i: v} }
func FloatValue(v float64) Value { return Value{typ: FloatType, f: v} }
func TextValue(v string) Value { return Value{typ: TextType, s: v} }
func BlobValue(v []byte) Value { return Value{typ: BlobType, b: v} }
func (v Value) Type() ValueType { return v.typ }
func (v Value) IsNull() bool { return v.typ == NullType }
func (v Value) Int() int64 { return v.i }
func (v Value) Float() float64 { return v.f }
func (v Value) Text() string { return v.s }
func (v Value) Blob() []byte { return v.b }

// Interface returns the value as nil, int64, float64, string or []byte.
func (v Value) Interface() interface{} {
	switch v.typ {
	case IntegerType:
		return v.i
	case FloatType:
		return v.f
	case TextType:
		return v.s
	case BlobType:
		return v.b
	}
	return nil
}

// String returns the textual form of v, as used when comparing
// against string literals. NULL renders as the empty string.
func (v Value) String() string {
	switch v.typ {
	case IntegerType:
		return strconv.FormatInt(v.i, 10)
	case FloatType:
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	case TextType:
		return v.s
	case BlobType:
		return string(v.b)
	}
	return ""
}

// Equal reports whether v and o hold the same type and value.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case IntegerType:
		return v.i == o.i
	case FloatType:
		return v.f == o.f
	case TextType:
		return v.s == o.s
	case BlobType:
		return string(v.b) == string(o.b)
	}
	return true
}
