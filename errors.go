// Copyright 2017 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package litefile

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported by the decoder.
// Use errors.Is to test an error returned by this package against them.
var (
	ErrInvalidMagic          = errors.New("invalid file header magic")
	ErrInvalidPageSize       = errors.New("invalid page size")
	ErrTruncatedInput        = errors.New("truncated input")
	ErrUnsupportedPageType   = errors.New("unsupported page type")
	ErrUnsupportedSerialType = errors.New("unsupported serial type")
	ErrOverflowNotSupported  = errors.New("overflow pages not supported")
	ErrPageOutOfRange        = errors.New("page out of range")
	ErrColumnCountMismatch   = errors.New("column count mismatch")
	ErrTableNotFound         = errors.New("table not found")
	ErrColumnNotFound        = errors.New("column not found")
)

// Error describes a decoding or lookup failure, with enough context
// (page, offset, identifier) to locate the offending input.
type Error struct {
	Kind   error  // one of the Err* kinds above
	Page   int    // page number, 0 if not applicable
	Offset int    // byte offset into the page (or file), -1 if not applicable
	Name   string // table or column name, if any
	Msg    string // free-form detail
	Err    error  // underlying cause, if any
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("litefile: ")
	sb.WriteString(e.Kind.Error())
	if e.Name != "" {
		fmt.Fprintf(&sb, " %q", e.Name)
	}
	if e.Page > 0 {
		fmt.Fprintf(&sb, " (page=%d", e.Page)
		if e.Offset >= 0 {
			fmt.Fprintf(&sb, ", offset=%d", e.Offset)
		}
		sb.WriteString(")")
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errPage(kind error, page, offset int, format string, args ...interface{}) error {
	return &Error{
		Kind:   kind,
		Page:   page,
		Offset: offset,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func errName(kind error, name string) error {
	return &Error{Kind: kind, Name: name, Offset: -1}
}
