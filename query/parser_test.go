// Copyright 2018 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package query

import (
	"errors"

	check "gopkg.in/check.v1"
)

type ParserSuite struct{}

var _ = check.Suite(&ParserSuite{})

func (s *ParserSuite) TestCount(c *check.C) {
	q, err := Parse("SELECT COUNT(*) FROM apples")
	c.Assert(err, check.IsNil)
	c.Assert(q, check.DeepEquals, &Query{Table: "apples", Count: true})

	q, err = Parse("select count( * ) from apples where color = 'Red';")
	c.Assert(err, check.IsNil)
	c.Assert(q, check.DeepEquals, &Query{
		Table: "apples",
		Count: true,
		Where: &Predicate{Column: "color", Value: "Red"},
	})
}

func (s *ParserSuite) TestColumns(c *check.C) {
	q, err := Parse("SELECT name, color FROM apples")
	c.Assert(err, check.IsNil)
	c.Assert(q, check.DeepEquals, &Query{Table: "apples", Columns: []string{"name", "color"}})

	q, err = Parse("SeLeCt\n\tid,name\nFrOm superheroes\nWhErE eye_color='Pink Eyes'")
	c.Assert(err, check.IsNil)
	c.Assert(q, check.DeepEquals, &Query{
		Table:   "superheroes",
		Columns: []string{"id", "name"},
		Where:   &Predicate{Column: "eye_color", Value: "Pink Eyes"},
	})
}

func (s *ParserSuite) TestQuoting(c *check.C) {
	q, err := Parse("SELECT \"first name\", `age`, [last name], \"say \"\"hi\"\"\" FROM \"odd table\" WHERE \"first name\" = 'it''s'")
	c.Assert(err, check.IsNil)
	c.Assert(q, check.DeepEquals, &Query{
		Table:   "odd table",
		Columns: []string{"first name", "age", "last name", `say "hi"`},
		Where:   &Predicate{Column: "first name", Value: "it's"},
	})

	q, err = Parse("SELECT a FROM t WHERE a = ''")
	c.Assert(err, check.IsNil)
	c.Assert(q.Where, check.DeepEquals, &Predicate{Column: "a", Value: ""})
}

func (s *ParserSuite) TestKeywordPrefixes(c *check.C) {
	q, err := Parse("SELECT counter, selected FROM fromage WHERE wherever = 'x'")
	c.Assert(err, check.IsNil)
	c.Assert(q, check.DeepEquals, &Query{
		Table:   "fromage",
		Columns: []string{"counter", "selected"},
		Where:   &Predicate{Column: "wherever", Value: "x"},
	})
}

func (s *ParserSuite) TestKeywordNames(c *check.C) {
	q, err := Parse("SELECT count FROM c")
	c.Assert(err, check.IsNil)
	c.Assert(q, check.DeepEquals, &Query{Table: "c", Columns: []string{"count"}})

	q, err = Parse("SELECT count, select, from FROM where WHERE count = '1'")
	c.Assert(err, check.IsNil)
	c.Assert(q, check.DeepEquals, &Query{
		Table:   "where",
		Columns: []string{"count", "select", "from"},
		Where:   &Predicate{Column: "count", Value: "1"},
	})

	q, err = Parse("SELECT COUNT(*) FROM count WHERE select = 'x'")
	c.Assert(err, check.IsNil)
	c.Assert(q, check.DeepEquals, &Query{
		Table: "count",
		Count: true,
		Where: &Predicate{Column: "select", Value: "x"},
	})
}

func (s *ParserSuite) TestErrors(c *check.C) {
	for _, src := range []string{
		"",
		"SELECT name",
		"SELECT name FROM apples WHERE",
		"SELECT name FROM apples WHERE color = 'Red' ;;",
		"SELECT name FROM apples WHERE color == 'Red'",
		"SELECT name FROM apples LIMIT 1",
	} {
		_, err := Parse(src)
		c.Check(errors.Is(err, ErrMalformedQuery), check.Equals, true, check.Commentf("input %q: %v", src, err))

		var e *Error
		if c.Check(errors.As(err, &e), check.Equals, true) {
			c.Check(e.Input, check.Equals, src)
			c.Check(e.Err, check.NotNil)
		}
	}
}
