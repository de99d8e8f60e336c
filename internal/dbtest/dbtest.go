// Copyright 2018 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest builds database files for tests, using a real SQLite
// engine (modernc.org/sqlite) to write them.
package dbtest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// Build creates a new database file under t.TempDir(), with the given page
// size and pragmas applied before fn populates it, and returns its path.
func Build(t testing.TB, pageSize int, pragmas []string, fn func(tx *sql.Tx) error) string {
	t.Helper()

	fname := filepath.Join(t.TempDir(), "test.sqlite")
	db, err := sql.Open("sqlite", fname)
	if err != nil {
		t.Fatalf("could not open %s: %v", fname, err)
	}
	defer db.Close()
	// pragmas only apply to the connection they run on.
	db.SetMaxOpenConns(1)

	pragmas = append([]string{fmt.Sprintf("PRAGMA page_size = %d", pageSize)}, pragmas...)
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("could not run %q: %v", pragma, err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("could not begin transaction: %v", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		t.Fatalf("could not populate %s: %v", fname, err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("could not commit: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("could not close %s: %v", fname, err)
	}
	return fname
}

// Create builds a database from a list of SQL statements.
func Create(t testing.TB, pageSize int, stmts ...string) string {
	t.Helper()
	return Build(t, pageSize, nil, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("%q: %w", stmt, err)
			}
		}
		return nil
	})
}

// Fruit is a row of the apples and oranges tables.
type Fruit struct {
	Name  string
	Other string // apples.color, oranges.description
}

var Apples = []Fruit{
	{"Granny Smith", "Light Green"},
	{"Fuji", "Red"},
	{"Honeycrisp", "Blush Red"},
	{"Golden Delicious", "Yellow"},
}

var Oranges = []Fruit{
	{"Mandarin", "great for snacking"},
	{"Tangelo", "sweet and tart"},
	{"Tangerine", "great for sweets"},
	{"Clementine", "usually seedless"},
	{"Valencia Orange", "best for juicing"},
	{"Navel Orange", "sweet with slight bitterness"},
}

// Fruits builds a 4096-byte page database holding the apples and oranges
// tables. Both use AUTOINCREMENT, so the schema table has three rows:
// apples, sqlite_sequence and oranges.
func Fruits(t testing.TB) string {
	t.Helper()
	return Build(t, 4096, nil, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"CREATE TABLE apples\n(\n\tid integer primary key autoincrement,\n\tname text,\n\tcolor text\n)",
			"CREATE TABLE oranges\n(\n\tid integer primary key autoincrement,\n\tname text,\n\tdescription text\n)",
		} {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		for _, a := range Apples {
			if _, err := tx.Exec("INSERT INTO apples (name, color) VALUES (?, ?)", a.Name, a.Other); err != nil {
				return err
			}
		}
		for _, o := range Oranges {
			if _, err := tx.Exec("INSERT INTO oranges (name, description) VALUES (?, ?)", o.Name, o.Other); err != nil {
				return err
			}
		}
		return nil
	})
}

// Hero is a row of the superheroes table.
type Hero struct {
	ID          int64
	Name        string
	EyeColor    *string
	HairColor   string
	Appearances int64
	Year        string
}

var (
	eyeColors  = []string{"Blue Eyes", "Brown Eyes", "Green Eyes", "Pink Eyes", "Red Eyes", "Black Eyes", "Hazel Eyes"}
	hairColors = []string{"Black Hair", "Blond Hair", "No Hair", "Red Hair", "Strawberry Blond Hair"}
)

// Heroes returns n deterministic superheroes, with ids 1..n.
// Every 11th hero has a NULL eye color.
func Heroes(n int) []Hero {
	heroes := make([]Hero, n)
	for i := range heroes {
		id := int64(i + 1)
		h := Hero{
			ID:          id,
			Name:        fmt.Sprintf("Hero %04d (%s)", id, strings.Repeat("x", int(id%7))),
			HairColor:   hairColors[i%len(hairColors)],
			Appearances: (id * 104729) % 5000003,
			Year:        fmt.Sprintf("%d, %s", 1939+id%80, [...]string{"January", "April", "July", "October"}[id%4]),
		}
		if id%11 != 0 {
			eye := eyeColors[i%len(eyeColors)]
			h.EyeColor = &eye
		}
		heroes[i] = h
	}
	return heroes
}

// Superheroes builds a database holding the superheroes table filled
// with Heroes(n). Small page sizes give a multi-level table b-tree.
func Superheroes(t testing.TB, pageSize, n int) string {
	t.Helper()
	return Build(t, pageSize, nil, func(tx *sql.Tx) error {
		_, err := tx.Exec(`CREATE TABLE "superheroes" (id integer primary key autoincrement, name text not null, eye_color text, hair_color text, appearance_count integer, first_appearance text, first_appearance_year text)`)
		if err != nil {
			return err
		}
		stmt, err := tx.Prepare(`INSERT INTO superheroes (name, eye_color, hair_color, appearance_count, first_appearance, first_appearance_year) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, h := range Heroes(n) {
			var eye interface{}
			if h.EyeColor != nil {
				eye = *h.EyeColor
			}
			if _, err := stmt.Exec(h.Name, eye, h.HairColor, h.Appearances, h.Year, h.Year[:4]); err != nil {
				return err
			}
		}
		return nil
	})
}
