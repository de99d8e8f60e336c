// Copyright 2018 The go-sqlite Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command litefile reads SQLite database files without a database engine.
//
// Example:
//
//	$> litefile query ./sample.db .dbinfo
//	database page size: 4096
//	number of tables: 3
//
//	$> litefile query ./sample.db "SELECT name, color FROM apples WHERE color = 'Yellow'"
//	Golden Delicious|Yellow
//
//	$> litefile dump ./sample.db
//	version: 3045000
//	page size: 4096 (4.0 KiB)
//	...
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/go-sqlite/litefile"
	"github.com/go-sqlite/litefile/internal/logging"
	"github.com/go-sqlite/litefile/query"
)

type cli struct {
	LogLevel  string `name:"log-level" default:"warn" enum:"debug,info,warn,error" env:"LITEFILE_LOG_LEVEL" help:"Log level (${enum})."`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" env:"LITEFILE_LOG_FORMAT" help:"Log format (${enum})."`

	Query queryCmd `cmd:"" help:"Run .dbinfo, .tables or a SELECT statement."`
	Dump  dumpCmd  `cmd:"" help:"Dump the header and tables of database files."`
}

// env carries what commands print to.
type env struct {
	out io.Writer
}

type queryCmd struct {
	DB      string `arg:"" type:"existingfile" help:"Database file."`
	Command string `arg:"" help:"Command to run."`
}

func (c *queryCmd) Run(e *env) error {
	db, err := litefile.Open(c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := query.New(db).Exec(c.Command)
	if err != nil {
		return err
	}
	return render(e.out, res)
}

func render(w io.Writer, res query.Result) error {
	var err error
	switch res := res.(type) {
	case *query.DBInfo:
		_, err = fmt.Fprintf(w, "database page size: %d\nnumber of tables: %d\n", res.PageSize, res.TableCount)
	case *query.TableList:
		_, err = fmt.Fprintln(w, strings.Join(res.Names, " "))
	case *query.Count:
		_, err = fmt.Fprintln(w, res.N)
	case *query.Rows:
		for _, row := range res.Rows {
			fields := make([]string, len(row))
			for i, v := range row {
				fields[i] = v.String()
			}
			if _, err = fmt.Fprintln(w, strings.Join(fields, "|")); err != nil {
				return err
			}
		}
	default:
		err = fmt.Errorf("litefile: unknown result %T", res)
	}
	return err
}

type dumpCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Database files."`
}

func (c *dumpCmd) Run(e *env) error {
	for _, fname := range c.Files {
		if err := dump(e.out, fname); err != nil {
			logging.Logger().Error("could not dump database", "file", fname, "error", err)
			return err
		}
	}
	return nil
}

func dump(w io.Writer, fname string) error {
	logging.Logger().Info("opening database", "file", fname)
	f, err := litefile.Open(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	tables, err := f.Tables()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "file: %s\n", fname)
	fmt.Fprintf(w, "version: %v\n", f.Version())
	fmt.Fprintf(w, "page size: %d (%s)\n", f.PageSize(), humanize.IBytes(uint64(f.PageSize())))
	fmt.Fprintf(w, "num pages: %d (%s)\n", f.NumPage(), humanize.IBytes(uint64(f.NumPage())*uint64(f.PageSize())))
	fmt.Fprintf(w, "encoding: %v\n", f.Encoding())
	fmt.Fprintf(w, "num tables: %d\n", len(tables))

	for i, table := range tables {
		fmt.Fprintf(w, "=== table[%d] ===\n", i)
		fmt.Fprintf(w, "name: %q\n", table.Name())
		fmt.Fprintf(w, "root page: %d\n", table.RootPage())
		fmt.Fprintf(w, "cols: %d\n", len(table.Columns()))
		for j, col := range table.Columns() {
			fmt.Fprintf(w, "col[%d]: %q %s\n", j, col.Name(), col.Type())
		}
	}
	return nil
}

func main() {
	var args cli
	ctx := kong.Parse(&args,
		kong.Name("litefile"),
		kong.Description("Read SQLite database files without a database engine."),
		kong.UsageOnError(),
	)

	level, err := logging.ParseLevel(args.LogLevel)
	ctx.FatalIfErrorf(err)
	format, err := logging.ParseFormat(args.LogFormat)
	ctx.FatalIfErrorf(err)
	logging.InitLogger(os.Stderr, level, format)

	ctx.FatalIfErrorf(ctx.Run(&env{out: os.Stdout}))
}
