// Command qbank works on a single question bank from the shell.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/db"
	"github.com/mind-engage/qbank/internal/formats"
	"github.com/mind-engage/qbank/internal/moodle"

	_ "github.com/mind-engage/qbank/internal/docx"
	_ "github.com/mind-engage/qbank/internal/moodle/export"
	_ "github.com/mind-engage/qbank/internal/qti"
)

const usage = `usage: qbank [-db path] [-driver sqlite|postgres] <command> [args]

commands:
  init                              create the tables
  list [-q term]                    list questions
  show <id>                         print one question as JSON
  duplicate <id>                    copy a question
  delete <id>...                    delete questions
  import <file.xml>                 import a Moodle quiz file
  export [-format moodle|docx|qti] [-o file] <id>...
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "qbank:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("qbank", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dsn := fs.String("db", envOr("DB_DSN", "questions.db"), "bank location")
	driver := fs.String("driver", os.Getenv("DB_DRIVER"), "database driver")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	if fs.NArg() == 0 {
		return errors.New(usage)
	}

	d, err := db.ParseDriver(*driver)
	if err != nil {
		return err
	}
	loc := db.Location{Driver: d, DSN: *dsn}
	h, err := db.Open(ctx, loc)
	if err != nil {
		return err
	}
	defer h.Close()
	s := bank.NewSQLStore(h)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "init":
		fmt.Fprintf(stdout, "bank ready: %s\n", loc)
		return nil
	case "list":
		return list(ctx, s, rest, stdout)
	case "show":
		ids, err := parseIDs(rest, 1)
		if err != nil {
			return err
		}
		q, err := s.Get(ctx, ids[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(bank.DraftOf(q))
	case "duplicate":
		ids, err := parseIDs(rest, 1)
		if err != nil {
			return err
		}
		id, err := s.Duplicate(ctx, ids[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, id)
		return nil
	case "delete":
		ids, err := parseIDs(rest, -1)
		if err != nil {
			return err
		}
		n, err := s.Delete(ctx, ids)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "deleted %d\n", n)
		return nil
	case "import":
		if len(rest) != 1 {
			return errors.New("import: want one file")
		}
		f, err := os.Open(rest[0])
		if err != nil {
			return err
		}
		defer f.Close()
		res, err := moodle.Import(ctx, s, f)
		if err != nil {
			return errors.New(res.Message)
		}
		fmt.Fprintln(stdout, res.Message)
		return nil
	case "export":
		return export(ctx, s, rest, stdout)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func list(ctx context.Context, s *bank.SQLStore, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	q := fs.String("q", "", "search term")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rows, err := s.List(ctx, bank.ListOpts{Q: *q})
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPOINTS\tTAGS\tANSWERS")
	for _, o := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\t%d\n", o.ID, o.Title, o.Points, strings.Join(o.Tags, ","), o.AnswerCount)
	}
	return tw.Flush()
}

func export(ctx context.Context, s *bank.SQLStore, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	format := fs.String("format", "moodle", "moodle, docx or qti")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	exp, ok := formats.Lookup(*format)
	if !ok {
		return fmt.Errorf("unknown format %q (have %s)", *format, strings.Join(formats.Names(), ", "))
	}
	ids, err := parseIDs(fs.Args(), -1)
	if err != nil {
		return err
	}
	if *out == "" {
		return exp.Export(ctx, s, ids, stdout)
	}
	return writeFile(*out, func(w io.Writer) error { return exp.Export(ctx, s, ids, w) })
}

// writeFile writes into a temporary file next to path and renames it over
// path once fill succeeds. On failure path is left untouched.
func writeFile(path string, fill func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".qbank-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if err = fill(f); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// parseIDs reads question ids; want is the exact count, or -1 for one or more.
func parseIDs(args []string, want int) ([]int64, error) {
	if len(args) == 0 || (want > 0 && len(args) != want) {
		return nil, errors.New("missing or extra question id")
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
