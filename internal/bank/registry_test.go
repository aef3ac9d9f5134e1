package bank_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mind-engage/qbank/internal/bank"
	"github.com/mind-engage/qbank/internal/db"
)

func TestRegistryScanAndOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, n := range []string{"math.db", "bio.db", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	r := bank.NewRegistry(nil)
	defer r.Close()
	if err := r.ScanDir(dir); err != nil {
		t.Fatal(err)
	}
	if got := r.Names(); !reflect.DeepEqual(got, []string{"bio", "math"}) {
		t.Fatalf("names=%v", got)
	}

	s, err := r.Store(ctx, "math")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := s.Save(ctx, sampleMC()); err != nil {
		t.Fatalf("save: %v", err)
	}
	// reopening the same name returns the same bank
	s2, _ := r.Store(ctx, "math")
	list, _ := s2.List(ctx, bank.ListOpts{})
	if len(list) != 1 {
		t.Fatalf("list=%v", list)
	}

	if _, err := r.Store(ctx, "nope"); !errors.Is(err, bank.ErrUnknownBank) {
		t.Fatalf("unknown: %v", err)
	}
}

func TestRegistryAddRemove(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "extra.db")

	r := bank.NewRegistry(map[string]db.Location{})
	defer r.Close()
	if err := r.Add(ctx, "extra", db.Location{Driver: db.DriverSQLite, DSN: path}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("bank file not created: %v", err)
	}
	if err := r.Remove("extra"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("remove deleted the file: %v", err)
	}
	if err := r.Remove("extra"); !errors.Is(err, bank.ErrUnknownBank) {
		t.Fatalf("second remove: %v", err)
	}
	if err := r.Add(ctx, " ", db.Location{DSN: path}); err == nil {
		t.Fatal("blank name accepted")
	}
}
