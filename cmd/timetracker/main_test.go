package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maloquacious/timetracker/internal/store"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--store", dir}, args...))
	err := cmd.Execute()
	if cerr := a.close(); cerr != nil {
		t.Errorf("close: %v", cerr)
	}
	return out.String(), err
}

func TestEntryCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "add", "--seconds", "120", "--date", "2024-01-01")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.HasPrefix(out, "1\t2024-01-01T00:00:00Z\t2m 00s") {
		t.Errorf("add output = %q", out)
	}

	if _, err := run(t, dir, "add", "--seconds", "45", "--date", "2024-01-02"); err != nil {
		t.Fatalf("add second: %v", err)
	}

	out, err = run(t, dir, "list", "--from", "2024-01-02", "--to", "2024-01-02")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.HasPrefix(out, "2\t") || strings.Contains(out, "1\t2024-01-01") {
		t.Errorf("list output = %q", out)
	}

	out, err = run(t, dir, "report")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "2 entries, 2m 45s total") {
		t.Errorf("report output = %q", out)
	}

	if _, err := run(t, dir, "delete", "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := run(t, dir, "get", "1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("get deleted: got %v, want ErrNotFound", err)
	}

	if _, err := run(t, dir, "put", "2", "--seconds", "50", "--date", "2024-01-02"); err != nil {
		t.Fatalf("put: %v", err)
	}
	out, err = run(t, dir, "get", "2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out, "50s") {
		t.Errorf("get output = %q", out)
	}
}

func TestEntryCommandErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, dir, "add", "--seconds", "-1"); err == nil {
		t.Error("expected error for negative seconds")
	}
	if _, err := run(t, dir, "get", "zero"); err == nil {
		t.Error("expected error for non-numeric id")
	}
	if _, err := run(t, dir, "list", "--today", "--from", "2024-01-01"); err == nil {
		t.Error("expected error for --today with --from")
	}
}

func TestDBCommands(t *testing.T) {
	dir := t.TempDir()

	if _, err := run(t, dir, "db", "verify"); err == nil {
		t.Error("verify on missing datastore should fail")
	}

	if _, err := run(t, dir, "db", "create"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := run(t, dir, "db", "create"); err == nil {
		t.Error("second create should fail")
	}

	out, err := run(t, dir, "db", "upgrade")
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if !strings.Contains(out, "already at schema 1") {
		t.Errorf("upgrade output = %q", out)
	}

	out, err = run(t, dir, "db", "verify")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	var report verifyReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode verify output %q: %v", out, err)
	}
	if !report.OK || report.State != "ready" || report.SchemaVersion != store.SchemaVersion {
		t.Errorf("report = %+v", report)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "schema 1") {
		t.Errorf("version output = %q", out)
	}
}

func TestLogFileClosedAfterFailedCommand(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "timetracker.log")

	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--store", dir, "--debug", "--log-file", logPath, "get", "99"})

	if err := cmd.Execute(); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if a.log == nil {
		t.Fatal("logger should stay open until close")
	}
	if err := a.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if a.log != nil {
		t.Error("close should release the logger")
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "opening datastore") {
		t.Errorf("log file = %q", data)
	}
}
