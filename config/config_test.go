package config

import (
	"os"
	"path/filepath"
	"testing"
)

func tcheck(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %s", msg, err)
	}
}

func TestLoadAbsent(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nonexistent.conf"))
	tcheck(t, err, "load absent config")
	if c != Defaults() {
		t.Fatalf("got %v, expected defaults", c)
	}
}

func TestDescribeRoundtrip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "eml.conf")
	f, err := os.Create(p)
	tcheck(t, err, "create config file")
	err = Describe(f)
	tcheck(t, err, "describe config")
	err = f.Close()
	tcheck(t, err, "close config file")

	c, err := Load(p)
	tcheck(t, err, "parse described config")
	if c.MaxMIMEDepth != 20 || c.LogLevel != "error" {
		t.Fatalf("unexpected config after roundtrip: %v", c)
	}
}

func TestLoadValues(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "eml.conf")
	err := os.WriteFile(p, []byte("LogLevel: debug\nMaxMIMEDepth: 5\n"), 0600)
	tcheck(t, err, "write config file")
	c, err := Load(p)
	tcheck(t, err, "load config")
	if c.LogLevel != "debug" || c.MaxMIMEDepth != 5 {
		t.Fatalf("unexpected config: %v", c)
	}
}
