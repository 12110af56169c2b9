package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/vladimiradmaev/diatrack/internal/config"
)

func TestDSN(t *testing.T) {
	got := dsn(config.DBConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", DBName: "diatrack", SSLMode: "require",
	})
	want := "host=db port=5433 user=u password=p dbname=diatrack sslmode=require"
	if got != want {
		t.Errorf("dsn() = %q, want %q", got, want)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := fs.ReadDir(sqlMigrations, "sql")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded migrations")
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".sql") {
			t.Errorf("unexpected embedded file %s", e.Name())
		}
	}
}
