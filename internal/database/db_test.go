package database

import (
	"testing"

	"github.com/minafarid/academic-records-api/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "app",
		DBPass: "secret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "records",
	}
	want := "app:secret@tcp(db.internal:3306)/records?charset=utf8mb4&parseTime=true&loc=UTC"
	if got := dsn(cfg); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}

func TestDSNWithoutPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "app",
		DBHost: "localhost",
		DBPort: "3306",
		DBName: "records",
	}
	want := "app@tcp(localhost:3306)/records?charset=utf8mb4&parseTime=true&loc=UTC"
	if got := dsn(cfg); got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}
