package utils

import (
	"database/sql"
	"testing"
	"time"
)

func TestPgxDriverRegistered(t *testing.T) {
	found := false
	for _, d := range sql.Drivers() {
		if d == PgxDriver {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q driver to be registered, have %v", PgxDriver, sql.Drivers())
	}
}

func TestPostgresPoolDefaults(t *testing.T) {
	c := PostgresPoolConfig{}.withDefaults()
	if c.MaxOpenConns != 25 || c.PingTimeout != 5*time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	c = PostgresPoolConfig{MaxOpenConns: 4}.withDefaults()
	if c.MaxOpenConns != 4 {
		t.Fatalf("explicit value overwritten: %+v", c)
	}
}
