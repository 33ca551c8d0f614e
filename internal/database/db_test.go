package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := dsn("app", "secret", "db", "3306", "seatbook")
	assert.True(t, strings.HasPrefix(got, "app:secret@tcp(db:3306)/seatbook?"), got)
	assert.Contains(t, got, "parseTime=true")
	assert.Contains(t, got, "loc=UTC")
	// Matched-rows counting: an UPDATE that finds its row but changes
	// nothing must still report one affected row, or unclaiming an
	// already-unclaimed employee would look like a missing record.
	assert.Contains(t, got, "clientFoundRows=true")
}

func TestDSNWithoutPassword(t *testing.T) {
	got := dsn("app", "", "localhost", "3306", "seatbook")
	assert.True(t, strings.HasPrefix(got, "app@tcp(localhost:3306)/seatbook?"), got)
}
