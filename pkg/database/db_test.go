package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := Config{Host: "db", User: "skillnest", Password: "pw", Name: "skillnest", Port: "5432"}
	assert.Equal(t, "host=db user=skillnest password=pw dbname=skillnest port=5432 sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")

	cfg.URL = "postgres://u:p@h:5432/d"
	assert.Equal(t, "postgres://u:p@h:5432/d", cfg.DSN())
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%go%", ContainsPattern("  Go "))
	assert.Equal(t, `%c\_sharp%`, ContainsPattern("C_Sharp"))
	assert.Equal(t, `%100\%%`, ContainsPattern("100%"))
	assert.Equal(t, `%a\\b%`, ContainsPattern(`a\b`))
}
