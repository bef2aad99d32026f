package postgres

import (
	"context"
	"testing"

	"skillsync/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		DBHost:     " localhost ",
		DBPort:     "5432",
		DBUser:     "skillsync",
		DBPassword: "p w'd",
		DBName:     "skillsync",
	})
	assert.Equal(t, `host='localhost' port='5432' user='skillsync' password='p w\'d' dbname='skillsync' sslmode='disable'`, dsn)
}

func TestNilPool(t *testing.T) {
	var p *Pool
	ctx := context.Background()

	require.ErrorIs(t, p.Ping(ctx), ErrNilDB)
	_, err := p.Exec(ctx, "select 1")
	require.ErrorIs(t, err, ErrNilDB)
	require.ErrorIs(t, p.QueryRow(ctx, "select 1").Scan(), ErrNilDB)
	assert.NoError(t, p.Close())
}
