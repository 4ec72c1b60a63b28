package database_test

import (
	"context"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndPing(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	assert.NoError(t, database.Ping(context.Background(), db))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open("oracle", "x")
	assert.ErrorContains(t, err, `unsupported DB_DRIVER "oracle"`)
}

func TestPingWithoutConnection(t *testing.T) {
	assert.Error(t, database.Ping(context.Background(), nil))
}

func TestMySQLDSN(t *testing.T) {
	config.Set("DB_HOST", "db.local")
	config.Set("DB_PORT", "3307")
	config.Set("DB_USER", "brew")
	config.Set("DB_PASSWORD", "p@ss")
	config.Set("DB_NAME", "shop")
	t.Cleanup(func() {
		for _, k := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"} {
			config.Set(k, "")
		}
	})

	cfg, err := mysqldriver.ParseDSN(database.MySQLDSN())
	require.NoError(t, err)
	assert.Equal(t, "brew", cfg.User)
	assert.Equal(t, "p@ss", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db.local:3307", cfg.Addr)
	assert.Equal(t, "shop", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "utf8mb4", cfg.Params["charset"])
}
