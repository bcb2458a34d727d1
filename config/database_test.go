package config

import (
	"testing"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetDB(t *testing.T) {
	original := DB
	defer func() { DB = original }()

	DB = nil
	assert.Nil(t, GetDB(), "GetDB should return nil when DB is not initialized")
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr bool
	}{
		{DriverPostgres, false},
		{DriverMySQL, false},
		{DriverSQLite, false},
		{"oracle", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := Dialector(tt.driver, "")
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, d)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.driver, d.Name())
		})
	}
}

func TestConnectDatabaseAndMigrate_SQLite(t *testing.T) {
	original := DB
	defer func() { DB = original }()

	cfg := &Config{GoEnv: "test", DatabaseDriver: DriverSQLite, DatabaseURL: "file::memory:"}
	require.NoError(t, ConnectDatabase(cfg, zap.NewNop()))
	require.NotNil(t, GetDB())

	require.NoError(t, Migrate(GetDB()))
	for _, m := range models.All() {
		assert.True(t, GetDB().Migrator().HasTable(m), "table for %T should exist", m)
	}
}

func TestConnectDatabase_UnsupportedDriver(t *testing.T) {
	cfg := &Config{DatabaseDriver: "oracle"}
	assert.Error(t, ConnectDatabase(cfg, zap.NewNop()))
}
