package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quillpress/internal/config"
	"quillpress/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(t.TempDir(), "test.db"),
		},
		Admin: config.AdminConfig{
			Name:     "Root",
			Email:    "root@example.com",
			Password: "s3cret",
		},
	}
}

func TestInit_MigratesAndSeeds(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, Init(cfg))
	require.NotNil(t, DB)

	var categories int64
	DB.Model(&models.Category{}).Count(&categories)
	assert.Equal(t, int64(3), categories)

	var admin models.User
	require.NoError(t, DB.Where("email = ?", "root@example.com").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("s3cret")))
}

func TestSeed_Idempotent(t *testing.T) {
	cfg := testConfig(t)
	conn, err := Open(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))

	require.NoError(t, Seed(conn, cfg.Admin))
	require.NoError(t, Seed(conn, cfg.Admin))

	var users, categories int64
	conn.Model(&models.User{}).Count(&users)
	conn.Model(&models.Category{}).Count(&categories)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(3), categories)
}

func TestSeed_NoAdminWithoutCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin.Password = ""
	conn, err := Open(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	require.NoError(t, Seed(conn, cfg.Admin))

	var users int64
	conn.Model(&models.User{}).Count(&users)
	assert.Zero(t, users)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestMigrate_UniqueEmail(t *testing.T) {
	cfg := testConfig(t)
	conn, err := Open(cfg.Database)
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))

	require.NoError(t, conn.Create(&models.User{Name: "A", Email: "a@example.com", Password: "x"}).Error)
	assert.Error(t, conn.Create(&models.User{Name: "B", Email: "a@example.com", Password: "y"}).Error)
}
