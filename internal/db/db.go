package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quillpress/internal/config"
	"quillpress/internal/models"
)

var DB *gorm.DB

// Init opens the configured database, migrates it and seeds defaults
func Init(cfg *config.Config) error {
	conn, err := Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := Migrate(conn); err != nil {
		return err
	}
	if err := Seed(conn, cfg.Admin); err != nil {
		return err
	}
	DB = conn
	return nil
}

// Open connects to postgres or sqlite according to cfg.Driver
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.URL)
	case "sqlite":
		// foreign keys are off by default in sqlite
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	log.Info().Str("driver", cfg.Driver).Msg("Database connection established")
	return conn, nil
}

// Migrate creates or updates the schema
func Migrate(conn *gorm.DB) error {
	if err := conn.SetupJoinTable(&models.Post{}, "Tags", &models.PostTag{}); err != nil {
		return fmt.Errorf("setup post_tags join table: %w", err)
	}

	err := conn.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Post{},
		&models.PostTag{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Info().Msg("Database migration completed")
	return nil
}

// Seed creates the initial categories and the bootstrap admin account
func Seed(conn *gorm.DB, admin config.AdminConfig) error {
	if err := seedCategories(conn); err != nil {
		return err
	}
	return seedAdmin(conn, admin)
}

func seedCategories(conn *gorm.DB) error {
	var count int64
	conn.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Debug().Msg("Categories already seeded, skipping")
		return nil
	}

	categories := []models.Category{
		{Name: "General"},
		{Name: "Technology"},
		{Name: "Lifestyle"},
	}
	for _, category := range categories {
		if err := conn.Create(&category).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", category.Name, err)
		}
	}
	log.Info().Int("count", len(categories)).Msg("Initial categories created")
	return nil
}

// seedAdmin creates the admin account from config when it does not exist yet.
// Registration only offers reader and author, so this is the only way in.
func seedAdmin(conn *gorm.DB, admin config.AdminConfig) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}

	var existing models.User
	err := conn.Where("email = ?", admin.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	user := models.User{
		Name:     admin.Name,
		Email:    admin.Email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := conn.Create(&user).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info().Str("email", admin.Email).Msg("Bootstrap admin created")
	return nil
}
