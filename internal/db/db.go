package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/garage-manager/internal/config"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/validators"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Permission{},
		&models.Customer{},
		&models.Vehicle{},
		&models.ServiceType{},
		&models.Service{},
		&models.ServiceItem{},
		&models.Payment{},
		&models.Photo{},
		&models.ServiceReminder{},
		&models.PushSubscription{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Seed inserts the permission catalog and, when ADMIN_EMAIL and
// ADMIN_PASSWORD are set, the first admin. Existing rows are left alone.
func Seed(ctx context.Context, db *gorm.DB, cfg *config.Config, log logrus.FieldLogger) error {
	tx := db.WithContext(ctx)

	perms := append([]models.Permission(nil), models.DefaultPermissions...)
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&perms).Error; err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}

	email := validators.NormalizeEmail(cfg.AdminEmail)
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}

	var existing models.User
	err := tx.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Name:         "Administrador",
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := tx.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.WithField("email", email).Info("admin user created")
	return nil
}
