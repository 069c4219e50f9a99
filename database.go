package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

var db *gorm.DB

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	connMaxIdleTime = 10 * time.Minute
	pingTimeout     = 5 * time.Second
)

func isPostgresURI(uri string) bool {
	return strings.HasPrefix(uri, "postgres://") || strings.HasPrefix(uri, "postgresql://")
}

// sqliteDSN turns sqlite:///path.db into a modernc DSN with a busy timeout
// and foreign keys switched on.
func sqliteDSN(uri string) string {
	path := strings.TrimPrefix(uri, "sqlite:///")
	path = strings.TrimPrefix(path, "sqlite://")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// openDatabase connects to the configured store and migrates the schema
func openDatabase(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	postgresMode := isPostgresURI(cfg.DatabaseURI)

	if postgresMode {
		log.Println("[DB] Connecting to PostgreSQL database...")
		dialector = postgres.Open(cfg.DatabaseURI)
	} else {
		log.Println("[DB] Connecting to SQLite database...")
		dsn := sqliteDSN(cfg.DatabaseURI)
		sqlDB, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
		dialector = sqlite.Dialector{
			DriverName: "sqlite",
			DSN:        dsn,
			Conn:       sqlDB,
		}
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.Debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if postgresMode {
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetConnMaxLifetime(connMaxLifetime)
		sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	}

	if err := pingDatabase(context.Background(), conn); err != nil {
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}

	if err := conn.AutoMigrate(&User{}, &QuoteRequest{}, &Update{}, &ContactMessage{}, &Review{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("[DB] Database connected and migrated")
	return conn, nil
}

func pingDatabase(ctx context.Context, conn *gorm.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func closeDatabase(conn *gorm.DB) {
	if conn == nil {
		return
	}
	if sqlDB, err := conn.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("[DB] Error closing database: %v", err)
		}
	}
}

// seedAdmin makes sure the configured admin account exists and carries the
// admin role. An existing admin keeps its password; a customer account under
// the admin name is taken over and its password replaced with the configured
// one.
func seedAdmin(ctx context.Context, conn *gorm.DB, cfg *Config) error {
	if cfg.AdminPassword == "" {
		return nil
	}

	var existing User
	err := conn.WithContext(ctx).First(&existing, "id = ?", cfg.AdminUsername).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("looking up admin account: %w", err)
	}
	if found && existing.Role == RoleAdmin {
		return nil
	}

	hash, err := hashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	if found {
		log.Printf("[DB] Taking over existing user %q as admin, password reset", existing.ID)
		updates := map[string]any{"role": RoleAdmin, "password_hash": hash}
		if err := conn.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("promoting admin account: %w", err)
		}
		return nil
	}

	admin := User{ID: cfg.AdminUsername, PasswordHash: hash, Role: RoleAdmin}
	if err := conn.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}
	log.Printf("[DB] Admin account %q created", admin.ID)
	return nil
}
