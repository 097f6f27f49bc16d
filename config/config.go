package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the MySQL connection from the environment. A full
// DATABASE_DSN wins; otherwise the DSN is assembled from the
// individual DB_* variables with development defaults.
func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			getEnv("DB_USER", "root"),
			getEnv("DB_PASSWORD", ""),
			getEnv("DB_HOST", "127.0.0.1"),
			getEnv("DB_PORT", "3306"),
			getEnv("DB_NAME", "resto"),
		)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		// Duplicate-key errors must surface as gorm.ErrDuplicatedKey
		// so the payment double-create race maps to a conflict.
		TranslateError: true,
		// users.restaurant_id and restaurants.owner_id reference each
		// other; cascades are handled in explicit transactions instead
		// of migrated constraints.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
