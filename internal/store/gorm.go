package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/packprint/sales-agent/internal/model"
	"github.com/packprint/sales-agent/pkg/logger"
)

// DB wraps the GORM connection and implements the store interfaces.
type DB struct {
	db     *gorm.DB
	logger *logger.Logger
	keys   *keyMutex
}

// Open establishes the database connection, retrying while the database
// comes up, then runs migrations and the idempotent catalog seed.
func Open(dsn string, log *logger.Logger) (*DB, error) {
	var db *gorm.DB
	var err error

	for attempt := 1; attempt <= 10; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}
		log.Warn("database connection failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &DB{db: db, logger: log, keys: newKeyMutex()}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	if err := d.seed(); err != nil {
		return nil, err
	}

	log.Info("database connected and seeded")
	return d, nil
}

func (d *DB) migrate() error {
	if err := d.db.AutoMigrate(
		&model.Category{},
		&model.ProductType{},
		&model.ProductVariant{},
		&model.PricingTier{},
		&model.Accessory{},
		&model.ConversationState{},
		&model.Customer{},
		&model.Order{},
		&model.ChatLog{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Ping reports whether the underlying connection is usable.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// LoadCatalog reads every catalog row for the in-memory index.
func (d *DB) LoadCatalog(ctx context.Context) (*CatalogData, error) {
	data := &CatalogData{}
	tx := d.db.WithContext(ctx)

	if err := tx.Order("id").Find(&data.Categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if err := tx.Order("id").Find(&data.Types).Error; err != nil {
		return nil, fmt.Errorf("failed to load product types: %w", err)
	}
	if err := tx.Order("id").Find(&data.Variants).Error; err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}
	if err := tx.Order("id").Find(&data.Accessories).Error; err != nil {
		return nil, fmt.Errorf("failed to load accessories: %w", err)
	}
	if err := tx.Order("variant_id, min_quantity").Find(&data.Tiers).Error; err != nil {
		return nil, fmt.Errorf("failed to load pricing tiers: %w", err)
	}
	return data, nil
}
