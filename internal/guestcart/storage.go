package guestcart

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// StoredLine is the persisted shape of one guest-cart line. The namespace
// column pins every row under the single fixed storage key this core is
// allowed to use on the client side.
type StoredLine struct {
	LineID    string          `gorm:"column:line_id;primaryKey"`
	Namespace string          `gorm:"column:namespace;index:idx_guest_lines,priority:1;not null"`
	GuestID   string          `gorm:"column:guest_id;index:idx_guest_lines,priority:2;not null"`
	ProductID string          `gorm:"column:product_id;not null"`
	Name      string          `gorm:"column:name;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Position  int             `gorm:"column:position;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoredLine) TableName() string {
	return "guest_cart_lines"
}

// SQLiteStorage keeps the guest cart in a local SQLite file.
type SQLiteStorage struct {
	db        *gorm.DB
	namespace string
}

// Open boots the guest-cart database at the given path and migrates it.
func Open(path, namespace string) (*SQLiteStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("guest store path is required")
	}
	if namespace == "" {
		return nil, fmt.Errorf("guest store namespace is required")
	}

	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening guest store: %w", err)
	}
	if err := db.AutoMigrate(&StoredLine{}); err != nil {
		return nil, fmt.Errorf("migrating guest store: %w", err)
	}
	return &SQLiteStorage{db: db, namespace: namespace}, nil
}

// NewStorage wraps an existing GORM connection. Used by tests with an
// in-memory database.
func NewStorage(db *gorm.DB, namespace string) (*SQLiteStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	if namespace == "" {
		return nil, fmt.Errorf("guest store namespace is required")
	}
	if err := db.AutoMigrate(&StoredLine{}); err != nil {
		return nil, fmt.Errorf("migrating guest store: %w", err)
	}
	return &SQLiteStorage{db: db, namespace: namespace}, nil
}

// Read returns the stored lines for the guest in insertion order.
func (s *SQLiteStorage) Read(ctx context.Context, guestID string) ([]StoredLine, error) {
	var rows []StoredLine
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND guest_id = ?", s.namespace, guestID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Write atomically replaces the guest's lines with the provided set.
func (s *SQLiteStorage) Write(ctx context.Context, guestID string, lines []StoredLine) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("namespace = ? AND guest_id = ?", s.namespace, guestID).
			Delete(&StoredLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		for i := range lines {
			lines[i].Namespace = s.namespace
			lines[i].GuestID = guestID
			lines[i].Position = i
		}
		return tx.Create(&lines).Error
	})
}

// Clear removes every line for the guest.
func (s *SQLiteStorage) Clear(ctx context.Context, guestID string) error {
	return s.db.WithContext(ctx).
		Where("namespace = ? AND guest_id = ?", s.namespace, guestID).
		Delete(&StoredLine{}).Error
}

// Ping verifies the backing database is reachable.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
