package sqlite

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type chatRecord struct {
	ID           string `gorm:"primaryKey"`
	ParticipantA string `gorm:"index"`
	ParticipantB string `gorm:"index"`
	LastMessage  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (chatRecord) TableName() string { return "chats" }

type messageRecord struct {
	ID        string `gorm:"primaryKey"`
	ChatID    string `gorm:"index"`
	SenderID  string
	Text      string
	CreatedAt time.Time
}

func (messageRecord) TableName() string { return "messages" }

// Open connects to the SQLite file (created on first use) and migrates the
// schema. glebarez/sqlite is pure Go, no CGO involved.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&chatRecord{}, &messageRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
