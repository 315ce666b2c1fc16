package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leafstage/models"
)

// StorageKey is the key the ledger is saved under.
const StorageKey = "leaf_history"

// GormStore saves the ledger as one JSON document in the key_values table.
type GormStore struct {
	db  *gorm.DB
	key string
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, key: StorageKey}
}

func (s *GormStore) Load() ([]models.HistoryItem, error) {
	var kv models.KeyValue
	err := s.db.First(&kv, "name = ?", s.key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.HistoryItem
	if err := json.Unmarshal([]byte(kv.Value), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return items, nil
}

func (s *GormStore) Save(items []models.HistoryItem) error {
	if items == nil {
		items = []models.HistoryItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	kv := models.KeyValue{Name: s.key, Value: string(data), UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error
}
