package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/atinylittleshell/typeahead/pkg/typeahead"
)

// SelectionEntry records one accepted candidate for a trigger character.
type SelectionEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Trigger string `gorm:"uniqueIndex:idx_trigger_value"`
	Value   string `gorm:"uniqueIndex:idx_trigger_value"`
	Count   int
}

// SelectionStore persists accepted candidates so frequently used ones can be
// suggested first in later sessions.
type SelectionStore struct {
	db *gorm.DB
}

// NewSelectionStore opens (or creates) the store at the given sqlite file
// path.
func NewSelectionStore(dbFilePath string) (*SelectionStore, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening selection store: %w", err)
	}

	if err := db.AutoMigrate(&SelectionEntry{}); err != nil {
		return nil, err
	}

	return &SelectionStore{db: db}, nil
}

// Close closes the database connection. Tests rely on this so temporary
// database files can be cleaned up.
func (s *SelectionStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordSelection bumps the use count for a selected candidate, inserting it
// on first use.
func (s *SelectionStore) RecordSelection(trigger rune, value string) error {
	var entry SelectionEntry
	result := s.db.Where("trigger = ? AND value = ?", string(trigger), value).First(&entry)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			return result.Error
		}
		entry = SelectionEntry{Trigger: string(trigger), Value: value, Count: 1}
		return s.db.Create(&entry).Error
	}

	entry.Count++
	return s.db.Save(&entry).Error
}

// RecentSelections returns entries for a trigger whose value starts with the
// given prefix, most used first.
func (s *SelectionStore) RecentSelections(trigger rune, prefix string, limit int) ([]SelectionEntry, error) {
	var entries []SelectionEntry
	db := s.db.Where("trigger = ?", string(trigger))
	if prefix != "" {
		db = db.Where("value LIKE ?", prefix+"%")
	}
	result := db.Order("count desc, updated_at desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

// HistorySource serves previously accepted candidates for one trigger.
type HistorySource struct {
	store   *SelectionStore
	trigger rune
	limit   int
}

// NewHistorySource builds a source over the selection store for a trigger.
func NewHistorySource(store *SelectionStore, trigger rune, limit int) *HistorySource {
	return &HistorySource{store: store, trigger: trigger, limit: limit}
}

// Fetch returns stored selections matching the token as a prefix, annotated
// with when they were last used.
func (h *HistorySource) Fetch(_ context.Context, token string) ([]typeahead.Candidate, error) {
	entries, err := h.store.RecentSelections(h.trigger, token, h.limit)
	if err != nil {
		return nil, err
	}

	out := make([]typeahead.Candidate, 0, len(entries))
	for _, e := range entries {
		out = append(out, typeahead.Candidate{
			Value:       e.Value,
			Description: fmt.Sprintf("used %d times, last %s", e.Count, humanize.Time(e.UpdatedAt)),
			Raw:         e,
		})
	}
	return out, nil
}
