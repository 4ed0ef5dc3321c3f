// Package audit keeps a best-effort trail of every successful mutation.
package audit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actions recorded in the trail.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Entry is one recorded mutation.
type Entry struct {
	ID        string            `json:"id" gorm:"type:uuid;primaryKey"`
	Action    string            `json:"action" gorm:"not null;index"`
	Entity    string            `json:"entity" gorm:"not null;index"`
	EntityID  string            `json:"entityId" gorm:"index"`
	Payload   datatypes.JSONMap `json:"payload" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"createdAt"`
}

// TableName keeps the trail in its own table.
func (Entry) TableName() string { return "audit_entries" }

// BeforeCreate assigns a UUID when missing.
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// Recorder persists audit entries. A nil Recorder records nothing.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder constructs a recorder backed by the provided DB; pass a
// nil db to disable auditing.
func NewRecorder(db *gorm.DB) *Recorder {
	if db == nil {
		return nil
	}
	return &Recorder{db: db}
}

// Record writes one entry. Errors are returned so callers can decide
// whether to log them; the trail never blocks the mutation itself.
func (r *Recorder) Record(ctx context.Context, action, entity string, entityID int, payload map[string]any) error {
	if r == nil || r.db == nil {
		return nil
	}

	entry := Entry{
		Action:   action,
		Entity:   entity,
		EntityID: strconv.Itoa(entityID),
	}
	if payload != nil {
		entry.Payload = datatypes.JSONMap(payload)
	}

	return r.db.WithContext(ctx).Create(&entry).Error
}

// Recent returns the latest entries for an entity type, newest first.
func (r *Recorder) Recent(ctx context.Context, entity string, limit int) ([]Entry, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Model(&Entry{}).Order("created_at DESC").Limit(limit)
	if entity != "" {
		query = query.Where("entity = ?", entity)
	}

	var entries []Entry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
