package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

type MemoryRepository struct {
	mu   sync.Mutex
	docs map[string]models.ProfileDocument
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string]models.ProfileDocument)}
}

func (r *MemoryRepository) Create(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[userID]; ok {
		return nil
	}
	now := time.Now().UTC()
	r.docs[userID] = models.ProfileDocument{
		UserID:    userID,
		Data:      json.RawMessage(`{}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, userID string) (*models.ProfileDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.docs[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyDocument(d), nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, userID string, patch json.RawMessage) (*models.ProfileDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	d, ok := r.docs[userID]
	if !ok {
		d = models.ProfileDocument{UserID: userID, Data: json.RawMessage(`{}`), CreatedAt: now}
	}

	merged, err := mergeObjects(d.Data, patch)
	if err != nil {
		return nil, err
	}
	d.Data = merged
	d.UpdatedAt = now
	r.docs[userID] = d

	return copyDocument(d), nil
}

func mergeObjects(base, patch json.RawMessage) (json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(base) > 0 {
		if err := json.Unmarshal(base, &fields); err != nil {
			return nil, fmt.Errorf("stored document: %w", err)
		}
	}
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, fmt.Errorf("%w: patch must be a JSON object", common.ErrorInvalidInput)
	}
	for k, v := range overlay {
		fields[k] = v
	}
	return json.Marshal(fields)
}

func copyDocument(d models.ProfileDocument) *models.ProfileDocument {
	d.Data = append(json.RawMessage(nil), d.Data...)
	return &d
}
