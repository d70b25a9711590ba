package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/logging"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/repomanager"
)

// ProfileService serves profile documents to their owners only.
type ProfileService struct {
	profiles profiles.Repository
	log      logging.Logger
}

func NewProfileService(m repomanager.RepositoryManager, log logging.Logger) *ProfileService {
	return &ProfileService{profiles: m.Profiles(), log: log}
}

// Get returns the document of userID. Reading another user's profile yields
// common.ErrorForbidden; a missing document yields common.ErrorNotFound.
func (s *ProfileService) Get(ctx context.Context, requesterID, userID string) (*models.ProfileDocument, error) {
	if requesterID != userID {
		return nil, common.ErrorForbidden
	}
	return s.profiles.Get(ctx, userID)
}

// Patch merges body, a JSON object, into the document of userID. Keys with
// the metadata prefix are dropped; they are owned by the gateway.
func (s *ProfileService) Patch(ctx context.Context, requesterID, userID string, body []byte) (*models.ProfileDocument, error) {
	if requesterID != userID {
		return nil, common.ErrorForbidden
	}

	patch, err := StripMetadata(body)
	if err != nil {
		return nil, err
	}

	doc, err := s.profiles.Upsert(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "profile patched", "user_id", userID)
	return doc, nil
}

// StripMetadata validates that body is a JSON object and returns it without
// its metadata keys.
func StripMetadata(body []byte) (json.RawMessage, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", common.ErrorInvalidInput)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: body must be a JSON object", common.ErrorInvalidInput)
	}

	fields := make(map[string]json.RawMessage)
	root.ForEach(func(key, value gjson.Result) bool {
		if !strings.HasPrefix(key.String(), common.MetadataKeyPrefix) {
			fields[key.String()] = json.RawMessage(value.Raw)
		}
		return true
	})
	return json.Marshal(fields)
}
