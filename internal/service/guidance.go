package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pathfinder/guide-api/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GuidanceService struct {
	db          *gorm.DB
	recommender *Recommender
	now         func() time.Time
}

func NewGuidanceService(db *gorm.DB, r *Recommender) *GuidanceService {
	return &GuidanceService{
		db:          db,
		recommender: r,
		now:         time.Now,
	}
}

type sessionInputs struct {
	Profile json.RawMessage `json:"profile"`
	Goals   string          `json:"goals"`
}

// Recommend builds a recommendation and records it as a guidance session.
// The returned result is exactly what was stored.
func (s *GuidanceService) Recommend(ctx context.Context, userID *uint, profile json.RawMessage, goals string) (*model.GuidanceSession, map[string]any, error) {
	profile = profileOrEmpty(profile)

	result := s.recommender.Recommend(ctx, profile, goals)

	inputs, err := json.Marshal(sessionInputs{Profile: profile, Goals: goals})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode session inputs, %w", err)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode session result, %w", err)
	}

	session := &model.GuidanceSession{
		UserID: userID,
		Inputs: datatypes.JSON(inputs),
		Result: datatypes.JSON(encoded),
	}

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to save guidance session, %w", err)
	}

	return session, result, nil
}

// RecordEvent stores an analytics event. Neither the name nor the
// metadata are interpreted.
func (s *GuidanceService) RecordEvent(ctx context.Context, userID *uint, name string, metadata json.RawMessage) (*model.Event, error) {
	ev := &model.Event{
		UserID:    userID,
		Name:      name,
		Metadata:  datatypes.JSON(objectOrEmpty(metadata)),
		CreatedAt: s.now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, fmt.Errorf("failed to save event, %w", err)
	}

	return ev, nil
}

// GoalsText turns the goals sent by a client into prompt text. Strings are
// used as they are, values that carry nothing become "" and anything else
// its compact JSON text.
func GoalsText(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || isEmptyValue(v) {
		return ""
	}

	if str, ok := v.(string); ok {
		return str
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ""
	}

	return buf.String()
}

// profileOrEmpty turns a missing profile or one that carries nothing
// (null, false, 0, "", [] or {}) into an empty object.
func profileOrEmpty(raw json.RawMessage) json.RawMessage {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || isEmptyValue(v) {
		return json.RawMessage("{}")
	}

	return raw
}

// objectOrEmpty turns a missing or null value into an empty object.
func objectOrEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return json.RawMessage("{}")
	}

	return raw
}
