package taskservice

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
)

// DefaultSettings are reported for keys that were never stored.
var DefaultSettings = map[string]any{
	"notificationsEnabled": true,
	"theme":                "system",
}

// Settings returns every stored setting merged over DefaultSettings.
func (s *Service) Settings(ctx context.Context) (map[string]any, error) {
	stored, err := s.db.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := maps.Clone(DefaultSettings)
	for _, st := range stored {
		out[st.Key] = DecodeSetting(st.Value)
	}
	return out, nil
}

// PutSettings upserts every key in updates and returns the merged settings.
func (s *Service) PutSettings(ctx context.Context, updates map[string]any) (map[string]any, error) {
	encoded := make(map[string]string, len(updates))
	for k, v := range updates {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode setting %s: %w", k, err)
		}
		encoded[k] = string(raw)
	}
	if len(encoded) > 0 {
		if err := s.db.PutSettings(ctx, encoded, s.now().UTC()); err != nil {
			return nil, err
		}
	}
	return s.Settings(ctx)
}

// DecodeSetting parses a stored value. Values that are not valid JSON are
// returned as plain strings.
func DecodeSetting(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
