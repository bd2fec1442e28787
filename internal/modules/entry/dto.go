package entry

import (
	"bytes"
	"encoding/json"
)

type CreateEntryDTO struct {
	Title          string  `json:"title"   binding:"required"`
	Content        string  `json:"content" binding:"required"`
	CreationDate   string  `json:"creationDate"`
	EarliestUnlock string  `json:"earliestUnlock"`
	UnlockedAt     *string `json:"unlockedAt"`
	Geofence       any     `json:"geofence"`
	Weather        any     `json:"weather"`
	Emotion        any     `json:"emotion"`
}

// UpdateEntryDTO carries a partial update. The opaque fields and unlockedAt
// use json.RawMessage so the merge can tell key-absent (nil) apart from an
// explicit null ("null"), which are different operations: absent leaves the
// field alone, null clears it.
type UpdateEntryDTO struct {
	Title          *string         `json:"title"`
	Content        *string         `json:"content"`
	EarliestUnlock *string         `json:"earliestUnlock"`
	UnlockedAt     json.RawMessage `json:"unlockedAt"`
	Geofence       json.RawMessage `json:"geofence"`
	Weather        json.RawMessage `json:"weather"`
	Emotion        json.RawMessage `json:"emotion"`
}

var jsonNull = []byte("null")

// unlockedAtValue decodes the unlockedAt payload field.
// present is false when the key was absent; a nil value means explicit null.
// Non-string values are reported as an empty string, which the merge treats
// as unusable.
func (d *UpdateEntryDTO) unlockedAtValue() (present bool, value *string) {
	if d.UnlockedAt == nil {
		return false, nil
	}
	if bytes.Equal(bytes.TrimSpace(d.UnlockedAt), jsonNull) {
		return true, nil
	}
	var s string
	if err := json.Unmarshal(d.UnlockedAt, &s); err != nil {
		empty := ""
		return true, &empty
	}
	return true, &s
}

// applyOpaque replaces *dst with the decoded raw value when the key was
// present in the payload. An explicit null clears the field.
func applyOpaque(dst *any, raw json.RawMessage) {
	if raw == nil {
		return
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}
