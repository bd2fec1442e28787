package models

// Entry is a single journal record.
//
// ID is a v4 UUID string, assigned once at creation and compared
// case-insensitively on lookup. Timestamp fields are kept as ISO-8601 strings
// in canonical UTC form (trailing "Z") whenever the supplied value was
// parseable; unparseable values survive as best-effort strings rather than
// being rejected. Geofence, Weather and Emotion are opaque JSON values owned
// by the client.
type Entry struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	CreationDate   string  `json:"creationDate"`
	Geofence       any     `json:"geofence"`
	Weather        any     `json:"weather"`
	Emotion        any     `json:"emotion"`
	EarliestUnlock string  `json:"earliestUnlock"`
	UnlockedAt     *string `json:"unlockedAt"`
}

// Locked reports whether the entry has not been unlocked yet.
func (e *Entry) Locked() bool { return e.UnlockedAt == nil }
