// Package store persists per-profile state as simple key/value pairs.
//
// Callers declare the value kind per key: SetString/GetString for raw
// strings (rendered HTML, theme names), SetJSON/GetJSON for structured
// records. Reads never fail: a missing or corrupt key yields the caller's
// fallback, and the corruption is logged.
package store

// Store is the key/value contract every other component depends on.
// Writes are durable when Set returns; each call is atomic with respect to
// its single key only.
type Store interface {
	SetString(key, value string) error
	GetString(key, fallback string) string

	SetJSON(key string, value any) error
	// GetJSON decodes the stored value into out and reports whether a
	// usable value was found. On a missing or corrupt key out is left
	// untouched so the caller's pre-filled default survives.
	GetJSON(key string, out any) bool

	Delete(key string) error
}
