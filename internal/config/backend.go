package config

// Backend is where persisted config keys live. Keys are dotted
// "section.name" strings such as "share.target".
type Backend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}
