package persist

// PersistError represents a durability-layer error.
type PersistError struct {
	Message string
}

func (e *PersistError) Error() string {
	return e.Message
}

var (
	ErrCorruption = &PersistError{"data corruption detected"}
	ErrInvalidKey = &PersistError{"invalid key"}
	ErrKeyNotFound = &PersistError{"key not found"}
	ErrClosed     = &PersistError{"manager is closed"}
)
