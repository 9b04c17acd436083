package uuidutil

import "github.com/google/uuid"

// New returns a time-ordered (v7) UUID so history rows sort by creation.
// Falls back to a random v4 UUID if the clock source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
