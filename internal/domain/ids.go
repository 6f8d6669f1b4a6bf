package domain

import "github.com/google/uuid"

func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a canonical UUID, the only form stored ids take.
func ValidID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}
