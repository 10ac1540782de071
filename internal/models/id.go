package models

import "regexp"

var objectIDPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// IsObjectID reports whether s has the form every storage driver issues
// ids in: 24 lower-case hex characters.
func IsObjectID(s string) bool {
	return objectIDPattern.MatchString(s)
}
