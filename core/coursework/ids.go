package coursework

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	assignmentIDPrefix = "id-"
	submissionIDPrefix = "sub-"

	maxIDAttempts = 5
)

var newUUIDFunc = uuid.NewUUID // mockable

// newID generates a time-based (version 1 UUID) token with the given prefix.
// taken reports ids already used in the target collection.
func newID(prefix string, taken func(id string) bool) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		u, err := newUUIDFunc()
		if err != nil {
			return "", errors.Wrap(err, "generating time-based uuid")
		}
		if id := prefix + u.String(); !taken(id) {
			return id, nil
		}
	}
	return "", errors.Errorf("no unique %q id after %d attempts", prefix, maxIDAttempts)
}
