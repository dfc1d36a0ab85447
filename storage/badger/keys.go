package badger

import (
	"fmt"

	"github.com/ching011500/coursebot/core"
)

// Key prefixes for different data types
const (
	courseRecordPrefix = "courec"
)

// makeCourseRecordKey generates a key for a course record by ID.
func makeCourseRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", courseRecordPrefix, id))
}
