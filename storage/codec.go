package storage

import (
	"fmt"

	"github.com/ching011500/coursebot/core"
	"github.com/goccy/go-json"
)

// MarshalCourseRecord serializes a course record for storage.
func MarshalCourseRecord(record *core.CourseRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalCourseRecord deserializes a course record from storage.
func UnmarshalCourseRecord(data []byte) (*core.CourseRecord, error) {
	var record core.CourseRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
