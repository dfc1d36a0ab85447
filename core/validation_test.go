package core

import (
	"errors"
	"testing"
)

func TestValidateCourseRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *CourseRecord
		wantErr error
	}{
		{
			name: "valid record",
			record: &CourseRecord{
				Serial: "U0001",
				Name:   "經濟學原理",
			},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidCourseRecord,
		},
		{
			name: "empty name",
			record: &CourseRecord{
				Serial: "U0001",
			},
			wantErr: ErrEmptyCourseName,
		},
		{
			name: "empty serial",
			record: &CourseRecord{
				Name: "經濟學原理",
			},
			wantErr: ErrEmptySerial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCourseRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCourseRecord() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCourseRecord() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
