// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateCourseRecord validates a CourseRecord according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Serial must not be empty
//
// NOT validated (populated during the build pipeline):
//   - Vector (empty until the embedding step runs)
//   - Text (empty until the rendering step runs)
//   - Slots (legitimately empty for courses without a fixed meeting time)
func ValidateCourseRecord(record *CourseRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidCourseRecord)
	}

	if record.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCourseRecord, ErrEmptyCourseName)
	}

	if record.Serial == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCourseRecord, ErrEmptySerial)
	}

	return nil
}
