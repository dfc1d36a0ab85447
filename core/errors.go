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

import "errors"

// Domain validation errors
var (
	// ErrInvalidCourseRecord indicates a CourseRecord failed validation.
	ErrInvalidCourseRecord = errors.New("invalid course record")

	// ErrEmptyCourseName indicates the Name field is empty.
	ErrEmptyCourseName = errors.New("course name cannot be empty")

	// ErrEmptySerial indicates the Serial field is empty.
	ErrEmptySerial = errors.New("section code cannot be empty")

	// ErrMismatchedMapping indicates the cohort and requirement lists
	// differ in length after splitting.
	ErrMismatchedMapping = errors.New("cohort and requirement lists differ in length")
)
