package badger

// NewMemoryRepository creates an in-memory backend and course repository
// for testing. The caller is responsible for closing the backend.
func NewMemoryRepository() (*Backend, *CourseRepository, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewCourseRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return backend, repo, nil
}
