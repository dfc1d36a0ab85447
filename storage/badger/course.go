package badger

import (
	"context"

	"github.com/ching011500/coursebot/core"
	"github.com/ching011500/coursebot/storage"
	"github.com/dgraph-io/badger/v4"
)

// CourseRepository implements storage.CourseRepository for BadgerDB.
type CourseRepository struct {
	backend *Backend
}

var _ storage.CourseRepository = (*CourseRepository)(nil)

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(backend *Backend) (*CourseRepository, error) {
	return &CourseRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *CourseRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *CourseRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// PutCourses adds or replaces course records by their content-based IDs.
func (r *CourseRepository) PutCourses(ctx context.Context, records ...*core.CourseRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.Id == 0 {
				record.Id = core.IDFromContent(record.Key())
			}
			value, err := storage.MarshalCourseRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makeCourseRecordKey(record.Id), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ReplaceAll replaces the entire stored corpus in one transaction: the old
// generation's keys are deleted and the new records written before the
// single commit, so readers never observe a mix of generations. The corpus
// is small (thousands of records), which keeps the transaction within
// BadgerDB's batch limits.
func (r *CourseRepository) ReplaceAll(ctx context.Context, records []*core.CourseRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		// Collect existing keys first; deleting while iterating is unsafe.
		var stale [][]byte
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(courseRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			stale = append(stale, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		for _, record := range records {
			if record.Id == 0 {
				record.Id = core.IDFromContent(record.Key())
			}
			value, err := storage.MarshalCourseRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makeCourseRecordKey(record.Id), value); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}

// GetCourse retrieves a single course record by ID.
func (r *CourseRepository) GetCourse(ctx context.Context, id core.ID) (*core.CourseRecord, error) {
	var result *core.CourseRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCourseRecord(tx, makeCourseRecordKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetCourses retrieves multiple course records by their IDs.
func (r *CourseRepository) GetCourses(ctx context.Context, ids ...core.ID) ([]*core.CourseRecord, error) {
	var result []*core.CourseRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := readCourseRecord(tx, makeCourseRecordKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// AllCourses retrieves every stored course record.
func (r *CourseRepository) AllCourses(ctx context.Context) ([]*core.CourseRecord, error) {
	var result []*core.CourseRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(courseRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.CourseRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalCourseRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// Count returns the number of stored course records.
func (r *CourseRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(courseRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readCourseRecord reads a course record from the transaction.
func readCourseRecord(tx *badger.Txn, key []byte) (*core.CourseRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.CourseRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalCourseRecord(val)
		return unmarshalErr
	})
	return record, err
}
