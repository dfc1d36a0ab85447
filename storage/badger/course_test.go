package badger

import (
	"context"
	"testing"

	"github.com/ching011500/coursebot/core"
	"github.com/ching011500/coursebot/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCourse(serial, name, dept string) *core.CourseRecord {
	record := &core.CourseRecord{
		Serial:     serial,
		Name:       name,
		YearTerm:   "1132",
		Department: dept,
		Teacher:    "張三",
		EduType:    "日間部",
		Mapping: core.NewGradeRequiredMapping([]core.GradePair{
			{Cohort: dept + "1A", Requirement: "必"},
		}),
	}
	record.Id = core.IDFromContent(record.Key())
	return record
}

func TestCourseRepository_PutAndGet(t *testing.T) {
	backend, repo, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	course := testCourse("U0001", "經濟學原理", "經濟")

	require.NoError(t, repo.PutCourses(ctx, course))

	got, err := repo.GetCourse(ctx, course.Id)
	require.NoError(t, err)
	assert.Equal(t, course.Name, got.Name)
	assert.Equal(t, course.Serial, got.Serial)
	assert.True(t, got.Mapping.MatchesCohort("經濟1A"))
}

func TestCourseRepository_GetMissing(t *testing.T) {
	backend, repo, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	_, err = repo.GetCourse(context.Background(), core.ID(42))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCourseRepository_GetCourses_SkipsMissing(t *testing.T) {
	backend, repo, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	course := testCourse("U0002", "個體經濟學", "經濟")
	require.NoError(t, repo.PutCourses(ctx, course))

	got, err := repo.GetCourses(ctx, course.Id, core.ID(99999))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, course.Id, got[0].Id)
}

func TestCourseRepository_PutReplacesById(t *testing.T) {
	backend, repo, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	course := testCourse("U0003", "總體經濟學", "經濟")
	require.NoError(t, repo.PutCourses(ctx, course))

	course.Teacher = "李四"
	require.NoError(t, repo.PutCourses(ctx, course))

	got, err := repo.GetCourse(ctx, course.Id)
	require.NoError(t, err)
	assert.Equal(t, "李四", got.Teacher)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCourseRepository_ReplaceAll(t *testing.T) {
	backend, repo, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	old := testCourse("U0004", "舊課程", "企管")
	require.NoError(t, repo.PutCourses(ctx, old))

	fresh := []*core.CourseRecord{
		testCourse("U0005", "行銷管理", "企管"),
		testCourse("U0006", "財務管理", "企管"),
	}
	require.NoError(t, repo.ReplaceAll(ctx, fresh))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = repo.GetCourse(ctx, old.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCourseRepository_AllCourses(t *testing.T) {
	backend, repo, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, repo.PutCourses(ctx,
		testCourse("U0007", "資料結構", "資工"),
		testCourse("U0008", "演算法", "資工"),
		testCourse("U0009", "作業系統", "資工"),
	))

	all, err := repo.AllCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCourseRepository_FindSimilar(t *testing.T) {
	backend, repo, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	near := testCourse("U0010", "統計學", "統計")
	near.Vector = []float32{1, 0, 0}
	far := testCourse("U0011", "體育", "通識")
	far.Vector = []float32{0, 1, 0}
	require.NoError(t, repo.PutCourses(ctx, near, far))

	results, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, -1, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, near.Id, results[0].Course.Id)
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-6)
	assert.Equal(t, far.Id, results[1].Course.Id)
}

func TestCourseRepository_FindSimilar_MinSimilarity(t *testing.T) {
	backend, repo, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	near := testCourse("U0012", "機率論", "統計")
	near.Vector = []float32{1, 0, 0}
	far := testCourse("U0013", "書法", "中文")
	far.Vector = []float32{0, 0, 1}
	require.NoError(t, repo.PutCourses(ctx, near, far))

	results, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, near.Id, results[0].Course.Id)
}
