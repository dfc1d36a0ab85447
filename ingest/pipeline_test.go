package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ching011500/coursebot/ai/mock"
	"github.com/ching011500/coursebot/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, source CourseSource, provider *mock.MockProvider, opts ...Option) (*Pipeline, *badger.CourseRepository) {
	t.Helper()

	backend, repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	pipeline, err := NewPipeline(repo, source, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, repo
}

func mockProvider() *mock.MockProvider {
	return mock.NewMockProvider().(*mock.MockProvider)
}

func TestNewPipeline_RequiresDependencies(t *testing.T) {
	source := &StaticSource{}
	provider := mock.NewMockProvider()

	_, err := NewPipeline(nil, source, provider)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	backend, repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewPipeline(repo, nil, provider)
	assert.ErrorIs(t, err, ErrSourceRequired)

	_, err = NewPipeline(repo, source, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestPipeline_Build(t *testing.T) {
	source := &StaticSource{Courses: []RawCourse{
		testRawCourse(),
		{
			Serial: "U5678", Name: "個體經濟學", YearTerm: "1132",
			Department: "經濟", Teacher: "李大華",
			Grade: "經濟2A", Required: "必",
			Credit: "3", EduType: "日間部",
			Schedule: "每週四5~6 社2F01",
		},
	}}

	pipeline, repo := newTestPipeline(t, source, mockProvider())

	report, err := pipeline.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Built)
	assert.Empty(t, report.Skipped)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	all, err := repo.AllCourses(context.Background())
	require.NoError(t, err)
	for _, record := range all {
		assert.NotEmpty(t, record.Vector)
		assert.NotEmpty(t, record.Text)
	}
}

func TestPipeline_Build_SkipsMalformedRows(t *testing.T) {
	bad := testRawCourse()
	bad.Serial = "U9999"
	bad.Required = "必" // two cohorts, one label

	source := &StaticSource{Courses: []RawCourse{testRawCourse(), bad}}
	pipeline, repo := newTestPipeline(t, source, mockProvider())

	report, err := pipeline.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Built)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "U9999", report.Skipped[0].Serial)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPipeline_Build_EmbeddingFailureAbortsAtomically(t *testing.T) {
	provider := mockProvider()
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("provider down")
	}

	source := &StaticSource{Courses: []RawCourse{testRawCourse()}}
	pipeline, repo := newTestPipeline(t, source, provider,
		WithRetry(2, time.Millisecond))

	_, err := pipeline.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbeddingFailed)

	// Nothing committed.
	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPipeline_Build_ReplacesPreviousCorpus(t *testing.T) {
	first := &StaticSource{Courses: []RawCourse{testRawCourse()}}
	pipeline, repo := newTestPipeline(t, first, mockProvider())

	_, err := pipeline.Build(context.Background())
	require.NoError(t, err)

	second := testRawCourse()
	second.Serial = "U7777"
	second.Name = "總體經濟學"
	first.Courses = []RawCourse{second}

	report, err := pipeline.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Built)

	all, err := repo.AllCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "U7777", all[0].Serial)
}

func TestPipeline_Build_EmptySource(t *testing.T) {
	pipeline, repo := newTestPipeline(t, &StaticSource{}, mockProvider())

	report, err := pipeline.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0, report.Built)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
