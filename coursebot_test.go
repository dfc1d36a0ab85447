package coursebot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ching011500/coursebot/ai/mock"
	"github.com/ching011500/coursebot/ingest"
	"github.com/ching011500/coursebot/search"
)

func testCatalog() []ingest.RawCourse {
	return []ingest.RawCourse{
		{
			Serial: "U0001", Name: "經濟學原理", YearTerm: "1141",
			Department: "經濟系", Teacher: "王老師",
			Grade: "經濟系1A", Required: "必",
			Credit: "3", EduType: "日間學制",
			Schedule: "每週二3~4 社3F05",
		},
		{
			Serial: "U0002", Name: "微積分", YearTerm: "1141",
			Department: "經濟系", Teacher: "李老師",
			Grade: "經濟系1A|經濟系1B", Required: "必|必",
			Credit: "3", EduType: "日間學制",
			Schedule: "每週四6~7 社3F06",
		},
		{
			Serial: "U0003", Name: "賽局理論", YearTerm: "1141",
			Department: "經濟系", Teacher: "陳老師",
			Grade: "經濟系3A", Required: "選",
			Credit: "3", EduType: "日間學制",
			Schedule: "每週五3~4 社3F07",
		},
		{
			Serial: "U0004", Name: "社會學導論", YearTerm: "1141",
			Department: "社會學系", Teacher: "林老師",
			Grade: "社會系1A", Required: "必",
			Credit: "3", EduType: "日間學制",
			Schedule: "每週二3~4 社2F01",
		},
	}
}

func newTestService(t *testing.T, provider *mock.MockProvider) *Service {
	t.Helper()
	service, err := New("",
		WithProvider(provider),
		WithSource(&ingest.StaticSource{Courses: testCatalog()}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = service.Close() })
	return service
}

func builtTestService(t *testing.T, provider *mock.MockProvider) *Service {
	t.Helper()
	service := newTestService(t, provider)
	report, err := service.RebuildIndex(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, report.Built)
	return service
}

func mockServices() (*mock.MockEmbedder, *mock.MockAnswerGenerator, *mock.MockProvider) {
	embedder := mock.NewMockEmbedder()
	generator := mock.NewMockAnswerGenerator()
	provider := mock.NewMockProviderWithServices(embedder, generator).(*mock.MockProvider)
	return embedder, generator, provider
}

func TestService_NotReadyBeforeFirstBuild(t *testing.T) {
	_, _, provider := mockServices()
	service := newTestService(t, provider)

	assert.False(t, service.Ready())
	assert.Zero(t, service.CourseCount())

	_, err := service.Query(context.Background(), "經濟系大一必修有哪些", 10)
	assert.ErrorIs(t, err, ErrIndexNotReady)

	_, err = service.Search(context.Background(), "經濟學", 10, true)
	assert.ErrorIs(t, err, ErrIndexNotReady)
}

func TestService_RebuildWithoutSource(t *testing.T) {
	_, _, provider := mockServices()
	service, err := New("", WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { _ = service.Close() })

	_, err = service.RebuildIndex(context.Background())
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestService_RebuildIndexMakesServiceReady(t *testing.T) {
	_, _, provider := mockServices()
	service := builtTestService(t, provider)

	assert.True(t, service.Ready())
	assert.Equal(t, 4, service.CourseCount())

	results, err := service.Search(context.Background(), "經濟學", 10, true)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestService_QueryFiltersAndGeneratesAnswer(t *testing.T) {
	_, generator, provider := mockServices()

	var captured []string
	generator.GenerateAnswerFunc = func(ctx context.Context, question string, contexts []string) (string, error) {
		captured = contexts
		return "生成的回答", nil
	}

	service := builtTestService(t, provider)

	answer, err := service.Query(context.Background(), "經濟系大一必修有哪些", 10)
	require.NoError(t, err)
	assert.Equal(t, "生成的回答", answer)

	// Only the two first-year required sections survive the filter.
	require.Len(t, captured, 2)
	joined := strings.Join(captured, "\n")
	assert.Contains(t, joined, "經濟學原理")
	assert.Contains(t, joined, "微積分")
	assert.NotContains(t, joined, "賽局理論")
	assert.NotContains(t, joined, "社會學導論")
}

func TestService_TimeQueryBypassesGenerator(t *testing.T) {
	_, generator, provider := mockServices()
	service := builtTestService(t, provider)

	answer, err := service.Query(context.Background(), "星期二早上有什麼課", 10)
	require.NoError(t, err)

	assert.Zero(t, generator.CallCount())
	assert.Contains(t, answer, "經濟學原理")
	assert.Contains(t, answer, "社會學導論")
	assert.NotContains(t, answer, "微積分")
	assert.Contains(t, answer, "上課時間")
}

func TestService_GenerationFailureFallsBackToCourseList(t *testing.T) {
	_, generator, provider := mockServices()
	generator.GenerateAnswerFunc = func(ctx context.Context, question string, contexts []string) (string, error) {
		return "", errors.New("model unavailable")
	}

	service := builtTestService(t, provider)

	answer, err := service.Query(context.Background(), "經濟系大一必修有哪些", 10)
	require.NoError(t, err)
	assert.Contains(t, answer, "經濟學原理")
	assert.Contains(t, answer, "課程代碼")
}

func TestService_NoMatchesReturnsAdvisoryMessage(t *testing.T) {
	_, _, provider := mockServices()
	service := builtTestService(t, provider)

	answer, err := service.Query(context.Background(), "法律系大一必修有哪些", 10)
	require.NoError(t, err)
	assert.Equal(t, noResultsMessage, answer)
}

func TestService_SetWeights(t *testing.T) {
	_, _, provider := mockServices()
	service := builtTestService(t, provider)

	require.NoError(t, service.SetWeights(search.Weights{Semantic: 0.3, Lexical: 0.7}))
	assert.Equal(t, search.Weights{Semantic: 0.3, Lexical: 0.7}, service.Weights())

	assert.Error(t, service.SetWeights(search.Weights{Semantic: 0.9, Lexical: 0.9}))
	assert.Equal(t, search.Weights{Semantic: 0.3, Lexical: 0.7}, service.Weights())
}

func TestService_RebuildIsIdempotent(t *testing.T) {
	_, _, provider := mockServices()
	service := builtTestService(t, provider)

	first, err := service.Search(context.Background(), "經濟系 必修", 10, true)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	_, err = service.RebuildIndex(context.Background())
	require.NoError(t, err)

	second, err := service.Search(context.Background(), "經濟系 必修", 10, true)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Course.Id, second[i].Course.Id)
		assert.InDelta(t, float64(first[i].Score), float64(second[i].Score), 1e-6)
	}
}

func TestService_ReopenServesPersistedCorpus(t *testing.T) {
	dir := t.TempDir()

	_, _, provider := mockServices()
	service, err := New(dir,
		WithProvider(provider),
		WithSource(&ingest.StaticSource{Courses: testCatalog()}))
	require.NoError(t, err)

	_, err = service.RebuildIndex(context.Background())
	require.NoError(t, err)
	require.NoError(t, service.Close())

	_, _, provider = mockServices()
	reopened, err := New(dir, WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	assert.True(t, reopened.Ready())
	assert.Equal(t, 4, reopened.CourseCount())
}
