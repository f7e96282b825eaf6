package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"thinktank/internal/models"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FeedbackByIdea(ctx context.Context, ideaID int) ([]models.Feedback, error) {
	args := m.Called(ctx, ideaID)
	fb, _ := args.Get(0).([]models.Feedback)
	return fb, args.Error(1)
}

func feedback(id int, status models.FeedbackStatus, createdAt, ideaID string) models.Feedback {
	f := models.Feedback{ID: id, Status: status, CreatedAt: models.MustParseTimestamp(createdAt)}
	if ideaID != "" {
		f.Idea = &models.Idea{ID: ideaID}
	}
	return f
}

func ids(ideas []models.Idea) []string {
	out := make([]string, 0, len(ideas))
	for _, i := range ideas {
		out = append(out, i.ID)
	}
	return out
}

func TestCanonicalFeedback(t *testing.T) {
	assert.Nil(t, CanonicalFeedback(nil))

	list := []models.Feedback{
		feedback(1, models.FeedbackApproved, "2024-01-01", ""),
		feedback(2, models.FeedbackRejected, "2024-03-01", ""),
		feedback(3, models.FeedbackReviewed, "2024-02-01", ""),
	}
	got := CanonicalFeedback(list)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.ID)

	tied := []models.Feedback{
		feedback(7, models.FeedbackApproved, "2024-01-01", ""),
		feedback(8, models.FeedbackRejected, "2024-01-01", ""),
	}
	assert.Equal(t, 7, CanonicalFeedback(tied).ID)
}

func TestCorrelateLatestFeedbackWinsOverIdeaStatus(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FeedbackByIdea", mock.Anything, 1).Return([]models.Feedback{
		feedback(10, models.FeedbackApproved, "2024-01-01", "1"),
		feedback(11, models.FeedbackRejected, "2024-02-01", "1"),
	}, nil)

	ideas := []models.Idea{{ID: "1", Status: string(models.IdeaApproved)}}
	res, err := Correlate(context.Background(), ideas, fetcher)
	require.NoError(t, err)

	require.Len(t, res.Ideas, 1)
	require.NotNil(t, res.Ideas[0].LatestFeedback())
	assert.Equal(t, 11, res.Ideas[0].LatestFeedback().ID)
	assert.Empty(t, res.Approved)
	assert.Equal(t, []string{"1"}, ids(res.Rejected))
	fetcher.AssertExpectations(t)
}

func TestCorrelateBuckets(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FeedbackByIdea", mock.Anything, 1).Return([]models.Feedback{
		feedback(1, models.FeedbackApproved, "2024-01-01", "1"),
	}, nil)
	fetcher.On("FeedbackByIdea", mock.Anything, 2).Return([]models.Feedback{}, nil)
	fetcher.On("FeedbackByIdea", mock.Anything, 3).Return(nil, errors.New("boom"))
	fetcher.On("FeedbackByIdea", mock.Anything, 4).Return([]models.Feedback{
		feedback(4, models.FeedbackReviewed, "2024-01-01", "4"),
	}, nil)

	ideas := []models.Idea{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "abc"}}
	res, err := Correlate(context.Background(), ideas, fetcher)
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, ids(res.Approved))
	assert.Empty(t, res.Rejected)
	assert.Equal(t, []string{"2", "3", "4", "abc"}, ids(res.Pending))
	assert.Equal(t, []string{"1", "2", "3", "4", "abc"}, ids(res.Ideas))

	// no feedback is an empty, non-nil list once loaded
	assert.NotNil(t, res.Ideas[1].Feedback)
	assert.Empty(t, res.Ideas[1].Feedback)
	fetcher.AssertNotCalled(t, "FeedbackByIdea", mock.Anything, 0)
}

func TestCorrelateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Correlate(ctx, []models.Idea{{ID: "1"}}, new(MockFetcher))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyUsesAttachedFeedback(t *testing.T) {
	ideas := []models.Idea{
		{ID: "1", Feedback: []models.Feedback{
			feedback(1, models.FeedbackRejected, "2024-01-01", ""),
			feedback(2, models.FeedbackApproved, "2024-05-01", ""),
		}},
		{ID: "2"},
	}
	res := Classify(ideas)
	assert.Equal(t, []string{"1"}, ids(res.Approved))
	assert.Equal(t, []string{"2"}, ids(res.Pending))
}

func TestApprovedFromAllFeedback(t *testing.T) {
	ideas := []models.Idea{{ID: "3"}, {ID: "1"}, {ID: "2"}, {ID: "4"}}
	all := []models.Feedback{
		feedback(1, models.FeedbackApproved, "2024-01-01", "1"),
		feedback(2, models.FeedbackRejected, "2024-02-01", "1"),
		feedback(3, models.FeedbackApproved, "2024-01-01", "2"),
		feedback(4, models.FeedbackApproved, "2024-01-01", "3"),
		feedback(5, models.FeedbackApproved, "2024-01-01", ""),
	}

	got := ApprovedFromAllFeedback(ideas, all)
	assert.Equal(t, []string{"3", "2"}, ids(got))
	assert.Equal(t, 4, got[0].LatestFeedback().ID)
}

type MockDashboardSource struct {
	mock.Mock
}

func (m *MockDashboardSource) AllFeedback(ctx context.Context) ([]models.Feedback, error) {
	args := m.Called(ctx)
	fb, _ := args.Get(0).([]models.Feedback)
	return fb, args.Error(1)
}

func (m *MockDashboardSource) AllIdeas(ctx context.Context) ([]models.Idea, error) {
	args := m.Called(ctx)
	ideas, _ := args.Get(0).([]models.Idea)
	return ideas, args.Error(1)
}

func (m *MockDashboardSource) PublicIdeas(ctx context.Context) ([]models.Idea, error) {
	args := m.Called(ctx)
	ideas, _ := args.Get(0).([]models.Idea)
	return ideas, args.Error(1)
}

func TestDashboardAdminPath(t *testing.T) {
	src := new(MockDashboardSource)
	src.On("AllFeedback", mock.Anything).Return([]models.Feedback{
		feedback(1, models.FeedbackApproved, "2024-01-01", "1"),
	}, nil)
	src.On("AllIdeas", mock.Anything).Return([]models.Idea{{ID: "1"}, {ID: "2"}}, nil)

	ideas, fallback, err := Dashboard(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, []string{"1"}, ids(ideas))
	src.AssertNotCalled(t, "PublicIdeas", mock.Anything)
}

func TestDashboardFallsBackToPublicIdeas(t *testing.T) {
	src := new(MockDashboardSource)
	src.On("AllFeedback", mock.Anything).Return(nil, errors.New("403 forbidden"))
	src.On("PublicIdeas", mock.Anything).Return([]models.Idea{{ID: "9", Status: "Approved"}}, nil)

	ideas, fallback, err := Dashboard(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, []string{"9"}, ids(ideas))
	src.AssertNotCalled(t, "AllIdeas", mock.Anything)
}

func TestDashboardErrors(t *testing.T) {
	src := new(MockDashboardSource)
	src.On("AllFeedback", mock.Anything).Return([]models.Feedback{}, nil)
	src.On("AllIdeas", mock.Anything).Return(nil, errors.New("500"))

	_, _, err := Dashboard(context.Background(), src)
	assert.ErrorContains(t, err, "failed to load ideas")

	src = new(MockDashboardSource)
	src.On("AllFeedback", mock.Anything).Return(nil, errors.New("401"))
	src.On("PublicIdeas", mock.Anything).Return(nil, errors.New("offline"))

	_, fallback, err := Dashboard(context.Background(), src)
	assert.True(t, fallback)
	assert.ErrorContains(t, err, "failed to load public ideas")
}
