package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) LogUserAction(ctx context.Context, userID int, action string, details map[string]interface{}) error {
	args := m.Called(ctx, userID, action, details)
	return args.Error(0)
}

func TestRecordSwallowsErrors(t *testing.T) {
	l := new(MockLogger)
	l.On("LogUserAction", mock.Anything, 7, ActionLogin, mock.Anything).Return(errors.New("mongo down"))

	assert.NotPanics(t, func() {
		Record(context.Background(), l, 7, ActionLogin, nil)
	})
	l.AssertExpectations(t)

	assert.NotPanics(t, func() {
		Record(context.Background(), nil, 7, ActionLogin, nil)
	})
	assert.NoError(t, NopLogger{}.LogUserAction(context.Background(), 1, ActionLogout, nil))
}

func TestMongoLogger(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("inserts entry and upserts summary", func(mt *mtest.T) {
		logger := NewMongoLogger(mt.DB)
		logger.now = func() time.Time { return fixed }

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)
		err := logger.LogUserAction(context.Background(), 42, ActionSubmitIdea, map[string]interface{}{"title": "Bike lanes"})
		require.NoError(t, err)

		started := mt.GetAllStartedEvents()
		require.Len(t, started, 2)
		assert.Equal(t, "insert", started[0].CommandName)
		assert.Equal(t, "update", started[1].CommandName)
	})

	mt.Run("insert failure is wrapped", func(mt *mtest.T) {
		logger := NewMongoLogger(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key",
		}))
		err := logger.LogUserAction(context.Background(), 42, ActionLogin, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "user 42")
		assert.True(t, mongo.IsDuplicateKeyError(err))
	})

	mt.Run("recent actions", func(mt *mtest.T) {
		logger := NewMongoLogger(mt.DB)
		ns := mt.DB.Name() + "." + actionsCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{{Key: "user_id", Value: 42}, {Key: "action", Value: ActionLogin}, {Key: "time", Value: fixed}},
				bson.D{{Key: "user_id", Value: 42}, {Key: "action", Value: ActionLogout}, {Key: "time", Value: fixed.Add(-time.Hour)}},
			),
		)
		entries, err := logger.Recent(context.Background(), 42, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, ActionLogin, entries[0].Action)
		assert.Equal(t, 42, entries[1].UserID)
	})
}
