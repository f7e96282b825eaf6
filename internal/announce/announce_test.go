package announce

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"thinktank/internal/locales"
	"thinktank/internal/models"
)

// MockBot is a mock implementing BotAPI.
type MockBot struct {
	mock.Mock
}

func (m *MockBot) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*telego.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBot) GetMe(ctx context.Context) (*telego.User, error) {
	args := m.Called(ctx)
	if user, ok := args.Get(0).(*telego.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func newAnnouncer(t *testing.T, bot BotAPI) *Announcer {
	t.Helper()
	require.NoError(t, locales.Init("en"))
	a, err := New(bot, -100123, locales.NewTranslator("en"))
	require.NoError(t, err)
	return a
}

func TestNewValidates(t *testing.T) {
	tr := struct{ Messages }{}
	_, err := New(nil, 1, tr)
	assert.Error(t, err)
	_, err = New(new(MockBot), 0, tr)
	assert.Error(t, err)
	_, err = New(new(MockBot), 1, nil)
	assert.Error(t, err)
}

func TestIdeaApproved(t *testing.T) {
	bot := new(MockBot)
	a := newAnnouncer(t, bot)

	idea := models.Idea{ID: "5", Title: "Parks & gardens", Description: "More green <space>", Tags: []string{"city life", "green"}}
	bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p *telego.SendMessageParams) bool {
		return p.ChatID.ID == -100123 &&
			p.ParseMode == telego.ModeHTML &&
			assert.Equal(t,
				"<b>Idea approved: Parks &amp; gardens</b>\n\nMore green &lt;space&gt;\n\n#city_life #green\n\n<i>Reviewer comment: Ship it</i>",
				p.Text)
	})).Return(&telego.Message{MessageID: 1}, nil).Once()

	require.NoError(t, a.IdeaApproved(context.Background(), idea, " Ship it "))
	bot.AssertExpectations(t)
}

func TestIdeaApprovedWithoutComment(t *testing.T) {
	bot := new(MockBot)
	a := newAnnouncer(t, bot)

	bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p *telego.SendMessageParams) bool {
		return p.Text == "<b>Idea approved: Solar</b>\n\nPanels on every roof"
	})).Return(&telego.Message{}, nil).Once()

	require.NoError(t, a.IdeaApproved(context.Background(), models.Idea{ID: "1", Title: "Solar", Description: "Panels on every roof"}, ""))
	bot.AssertExpectations(t)
}

func TestIdeaApprovedFailure(t *testing.T) {
	bot := new(MockBot)
	a := newAnnouncer(t, bot)
	bot.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("chat not found"))

	err := a.IdeaApproved(context.Background(), models.Idea{ID: "1", Title: "Solar"}, "")
	assert.ErrorContains(t, err, "chat not found")
}

func TestVerify(t *testing.T) {
	bot := new(MockBot)
	a := newAnnouncer(t, bot)
	bot.On("GetMe", mock.Anything).Return(&telego.User{Username: "thinktank_bot"}, nil).Once()
	assert.NoError(t, a.Verify(context.Background()))

	bot.On("GetMe", mock.Anything).Return(nil, errors.New("unauthorized")).Once()
	assert.Error(t, a.Verify(context.Background()))
}
