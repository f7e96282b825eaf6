// Package announce posts approved ideas to a Telegram channel.
package announce

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"thinktank/internal/models"
)

// BotAPI is the part of *telego.Bot the announcer uses.
type BotAPI interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	GetMe(ctx context.Context) (*telego.User, error)
}

// Messages localizes announcement text.
type Messages interface {
	T(msgID string, data map[string]interface{}) string
}

// Announcer sends channel posts.
type Announcer struct {
	bot       BotAPI
	channelID int64
	msgs      Messages
}

// NewBot creates the Telegram client for token.
func NewBot(token string, debug bool) (*telego.Bot, error) {
	var opts []telego.BotOption
	if debug {
		opts = append(opts, telego.WithDefaultDebugLogger())
	}
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return bot, nil
}

// New creates an Announcer posting to channelID.
func New(bot BotAPI, channelID int64, msgs Messages) (*Announcer, error) {
	if bot == nil {
		return nil, fmt.Errorf("bot cannot be nil")
	}
	if channelID == 0 {
		return nil, fmt.Errorf("channel id cannot be zero")
	}
	if msgs == nil {
		return nil, fmt.Errorf("messages cannot be nil")
	}
	return &Announcer{bot: bot, channelID: channelID, msgs: msgs}, nil
}

// Verify checks the token by fetching the bot identity.
func (a *Announcer) Verify(ctx context.Context) error {
	me, err := a.bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify telegram bot: %w", err)
	}
	log.Printf("[Announce] Posting approvals as @%s to channel %d", me.Username, a.channelID)
	return nil
}

// IdeaApproved posts the idea title and optional reviewer comment.
// Failures are reported to Sentry and returned.
func (a *Announcer) IdeaApproved(ctx context.Context, idea models.Idea, comment string) error {
	logPrefix := fmt.Sprintf("[Announce Idea:%s]", idea.ID)

	_, err := a.bot.SendMessage(ctx, tu.Message(tu.ID(a.channelID), a.text(idea, comment)).
		WithParseMode(telego.ModeHTML))
	if err != nil {
		err = fmt.Errorf("%s failed to post approval: %w", logPrefix, err)
		log.Println(err)
		sentry.CaptureException(err)
		return err
	}
	log.Printf("%s Approval posted to channel %d", logPrefix, a.channelID)
	return nil
}

func (a *Announcer) text(idea models.Idea, comment string) string {
	var b strings.Builder
	b.WriteString("<b>")
	b.WriteString(a.msgs.T("AnnounceIdeaApproved", map[string]interface{}{"Title": html.EscapeString(idea.Title)}))
	b.WriteString("</b>")
	if desc := strings.TrimSpace(idea.Description); desc != "" {
		b.WriteString("\n\n")
		b.WriteString(html.EscapeString(desc))
	}
	if len(idea.Tags) > 0 {
		b.WriteString("\n\n")
		for i, tag := range idea.Tags {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString("#" + html.EscapeString(strings.ReplaceAll(tag, " ", "_")))
		}
	}
	if comment = strings.TrimSpace(comment); comment != "" {
		b.WriteString("\n\n<i>")
		b.WriteString(a.msgs.T("AnnounceFeedbackComment", map[string]interface{}{"Comment": html.EscapeString(comment)}))
		b.WriteString("</i>")
	}
	return b.String()
}
