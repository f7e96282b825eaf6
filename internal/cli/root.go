// Package cli is the thinktank command tree. Each command drives one
// screen holder operation and prints the resulting state.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"thinktank/internal/activity"
	"thinktank/internal/api"
	"thinktank/internal/auth"
	"thinktank/internal/config"
	"thinktank/internal/locales"
	"thinktank/internal/screens"
	"thinktank/internal/tokenstore"
)

// HistorySource lists recorded actions for a user.
type HistorySource interface {
	Recent(ctx context.Context, userID int, limit int64) ([]activity.Entry, error)
}

// Deps are the collaborators built by main.
type Deps struct {
	Config   *config.Config
	Tokens   tokenstore.Store
	Actions  activity.Logger
	History  HistorySource    // nil without MongoDB
	Notifier screens.Notifier // nil without Telegram
	Out      io.Writer
	Err      io.Writer
}

// CommandError carries the user-facing message of a failed command.
type CommandError struct {
	Message string
	Err     error
}

func (e *CommandError) Error() string { return e.Message }
func (e *CommandError) Unwrap() error { return e.Err }

// fail wraps err with the holder's state error when there is one.
func fail(err error, stateErr string) error {
	if err == nil {
		return nil
	}
	msg := strings.TrimSpace(stateErr)
	if msg == "" {
		msg = err.Error()
	}
	return &CommandError{Message: msg, Err: err}
}

type app struct {
	deps   Deps
	client *api.Client
	admin  auth.AdminCheckerInterface
	msgs   *locales.Translator
	out    printer
	server string
	lang   string
}

// NewRootCmd builds the command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	a := &app{deps: deps}

	root := &cobra.Command{
		Use:           "thinktank",
		Short:         "Submit ideas and review them on a ThinkTank server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	root.SetOut(deps.Out)
	root.SetErr(deps.Err)

	flags := root.PersistentFlags()
	flags.BoolVar(&a.out.json, "json", false, "print results as JSON")
	flags.StringVar(&a.server, "server", "", "override THINKTANK_API_URL")
	flags.StringVar(&a.lang, "lang", "", "message language (default from LANGUAGE)")

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.dashboardCmd(),
		a.ideasCmd(),
		a.submitCmd(),
		a.editCmd(),
		a.reviewCmd(),
		a.profileCmd(),
		a.historyCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg := a.deps.Config
	if cfg == nil {
		return errors.New("configuration is missing")
	}
	baseURL := cfg.APIURL
	if a.server != "" {
		baseURL = strings.TrimRight(a.server, "/")
	}
	client, err := api.New(api.Options{
		BaseURL:           baseURL,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Tokens:            a.deps.Tokens,
		Debug:             cfg.Debug,
	})
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}
	a.client = client

	admin, err := auth.NewAdminChecker(a.deps.Tokens)
	if err != nil {
		return err
	}
	a.admin = admin

	lang := a.lang
	if lang == "" {
		lang = cfg.Language
	}
	a.msgs = locales.NewTranslator(lang)
	a.out.w = a.deps.Out
	if a.deps.Actions == nil {
		a.deps.Actions = activity.NopLogger{}
	}
	return nil
}

// Reportable reports whether err is worth sending to Sentry. Input,
// session, connectivity and 4xx problems are the user's to fix.
func Reportable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	for _, expected := range []error{tokenstore.ErrNoToken, screens.ErrNotAuthenticated, errAdminOnly, errNotConfirmed, errHistoryDisabled} {
		if errors.Is(err, expected) {
			return false
		}
	}
	switch api.Classify(err) {
	case api.KindValidation, api.KindAuth, api.KindNetwork:
		return false
	}
	if code := api.StatusCode(err); code >= 400 && code < 500 {
		return false
	}
	var cmdErr *CommandError
	// anything else comes from cobra: unknown commands and bad flags
	return errors.As(err, &cmdErr)
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, deps Deps, args []string) error {
	root := NewRootCmd(deps)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
