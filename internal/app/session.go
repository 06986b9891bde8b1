package app

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/five82/encore/internal/actions"
	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/state"
)

// sessionPage is the page key holding the signed-in account. Signing out
// resets every page, so a guest never finds it.
const sessionPage = "session"

type pageStore interface {
	SavePage(ctx context.Context, key, value string) error
	LoadPage(ctx context.Context, key string) (string, bool, error)
}

// restoreSession signs the account saved by a previous run back in.
func restoreSession(ctx context.Context, pages pageStore, d interface{ Dispatch(dispatch.Envelope) }, acts *actions.Actions, logger zerolog.Logger) {
	raw, ok, err := pages.LoadPage(ctx, sessionPage)
	if err != nil {
		logger.Warn().Err(err).Msg("load saved session")
		return
	}
	if !ok {
		return
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || !u.IsAuthenticated() {
		logger.Warn().Err(err).Msg("ignoring unreadable saved session")
		return
	}
	d.Dispatch(acts.SetNewUser(&u))
}

// persistSession saves the signed-in account whenever it changes.
func persistSession(pages pageStore, logger zerolog.Logger) func(prev, next state.AppState) {
	return func(prev, next state.AppState) {
		if !next.User.IsAuthenticated() {
			return
		}
		value, err := json.Marshal(next.User)
		if err != nil {
			logger.Warn().Err(err).Msg("encode session")
			return
		}
		if before, err := json.Marshal(prev.User); err == nil && string(before) == string(value) {
			return
		}
		if err := pages.SavePage(context.Background(), sessionPage, string(value)); err != nil {
			logger.Warn().Err(err).Msg("save session")
		}
	}
}
