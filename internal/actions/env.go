package actions

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/five82/encore/internal/api"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/state"
)

// AddonReporter is told when an interstitial finished playing.
type AddonReporter interface {
	ReportAddonPlayed(ctx context.Context, addon model.Addon) error
}

// Reporters fans a report out to several reporters.
type Reporters []AddonReporter

// ReportAddonPlayed calls every reporter and joins their errors.
func (r Reporters) ReportAddonPlayed(ctx context.Context, addon model.Addon) error {
	var errs []error
	for _, rep := range r {
		if rep == nil {
			continue
		}
		if err := rep.ReportAddonPlayed(ctx, addon); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Follower changes artist follows on the backend.
type Follower interface {
	SetFollowing(ctx context.Context, artistID string, follow bool) error
}

// TrackSource resolves a playlist to its tracks.
type TrackSource interface {
	FetchPlaylistTracks(ctx context.Context, playlistID string) ([]model.Track, error)
}

// ArtifactCache owns downloaded files.
type ArtifactCache interface {
	ClearArtifacts() error
}

// PageStore owns locally persisted page state.
type PageStore interface {
	ResetPages() error
}

// Env holds the collaborators actions call into. Nil collaborators are
// skipped.
type Env struct {
	Self      state.Signature
	Catalog   api.Catalog
	Tracks    TrackSource
	Reporter  AddonReporter
	Follower  Follower
	Artifacts ArtifactCache
	Pages     PageStore
	Log       zerolog.Logger
}

func (e *Env) reportAddon(ctx context.Context, addon model.Addon) {
	if e == nil || e.Reporter == nil {
		return
	}
	if err := e.Reporter.ReportAddonPlayed(ctx, addon); err != nil {
		e.Log.Warn().Err(err).Str("addon", addon.ID).Msg("addon report failed")
	}
}

func (e *Env) catalog() api.Catalog {
	if e == nil {
		return nil
	}
	return e.Catalog
}

func (e *Env) self() state.Signature {
	if e == nil {
		return ""
	}
	return e.Self
}
