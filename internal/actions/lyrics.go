package actions

import (
	"context"

	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/state"
)

// ChangeLyricsMode switches between plain and karaoke lyrics.
type ChangeLyricsMode struct {
	Mode         state.LyricsMode
	KaraokeTrack state.KaraokeTrack
}

// Perform requires loaded lyrics, karaoke timing for karaoke mode and a
// backing file for the backing track. Changing the audio that drives the
// display restarts playback from zero.
func (a ChangeLyricsMode) Perform(s state.AppState) (state.AppState, error) {
	item := s.Player.CurrentItem
	if item == nil || item.Lyrics == nil {
		return s, dispatch.Preconditionf("lyrics are not loaded for the current item")
	}
	lyrics := *item.Lyrics

	switch a.Mode {
	case state.LyricsPlain:
		lyrics.Mode = state.LyricsPlain
	case state.LyricsKaraoke:
		if !lyrics.Data.HasKaraoke() {
			return s, dispatch.Preconditionf("track %s has no karaoke metadata", lyrics.Data.TrackID)
		}
		track := a.KaraokeTrack
		if track == "" {
			track = state.KaraokeVocal
		}
		if track == state.KaraokeBacking && !lyrics.Data.HasBacking() {
			return s, dispatch.Preconditionf("track %s has no backing audio", lyrics.Data.TrackID)
		}
		lyrics.Mode = state.LyricsKaraoke
		lyrics.KaraokeTrack = track
	default:
		return s, dispatch.Preconditionf("unknown lyrics mode %q", a.Mode)
	}

	restart := audioTrack(*item.Lyrics) != audioTrack(lyrics)
	return updateItem(s, func(item *state.CurrentItem) {
		item.Lyrics = &lyrics
		if restart {
			item.State.Progress = 0
			item.State.SkipSeek = true
		}
	}), nil
}

// audioTrack is the audio that plays for a lyrics display mode.
func audioTrack(l state.LyricsState) state.KaraokeTrack {
	if l.Mode == state.LyricsKaraoke && l.KaraokeTrack == state.KaraokeBacking {
		return state.KaraokeBacking
	}
	return state.KaraokeVocal
}

// PrepareLyrics loads lyrics for the current track.
type PrepareLyrics struct {
	Env *Env
}

// Perform skips unplayable and instrumental tracks and tracks whose lyrics
// are already installed; otherwise it fetches lyrics and installs them in
// plain mode.
func (a PrepareLyrics) Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
	current, ok := s.CurrentTrack()
	if !ok {
		return nil
	}
	if !current.Track.IsPlayable || current.Track.IsInstrumental {
		return nil
	}
	if l := s.Player.CurrentItem.Lyrics; l != nil && l.Data.TrackID == current.Track.ID {
		return nil
	}
	catalog := a.Env.catalog()
	if catalog == nil {
		return nil
	}
	lyrics, err := catalog.FetchLyrics(ctx, current.Track.ID)
	if err != nil {
		return err
	}
	if lyrics.TrackID == "" {
		lyrics.TrackID = current.Track.ID
	}
	emit(updateItem(s, func(item *state.CurrentItem) {
		item.Lyrics = &state.LyricsState{Data: lyrics, Mode: state.LyricsPlain, KaraokeTrack: state.KaraokeVocal}
	}))
	return nil
}
