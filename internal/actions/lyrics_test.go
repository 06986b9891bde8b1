package actions

import (
	"errors"
	"testing"
	"time"

	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/state"
)

func withLyrics(s state.AppState, data model.Lyrics) state.AppState {
	s.Player.CurrentItem.Lyrics = &state.LyricsState{Data: data, Mode: state.LyricsPlain, KaraokeTrack: state.KaraokeVocal}
	return s
}

func TestChangeLyricsMode_Preconditions(t *testing.T) {
	karaoke := &model.KaraokeData{Lines: []model.KaraokeLine{{Start: 0, End: time.Second, Text: "la"}}}
	tests := []struct {
		name   string
		lyrics *model.Lyrics
		mode   state.LyricsMode
		track  state.KaraokeTrack
	}{
		{"no lyrics", nil, state.LyricsPlain, ""},
		{"no karaoke timing", &model.Lyrics{TrackID: "t1", Plain: "la"}, state.LyricsKaraoke, state.KaraokeVocal},
		{"no backing audio", &model.Lyrics{TrackID: "t1", Karaoke: karaoke}, state.LyricsKaraoke, state.KaraokeBacking},
		{"unknown mode", &model.Lyrics{TrackID: "t1"}, "opera", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := playing([]string{"t1"}, 0, 20*time.Second)
			if tt.lyrics != nil {
				s = withLyrics(s, *tt.lyrics)
			}
			_, err := ChangeLyricsMode{Mode: tt.mode, KaraokeTrack: tt.track}.Perform(s)
			if !errors.Is(err, dispatch.ErrPrecondition) {
				t.Fatalf("err = %v, want precondition", err)
			}
		})
	}
}

func TestChangeLyricsMode_RestartsOnAudioSwitch(t *testing.T) {
	data := model.Lyrics{
		TrackID:    "t1",
		Karaoke:    &model.KaraokeData{Lines: []model.KaraokeLine{{Text: "la"}}},
		BackingURL: "https://cdn/backing.mp3",
	}
	s := withLyrics(playing([]string{"t1"}, 0, 20*time.Second), data)

	// Plain to vocal karaoke keeps the same audio.
	s, err := ChangeLyricsMode{Mode: state.LyricsKaraoke}.Perform(s)
	if err != nil {
		t.Fatalf("ChangeLyricsMode returned error: %v", err)
	}
	if s.Player.CurrentItem.State.Progress != 20*time.Second {
		t.Fatalf("progress = %v, want 20s", s.Player.CurrentItem.State.Progress)
	}
	if s.Player.CurrentItem.Lyrics.KaraokeTrack != state.KaraokeVocal {
		t.Fatalf("karaoke track = %q, want vocal", s.Player.CurrentItem.Lyrics.KaraokeTrack)
	}

	s, err = ChangeLyricsMode{Mode: state.LyricsKaraoke, KaraokeTrack: state.KaraokeBacking}.Perform(s)
	if err != nil {
		t.Fatalf("ChangeLyricsMode returned error: %v", err)
	}
	if st := s.Player.CurrentItem.State; st.Progress != 0 || !st.SkipSeek {
		t.Fatalf("item state = %+v, want restart at zero", st)
	}
}

func TestPrepareLyrics(t *testing.T) {
	catalog := &fakeCatalog{lyrics: map[string]model.Lyrics{"t1": {Plain: "la la"}}}
	env := &Env{Catalog: catalog}
	s := playing([]string{"t1"}, 0, 0)

	emitted, err := perform(t, PrepareLyrics{Env: env}, s)
	if err != nil {
		t.Fatalf("PrepareLyrics returned error: %v", err)
	}
	got := last(t, emitted)
	l := got.Player.CurrentItem.Lyrics
	if l == nil || l.Data.TrackID != "t1" || l.Mode != state.LyricsPlain {
		t.Fatalf("lyrics = %+v, want plain lyrics for t1", l)
	}

	if _, err := perform(t, PrepareLyrics{Env: env}, got); err != nil {
		t.Fatalf("PrepareLyrics returned error: %v", err)
	}
	if catalog.lyricCalls != 1 {
		t.Fatalf("lyrics fetched %d times, want 1", catalog.lyricCalls)
	}
}

func TestPrepareLyrics_SkipsInstrumental(t *testing.T) {
	catalog := &fakeCatalog{}
	s := playing([]string{"t1"}, 0, 0)
	s.Player.Tracks[0].Track.IsInstrumental = true

	emitted, err := perform(t, PrepareLyrics{Env: &Env{Catalog: catalog}}, s)
	if err != nil || len(emitted) != 0 || catalog.lyricCalls != 0 {
		t.Fatalf("instrumental track fetched lyrics (emitted=%d calls=%d err=%v)", len(emitted), catalog.lyricCalls, err)
	}
}
