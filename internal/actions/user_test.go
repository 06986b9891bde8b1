package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/state"
)

type cleanupRecorder struct {
	artifacts, pages int
}

func (c *cleanupRecorder) ClearArtifacts() error { c.artifacts++; return nil }
func (c *cleanupRecorder) ResetPages() error     { c.pages++; return nil }

type followRecorder struct {
	calls []string
	err   error
}

func (f *followRecorder) SetFollowing(_ context.Context, artistID string, follow bool) error {
	if f.err != nil {
		return f.err
	}
	if follow {
		f.calls = append(f.calls, "+"+artistID)
	} else {
		f.calls = append(f.calls, "-"+artistID)
	}
	return nil
}

func TestSetNewUser_SignOutClearsStorage(t *testing.T) {
	rec := &cleanupRecorder{}
	env := &Env{Artifacts: rec, Pages: rec}
	account := &model.User{ID: "u1", Email: "fan@example.com"}

	s, _ := SetNewUser{User: account, Env: env}.Perform(state.Init(self))
	if rec.artifacts != 0 {
		t.Fatalf("sign-in cleared artifacts")
	}

	s, _ = SetNewUser{User: &model.User{IsGuest: true}, Env: env}.Perform(s)
	if rec.artifacts != 1 || rec.pages != 1 {
		t.Fatalf("cleanup calls = (%d, %d), want (1, 1)", rec.artifacts, rec.pages)
	}
	if s.User.IsAuthenticated() {
		t.Fatalf("user still authenticated after sign-out")
	}

	// Guest to guest is not a sign-out.
	_, _ = SetNewUser{User: nil, Env: env}.Perform(s)
	if rec.artifacts != 1 {
		t.Fatalf("guest replacement cleared artifacts again")
	}
}

func TestSetNewUser_FirstGuestClearsStorage(t *testing.T) {
	rec := &cleanupRecorder{}
	env := &Env{Artifacts: rec, Pages: rec}

	s, _ := SetNewUser{User: nil, Env: env}.Perform(state.Init(self))
	if rec.artifacts != 0 {
		t.Fatalf("nobody to nobody cleared artifacts")
	}
	_, _ = SetNewUser{User: &model.User{IsGuest: true}, Env: env}.Perform(s)
	if rec.artifacts != 1 || rec.pages != 1 {
		t.Fatalf("cleanup calls = (%d, %d), want (1, 1)", rec.artifacts, rec.pages)
	}
}

func TestSetNewUser_CopiesUser(t *testing.T) {
	u := &model.User{ID: "u1", Profile: model.Profile{PurchasedTrackIDs: []string{"t1"}}}
	s, _ := SetNewUser{User: u}.Perform(state.Init(self))
	u.Profile.PurchasedTrackIDs[0] = "changed"
	if s.User.Profile.PurchasedTrackIDs[0] != "t1" {
		t.Fatalf("state shares the caller's profile slice")
	}
}

func TestFollowArtist(t *testing.T) {
	rec := &followRecorder{}
	env := &Env{Follower: rec}
	s := state.Init(self)
	s.User = &model.User{ID: "u1"}

	emitted, err := perform(t, FollowArtist{ArtistID: "ar1", Follow: true, Env: env}, s)
	if err != nil {
		t.Fatalf("FollowArtist returned error: %v", err)
	}
	s = last(t, emitted)
	if !s.User.Follows("ar1") {
		t.Fatalf("profile does not follow ar1")
	}

	emitted, _ = perform(t, FollowArtist{ArtistID: "ar1", Follow: false, Env: env}, s)
	if last(t, emitted).User.Follows("ar1") {
		t.Fatalf("profile still follows ar1")
	}
	if len(rec.calls) != 2 || rec.calls[0] != "+ar1" || rec.calls[1] != "-ar1" {
		t.Fatalf("calls = %v, want [+ar1 -ar1]", rec.calls)
	}

	s.User.IsGuest = true
	emitted, _ = perform(t, FollowArtist{ArtistID: "ar2", Follow: true, Env: env}, s)
	if len(emitted) != 0 || len(rec.calls) != 2 {
		t.Fatalf("guest follow reached the backend")
	}
}

func TestPlaylists(t *testing.T) {
	s := state.Init(self)
	s, _ = SetPlaylists{Playlists: []model.Playlist{{ID: "a"}, {ID: "b"}}}.Perform(s)
	s, _ = InsertPlaylist{Playlist: model.Playlist{ID: "c"}, Index: 99}.Perform(s)
	s, _ = InsertPlaylist{Playlist: model.Playlist{ID: "b", Title: "moved"}, Index: 0}.Perform(s)
	s, _ = ReplacePlaylist{Playlist: model.Playlist{ID: "a", Title: "renamed"}}.Perform(s)
	s, _ = RemovePlaylist{ID: "c"}.Perform(s)

	lists := s.Player.MyPlaylists
	if len(lists) != 2 || lists[0].ID != "b" || lists[1].ID != "a" || lists[1].Title != "renamed" {
		t.Fatalf("playlists = %+v, want [b a(renamed)]", lists)
	}
}

func TestFollowArtist_BackendFailureIsNotAFault(t *testing.T) {
	env := &Env{Follower: &followRecorder{err: errors.New("503")}}
	s := state.Init(self)
	s.User = &model.User{ID: "u1"}

	emitted, err := perform(t, FollowArtist{ArtistID: "ar1", Follow: true, Env: env}, s)
	if err != nil {
		t.Fatalf("FollowArtist returned error: %v", err)
	}
	if len(emitted) != 0 {
		t.Fatalf("failed follow emitted %d states, want none", len(emitted))
	}
}

type playlistSource map[string][]model.Track

func (p playlistSource) FetchPlaylistTracks(_ context.Context, id string) ([]model.Track, error) {
	return p[id], nil
}

func TestPlayPlaylist(t *testing.T) {
	env := &Env{Self: self, Catalog: &fakeCatalog{}, Tracks: playlistSource{"p1": tracks("a", "b", "c")}}

	emitted, err := perform(t, PlayPlaylist{PlaylistID: "p1", StartIndex: 7, Env: env}, state.Init(self))
	if err != nil {
		t.Fatalf("PlayPlaylist returned error: %v", err)
	}
	got := last(t, emitted)
	mustCheck(t, got)
	if len(got.Player.Tracks) != 3 {
		t.Fatalf("queue length = %d, want 3", len(got.Player.Tracks))
	}
	if id := activeID(t, got); id != "c" {
		t.Fatalf("active track = %q, want clamped start c", id)
	}

	emitted, err = perform(t, PlayPlaylist{PlaylistID: "missing", Env: env}, got)
	if err != nil || len(emitted) != 0 {
		t.Fatalf("empty playlist: emitted %d states, err %v; want no-op", len(emitted), err)
	}

	_, err = perform(t, PlayPlaylist{PlaylistID: "p1", Env: &Env{}}, state.Init(self))
	if !errors.Is(err, dispatch.ErrPrecondition) {
		t.Fatalf("missing source error = %v, want precondition", err)
	}
}
