package state

import (
	"slices"

	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/queue"
)

// Equal reports whether two snapshots are structurally equal. Nil and empty
// slices compare equal.
func (s AppState) Equal(o AppState) bool {
	return userEqual(s.User, o.User) && s.Player.equal(o.Player)
}

func (p PlayerState) equal(o PlayerState) bool {
	return p.IsBlocked == o.IsBlocked &&
		p.LastChangeSignature == o.LastChangeSignature &&
		slices.Equal(p.Tracks, o.Tracks) &&
		itemEqual(p.CurrentItem, o.CurrentItem) &&
		slices.EqualFunc(p.MyPlaylists, o.MyPlaylists, playlistEqual) &&
		patchEqual(p.LastPatch, o.LastPatch)
}

func userEqual(a, b *model.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID &&
		a.Email == b.Email &&
		a.DisplayName == b.DisplayName &&
		a.IsGuest == b.IsGuest &&
		a.Profile.HasSubscription == b.Profile.HasSubscription &&
		slices.Equal(a.Profile.PurchasedTrackIDs, b.Profile.PurchasedTrackIDs) &&
		slices.Equal(a.Profile.FollowedArtistIDs, b.Profile.FollowedArtistIDs)
}

func itemEqual(a, b *CurrentItem) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ActiveTrackHash == b.ActiveTrackHash &&
		a.Preparing == b.Preparing &&
		a.State == b.State &&
		slices.Equal(a.Addons, b.Addons) &&
		lyricsEqual(a.Lyrics, b.Lyrics)
}

func lyricsEqual(a, b *LyricsState) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Mode != b.Mode || a.KaraokeTrack != b.KaraokeTrack {
		return false
	}
	da, db := a.Data, b.Data
	if da.TrackID != db.TrackID || da.Plain != db.Plain || da.BackingURL != db.BackingURL {
		return false
	}
	if da.Karaoke == nil || db.Karaoke == nil {
		return da.Karaoke == db.Karaoke
	}
	return slices.Equal(da.Karaoke.Lines, db.Karaoke.Lines)
}

func playlistEqual(a, b model.Playlist) bool {
	return a.ID == b.ID && a.Title == b.Title && slices.Equal(a.TrackIDs, b.TrackIDs)
}

func patchEqual(a, b *queue.Patch) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID &&
		a.Op == b.Op &&
		a.After == b.After &&
		a.ShouldFlush == b.ShouldFlush &&
		slices.Equal(a.Tracks, b.Tracks) &&
		slices.Equal(a.Keys, b.Keys)
}
