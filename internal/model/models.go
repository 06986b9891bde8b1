// Package model holds the catalog records the player core works with.
package model

import (
	"slices"
	"time"
)

// Track represents a playable song.
type Track struct {
	ID                string
	Title             string
	Artist            string
	ArtistID          string
	AlbumID           string
	Duration          time.Duration
	IsPlayable        bool
	IsInstrumental    bool
	PreviewRestricted bool // short preview window for guests and non-purchasers
}

// AddonKind distinguishes interstitial content.
type AddonKind string

const (
	AddonAd           AddonKind = "ad"
	AddonAnnouncement AddonKind = "announcement"
)

// Addon is interstitial audio played before the track it is attached to.
type Addon struct {
	ID       string
	Kind     AddonKind
	Title    string
	URL      string
	Duration time.Duration
}

// KaraokeLine is one timed line of karaoke lyrics.
type KaraokeLine struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// KaraokeData carries the timing needed for karaoke highlighting.
type KaraokeData struct {
	Lines []KaraokeLine
}

// Lyrics is the lyrics payload for a single track.
type Lyrics struct {
	TrackID    string
	Plain      string
	Karaoke    *KaraokeData
	BackingURL string // instrumental audio used for karaoke sing-along
}

// HasKaraoke reports whether timed karaoke lines are available.
func (l Lyrics) HasKaraoke() bool {
	return l.Karaoke != nil && len(l.Karaoke.Lines) > 0
}

// HasBacking reports whether a backing audio file exists.
func (l Lyrics) HasBacking() bool {
	return l.BackingURL != ""
}

// Playlist is a fan playlist owned by the user.
type Playlist struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	TrackIDs []string `json:"trackIds,omitempty"`
}

// Profile is the mutable part of a signed-in user.
type Profile struct {
	HasSubscription   bool     `json:"hasSubscription"`
	PurchasedTrackIDs []string `json:"purchasedTrackIds,omitempty"`
	FollowedArtistIDs []string `json:"followedArtistIds,omitempty"`
}

// User is either a guest or an authenticated account.
type User struct {
	ID          string  `json:"id"`
	Email       string  `json:"email,omitempty"`
	DisplayName string  `json:"displayName,omitempty"`
	IsGuest     bool    `json:"isGuest"`
	Profile     Profile `json:"profile"`
}

// IsAuthenticated reports whether u is a signed-in account.
func (u *User) IsAuthenticated() bool {
	return u != nil && !u.IsGuest
}

// Owns reports whether the user may play the full length of the track.
func (u *User) Owns(trackID string) bool {
	if !u.IsAuthenticated() {
		return false
	}
	return u.Profile.HasSubscription || slices.Contains(u.Profile.PurchasedTrackIDs, trackID)
}

// Follows reports whether the user follows the artist.
func (u *User) Follows(artistID string) bool {
	return u != nil && slices.Contains(u.Profile.FollowedArtistIDs, artistID)
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	dup := *u
	dup.Profile.PurchasedTrackIDs = slices.Clone(u.Profile.PurchasedTrackIDs)
	dup.Profile.FollowedArtistIDs = slices.Clone(u.Profile.FollowedArtistIDs)
	return &dup
}
