package actions

import (
	"context"
	"slices"

	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/state"
)

// SetNewUser replaces the user. Any transition to a guest, whether signing
// out or the first user being a guest, clears downloaded artifacts and
// persisted pages before the new state is returned.
type SetNewUser struct {
	User *model.User
	Env  *Env
}

// Perform installs a copy of User.
func (a SetNewUser) Perform(s state.AppState) (state.AppState, error) {
	wasGuest := s.User != nil && !s.User.IsAuthenticated()
	signedOut := !a.User.IsAuthenticated() && !wasGuest && (s.User != nil || a.User != nil)
	s.User = a.User.Clone()
	if signedOut && a.Env != nil {
		if a.Env.Artifacts != nil {
			if err := a.Env.Artifacts.ClearArtifacts(); err != nil {
				a.Env.Log.Warn().Err(err).Msg("clear downloaded artifacts")
			}
		}
		if a.Env.Pages != nil {
			if err := a.Env.Pages.ResetPages(); err != nil {
				a.Env.Log.Warn().Err(err).Msg("reset page storage")
			}
		}
	}
	return s, nil
}

// UpdateUser applies Mutate to the user's profile. Without a user it does
// nothing.
type UpdateUser struct {
	Mutate func(*model.Profile)
}

// Perform applies Mutate to a copy of the profile.
func (a UpdateUser) Perform(s state.AppState) (state.AppState, error) {
	if s.User == nil || a.Mutate == nil {
		return s, nil
	}
	u := s.User.Clone()
	a.Mutate(&u.Profile)
	s.User = u
	return s, nil
}

// FollowArtist follows or unfollows an artist on the backend and mirrors the
// result in the profile. A failed request is logged and leaves the profile
// alone; reporting it to the user is up to the front end.
type FollowArtist struct {
	ArtistID string
	Follow   bool
	Env      *Env
}

// Perform calls the backend, then updates the profile.
func (a FollowArtist) Perform(ctx context.Context, s state.AppState, emit func(state.AppState)) error {
	if !s.User.IsAuthenticated() || s.User.Follows(a.ArtistID) == a.Follow {
		return nil
	}
	if a.Env != nil && a.Env.Follower != nil {
		if err := a.Env.Follower.SetFollowing(ctx, a.ArtistID, a.Follow); err != nil {
			a.Env.Log.Warn().Err(err).Str("artist", a.ArtistID).Bool("follow", a.Follow).Msg("follow request failed")
			return nil
		}
	}
	next, err := UpdateUser{Mutate: func(p *model.Profile) {
		if a.Follow {
			p.FollowedArtistIDs = append(p.FollowedArtistIDs, a.ArtistID)
			return
		}
		p.FollowedArtistIDs = slices.DeleteFunc(p.FollowedArtistIDs, func(id string) bool { return id == a.ArtistID })
	}}.Perform(s)
	if err != nil {
		return err
	}
	emit(next)
	return nil
}
