package control

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/five82/encore/internal/api"
	"github.com/five82/encore/internal/model"
	"github.com/five82/encore/internal/queue"
	"github.com/five82/encore/internal/storage"
)

// Downloads indexes files fetched by an external downloader so signing out
// can remove them.
type Downloads interface {
	RecordDownload(ctx context.Context, dl storage.Download) error
	Downloads(ctx context.Context) ([]storage.Download, error)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		s.Log.Warn().Err(err).Str("path", r.URL.Path).Msg("decode request")
		http.Error(w, "bad request", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleSignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var u model.User
		if !s.decode(w, r, &u) {
			return
		}
		if !u.IsGuest && u.ID == "" {
			http.Error(w, "an account needs an id", http.StatusBadRequest)
			return
		}
		s.accept(w, s.Actions.SetNewUser(&u))
	}
}

func (s *Server) handleSignOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.accept(w, s.Actions.SetNewUser(&model.User{IsGuest: true}))
	}
}

func (s *Server) handlePurchase() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackID := chi.URLParam(r, "trackID")
		s.accept(w, s.Actions.UpdateUser(func(p *model.Profile) {
			if !slices.Contains(p.PurchasedTrackIDs, trackID) {
				p.PurchasedTrackIDs = append(p.PurchasedTrackIDs, trackID)
			}
		}))
	}
}

func (s *Server) handleFollow(follow bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.accept(w, s.Actions.FollowArtist(chi.URLParam(r, "id"), follow))
	}
}

type enqueueRequest struct {
	Tracks []api.TrackPayload `json:"tracks"`
	After  queue.OrderHash    `json:"after,omitempty"`
	// Next inserts right after the current entry and ignores After.
	Next bool `json:"next,omitempty"`
}

func (s *Server) handleEnqueue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enqueueRequest
		if !s.decode(w, r, &req) {
			return
		}
		if len(req.Tracks) == 0 {
			http.Error(w, "no tracks", http.StatusBadRequest)
			return
		}
		tracks := make([]model.Track, len(req.Tracks))
		for i, t := range req.Tracks {
			tracks[i] = t.Model()
		}
		if req.Next {
			s.accept(w, s.Actions.PlayNext(tracks))
			return
		}
		s.accept(w, s.Actions.EnqueueTracks(tracks, req.After))
	}
}

func (s *Server) handleDequeue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.accept(w, s.Actions.RemoveFromQueue(queue.OrderHash(chi.URLParam(r, "hash"))))
	}
}

func (s *Server) handleMove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := queue.OrderHash(chi.URLParam(r, "hash"))
		after := queue.OrderHash(r.URL.Query().Get("after"))
		s.accept(w, s.Actions.MoveInQueue(key, after))
	}
}

func (s *Server) handleSetPlaylists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var lists []model.Playlist
		if !s.decode(w, r, &lists) {
			return
		}
		for _, p := range lists {
			if p.ID == "" {
				http.Error(w, "playlist id required", http.StatusBadRequest)
				return
			}
		}
		s.accept(w, s.Actions.SetPlaylists(lists))
	}
}

func (s *Server) handleInsertPlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index := 0
		if raw := r.URL.Query().Get("index"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "index must be an integer", http.StatusBadRequest)
				return
			}
			index = n
		}
		var p model.Playlist
		if !s.decode(w, r, &p) {
			return
		}
		if p.ID == "" {
			http.Error(w, "playlist id required", http.StatusBadRequest)
			return
		}
		s.accept(w, s.Actions.InsertPlaylist(p, index))
	}
}

func (s *Server) handleReplacePlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p model.Playlist
		if !s.decode(w, r, &p) {
			return
		}
		p.ID = chi.URLParam(r, "id")
		s.accept(w, s.Actions.ReplacePlaylist(p))
	}
}

func (s *Server) handleRemovePlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.accept(w, s.Actions.RemovePlaylist(chi.URLParam(r, "id")))
	}
}

// DownloadView is one entry of GET /api/downloads.
type DownloadView struct {
	TrackID string `json:"trackId"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`
}

func (s *Server) handleListDownloads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		downloads, err := s.Downloads.Downloads(r.Context())
		if err != nil {
			s.Log.Error().Err(err).Msg("list downloads")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]DownloadView, len(downloads))
		for i, dl := range downloads {
			out[i] = DownloadView{TrackID: dl.TrackID, Path: dl.Path, Size: dl.Size}
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleRecordDownload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DownloadView
		if !s.decode(w, r, &req) {
			return
		}
		if req.TrackID == "" || req.Path == "" {
			http.Error(w, "trackId and path required", http.StatusBadRequest)
			return
		}
		dl := storage.Download{TrackID: req.TrackID, Path: req.Path, Size: req.Size}
		if err := s.Downloads.RecordDownload(r.Context(), dl); err != nil {
			s.Log.Error().Err(err).Str("track", req.TrackID).Msg("record download")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		respondWithJSON(w, http.StatusCreated, req)
	}
}
