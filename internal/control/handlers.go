package control

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/queue"
	"github.com/five82/encore/internal/state"
)

type accepted struct {
	Action string `json:"action"`
}

func (s *Server) accept(w http.ResponseWriter, e dispatch.Envelope) {
	s.Dispatcher.Dispatch(e)
	respondWithJSON(w, http.StatusAccepted, accepted{Action: e.Name})
}

func (s *Server) handleDispatch(build func() dispatch.Envelope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.accept(w, build())
	}
}

func (s *Server) handleState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, NewStateView(s.Dispatcher.State()))
	}
}

func (s *Server) handleSeek() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seconds, err := strconv.ParseFloat(r.URL.Query().Get("to"), 64)
		if err != nil || seconds < 0 {
			http.Error(w, "to must be a non-negative number of seconds", http.StatusBadRequest)
			return
		}
		s.accept(w, s.Actions.Scrub(time.Duration(seconds*float64(time.Second))))
	}
}

func (s *Server) handlePlayTrack() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hash := queue.OrderHash(chi.URLParam(r, "hash"))
		if hash == "" {
			http.Error(w, "missing order hash", http.StatusBadRequest)
			return
		}
		s.accept(w, s.Actions.PrepareNewTrackByHash(hash))
	}
}

func (s *Server) handlePlayPlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := 0
		if raw := r.URL.Query().Get("start"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				http.Error(w, "start must be a non-negative index", http.StatusBadRequest)
				return
			}
			start = n
		}
		s.accept(w, s.Actions.PlayPlaylist(chi.URLParam(r, "id"), start))
	}
}

type lyricsModeRequest struct {
	Mode         state.LyricsMode   `json:"mode"`
	KaraokeTrack state.KaraokeTrack `json:"karaokeTrack"`
}

func (s *Server) handleLyricsMode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req lyricsModeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Log.Warn().Err(err).Msg("decode lyrics mode request")
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if req.Mode != state.LyricsPlain && req.Mode != state.LyricsKaraoke {
			http.Error(w, "mode must be plain or karaoke", http.StatusBadRequest)
			return
		}
		s.accept(w, s.Actions.ChangeLyricsMode(req.Mode, req.KaraokeTrack))
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
