package control

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/five82/encore/internal/actions"
	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/state"
)

// Dispatcher is the part of dispatch.Dispatcher the server needs.
type Dispatcher interface {
	Dispatch(e dispatch.Envelope)
	State() state.AppState
}

// Server translates HTTP requests into dispatched actions.
type Server struct {
	Dispatcher Dispatcher
	Actions    *actions.Actions
	Downloads  Downloads
	Log        zerolog.Logger
}

// NewRouter builds the control API. The download index routes are only
// mounted when downloads is non-nil.
func NewRouter(d Dispatcher, acts *actions.Actions, downloads Downloads, log zerolog.Logger) http.Handler {
	srv := &Server{
		Dispatcher: d,
		Actions:    acts,
		Downloads:  downloads,
		Log:        log.With().Str("component", "control").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(srv.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", srv.handleState())

		r.Route("/player", func(r chi.Router) {
			r.Post("/play", srv.handleDispatch(acts.Play))
			r.Post("/pause", srv.handleDispatch(acts.Pause))
			r.Post("/toggle", srv.handleDispatch(acts.Switch))
			r.Post("/next", srv.handleDispatch(acts.ProceedToNextItem))
			r.Post("/previous", srv.handleDispatch(acts.GetBackToPreviousItem))
			r.Post("/seek", srv.handleSeek())
			r.Post("/track/{hash}", srv.handlePlayTrack())
		})

		r.Route("/session", func(r chi.Router) {
			r.Post("/", srv.handleSignIn())
			r.Delete("/", srv.handleSignOut())
			r.Post("/purchases/{trackID}", srv.handlePurchase())
		})

		r.Put("/artists/{id}/follow", srv.handleFollow(true))
		r.Delete("/artists/{id}/follow", srv.handleFollow(false))

		r.Route("/queue", func(r chi.Router) {
			r.Post("/", srv.handleEnqueue())
			r.Delete("/{hash}", srv.handleDequeue())
			r.Post("/{hash}/move", srv.handleMove())
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Put("/", srv.handleSetPlaylists())
			r.Post("/", srv.handleInsertPlaylist())
			r.Put("/{id}", srv.handleReplacePlaylist())
			r.Delete("/{id}", srv.handleRemovePlaylist())
			r.Post("/{id}/play", srv.handlePlayPlaylist())
		})

		if downloads != nil {
			r.Get("/downloads", srv.handleListDownloads())
			r.Post("/downloads", srv.handleRecordDownload())
		}

		r.Route("/lyrics", func(r chi.Router) {
			r.Post("/mode", srv.handleLyricsMode())
			r.Post("/prepare", srv.handleDispatch(acts.PrepareLyrics))
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("control request")
	})
}
