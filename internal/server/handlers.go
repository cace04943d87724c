package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jfmyers9/tracklist/internal/metrics"
	"github.com/jfmyers9/tracklist/internal/playlist"
	"github.com/rs/zerolog/hlog"
)

// playlistResponse is the body of GET /playlists/{guid}.
type playlistResponse struct {
	Playlist   *playlist.Playlist `json:"playlist"`
	Unresolved []unresolvedItem   `json:"unresolved"`
	Saved      bool               `json:"saved"`
}

type unresolvedItem struct {
	Index    int    `json:"index"`
	FeedGUID string `json:"feedGuid"`
	ItemGUID string `json:"itemGuid"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "tracklist",
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.catalog.Feed(r.Context(), chi.URLParam(r, "guid"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (s *Server) handleAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.catalog.Album(r.Context(), chi.URLParam(r, "guid"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

// handlePlaylist resolves a playlist. ?save=true stores the snapshot in
// the library.
func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	guid := chi.URLParam(r, "guid")

	start := time.Now()
	result, err := s.resolver.Resolve(r.Context(), guid)
	metrics.ObserveResolution(result, err, time.Since(start))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	resp := playlistResponse{
		Playlist:   result.Playlist,
		Unresolved: []unresolvedItem{},
	}
	for _, o := range result.Unresolved() {
		item := unresolvedItem{Index: o.Index, FeedGUID: o.Pointer.FeedGUID, ItemGUID: o.Pointer.ItemGUID}
		if o.Err != nil {
			item.Error = o.Err.Error()
		}
		resp.Unresolved = append(resp.Unresolved, item)
	}

	if save, _ := strconv.ParseBool(r.URL.Query().Get("save")); save && s.library != nil {
		if err := s.library.Save(r.Context(), result, time.Now()); err != nil {
			s.writeFailure(w, r, err)
			return
		}
		resp.Saved = true
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.catalog.SearchMusic(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLibraryList(w http.ResponseWriter, r *http.Request) {
	if s.library == nil {
		writeError(w, http.StatusNotFound, "library is not enabled")
		return
	}

	summaries, err := s.library.List(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleLibraryGet(w http.ResponseWriter, r *http.Request) {
	if s.library == nil {
		writeError(w, http.StatusNotFound, "library is not enabled")
		return
	}

	snap, err := s.library.Get(r.Context(), chi.URLParam(r, "guid"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// writeFailure logs err and writes it with the status from statusFor.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	event := hlog.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
	}
	event.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("Request failed")

	writeError(w, status, err.Error())
}
