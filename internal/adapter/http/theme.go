package http

import (
	"net/http"

	"github.com/couchcryptid/bloomwatch/internal/theme"
)

type themeBody struct {
	Theme   theme.Theme    `json:"theme"`
	Palette *theme.Palette `json:"palette,omitempty"`
}

func themeResponse(t theme.Theme) themeBody {
	p := t.Palette()
	return themeBody{Theme: t, Palette: &p}
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, themeResponse(s.deps.Theme.Current()))
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	t, err := s.deps.Theme.Set(req.Theme)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, themeResponse(t))
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, themeResponse(s.deps.Theme.Toggle()))
}
