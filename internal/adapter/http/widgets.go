package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/bloomwatch/internal/animation"
)

type widgetResponse struct {
	ID        string          `json:"id"`
	MountedAt time.Time       `json:"mounted_at"`
	State     animation.State `json:"state"`
	Stage     stageDetail     `json:"stage_info"`
}

type stageDetail struct {
	Description string `json:"description"`
	Color       string `json:"color"`
}

type speedRequest struct {
	Speed   string `json:"speed,omitempty"`
	SpeedMs int64  `json:"speed_ms,omitempty"`
}

var speedPresets = map[string]time.Duration{
	"slow":   animation.SpeedSlow,
	"normal": animation.SpeedNormal,
	"fast":   animation.SpeedFast,
}

func newWidgetResponse(w *animation.Widget) widgetResponse {
	st := w.Cycle.State()
	info := st.Stage.Info()
	return widgetResponse{
		ID:        w.ID,
		MountedAt: w.MountedAt,
		State:     st,
		Stage:     stageDetail{Description: info.Description, Color: info.Color},
	}
}

func (s *Server) handleMountWidget(w http.ResponseWriter, r *http.Request) {
	widget, err := s.deps.Widgets.Mount()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/widgets/"+widget.ID)
	respond(w, r, http.StatusCreated, newWidgetResponse(widget))
}

func (s *Server) handleWidgetState(w http.ResponseWriter, r *http.Request) {
	widget, err := s.deps.Widgets.Get(r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, newWidgetResponse(widget))
}

func (s *Server) handleUnmountWidget(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Widgets.Unmount(r.PathValue("id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWidgetCommand(w http.ResponseWriter, r *http.Request) {
	widget, err := s.deps.Widgets.Get(r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	c := widget.Cycle
	switch action := r.PathValue("action"); action {
	case "play":
		err = c.Play()
	case "pause":
		err = c.Pause()
	case "reset":
		err = c.Reset()
	case "next":
		err = c.Advance(1)
	case "previous":
		err = c.Advance(-1)
	default:
		respond(w, r, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown command %q", action)})
		return
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, newWidgetResponse(widget))
}

func (s *Server) handleWidgetSpeed(w http.ResponseWriter, r *http.Request) {
	widget, err := s.deps.Widgets.Get(r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req speedRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	speed, err := req.duration()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := widget.Cycle.SetSpeed(speed); err != nil {
		s.respondError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, newWidgetResponse(widget))
}

func (req speedRequest) duration() (time.Duration, error) {
	switch {
	case req.Speed != "" && req.SpeedMs != 0:
		return 0, fmt.Errorf("%w: set either speed or speed_ms", errBadRequest)
	case req.Speed != "":
		d, ok := speedPresets[strings.ToLower(req.Speed)]
		if !ok {
			return 0, fmt.Errorf("%w: unknown speed %q", errBadRequest, req.Speed)
		}
		return d, nil
	case req.SpeedMs < animation.MinSpeed.Milliseconds() || req.SpeedMs > animation.MaxSpeed.Milliseconds():
		return 0, fmt.Errorf("%w: speed_ms must be between %d and %d", errBadRequest,
			animation.MinSpeed.Milliseconds(), animation.MaxSpeed.Milliseconds())
	default:
		return time.Duration(req.SpeedMs) * time.Millisecond, nil
	}
}

func (s *Server) handleWidgetFrame(w http.ResponseWriter, r *http.Request) {
	widget, err := s.deps.Widgets.Get(r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeFrame(w, r, widget.Canvas)
}

func (s *Server) handleViewerFrame(w http.ResponseWriter, r *http.Request) {
	s.writeFrame(w, r, s.deps.Viewer)
}

func (s *Server) writeFrame(w http.ResponseWriter, r *http.Request, fw FrameWriter) {
	var buf bytes.Buffer
	if err := fw.WriteSVG(&buf, s.deps.Theme.Current().Palette().Background); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}
