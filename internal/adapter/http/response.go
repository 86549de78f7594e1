package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/couchcryptid/bloomwatch/internal/animation"
	"github.com/couchcryptid/bloomwatch/internal/feed"
	"github.com/couchcryptid/bloomwatch/internal/theme"
)

const contentTypeMsgPack = "application/x-msgpack"

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

// respond writes v as JSON, or as MessagePack when the request asks for
// format=msgpack. MessagePack uses the JSON field names.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if r.URL.Query().Get("format") == "msgpack" {
		w.Header().Set("Content-Type", contentTypeMsgPack)
		w.WriteHeader(status)
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		enc.Encode(v) //nolint:errcheck // client went away
		return
	}
	sharedobs.WriteJSON(w, status, v)
}

// respondError maps domain errors to status codes.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, animation.ErrInvalidSpeed),
		errors.Is(err, theme.ErrInvalidTheme):
		status = http.StatusBadRequest
	case errors.Is(err, animation.ErrUnknownWidget),
		errors.Is(err, animation.ErrClosed):
		status = http.StatusNotFound
	case errors.Is(err, animation.ErrPlaying):
		status = http.StatusConflict
	case errors.Is(err, animation.ErrTooManyWidgets):
		status = http.StatusTooManyRequests
	case errors.Is(err, feed.ErrStopped):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	respond(w, r, status, map[string]string{"error": err.Error()})
}

// decodeBody reads a small JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
