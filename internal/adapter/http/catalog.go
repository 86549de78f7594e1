package http

import (
	"fmt"
	"net/http"

	"github.com/couchcryptid/bloomwatch/internal/domain"
)

type insightsResponse struct {
	Insights       []domain.Insight `json:"insights"`
	Featured       int              `json:"featured"`
	RotationMillis int64            `json:"rotation_ms"`
}

func (s *Server) handleSpecies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respond(w, r, http.StatusOK, domain.Filter(domain.SpeciesCatalog(), domain.Criteria{
		Search:   q.Get("search"),
		Category: q.Get("season"),
	}))
}

func (s *Server) handleDiscussions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respond(w, r, http.StatusOK, domain.Filter(domain.Discussions(), domain.Criteria{
		Search:   q.Get("search"),
		Category: q.Get("tag"),
	}))
}

func (s *Server) handleSeasonal(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, s.deps.Forecaster.Seasonal())
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	var body any
	switch name := r.PathValue("name"); name {
	case "regions":
		body = domain.Regions()
	case "distribution":
		body = domain.Distribution()
	case "climate":
		body = domain.ClimateFactors()
	case "timeline":
		body = domain.Timeline()
	case "stages":
		body = domain.Stages()
	default:
		respond(w, r, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown catalog %q", name)})
		return
	}
	respond(w, r, http.StatusOK, body)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, insightsResponse{
		Insights:       domain.Insights(),
		Featured:       domain.FeaturedInsight(domain.Now()),
		RotationMillis: domain.InsightRotation.Milliseconds(),
	})
}
