package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmfausti/whereabouts/pkg/export"
	"github.com/rmfausti/whereabouts/pkg/locate"
	"github.com/rmfausti/whereabouts/pkg/records"
	"github.com/rmfausti/whereabouts/pkg/videos"
	"github.com/rmfausti/whereabouts/pkg/weather"
)

type resolver interface {
	Resolve(ctx context.Context, raw string, hint locate.Hint) (*locate.ResolvedLocation, error)
}

type server struct {
	resolver   resolver
	repository records.Repository
	weather    weather.Client
	videos     videos.Client
}

type resolvedResponse struct {
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	Admin1     string  `json:"admin1"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ResolvedBy string  `json:"resolved_by"`
}

func toResolvedResponse(loc *locate.ResolvedLocation) resolvedResponse {
	return resolvedResponse{
		Name:       loc.Name,
		Country:    loc.Country,
		Admin1:     loc.Admin1,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		ResolvedBy: loc.ResolvedBy,
	}
}

// Resolve is the ad-hoc lookup endpoint: it runs the engine and
// returns the canonical location without persisting anything.
func (s *server) Resolve(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q query parameter"})
		return
	}

	hint := locate.Hint(c.DefaultQuery("type", string(locate.HintAuto)))

	loc, err := s.resolver.Resolve(c.Request.Context(), query, hint)
	if err != nil {
		abortResolveError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResolvedResponse(loc))
}

type createRecordRequest struct {
	Location     string `json:"location" binding:"required"`
	LocationType string `json:"location_type"`
}

// CreateRecord resolves the location, snapshots its current weather
// and persists the pair.
func (s *server) CreateRecord(c *gin.Context) {
	var req createRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hint := locate.HintAuto
	if req.LocationType != "" {
		hint = locate.Hint(req.LocationType)
	}

	ctx := c.Request.Context()

	loc, err := s.resolver.Resolve(ctx, req.Location, hint)
	if err != nil {
		abortResolveError(c, err)
		return
	}

	record := records.Record{
		Query:      req.Location,
		Name:       loc.Name,
		Country:    loc.Country,
		Admin1:     loc.Admin1,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		ResolvedBy: loc.ResolvedBy,
	}

	// Weather is best-effort: a record without a snapshot beats no
	// record at all.
	conditions, err := s.weather.GetCurrentWeather(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		slog.ErrorContext(ctx, "fetching current weather", "error", err.Error())
	} else {
		record.TemperatureC = &conditions.TemperatureC
		record.WindSpeedKmh = &conditions.WindSpeedKmh
		record.Condition = &conditions.Condition
	}

	if err := s.repository.CreateRecord(ctx, &record); err != nil {
		slog.ErrorContext(ctx, "creating record", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to save record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": record.ID, "location": toResolvedResponse(loc)})
}

func (s *server) GetRecord(c *gin.Context) {
	rec, err := s.repository.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "getting record", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to get record"})
		return
	}

	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (s *server) ListRecords(c *gin.Context) {
	recs, err := s.repository.ListRecords(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "listing records", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": recs})
}

func (s *server) ExportRecords(c *gin.Context) {
	recs, err := s.repository.ListRecords(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "listing records", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list records"})
		return
	}

	switch c.DefaultQuery("format", "markdown") {
	case "csv":
		out, err := export.CSV(recs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to render export"})
			return
		}
		c.Data(http.StatusOK, "text/csv", []byte(out))
	case "markdown":
		c.Data(http.StatusOK, "text/markdown", []byte(export.Markdown(recs)))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be markdown or csv"})
	}
}

func (s *server) SuggestVideos(c *gin.Context) {
	if s.videos == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "video suggestions are not configured"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing q query parameter"})
		return
	}

	vids, err := s.videos.Search(c.Request.Context(), query, 5)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "searching videos", "error", err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to fetch video suggestions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": vids})
}

// abortResolveError maps the engine's error taxonomy onto HTTP: bad
// input is the client's fault, a miss is a 404 and provider trouble is
// a gateway problem.
func abortResolveError(c *gin.Context, err error) {
	var (
		invalidErr  *locate.InvalidCoordinatesError
		notFoundErr *locate.NotFoundError
		providerErr *locate.ProviderError
	)

	switch {
	case errors.As(err, &invalidErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &providerErr):
		slog.ErrorContext(c.Request.Context(), "provider failure", "error", providerErr.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream geocoding provider failed"})
	default:
		slog.ErrorContext(c.Request.Context(), "resolve failure", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to resolve location"})
	}
}
