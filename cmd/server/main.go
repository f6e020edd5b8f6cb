package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/joho/godotenv"

	"github.com/rmfausti/whereabouts/pkg/env"
	"github.com/rmfausti/whereabouts/pkg/geocode"
	"github.com/rmfausti/whereabouts/pkg/locate"
	"github.com/rmfausti/whereabouts/pkg/logger"
	"github.com/rmfausti/whereabouts/pkg/middleware"
	"github.com/rmfausti/whereabouts/pkg/records"
	"github.com/rmfausti/whereabouts/pkg/videos"
	"github.com/rmfausti/whereabouts/pkg/weather"
	"github.com/rmfausti/whereabouts/pkg/whttp"
)

const ServiceName = "server"

func init() {
	logger.InitGlobalSlog(ServiceName)
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err.Error())
	}

	databaseURL, err := env.DatabaseURL()
	if err != nil {
		panic(err)
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		panic(fmt.Errorf("unable to open db conn: %w", err))
	}

	defer func() {
		err = db.Close()
		if err != nil {
			slog.Error("error closing db connection", "error", err.Error())
		}
	}()

	if err := db.Ping(); err != nil {
		panic(fmt.Errorf("unable to ping database: %w", err))
	} else {
		slog.Info("connected to the database successfully")
	}

	httpClient := whttp.NewLoggingClient()

	resolver := newResolver(httpClient)
	repository := records.NewPgRepository(db)
	weatherClient := weather.NewOpenMeteoClient(httpClient)

	var videosClient videos.Client
	if url := env.VideosAPIURL(); url != "" {
		videosClient = videos.NewClient(httpClient, url)
	} else {
		slog.Info("VIDEOS_API_URL not set, video suggestions disabled")
	}

	s := &server{
		resolver:   resolver,
		repository: repository,
		weather:    weatherClient,
		videos:     videosClient,
	}

	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(false))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/resolve", s.Resolve)
	r.POST("/records", s.CreateRecord)
	r.GET("/records", s.ListRecords)
	// Sibling of /records/export; gin can't mix a wildcard with a
	// static segment there, hence the singular prefix.
	r.GET("/record/:id", s.GetRecord)
	r.GET("/records/export", s.ExportRecords)
	r.GET("/videos", s.SuggestVideos)

	port := env.Port()
	slog.Info("serving requests", "port", port)

	if err := r.Run(fmt.Sprintf(":%s", port)); err != nil {
		panic(err)
	}
}

// newResolver wires the provider chains: Open-Meteo forward geocoding,
// Nominatim reverse and search, the broad OpenStreetMap wrapper, and
// Zipcodebase when a key is around.
func newResolver(h *http.Client) *locate.Resolver {
	// One Nominatim client for both roles, so reverse lookups and text
	// searches share the same politeness limiter.
	nominatim := geocode.NewNominatimClient(h, env.NominatimUserAgent())

	providers := locate.Providers{
		Forward: geocode.NewOpenMeteoClient(h),
		Reverse: nominatim,
		Search:  nominatim,
		Broad:   geocode.NewOpenStreetMapClient(),
	}

	if key := env.ZipcodebaseAPIKey(); key != "" {
		providers.Postal = geocode.NewZipcodebaseClient(h, key)
	} else {
		slog.Info("ZIPCODEBASE_API_KEY not set, postal lookups will use the forward geocoder")
	}

	return locate.NewResolver(providers)
}
