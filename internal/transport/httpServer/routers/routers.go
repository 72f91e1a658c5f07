package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/GetTogetherComm/GetTogether/internal/transport/httpServer/handlers"
)

type Router struct {
	eventHandler       *handlers.EventHandler
	seriesHandler      *handlers.SeriesHandler
	teamHandler        *handlers.TeamHandler
	profileHandler     *handlers.ProfileHandler
	searchableHandler  *handlers.SearchableHandler
	activityPubHandler *handlers.ActivityPubHandler
	feedHandler        *handlers.FeedHandler
	metricsHandler     http.Handler
	logger             func(http.Handler) http.Handler
	auth               func(http.Handler) http.Handler
}

func NewRouter(
	eventHandler *handlers.EventHandler,
	seriesHandler *handlers.SeriesHandler,
	teamHandler *handlers.TeamHandler,
	profileHandler *handlers.ProfileHandler,
	searchableHandler *handlers.SearchableHandler,
	activityPubHandler *handlers.ActivityPubHandler,
	feedHandler *handlers.FeedHandler,
	metricsHandler http.Handler,
	logger func(http.Handler) http.Handler,
	auth func(http.Handler) http.Handler,
) *Router {
	return &Router{
		eventHandler:       eventHandler,
		seriesHandler:      seriesHandler,
		teamHandler:        teamHandler,
		profileHandler:     profileHandler,
		searchableHandler:  searchableHandler,
		activityPubHandler: activityPubHandler,
		feedHandler:        feedHandler,
		metricsHandler:     metricsHandler,
		logger:             logger,
		auth:               auth,
	}
}

func (r *Router) Mount(mux *chi.Mux) {

	mux.Use(cors.AllowAll().Handler)
	mux.Use(r.logger)
	mux.Use(middleware.Heartbeat("/ping"))

	// Federation and public directory endpoints are unauthenticated reads.
	mux.Get("/searchables/", r.searchableHandler.GetSearchables)
	mux.Get("/activity_pub/events.json", r.activityPubHandler.GetEvents)
	mux.Get("/activity_pub/places.json", r.activityPubHandler.GetPlaces)
	mux.Get("/events.ics", r.feedHandler.GetICS)
	mux.Handle("/metrics", r.metricsHandler)

	mux.Route("/api", func(mux chi.Router) {
		mux.Route("/v1", func(mux chi.Router) {
			mux.Route("/events", func(mux chi.Router) {
				mux.Get("/", r.eventHandler.GetEvents)
				mux.Get("/nearby", r.eventHandler.Nearby)
				mux.Get("/{eventId}/attendees", r.eventHandler.GetAttendees)

				mux.Group(func(mux chi.Router) {
					mux.Use(r.auth)
					mux.Post("/", r.eventHandler.CreateEvent)
					mux.Put("/{eventId}", r.eventHandler.ChangeEvent)
					mux.Delete("/{eventId}", r.eventHandler.DeleteEvent)
					mux.Put("/{eventId}/attend", r.eventHandler.Attend)
				})
			})

			mux.Route("/series", func(mux chi.Router) {
				mux.Get("/{seriesId}", r.seriesHandler.GetSeries)

				mux.Group(func(mux chi.Router) {
					mux.Use(r.auth)
					mux.Post("/", r.seriesHandler.CreateSeries)
				})
			})

			mux.Route("/teams", func(mux chi.Router) {
				mux.Get("/", r.teamHandler.GetTeams)

				mux.Group(func(mux chi.Router) {
					mux.Use(r.auth)
					mux.Post("/", r.teamHandler.CreateTeam)
				})
			})

			mux.With(r.auth).Post("/places", r.teamHandler.CreatePlace)

			mux.Route("/profile", func(mux chi.Router) {
				mux.Use(r.auth)
				mux.Get("/", r.profileHandler.GetProfile)
				mux.Put("/", r.profileHandler.UpdateProfile)
			})
		})
	})
}
