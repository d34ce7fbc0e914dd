package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/handlers"
	"github.com/upb/casting-agency/middleware"
)

// Permission scopes carried in the token's permissions claim
const (
	PermissionGetActors    = "get:actors"
	PermissionGetMovies    = "get:movies"
	PermissionPostActors   = "post:actors"
	PermissionPostMovies   = "post:movies"
	PermissionPatchActors  = "patch:actors"
	PermissionPatchMovies  = "patch:movies"
	PermissionDeleteActors = "delete:actors"
	PermissionDeleteMovies = "delete:movies"
)

// protectedRoute binds an endpoint to the permission it requires
type protectedRoute struct {
	method     string
	pattern    string
	permission string
	handler    http.HandlerFunc
}

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(corsOptions(deps.Config.Server.CORSAllowedOrigins)))

	var db handlers.DatabaseChecker
	if deps.DB != nil {
		db = deps.DB
	}
	health := handlers.NewHealthHandler(db, deps.Logger)
	actors := handlers.NewActorHandler(deps.ActorService, deps.Logger)
	movies := handlers.NewMovieHandler(deps.MovieService, deps.Logger)

	// Public endpoints
	r.Get("/", handlers.Index)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	for _, route := range []protectedRoute{
		{http.MethodGet, "/actors", PermissionGetActors, actors.HandleListActors},
		{http.MethodGet, "/movies", PermissionGetMovies, movies.HandleListMovies},
		{http.MethodPost, "/actors", PermissionPostActors, actors.HandleCreateActor},
		{http.MethodPost, "/movies", PermissionPostMovies, movies.HandleCreateMovie},
		{http.MethodPatch, "/actors/{id:[0-9]+}", PermissionPatchActors, actors.HandleUpdateActor},
		{http.MethodPatch, "/movies/{id:[0-9]+}", PermissionPatchMovies, movies.HandleUpdateMovie},
		{http.MethodDelete, "/actors/{id:[0-9]+}", PermissionDeleteActors, actors.HandleDeleteActor},
		{http.MethodDelete, "/movies/{id:[0-9]+}", PermissionDeleteMovies, movies.HandleDeleteMovie},
	} {
		r.With(deps.AuthMiddleware.RequirePermission(route.permission)).
			Method(route.method, route.pattern, route.handler)
	}

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	return r
}

// corsOptions allows credentials only for explicit origin patterns; browsers
// refuse credentialed responses carrying a wildcard origin.
func corsOptions(origins []string) cors.Options {
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}
}
