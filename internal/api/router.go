package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/employee-records/internal/api/handlers"
	"github.com/isdelr/employee-records/internal/auth"
	"github.com/isdelr/employee-records/internal/services"
	"github.com/isdelr/employee-records/internal/views"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// requestTimeout bounds the handling of a single request.
const requestTimeout = 30 * time.Second

// Options carries the settings the router needs from configuration.
type Options struct {
	AllowedOrigins []string
	SecureCookies  bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(
	opts Options,
	userService services.UserServiceProvider,
	employeeService services.EmployeeServiceProvider,
	codec *auth.Codec,
	guard *auth.Guard,
	renderer views.Renderer,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger()...)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(methodOverride)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, codec, guard, renderer, opts.SecureCookies)
	employeeHandler := handlers.NewEmployeeHandler(employeeService, renderer)

	r.Handle("/static/*", http.StripPrefix("/static/", views.StaticHandler()))

	// Public endpoints
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Get("/register", authHandler.RegisterForm)
	r.Post("/register", authHandler.Register)
	r.Get("/logout", authHandler.Logout)
	r.Get("/auth-check", authHandler.AuthCheck)

	// Everything below requires a valid session cookie
	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware)

		r.Get("/dashboard", authHandler.Dashboard)
		r.Get("/", employeeHandler.GetAll)
		r.Get("/create", employeeHandler.CreateForm)
		r.Post("/create", employeeHandler.Create)
		r.Get("/update/{id}", employeeHandler.EditForm)
		r.Put("/update/{id}", employeeHandler.Update)
		r.Delete("/delete/{id}", employeeHandler.Delete)
	})

	return r
}

// requestLogger attaches the global zerolog logger to each request and logs
// one access line per response.
func requestLogger() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		hlog.NewHandler(log.Logger),
		hlog.RemoteAddrHandler("ip"),
		hlog.UserAgentHandler("user_agent"),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if id := middleware.GetReqID(r.Context()); id != "" {
					hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
						return c.Str("req_id", id)
					})
				}
				next.ServeHTTP(w, r)
			})
		},
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("Request handled")
		}),
	}
}

// methodOverride lets HTML forms, which can only POST, reach PUT and DELETE
// routes through a _method query parameter.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch m := strings.ToUpper(r.URL.Query().Get("_method")); m {
			case http.MethodPut, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}
