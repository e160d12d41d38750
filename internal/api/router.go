package api

import (
	"log/slog"
	"net/http"
	"time"

	"hackathon_hub/internal/api/handler"
	"hackathon_hub/internal/api/middleware"
	"hackathon_hub/internal/api/web"
	"hackathon_hub/internal/app/realtime"
	"hackathon_hub/internal/app/service"
	"hackathon_hub/internal/common/security"
	"hackathon_hub/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Services bundles what the router needs to serve every route.
type Services struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Events    *service.EventService
	Teams     *service.TeamService
	Judging   *service.JudgingService
	Dashboard *service.DashboardService
	Webhook   *service.WebhookService
}

type Options struct {
	Sessions           *security.SessionAuth
	Hub                *realtime.Hub
	Metrics            *metrics.Metrics
	Pages              *web.Pages
	Logger             *slog.Logger
	WebhookSecret      string
	AuthRatePerMinute  int
	AuthRateBurst      int
	CORSAllowedOrigins []string
	SSEHeartbeat       time.Duration
	RequestTimeout     time.Duration
}

func NewRouter(svc Services, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-Webhook-Secret"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.Verifier(opts.Sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api/realtime", func(rt chi.Router) {
		webhookHandler := handler.NewWebhookHandler(svc.Webhook, opts.WebhookSecret, opts.Logger)
		rt.With(chiMiddleware.Timeout(opts.RequestTimeout)).Group(webhookHandler.RegisterRoutes)

		// Streams outlive the request timeout.
		if opts.Hub != nil {
			realtimeHandler := handler.NewRealtimeHandler(opts.Hub, opts.SSEHeartbeat, opts.Logger)
			rt.With(middleware.Authenticator).Group(realtimeHandler.RegisterRoutes)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(opts.RequestTimeout))

		if opts.Pages != nil {
			r.Group(func(pages chi.Router) {
				pages.Use(middleware.PageGate)
				opts.Pages.RegisterRoutes(pages)
			})
		}

		r.Route("/api", func(api chi.Router) {
			authHandler := handler.NewAuthHandler(svc.Auth, opts.Sessions)
			limiter := middleware.NewIPRateLimiter(middleware.PerMinute(opts.AuthRatePerMinute), opts.AuthRateBurst)
			api.Route("/auth", func(auth chi.Router) {
				auth.Group(func(public chi.Router) {
					public.Use(middleware.RateLimit(limiter))
					authHandler.RegisterRoutes(public)
				})
				auth.Group(func(session chi.Router) {
					session.Use(middleware.Authenticator)
					authHandler.RegisterSessionRoutes(session)
				})
			})

			api.Group(func(private chi.Router) {
				private.Use(middleware.Authenticator)

				private.Route("/dashboard", handler.NewDashboardHandler(svc.Dashboard).RegisterRoutes)

				userHandler := handler.NewUserHandler(svc.Users)
				private.Route("/users", userHandler.RegisterUserRoutes)
				private.Route("/students", userHandler.RegisterStudentRoutes)
				private.Route("/mentors", userHandler.RegisterMentorRoutes)

				private.Route("/events", handler.NewEventHandler(svc.Events).RegisterRoutes)
				private.Route("/teams", handler.NewTeamHandler(svc.Teams).RegisterRoutes)
				private.Route("/judging", handler.NewJudgingHandler(svc.Judging).RegisterRoutes)
			})
		})
	})

	return r
}
