package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/infinite-track/hris-backend-go/internal/domain/user"
	"github.com/infinite-track/hris-backend-go/internal/handler/http/middleware"
	"github.com/infinite-track/hris-backend-go/internal/pkg/i18n"
	"github.com/infinite-track/hris-backend-go/internal/pkg/jwt"
)

type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	// UploadsDir is served read-only under /uploads to authenticated
	// callers. Empty disables it.
	UploadsDir string
}

type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Master     MasterHandler
}

func NewRouter(opts RouterOptions, jwtService jwt.Service, translator *i18n.Translator, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "infinite-track"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.Locale(translator))

	if opts.UploadsDir != "" {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Handle("/uploads/*", uploadsHandler(opts.UploadsDir))
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/reset-password", h.Auth.ResetPassword)
		})

		r.Route("/otp", func(r chi.Router) {
			r.Post("/send-otp", h.Auth.SendOTP)
			r.Post("/verify-otp", h.Auth.VerifyOTP)
		})

		r.Post("/users/register", h.User.Register)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/users", func(r chi.Router) {
				r.Get("/get", h.User.List)
				r.Get("/get/{id}", h.User.GetByID)
				r.Put("/{id}", h.User.Update)
				r.Get("/attendance/{id}", h.Attendance.ListByUser)

				// Management only
				r.With(middleware.RequireRole(user.RoleManagement)).Delete("/{id}", h.User.Delete)
			})

			r.Post("/attendance/users", h.Attendance.Record)

			r.Route("/leave", func(r chi.Router) {
				r.Post("/users", h.Leave.Submit)
				r.Post("/users/{leaveId}/{stage}/approve", h.Leave.Decide)
				r.Get("/users/{stage}/{view}", h.Leave.ListForStage)
				r.Get("/history", h.Leave.History)
				r.Get("/balance", h.Leave.GetMyBalance)
			})

			r.Get("/divisions/get", h.Master.ListDivisions)
			r.With(middleware.RequirePermission(user.PermissionOrgManage)).Post("/headprogram", h.Master.CreateHeadProgram)
			r.Get("/headprogram/{id}", h.Master.GetHeadProgram)

			r.Get("/contacts", h.User.ListContacts)
		})
	})
	return r
}
