package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sitecrew/siteworks-backend-go/internal/domain/user"
	"github.com/sitecrew/siteworks-backend-go/internal/handler/http/middleware"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/jwt"
)

type RouterDeps struct {
	JWTService jwt.Service
	Auth       AuthHandler
	User       UserHandler
	Project    ProjectHandler
	Attendance AttendanceHandler
	Salary     SalaryHandler
	Payroll    PayrollHandler
	Advance    AdvanceHandler
	Env        string
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "siteworks"),
		slog.String("version", "v1.0.0"),
		slog.String("env", deps.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", deps.Auth.Refresh)
			r.Post("/logout", deps.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", deps.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", deps.Auth.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", deps.Auth.LoginWithGoogle)
				})
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionUserManage))
				r.Post("/", deps.User.Create)
				r.Get("/", deps.User.List)
				r.Get("/{id}", deps.User.Get)
				r.Put("/{id}", deps.User.Update)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionProjectView))
					r.Get("/", deps.Project.List)
					r.Get("/{id}", deps.Project.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionProjectManage))
					r.Post("/", deps.Project.Create)
					r.Put("/{id}", deps.Project.Update)
					r.Delete("/{id}", deps.Project.Delete)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceSubmit)).
					Post("/", deps.Attendance.Submit)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
					r.Get("/my", deps.Attendance.GetMyEntries)
					r.Get("/my/summary", deps.Attendance.GetMySummary)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
					r.Get("/entries", deps.Attendance.GetEntries)
					r.Get("/summary", deps.Attendance.GetSummary)
					r.Get("/working-time", deps.Attendance.GetWorkingTime)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceRepair))
					r.Post("/entries", deps.Attendance.InsertEntry)
					r.Put("/entries/{entryID}", deps.Attendance.UpdateEntry)
					r.Delete("/entries/{entryID}", deps.Attendance.DeleteEntry)
				})
			})

			r.Route("/salary-structures", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionSalaryManage)).
					Post("/", deps.Salary.Create)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSalaryView))
					r.Get("/active", deps.Salary.GetActive)
					r.Get("/history", deps.Salary.History)
				})
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollGenerate))
					r.Post("/", deps.Payroll.Generate)
					r.Post("/bulk", deps.Payroll.GenerateBulk)
					r.Post("/{id}/pay", deps.Payroll.MarkPaid)
					r.Delete("/{id}", deps.Payroll.Delete)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/", deps.Payroll.List)
					r.Get("/{id}", deps.Payroll.Get)
				})
			})

			r.Route("/advances", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAdvanceView))
					r.Get("/", deps.Advance.List)
					r.Get("/{id}", deps.Advance.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAdvanceManage))
					r.Post("/", deps.Advance.Create)
					r.Put("/{id}", deps.Advance.Update)
					r.Delete("/{id}", deps.Advance.Delete)
					r.Post("/{id}/recover", deps.Advance.Recover)
				})
			})
		})
	})
	return r
}
