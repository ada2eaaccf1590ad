package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/sitecrew/siteworks-backend-go/internal/config"
	domainAttendance "github.com/sitecrew/siteworks-backend-go/internal/domain/attendance"
	appHTTP "github.com/sitecrew/siteworks-backend-go/internal/handler/http"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/database"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/jwt"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/oauth"
	"github.com/sitecrew/siteworks-backend-go/internal/pkg/storage"
	"github.com/sitecrew/siteworks-backend-go/internal/repository/postgresql"
	advanceService "github.com/sitecrew/siteworks-backend-go/internal/service/advance"
	attendanceService "github.com/sitecrew/siteworks-backend-go/internal/service/attendance"
	authService "github.com/sitecrew/siteworks-backend-go/internal/service/auth"
	"github.com/sitecrew/siteworks-backend-go/internal/service/file"
	payrollService "github.com/sitecrew/siteworks-backend-go/internal/service/payroll"
	projectService "github.com/sitecrew/siteworks-backend-go/internal/service/project"
	salaryService "github.com/sitecrew/siteworks-backend-go/internal/service/salary"
	userService "github.com/sitecrew/siteworks-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	}))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	projectRepo := postgresql.NewProjectRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	salaryRepo := postgresql.NewSalaryStructureRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	googleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	fileService := file.NewFileService(fileStorage)

	policy := domainAttendance.Policy{
		GeofenceRadiusMeters: cfg.Policy.GeofenceRadiusMeters,
		RestDays:             cfg.Policy.RestDaySet(),
	}

	authSvc := authService.NewAuthService(userRepo, refreshTokenRepo, jwtService, googleService, logger)
	userSvc := userService.NewUserService(userRepo, logger)
	projectSvc := projectService.NewProjectService(projectRepo, logger)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, projectRepo, fileService, policy, logger)
	salarySvc := salaryService.NewSalaryService(db, salaryRepo, userRepo, logger)
	payrollSvc := payrollService.NewPayrollService(db, payrollRepo, salaryRepo, advanceRepo, attendanceSvc, logger)
	advanceSvc := advanceService.NewAdvanceService(db, advanceRepo, payrollRepo, userRepo, logger)

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		JWTService: jwtService,
		Auth:       appHTTP.NewAuthHandler(authSvc, jwtService),
		User:       appHTTP.NewUserHandler(userSvc),
		Project:    appHTTP.NewProjectHandler(projectSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Salary:     appHTTP.NewSalaryHandler(salarySvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Advance:    appHTTP.NewAdvanceHandler(advanceSvc),
		Env:        cfg.App.Env,
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("starting server", slog.String("addr", addr), slog.String("env", cfg.App.Env))
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server failed:", err)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
