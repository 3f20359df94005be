package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/infinite-track/hris-backend-go/internal/config"
	"github.com/infinite-track/hris-backend-go/internal/domain/attendance"
	"github.com/infinite-track/hris-backend-go/internal/domain/otp"
	appHTTP "github.com/infinite-track/hris-backend-go/internal/handler/http"
	"github.com/infinite-track/hris-backend-go/internal/pkg/cron"
	"github.com/infinite-track/hris-backend-go/internal/pkg/database"
	"github.com/infinite-track/hris-backend-go/internal/pkg/email"
	"github.com/infinite-track/hris-backend-go/internal/pkg/geo"
	"github.com/infinite-track/hris-backend-go/internal/pkg/i18n"
	"github.com/infinite-track/hris-backend-go/internal/pkg/jwt"
	"github.com/infinite-track/hris-backend-go/internal/pkg/storage"
	"github.com/infinite-track/hris-backend-go/internal/repository/mongodb"
	"github.com/infinite-track/hris-backend-go/internal/repository/postgresql"
	attendanceService "github.com/infinite-track/hris-backend-go/internal/service/attendance"
	authService "github.com/infinite-track/hris-backend-go/internal/service/auth"
	"github.com/infinite-track/hris-backend-go/internal/service/file"
	leaveService "github.com/infinite-track/hris-backend-go/internal/service/leave"
	masterService "github.com/infinite-track/hris-backend-go/internal/service/master"
	otpService "github.com/infinite-track/hris-backend-go/internal/service/otp"
	userService "github.com/infinite-track/hris-backend-go/internal/service/user"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

// openOTPStore returns the configured store and a cleanup func.
func openOTPStore(ctx context.Context, cfg *config.Config, db *database.DB) (otp.Store, func(), error) {
	if cfg.OTP.Store != "mongo" {
		return postgresql.NewOTPStore(db), func() {}, nil
	}

	mongoDB, err := database.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return nil, nil, err
	}
	store, err := mongodb.NewOTPStore(ctx, mongoDB)
	if err != nil {
		_ = mongoDB.Close(context.Background())
		return nil, nil, err
	}
	closeFn := func() {
		if err := mongoDB.Close(context.Background()); err != nil {
			slog.Error("failed to close mongodb", slog.Any("error", err))
		}
	}
	return store, closeFn, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	otpStore, closeOTPStore, err := openOTPStore(ctx, cfg, db)
	if err != nil {
		return fmt.Errorf("open otp store: %w", err)
	}
	defer closeOTPStore()

	if purger, ok := otpStore.(otp.Purger); ok {
		scheduler := cron.NewScheduler()
		cron.NewOTPJobs(purger, cfg.OTP.PurgeInterval).RegisterJobs(scheduler)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	emailSvc, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("init email: %w", err)
	}
	translator, err := i18n.New(cfg.App.DefaultLocale)
	if err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	roleRepo := postgresql.NewRoleRepository(db)
	programRepo := postgresql.NewProgramRepository(db)
	divisionRepo := postgresql.NewDivisionRepository(db)
	positionRepo := postgresql.NewPositionRepository(db)
	headProgramRepo := postgresql.NewHeadProgramRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	location := cfg.Attendance.Location()
	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	fileSvc := file.NewFileService(fileStorage)
	ledger := leaveService.NewLedger(leaveBalanceRepo)

	otpSvc := otpService.NewOTPService(otpStore, userRepo, emailSvc, translator, otpService.Options{
		CodeTTL:     cfg.OTP.CodeTTL,
		VerifiedTTL: cfg.OTP.VerifiedTTL,
		MaxAttempts: cfg.OTP.MaxAttempts,
	})
	authSvc := authService.NewAuthService(userRepo, jwtSvc, otpSvc, ledger, fileSvc, translator, location)
	userSvc := userService.NewUserService(tx, userService.Repositories{
		Users:        userRepo,
		Roles:        roleRepo,
		Programs:     programRepo,
		Divisions:    divisionRepo,
		Positions:    positionRepo,
		HeadPrograms: headProgramRepo,
	}, ledger, jwtSvc, fileSvc)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, fileSvc, attendanceService.Options{
		Geofence:  geo.NewGeofence(cfg.Attendance.OfficeLatitude, cfg.Attendance.OfficeLongitude, cfg.Attendance.RadiusMeters),
		WorkHours: attendance.WorkHours{
			LateHour:     cfg.Attendance.LateHour,
			OvertimeHour: cfg.Attendance.OvertimeHour,
		},
		Location: location,
	})
	leaveSvc := leaveService.NewLeaveService(tx, leaveTypeRepo, leaveRequestRepo, userRepo, programRepo, headProgramRepo, divisionRepo, ledger, fileSvc)
	masterSvc := masterService.NewMasterService(divisionRepo, headProgramRepo, programRepo)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		Version:        version,
		AllowedOrigins: cfg.App.AllowedOrigins,
		UploadsDir:     cfg.Storage.BasePath,
	}, jwtSvc, translator, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc, otpSvc),
		User:       appHTTP.NewUserHandler(userSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Master:     appHTTP.NewMasterHandler(masterSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", slog.String("addr", server.Addr), slog.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
