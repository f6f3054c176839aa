package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/qr-attendance-go/internal/config"
	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/employee"
	appHTTP "github.com/cmlabs-hris/qr-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/qr-attendance-go/internal/repository/memory"
	"github.com/cmlabs-hris/qr-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/qr-attendance-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/qr-attendance-go/internal/service/employee"
	"github.com/cmlabs-hris/qr-attendance-go/internal/service/file"
	"github.com/cmlabs-hris/qr-attendance-go/migrations"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, err := config.ParseLogLevel(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "qr-attendance"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		employeeRepo   employee.EmployeeRepository
		attendanceRepo attendance.AttendanceRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := migrations.Apply(ctx, db); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			slog.Info("Database schema applied")
		}

		employeeRepo = postgresql.NewEmployeeRepository(db)
		attendanceRepo = postgresql.NewAttendanceRepository(db)
	case config.StorageDriverMemory:
		slog.Warn("Using in-memory storage; records are lost on restart")
		employeeRepo = memory.NewEmployeeRepository()
		attendanceRepo = memory.NewAttendanceRepository()
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.FilePath, cfg.Storage.FileURL)
	if err != nil {
		return fmt.Errorf("initialize local storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage)

	classifier, err := attendanceService.NewTimeClassifier(cfg.Attendance.LateCutoff)
	if err != nil {
		return err
	}
	evaluator := attendanceService.NewEvaluator(classifier, attendanceService.SystemClock{}, cfg.Location())

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, evaluator, attendanceService.Options{
		ValidateImportEmployees: cfg.Attendance.ValidateImportEmployees,
		MaxImportRows:           cfg.Attendance.MaxImportRows,
	})
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, fileService)

	router := appHTTP.NewRouter(
		logger,
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.CORSAllowedOrigins,
			LogLevel:       level,
			UploadsDir:     cfg.Storage.FilePath,
		},
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting",
			"addr", server.Addr,
			"storage", cfg.Storage.Driver,
			"timezone", cfg.Attendance.Timezone,
			"late_cutoff", cfg.Attendance.LateCutoff,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}
