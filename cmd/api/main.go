package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/zenithhr/payroll-backend-go/internal/config"
	appHTTP "github.com/zenithhr/payroll-backend-go/internal/handler/http"
	"github.com/zenithhr/payroll-backend-go/internal/pkg/database"
	"github.com/zenithhr/payroll-backend-go/internal/repository/postgresql"
	emolumentService "github.com/zenithhr/payroll-backend-go/internal/service/emolument"
	payrollService "github.com/zenithhr/payroll-backend-go/internal/service/payroll"
	settingsService "github.com/zenithhr/payroll-backend-go/internal/service/settings"
	"github.com/zenithhr/payroll-backend-go/internal/service/tax"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := newLogger(cfg)

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, int32(cfg.Database.MaxConns), int32(cfg.Database.MinConns))
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	settingRepo := postgresql.NewSettingRepository(db)
	componentRepo := postgresql.NewComponentRepository(db)
	payGradeRepo := postgresql.NewPayGradeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	staffRepo := postgresql.NewStaffRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	registry := settingsService.NewRegistry(settingRepo)
	settingsSvc := settingsService.NewService(settingRepo)
	emolumentSvc := emolumentService.NewService(componentRepo)
	taxResolver := tax.NewResolver(settingRepo)

	if cfg.App.SeedDefaults {
		ctx := context.Background()
		if err := settingsSvc.SeedDefaults(ctx, time.Now().UTC()); err != nil {
			fmt.Println("Error seeding default settings:", err)
			return
		}
		if err := emolumentSvc.EnsureUniversalComponents(ctx); err != nil {
			fmt.Println("Error seeding universal components:", err)
			return
		}
	}

	payrollSvc := payrollService.NewService(
		payrollRepo,
		staffRepo,
		payGradeRepo,
		componentRepo,
		attendanceRepo,
		registry,
		logger,
		cfg.App.CalcWorkers,
	)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc, taxResolver)
	emolumentHandler := appHTTP.NewEmolumentHandler(emolumentSvc)

	router := appHTTP.NewRouter(logger, payrollHandler, settingsHandler, emolumentHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "zenithhr-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
}
