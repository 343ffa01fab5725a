package main

import (
	"fmt"
	"net/http"

	"github.com/kintai-app/kintai-backend-go/internal/config"
	"github.com/kintai-app/kintai-backend-go/internal/domain/correction"
	appHTTP "github.com/kintai-app/kintai-backend-go/internal/handler/http"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/clockwork"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-app/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-app/kintai-backend-go/internal/repository/postgresql"
	authService "github.com/kintai-app/kintai-backend-go/internal/service/auth"
	correctionService "github.com/kintai-app/kintai-backend-go/internal/service/correction"
	reportService "github.com/kintai-app/kintai-backend-go/internal/service/report"
	shiftService "github.com/kintai-app/kintai-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	clock := clockwork.NewRealClock(cfg.Attendance.Location)
	limits := correction.Limits{
		ReasonMaxLength: cfg.Attendance.ReasonMaxLength,
		MaxShiftHours:   cfg.Attendance.MaxShiftHours,
	}

	authSvc := authService.NewAuthService(userRepo, jwtService)
	shiftSvc := shiftService.NewShiftService(shiftRepo, correctionRepo, clock, cfg.Attendance.Location)
	txManager := postgresql.NewTxManager(db)
	correctionSvc := correctionService.NewCorrectionService(txManager, correctionRepo, shiftRepo, clock, cfg.Attendance.Location, limits)
	reportSvc := reportService.NewReportService(shiftRepo, correctionRepo, userRepo, cfg.Attendance.Location)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(shiftSvc, reportSvc)
	correctionHandler := appHTTP.NewCorrectionHandler(correctionSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		attendanceHandler,
		correctionHandler,
		reportHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
