package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	handler "github.com/classtrack/ams/internal/adapters/handler/http"
	repo "github.com/classtrack/ams/internal/adapters/repository/postgres"
	"github.com/classtrack/ams/internal/config"
	"github.com/classtrack/ams/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		// A missing signing key is unrecoverable; refuse to start.
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	userRepo := repo.NewUserRepository(db)
	refreshRepo := repo.NewRefreshTokenRepository(db)
	sessionRepo := repo.NewWebSessionRepository(db)
	courseRepo := repo.NewCourseRepository(db)
	sectionRepo := repo.NewSectionRepository(db)
	attendanceRepo := repo.NewAttendanceRepository(db)
	timetableRepo := repo.NewTimetableRepository(db)

	codec, err := services.NewTokenCodec(cfg.JWT)
	if err != nil {
		log.Fatal(err)
	}
	tokenSvc := services.NewTokenService(codec, userRepo, refreshRepo, cfg.JWT.RefreshTokenTTL)
	authSvc := services.NewAuthService(userRepo, sessionRepo, tokenSvc, cfg.JWT.SessionTTL, cfg.JWT.RememberMeTTL)
	courseSvc := services.NewCourseService(courseRepo)
	sectionSvc := services.NewSectionService(sectionRepo)
	attendanceSvc := services.NewAttendanceService(attendanceRepo, timetableRepo)
	timetableSvc := services.NewTimetableService(timetableRepo)
	reportSvc := services.NewReportService(attendanceRepo, courseRepo, timetableRepo)

	session := handler.NewSessionMiddleware(sessionRepo, tokenSvc, codec, logger, cfg.JWT.ExpiryBuffer)
	guard := handler.NewGuard(codec)
	router := handler.NewHandler(handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, tokenSvc),
		Course:     handler.NewCourseHandler(courseSvc),
		Section:    handler.NewSectionHandler(sectionSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc, timetableSvc),
		Report:     handler.NewReportHandler(reportSvc),
	}, session, guard)

	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
