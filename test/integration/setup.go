package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/classtrack/ams/internal/adapters/handler/http"
	repo "github.com/classtrack/ams/internal/adapters/repository/postgres"
	"github.com/classtrack/ams/internal/config"
	"github.com/classtrack/ams/internal/core/ports"
	"github.com/classtrack/ams/internal/core/services"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	ReportSvc   ports.ReportService
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	require.NoError(t, applyMigrations(db))

	jwtSettings := config.JWTSettings{
		Key:             []byte("integration-test-secret"),
		Issuer:          "classtrack-ams",
		Audience:        "classtrack-ams",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 30 * 24 * time.Hour,
		ExpiryBuffer:    5 * time.Minute,
		SessionTTL:      12 * time.Hour,
		RememberMeTTL:   30 * 24 * time.Hour,
	}

	userRepo := repo.NewUserRepository(db)
	refreshRepo := repo.NewRefreshTokenRepository(db)
	sessionRepo := repo.NewWebSessionRepository(db)
	courseRepo := repo.NewCourseRepository(db)
	sectionRepo := repo.NewSectionRepository(db)
	attendanceRepo := repo.NewAttendanceRepository(db)
	timetableRepo := repo.NewTimetableRepository(db)

	codec, err := services.NewTokenCodec(jwtSettings)
	require.NoError(t, err)
	tokenSvc := services.NewTokenService(codec, userRepo, refreshRepo, jwtSettings.RefreshTokenTTL)
	authSvc := services.NewAuthService(userRepo, sessionRepo, tokenSvc, jwtSettings.SessionTTL, jwtSettings.RememberMeTTL)
	courseSvc := services.NewCourseService(courseRepo)
	sectionSvc := services.NewSectionService(sectionRepo)
	attendanceSvc := services.NewAttendanceService(attendanceRepo, timetableRepo)
	timetableSvc := services.NewTimetableService(timetableRepo)
	reportSvc := services.NewReportService(attendanceRepo, courseRepo, timetableRepo)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := handler.NewSessionMiddleware(sessionRepo, tokenSvc, codec, logger, jwtSettings.ExpiryBuffer)
	guard := handler.NewGuard(codec)
	router := handler.NewHandler(handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, tokenSvc),
		Course:     handler.NewCourseHandler(courseSvc),
		Section:    handler.NewSectionHandler(sectionSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc, timetableSvc),
		Report:     handler.NewReportHandler(reportSvc),
	}, session, guard)

	server := httptest.NewServer(router)

	client := server.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      client,
		ReportSvc:   reportSvc,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	require.NoError(t, app.DB.Close())
	require.NoError(t, app.DBContainer.Terminate(context.Background()))
}
