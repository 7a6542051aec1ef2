package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	repo "github.com/classtrack/ams/internal/adapters/repository/postgres"
	"github.com/classtrack/ams/internal/core/services"
)

// One-shot job, meant to run after the last lecture of the day: every
// registered student left unmarked for a lecture that took place gets an
// Absent row.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var dateStr string
	flag.StringVar(&dateStr, "date", "", "Date to backfill (YYYY-MM-DD, defaults to today)")
	flag.Parse()

	date := time.Now()
	if dateStr != "" {
		var err error
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			log.Fatalf("Invalid date: %v", err)
		}
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"), os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"), os.Getenv("POSTGRES_PORT"), os.Getenv("POSTGRES_DB"))
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	attendanceRepo := repo.NewAttendanceRepository(db)
	courseRepo := repo.NewCourseRepository(db)
	timetableRepo := repo.NewTimetableRepository(db)
	reportService := services.NewReportService(attendanceRepo, courseRepo, timetableRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Println("Starting absence backfill job...")

	marked, err := reportService.BackfillAbsences(ctx, date)
	if err != nil {
		log.Fatalf("Error backfilling absences: %v", err)
	}

	log.Printf("Absence backfill completed, %d students marked absent.", marked)
}
