package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/classtrack/ams/internal/core/domain"
)

type Handlers struct {
	Auth       *AuthHandler
	Course     *CourseHandler
	Section    *SectionHandler
	Attendance *AttendanceHandler
	Report     *ReportHandler
}

func NewHandler(h Handlers, session *SessionMiddleware, guard *Guard) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(session.Reconcile)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("welcome"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/account", func(r chi.Router) {
		r.Get("/login", h.Auth.AccountLoginPage)
		r.Post("/login", h.Auth.AccountLogin)
		r.Post("/logout", h.Auth.AccountLogout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/register", h.Auth.Register)
			r.With(guard.RequireAuth).Get("/me", h.Auth.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAuth)

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", h.Course.List)
				r.Get("/{id}", h.Course.Get)
				r.With(guard.RequireRoles(domain.RoleAdmin)).Post("/", h.Course.Create)
				r.With(guard.RequireRoles(domain.RoleAdmin)).Post("/{id}/teachers", h.Course.AssignTeacher)
				r.With(guard.RequireRoles(domain.RoleStudent)).Post("/{id}/register", h.Course.Register)
				r.With(guard.RequireRoles(domain.RoleAdmin, domain.RoleTeacher)).Get("/{id}/attendance", h.Attendance.ListByCourse)
				r.With(guard.RequireRoles(domain.RoleAdmin, domain.RoleTeacher)).Get("/{id}/report", h.Report.CourseSummary)
			})

			r.Route("/sections", func(r chi.Router) {
				r.Get("/", h.Section.List)
				r.Get("/{id}/timetable", h.Attendance.ListTimetable)
				r.With(guard.RequireRoles(domain.RoleAdmin)).Post("/", h.Section.Create)
				r.With(guard.RequireRoles(domain.RoleAdmin)).Post("/{id}/students", h.Section.AssignStudent)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.With(guard.RequireRoles(domain.RoleAdmin)).Post("/", h.Section.CreateSession)
				r.With(guard.RequireRoles(domain.RoleAdmin)).Post("/{sessionID}/sections/{sectionID}", h.Section.AssignSession)
			})

			r.Route("/timetable", func(r chi.Router) {
				r.With(guard.RequireRoles(domain.RoleAdmin)).Post("/", h.Attendance.AddTimetableEntry)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(guard.RequireRoles(domain.RoleTeacher)).Get("/window", h.Attendance.Window)
				r.With(guard.RequireRoles(domain.RoleTeacher)).Post("/", h.Attendance.Mark)
				r.With(guard.RequireRoles(domain.RoleStudent)).Get("/mine", h.Attendance.ListMine)
			})
		})
	})

	return r
}
