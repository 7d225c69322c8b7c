package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/campus-tracker/internal/attendance"
	"github.com/kozaktomas/campus-tracker/internal/campusmap"
	"github.com/kozaktomas/campus-tracker/internal/location"
	"github.com/kozaktomas/campus-tracker/internal/tracking"
	"github.com/kozaktomas/campus-tracker/internal/web/handlers"
)

func (s *Server) setupRoutes(ledger *attendance.Ledger, journeys map[int64][]tracking.Segment) {
	attendanceHandler := handlers.NewAttendanceHandler(ledger, s.config.Campus.PrincipalID)
	journeysHandler := handlers.NewJourneysHandler(journeys)
	locationsHandler := handlers.NewLocationsHandler(location.NewPatternClassifier(s.config.Campus.LocationPatterns))
	campusHandler := handlers.NewCampusHandler(campusmap.FromConfig(s.config.Campus))

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/attendance", attendanceHandler.Report)
		r.Get("/attendance/principal", attendanceHandler.Principal)
		r.Get("/attendance.csv", attendanceHandler.CSV)
		r.Get("/journeys", journeysHandler.List)
		r.Post("/locations/classify", locationsHandler.Classify)
		r.Get("/campus/distance", campusHandler.Distance)
	})
}
