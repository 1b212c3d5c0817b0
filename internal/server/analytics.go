package server

import "net/http"

func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.analytics.Dashboard(r.Context())
	if err != nil {
		s.deps.Logger.Errorf("dashboard: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) SalesChartHandler(w http.ResponseWriter, r *http.Request) {
	chart, err := s.analytics.SalesChart(r.Context())
	if err != nil {
		s.deps.Logger.Errorf("sales chart: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to build chart data")
		return
	}

	writeJSON(w, http.StatusOK, chart)
}
