package server

import (
	"net/http"
)

// IndexHandler sends signed-in browsers to the dashboard and everyone else to login
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if browserID, ok := browserIDFromRequest(r); ok {
			if _, ok := s.clientFor(browserID).Session(); ok {
				redirectSuccess(w, r, RouteAdminDashboard)
				return
			}
		}
		redirectSuccess(w, r, RouteLogin)
	}
}
