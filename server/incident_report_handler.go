package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/server/response"
)

func (s *Server) handleIncidentReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		var req models.ReportCreateRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		report, err := s.ReportService.CreateReport(c.Request.Context(), user, &req)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Incident report created successfully", http.StatusCreated, gin.H{"id": report.ID}, nil)
	}
}

func (s *Server) handleGetReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.checkVisible(c, id); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		report, err := s.ReportService.GetReport(c.Request.Context(), id)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Incident report retrieved", http.StatusOK, report, nil)
	}
}

func (s *Server) handleGetFeed() gin.HandlerFunc {
	return func(c *gin.Context) {
		reports, err := s.ReportService.GetFeed(c.Request.Context(), paginationFromQuery(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Feed retrieved", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleGetAuthorityReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		filter, ok := reportFilterFromQuery(c)
		if !ok {
			return
		}
		reports, err := s.ReportService.ListByAuthority(c.Request.Context(), user, id, filter, paginationFromQuery(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Authority reports retrieved", http.StatusOK, reports, nil)
	}
}

// handleAuthorityDashboard serves the caller's own authority queue.
func (s *Server) handleAuthorityDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		filter, ok := reportFilterFromQuery(c)
		if !ok {
			return
		}
		queue, err := s.ReportService.AuthorityQueue(c.Request.Context(), user, filter, paginationFromQuery(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Authority dashboard retrieved", http.StatusOK, queue, nil)
	}
}

func (s *Server) handleAdminListReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := reportFilterFromQuery(c)
		if !ok {
			return
		}
		reports, err := s.ReportService.ListReports(c.Request.Context(), filter, paginationFromQuery(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Reports retrieved", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleGetUserReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		viewer := viewerID(c)
		publicOnly := (viewer == nil || *viewer != id) && !currentRole(c).CanTriage()
		reports, err := s.ReportService.ListByUser(c.Request.Context(), id, publicOnly, paginationFromQuery(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "User reports retrieved", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleUpdateReportStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		var req models.StatusUpdateRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		if err := s.ReportService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) handleUpdateReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		var req models.ReportUpdateRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		if err := s.ReportService.UpdateReport(c.Request.Context(), id, user.ID, &req); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) handleDeleteReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.ReportService.DeleteReport(c.Request.Context(), id, user.ID); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) handleGetReportInteractions() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.checkVisible(c, id); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		report, err := s.ReportService.GetWithInteractions(c.Request.Context(), id, viewerID(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Report interactions retrieved", http.StatusOK, report, nil)
	}
}
