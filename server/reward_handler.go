package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/server/response"
	"go.uber.org/zap"
)

// handleAddTrustPoints applies a manual point adjustment, e.g. ?delta=-5.
func (s *Server) handleAddTrustPoints() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		delta, err := strconv.Atoi(c.Query("delta"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("delta must be an integer", http.StatusBadRequest))
			return
		}
		total, err := s.TrustPointsService.AddPoints(c.Request.Context(), userID, delta)
		if err != nil {
			s.Logger.Error("add trust points", zap.String("user_id", userID.String()), zap.Error(err))
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "Trust points updated", http.StatusOK, models.TrustPointsResponse{UserID: userID, Total: total}, nil)
	}
}
