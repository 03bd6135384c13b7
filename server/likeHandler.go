package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/ain/server/response"
)

// Handler function for liking a report; a second call removes the like.
func (s *Server) handleLikeReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		reportID, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.checkVisible(c, reportID); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		like, err := s.LikeService.ToggleLike(c.Request.Context(), reportID, user.ID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, like.Message, http.StatusOK, like, nil)
	}
}
