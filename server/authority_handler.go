package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/server/response"
	"go.uber.org/zap"
)

func (s *Server) handleGetAuthorities() gin.HandlerFunc {
	return func(c *gin.Context) {
		authorities, err := s.AuthorityRepository.ListAuthorities(c.Request.Context())
		if err != nil {
			s.Logger.Error("list authorities", zap.Error(err))
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		out := make([]models.AuthorityResponse, 0, len(authorities))
		for _, a := range authorities {
			out = append(out, models.AuthorityResponse{ID: a.ID, Name: a.Name, Department: a.Department})
		}
		response.JSON(c, "Authorities retrieved", http.StatusOK, out, nil)
	}
}
