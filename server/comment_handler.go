package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/server/response"
)

var errCommentNotFound = errs.New("comment not found", http.StatusNotFound)

func (s *Server) handleAddComment() gin.HandlerFunc {
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
		var req models.CommentRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		comment, err := s.CommentService.AddComment(c.Request.Context(), reportID, user, req.Content)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Comment added", http.StatusCreated, comment, nil)
	}
}

func (s *Server) handleListComments() gin.HandlerFunc {
	return func(c *gin.Context) {
		reportID, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.checkVisible(c, reportID); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		comments, err := s.CommentService.ListComments(c.Request.Context(), reportID, paginationFromQuery(c))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Comments retrieved", http.StatusOK, comments, nil)
	}
}

func (s *Server) handleGetComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		comment, err := s.CommentService.GetComment(c.Request.Context(), id)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		if s.checkVisible(c, comment.ReportID) != nil {
			response.JSON(c, "", errCommentNotFound.Status, nil, errCommentNotFound)
			return
		}
		response.JSON(c, "Comment retrieved", http.StatusOK, comment, nil)
	}
}

func (s *Server) handleUpdateComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		var req models.CommentRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		comment, err := s.CommentService.UpdateComment(c.Request.Context(), id, user.ID, req.Content)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Comment updated", http.StatusOK, comment, nil)
	}
}

func (s *Server) handleDeleteComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.CommentService.DeleteComment(c.Request.Context(), id, user.ID); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
