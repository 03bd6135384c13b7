package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/server/response"
)

func (s *Server) handleGetAllUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.AdminService.ListUsers(c.Request.Context(), paginationFromQuery(c), c.Query("search"))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Users retrieved successfully", http.StatusOK, users, nil)
	}
}

func (s *Server) handleGetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		user, err := s.AdminService.GetUser(c.Request.Context(), id)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "User retrieved successfully", http.StatusOK, user, nil)
	}
}

func (s *Server) handleUpdateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		var req models.UserUpdateRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		user, err := s.AdminService.UpdateUser(c.Request.Context(), id, &req)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "User updated successfully", http.StatusOK, user, nil)
	}
}

func (s *Server) handleDeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := s.AdminService.DeleteUser(c.Request.Context(), id); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
