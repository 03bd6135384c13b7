package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/server/response"
)

func (s *Server) HandleForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ForgetPasswordRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		if err := s.AuthService.ForgetPassword(c.Request.Context(), req.Email); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Password reset OTP sent successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ResetPasswordRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		if err := s.AuthService.ResetPassword(c.Request.Context(), &req); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Password Reset Successfully", http.StatusOK, nil, nil)
	}
}
