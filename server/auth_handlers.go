package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.RegisterRequest
		if err := decode(c, &user); err != nil {
			response.HandleErrors(c, err)
			return
		}
		created, err := s.AuthService.Register(c.Request.Context(), &user)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Signup successful, check your email for the OTP", http.StatusCreated, models.NewUserResponse(created), nil)
	}
}

func (s *Server) handleVerifyOTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.OtpVerificationRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		if err := s.AuthService.VerifyOTP(c.Request.Context(), &req); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Email verified successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.HandleErrors(c, err)
			return
		}
		userResponse, err := s.AuthService.LoginUser(c.Request.Context(), &loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		s.setTokenCookie(c, userResponse.Token, time.Until(userResponse.Expiry))
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) handleRefreshToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RefreshTokenRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		tokens, err := s.AuthService.RefreshToken(c.Request.Context(), req.RefreshToken)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		s.setTokenCookie(c, tokens.Token, time.Until(tokens.Expiry))
		response.JSON(c, "token refreshed", http.StatusOK, tokens, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		if err := s.AuthService.Logout(c.Request.Context(), user.ID); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		s.setTokenCookie(c, "", -time.Second)
		response.JSON(c, "Logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		response.JSON(c, "user profile", http.StatusOK, models.NewUserResponse(user), nil)
	}
}

func (s *Server) handleEditUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		var req models.ProfileUpdateRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		updated, err := s.AuthService.UpdateProfile(c.Request.Context(), user.ID, req.DisplayName)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Profile updated", http.StatusOK, models.NewUserResponse(updated), nil)
	}
}

// setTokenCookie stores the access token in an httpOnly cookie. A negative
// ttl removes it.
func (s *Server) setTokenCookie(c *gin.Context, token string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, maxAge, "/", "", s.Config.SecureCookie, true)
}
