package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/server/response"
	"github.com/techagentng/ain/services"
	"github.com/techagentng/ain/services/jwt"
)

const tokenCookie = "token"

func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getAccessToken(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}
		if apiErr := s.authenticate(c, accessToken); apiErr != nil {
			respondAndAbort(c, "", apiErr.Status, nil, apiErr)
			return
		}
		c.Next()
	}
}

// OptionalAuthorize attaches the caller when a valid token is present and
// lets anonymous requests through.
func (s *Server) OptionalAuthorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if accessToken := getAccessToken(c); accessToken != "" {
			_ = s.authenticate(c, accessToken)
		}
		c.Next()
	}
}

func (s *Server) authenticate(c *gin.Context, accessToken string) *errs.Error {
	claims, err := jwt.ValidateAndGetClaims(accessToken, services.TokenOptions(s.Config))
	if err != nil {
		return errs.ErrUnauthorized
	}

	user, apiErr := s.AuthService.GetCurrentUser(c.Request.Context(), claims.UserID.String())
	if apiErr != nil {
		if apiErr.Status == http.StatusNotFound {
			return errs.New("user not found", http.StatusUnauthorized)
		}
		return apiErr
	}

	c.Set("user", user)
	c.Set("userID", user.ID)
	c.Set("role", claims.Role)
	c.Set("access_token", accessToken)
	return nil
}

func requireRole(allowed func(models.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get("role")
		role, isRole := value.(models.Role)
		if !ok || !isRole {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		if !allowed(role) {
			respondAndAbort(c, "", http.StatusForbidden, nil, errs.ErrForbidden)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return requireRole(models.Role.CanAdminister)
}

func RequireAuthority() gin.HandlerFunc {
	return requireRole(models.Role.CanTriage)
}

func RequireUser() gin.HandlerFunc {
	return requireRole(models.Role.Valid)
}

func limitRateForPasswordReset(store ratelimit.Store) gin.HandlerFunc {
	mw := ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      keyFunc,
	})
	return mw
}

// keyFunc limits password resets per email. The body is restored for the handler.
func keyFunc(c *gin.Context) string {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return c.ClientIP()
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))

	var foundUser models.ForgetPasswordRequest
	if err := decode(c, &foundUser); err != nil {
		c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
		return c.ClientIP()
	}

	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
	return strings.ToLower(foundUser.Email)
}

// getAccessToken reads the bearer token, falling back to the token cookie.
// A cookie token is promoted into the Authorization header.
func getAccessToken(c *gin.Context) string {
	if token := getTokenFromHeader(c); token != "" {
		return token
	}
	cookie, err := c.Cookie(tokenCookie)
	if err != nil || cookie == "" {
		return ""
	}
	c.Request.Header.Set("Authorization", "Bearer "+cookie)
	return cookie
}

// getTokenFromHeader returns the token string in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}
