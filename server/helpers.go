package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	errs "github.com/techagentng/ain/errors"
	"github.com/techagentng/ain/models"
	"github.com/techagentng/ain/server/response"
)

// uuidParam parses a path parameter and writes a 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid "+name, http.StatusBadRequest))
		return uuid.Nil, false
	}
	return id, true
}

func paginationFromQuery(c *gin.Context) models.Pagination {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	return models.NewPagination(page, pageSize)
}

// GetValuesFromContext returns the authenticated user set by Authorize.
func GetValuesFromContext(c *gin.Context) (*models.User, *errs.Error) {
	value, exists := c.Get("user")
	if !exists {
		return nil, errs.New("user not found in context", http.StatusUnauthorized)
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil, errs.New("user data is corrupted", http.StatusInternalServerError)
	}
	return user, nil
}

func currentRole(c *gin.Context) models.Role {
	if role, ok := c.Value("role").(models.Role); ok {
		return role
	}
	return models.RoleUser
}

// currentUser writes the error response itself when no user is attached.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, apiErr := GetValuesFromContext(c)
	if apiErr != nil {
		response.JSON(c, "", apiErr.Status, nil, apiErr)
		return nil, false
	}
	return user, true
}

// viewerID is nil for unauthenticated callers.
func viewerID(c *gin.Context) *uuid.UUID {
	if userID, ok := c.Value("userID").(uuid.UUID); ok {
		return &userID
	}
	return nil
}

// checkVisible applies the confidential-report rule for the current caller.
func (s *Server) checkVisible(c *gin.Context, reportID uuid.UUID) *errs.Error {
	return s.ReportService.CanView(c.Request.Context(), reportID, viewerID(c), currentRole(c))
}

var errInvalidFilter = errs.New("invalid report filter", http.StatusBadRequest)

// reportFilterFromQuery reads search, status, category, visibility, from and to.
// Dates are RFC 3339 or YYYY-MM-DD; a bare "to" date covers the whole day.
func reportFilterFromQuery(c *gin.Context) (models.ReportFilter, bool) {
	filter := models.ReportFilter{Search: strings.TrimSpace(c.Query("search"))}
	for name, dst := range map[string]*int{
		"status":     (*int)(&filter.Status),
		"category":   (*int)(&filter.Category),
		"visibility": (*int)(&filter.Visibility),
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid "+name, http.StatusBadRequest))
			return filter, false
		}
		*dst = n
	}

	var ok bool
	if filter.From, ok = dateQuery(c, "from", false); !ok {
		return filter, false
	}
	if filter.To, ok = dateQuery(c, "to", true); !ok {
		return filter, false
	}
	return filter, true
}

func dateQuery(c *gin.Context, name string, endOfDay bool) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		response.JSON(c, "", http.StatusBadRequest, nil, errInvalidFilter)
		return nil, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}
