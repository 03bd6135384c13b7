package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apiError "github.com/techagentng/ain/errors"
)

func TestHandleErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "api error", err: apiError.ErrForbidden, want: http.StatusForbidden},
		{name: "wrapped api error", err: fmt.Errorf("lookup: %w", apiError.ErrConflict), want: http.StatusConflict},
		{name: "unknown error", err: fmt.Errorf("db down"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			HandleErrors(c, tt.err)
			if w.Code != tt.want {
				t.Fatalf("code = %d, want %d", w.Code, tt.want)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["errors"] != tt.err.Error() {
				t.Errorf("errors = %v, want %q", body["errors"], tt.err.Error())
			}
		})
	}
}

func TestJSONNilError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSON(c, "ok", http.StatusOK, gin.H{"id": 1}, nil)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["errors"] != nil {
		t.Errorf("errors = %v, want nil", body["errors"])
	}
	if body["message"] != "ok" {
		t.Errorf("message = %v", body["message"])
	}
}
