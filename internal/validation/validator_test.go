package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAPI отвечает так, как ожидает валидатор
func fakeAPI(lookupStatus int) *gin.Engine {
	r := gin.New()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/api/events", func(c *gin.Context) {
		if c.Query("pageSize") == "51" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 50"})
			return
		}
		c.JSON(http.StatusOK, []gin.H{{"id": 1, "title": "Go Conf"}})
	})
	r.GET("/api/events/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
	})
	r.POST("/api/tickets/lookup", func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var body struct {
			Payload string `json:"payload" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(lookupStatus, gin.H{"error": "ticket not found"})
	})
	return r
}

func TestValidateAll_Passes(t *testing.T) {
	srv := httptest.NewServer(fakeAPI(http.StatusNotFound))
	defer srv.Close()

	require.NoError(t, NewSpecValidator(srv.URL, "token").ValidateAll())
}

func TestValidateAll_WithoutTokenSkipsAuthenticatedChecks(t *testing.T) {
	srv := httptest.NewServer(fakeAPI(http.StatusInternalServerError))
	defer srv.Close()

	assert.NoError(t, NewSpecValidator(srv.URL, "").ValidateAll())
}

func TestValidateAll_DetectsWrongLookupStatus(t *testing.T) {
	srv := httptest.NewServer(fakeAPI(http.StatusInternalServerError))
	defer srv.Close()

	err := NewSpecValidator(srv.URL, "token").ValidateAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 404")
}

func TestValidateAll_UnhealthyAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewSpecValidator(srv.URL, "").ValidateAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health")
}
