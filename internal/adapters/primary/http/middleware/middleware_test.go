package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c))
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	r := newEngine(RequestID(), Logging())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(headerRequestID)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	r := newEngine(RequestID())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(headerRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(headerRequestID))
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRequestID_ReplacesUnusableHeader(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "too long", id: strings.Repeat("a", maxRequestIDLen+1)},
		{name: "contains space", id: "abc 123"},
		{name: "non ascii", id: "r\u00e9q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(RequestID())

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set(headerRequestID, tt.id)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			id := w.Header().Get(headerRequestID)
			assert.NotEqual(t, tt.id, id)
			_, err := uuid.Parse(id)
			assert.NoError(t, err)
		})
	}
}

func TestRequestIDFrom_OutsideMiddleware(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Empty(t, w.Body.String())
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "https://any.example", want: "*"},
		{name: "empty allows all", origins: nil, origin: "https://any.example", want: "*"},
		{name: "listed origin", origins: []string{"https://a.example"}, origin: "https://a.example", want: "https://a.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(CORS(tt.origins))

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_RejectsUnlistedOrigin(t *testing.T) {
	r := newEngine(CORS([]string{"https://a.example"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
