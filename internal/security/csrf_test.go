package security

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("test-secret-key-32-bytes-long!!!")

func csrfRouter(handled *bool) *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, string(CSRFTokenField(c)))
	})
	router.POST("/submit", func(c *gin.Context) {
		*handled = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	var handled bool
	router := csrfRouter(&handled)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/form", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="gorilla.csrf.Token"`)
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	var handled bool
	router := csrfRouter(&handled)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/submit", nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, handled, "handler must not run after a CSRF failure")
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken_JSON(t *testing.T) {
	var handled bool
	router := csrfRouter(&handled)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestCSRFMiddleware_AcceptsPOSTWithToken(t *testing.T) {
	var handled bool
	router := csrfRouter(&handled)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	match := regexp.MustCompile(`value="([^"]+)"`).FindStringSubmatch(string(body))
	require.Len(t, match, 2)

	form := url.Values{CSRFFieldName: {match[1]}}
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, handled)
}

func TestCSRFTokenField(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, CSRFTokenField(c))

	c.Set("csrf_token", "abc123")
	assert.Equal(t, `<input type="hidden" name="gorilla.csrf.Token" value="abc123">`, string(CSRFTokenField(c)))
	assert.Equal(t, "abc123", GetCSRFToken(c))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "form-action 'self'")
}

func TestStrictTransportSecurityMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
}
