package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/guptarajStha/restaurant-web/models"
)

var secret = []byte("middleware-test")

func init() {
	gin.SetMode(gin.TestMode)
}

// sessionEcho answers with the session set by AuthRequired
func sessionEcho(c *gin.Context) {
	s, ok := GetSession(c)
	if !ok {
		c.Status(http.StatusTeapot)
		return
	}
	c.JSON(http.StatusOK, s)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/x", handlers...)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	user := &models.User{ID: "u-1", Name: "Asha", Email: "asha@example.com"}
	token, err := GenerateToken(secret, user)
	if err != nil {
		t.Fatal(err)
	}

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	foreign, err := GenerateToken([]byte("other-secret"), user)
	if err != nil {
		t.Fatal(err)
	}

	r := newRouter(AuthRequired(secret), sessionEcho)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{name: "bearer header", header: "Bearer " + token, want: http.StatusOK},
		{name: "query token", query: "?access_token=" + token, want: http.StatusOK},
		{name: "missing", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, want: http.StatusUnauthorized},
		{name: "other secret", header: "Bearer " + foreign, want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body)
			}
		})
	}
}

func TestAuthRequiredSetsSession(t *testing.T) {
	user := &models.User{ID: "u-7", Name: "Ravi", Email: "ravi@example.com"}
	token, err := GenerateToken(secret, user)
	if err != nil {
		t.Fatal(err)
	}

	var got Session
	r := newRouter(AuthRequired(secret), func(c *gin.Context) {
		got, _ = GetSession(c)
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	serve(r, req)

	want := Session{UserID: "u-7", Name: "Ravi", Email: "ravi@example.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("session (-want +got):\n%s", diff)
	}
}

func TestGetSessionWithoutAuth(t *testing.T) {
	w := serve(newRouter(sessionEcho), httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
	}
}

func TestPINRequired(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	tests := []struct {
		name string
		pin  string
		sent string
		want int
	}{
		{name: "open when unset", pin: "", sent: "", want: http.StatusOK},
		{name: "match", pin: "2468", sent: "2468", want: http.StatusOK},
		{name: "missing", pin: "2468", sent: "", want: http.StatusForbidden},
		{name: "mismatch", pin: "2468", sent: "2469", want: http.StatusForbidden},
		{name: "prefix", pin: "2468", sent: "24", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.sent != "" {
				req.Header.Set(PINHeader, tt.sent)
			}
			w := serve(newRouter(PINRequired(tt.pin), ok), req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodOptions, "/x", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Error("missing Access-Control-Allow-Headers")
	}
}
