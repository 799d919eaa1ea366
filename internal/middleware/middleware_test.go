package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/limiter"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, user *app.UserEntity) (bool, error) {
	return r[user.SessionID()], nil
}

func decodeRes(t *testing.T, w *httptest.ResponseRecorder) app.Res {
	t.Helper()
	var res app.Res
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestUserAuthToken(t *testing.T) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "k", Expiry: time.Hour})
	token, user, err := tm.Generate(7, "alice", "")
	require.NoError(t, err)
	revoked := revokedSet{}

	r := gin.New()
	r.GET("/me", UserAuthTokenWithConfig(tm, revoked), func(c *gin.Context) {
		c.String(http.StatusOK, "%d", app.GetUID(c))
	})

	do := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, code.ErrorNotUserAuthToken.Code(), decodeRes(t, w).Code)

	w = do(httptest.NewRequest(http.MethodGet, "/me?token=garbage", nil))
	assert.Equal(t, code.ErrorInvalidUserAuthToken.Code(), decodeRes(t, w).Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = do(req)
	assert.Equal(t, "7", w.Body.String())

	w = do(httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
	assert.Equal(t, "7", w.Body.String())

	revoked[user.SessionID()] = true
	w = do(httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
	assert.Equal(t, code.ErrorInvalidUserAuthToken.Code(), decodeRes(t, w).Code)
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware(TracerConfig{Enabled: true}))
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, GetTraceIDFromGin(c), GetTraceID(c.Request.Context()))
		c.String(http.StatusOK, GetTraceIDFromGin(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(DefaultTraceIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DefaultTraceIDHeader, "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Body.String())
}

func TestTraceMiddlewareStartsSpan(t *testing.T) {
	mt := mocktracer.New()
	opentracing.SetGlobalTracer(mt)
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	r := gin.New()
	r.Use(TraceMiddleware(TracerConfig{Enabled: true}))
	r.GET("/notes/:id", func(c *gin.Context) {
		assert.NotNil(t, opentracing.SpanFromContext(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes/1", nil))

	spans := mt.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /notes/:id", spans[0].OperationName)
	assert.EqualValues(t, http.StatusNoContent, spans[0].Tag("http.status_code"))
}

func TestRateLimiter(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{
		Key: "/login", FillInterval: time.Hour, Capacity: 2, Quantum: 1,
	})
	r := gin.New()
	r.POST("/login", RateLimiter(l), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for range 2 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login?x=1", nil))
		assert.Equal(t, "ok", w.Body.String())
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, code.ErrorTooManyRequests.Code(), decodeRes(t, w).Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryWithLogger(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	res := decodeRes(t, w)
	assert.Equal(t, code.ErrorServerInternal.Code(), res.Code)
	assert.Equal(t, "boom", res.Details)
}

func TestCorsPreflight(t *testing.T) {
	r := gin.New()
	r.Use(Cors([]string{"https://board.example.com"}))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://board.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://board.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
