package routers

import (
	"time"

	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/internal/middleware"
	"github.com/haierkeys/fast-note-board/internal/routers/api_router"
	"github.com/haierkeys/fast-note-board/internal/routers/websocket_router"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/lxzan/gws"
)

// authLimitedRoutes 按路径限流的认证接口
var authLimitedRoutes = []string{
	"/api/v1/auth/register",
	"/api/v1/auth/login",
	"/api/v1/auth/reset-password",
}

// newAuthLimiter 每个认证接口每分钟最多 perMinute 次请求
func newAuthLimiter(perMinute int64) limiter.Face {
	l := limiter.NewMethodLimiter()
	if perMinute <= 0 {
		return l
	}
	for _, key := range authLimitedRoutes {
		l.AddBuckets(limiter.BucketRule{
			Key:          key,
			FillInterval: time.Minute,
			Capacity:     perMinute,
			Quantum:      perMinute,
		})
	}
	return l
}

// NewWebsocketServer builds the realtime server and registers its handlers.
// NewWebsocketServer 创建实时通道服务并注册消息处理器
func NewWebsocketServer(appContainer *app.App) *pkgapp.WebsocketServer {
	cfg := appContainer.Config()

	wss := pkgapp.NewWebsocketServer(pkgapp.WebsocketServerConfig{
		GWSOption: gws.ServerOption{
			CheckUtf8Enabled:    true,
			ParallelEnabled:     false,        // 同一连接的消息按到达顺序逐条处理
			Recovery:            gws.Recovery, // 开启异常恢复
			ReadMaxPayloadSize:  cfg.Realtime.MaxPayloadSize,
			WriteMaxPayloadSize: cfg.Realtime.MaxPayloadSize,
		},
		PingInterval: cfg.GetPingInterval(),
		PingWait:     cfg.GetPingWait(),
	}, appContainer.Hub, appContainer.Logger())

	positionHandler := websocket_router.NewPositionHandler(appContainer)

	// 笔记坐标 / 排序变更
	wss.Use(dto.UpdateNotePosition, positionHandler.UpdatePosition)

	wss.UseUserVerify(appContainer.UserService.VerifyUser)

	return wss
}

func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	cfg := appContainer.Config()
	lg := appContainer.Logger()

	wss := NewWebsocketServer(appContainer)
	userAuth := middleware.UserAuthTokenWithConfig(appContainer.TokenManager, appContainer.UserService)

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddleware(middleware.TracerConfig{Enabled: cfg.Tracer.Enabled, Header: cfg.Tracer.Header}))
		api.Use(middleware.Cors(cfg.Server.CorsAllowOrigins))
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(lg))
		api.Use(middleware.RecoveryWithLogger(lg))

		healthHandler := api_router.NewHealthHandler(appContainer)
		api.GET("/health", healthHandler.Check)
		api.GET("/version", healthHandler.Version)

		// 实时通道不受请求超时限制
		api.GET("/v1/realtime", userAuth, wss.Run())

		v1 := api.Group("/v1")
		v1.Use(middleware.RateLimiter(newAuthLimiter(cfg.Security.AuthRateLimit)))
		v1.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))

		userHandler := api_router.NewUserHandler(appContainer)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", userHandler.Register)
			auth.POST("/login", userHandler.Login)
			auth.POST("/reset-password", userHandler.IssueResetToken)
			auth.GET("/reset-password/validate", userHandler.ValidateResetToken)
			auth.PATCH("/reset-password", userHandler.ResetPassword)

			auth.POST("/logout", userAuth, userHandler.Logout)
			auth.GET("/me", userAuth, userHandler.Me)
			auth.PATCH("/profile", userAuth, userHandler.UpdateProfile)
			auth.POST("/change-password", userAuth, userHandler.ChangePassword)
		}

		noteHandler := api_router.NewNoteHandler(appContainer)
		notes := v1.Group("/notes", userAuth)
		{
			notes.POST("", noteHandler.Create)
			notes.GET("", noteHandler.List)
			notes.GET("/:noteId", noteHandler.Get)
			notes.PUT("/:noteId", noteHandler.Update)
			notes.DELETE("/:noteId", noteHandler.Delete)
		}

		tagHandler := api_router.NewTagHandler(appContainer)
		tags := v1.Group("/tags", userAuth)
		{
			tags.GET("", tagHandler.List)
			tags.POST("", tagHandler.Create)
			tags.PATCH("/:tagId", tagHandler.Update)
			tags.DELETE("/:tagId", tagHandler.Delete)
		}
	}

	r.NoRoute(middleware.NoFound())

	return r
}
