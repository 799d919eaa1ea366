// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"time"

	"github.com/haierkeys/fast-note-board/internal/app"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string      `json:"status"`   // "healthy" 或 "unhealthy"
	Version  string      `json:"version"`  // 服务版本号，semver 规范格式
	Uptime   float64     `json:"uptime"`   // 运行时间（秒）
	Database string      `json:"database"` // "connected" 或 "error"
	Peers    int         `json:"peers"`    // 实时连接数
	Host     *HostStatus `json:"host,omitempty"`
}

// HostStatus 主机资源占用
type HostStatus struct {
	MemoryTotal   uint64  `json:"memoryTotal"`
	MemoryUsed    uint64  `json:"memoryUsed"`
	MemoryPercent float64 `json:"memoryPercent"`
	CPUPercent    float64 `json:"cpuPercent"`
}

// Check 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态，包括数据库连接和主机资源
// @Tags 系统
// @Produce json
// @Success 200 {object} pkgapp.Res{data=HealthResponse}
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()

	response := HealthResponse{
		Status:   "healthy",
		Version:  app.CanonicalVersion(h.App.Version().Version),
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",
		Peers:    h.App.Hub.Count(),
	}

	host := &HostStatus{}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		host.MemoryTotal = vm.Total
		host.MemoryUsed = vm.Used
		host.MemoryPercent = vm.UsedPercent
		response.Host = host
	} else {
		h.App.Logger().Debug("HealthHandler.Check host memory", zap.Error(err))
	}
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		host.CPUPercent = percents[0]
		response.Host = host
	}

	sqlDB, err := h.App.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.logError(ctx, "HealthHandler.Check", err)
		response.Status = "unhealthy"
		response.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(response))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}

// Version 返回服务端版本信息
// @Summary 获取服务端版本信息
// @Tags 系统
// @Produce json
// @Success 200 {object} pkgapp.Res{data=app.VersionInfo}
// @Router /api/version [get]
func (h *HealthHandler) Version(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(h.App.Version()))
}
