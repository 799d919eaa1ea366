// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-note-board/internal/service"
	"github.com/haierkeys/fast-note-board/pkg/util"
	"github.com/haierkeys/fast-note-board/pkg/workerpool"
	"github.com/haierkeys/fast-note-board/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	User     UserConfig     `yaml:"user"`
	Security SecurityConfig `yaml:"security"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Session  SessionConfig  `yaml:"session"`
	Tracer   TracerConfig   `yaml:"tracer"`
	Task     TaskConfig     `yaml:"task"`
	Tag      TagConfig      `yaml:"tag"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空时只输出到控制台
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
	// PrivateToken 私有路由访问 Token，为空时不校验
	PrivateToken string `yaml:"private-token"`
	// CorsAllowOrigins 允许跨域的来源，为空时允许全部
	CorsAllowOrigins []string `yaml:"cors-allow-origins"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"fast-note-board-Auth-Token"`
	// TokenExpiry Token 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"7d"`
	// AuthRateLimit 认证接口每分钟允许的请求数，0 表示不限制
	AuthRateLimit int64 `yaml:"auth-rate-limit" default:"30"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time"`
	// SSLMode postgres sslmode
	SSLMode string `yaml:"ssl-mode" default:"disable"`
	// MaxIdleConns 最大闲置连接数，默认 10
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数，默认 100
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，默认 30m
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期，默认 10m
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// UserConfig 用户配置
type UserConfig struct {
	// RegisterIsEnable 注册是否启用
	RegisterIsEnable bool `yaml:"register-is-enable" default:"true"`
	// ResetTokenExpiry 找回密码令牌有效期
	ResetTokenExpiry string `yaml:"reset-token-expiry" default:"1h"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"100"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"1000"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
}

// RealtimeConfig 实时通道配置
type RealtimeConfig struct {
	// Scope 广播范围 owner / global
	Scope string `yaml:"scope" default:"owner"`
	// PingInterval 服务端 ping 间隔
	PingInterval string `yaml:"ping-interval" default:"25s"`
	// PingWait 读超时，超过即断开
	PingWait string `yaml:"ping-wait" default:"40s"`
	// MaxPayloadSize 单帧最大字节数
	MaxPayloadSize int `yaml:"max-payload-size" default:"65536"`
}

// SessionConfig Token 注销存储配置
type SessionConfig struct {
	// RedisURL 例如 redis://localhost:6379/0，为空时使用内存存储
	RedisURL string `yaml:"redis-url"`
	// Prefix Redis 键前缀
	Prefix string `yaml:"prefix" default:"fnb:revoked:"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent jaeger agent 地址，留空不上报 span
	JaegerAgent string `yaml:"jaeger-agent"`
	// SampleRate 采样率 0..1
	SampleRate float64 `yaml:"sample-rate" default:"1"`
}

// TaskConfig 定时任务配置
type TaskConfig struct {
	// ResetTokenCleanupSpec 清理过期找回密码令牌的 cron 表达式
	ResetTokenCleanupSpec string `yaml:"reset-token-cleanup-spec" default:"0 0 * * *"`
	// SessionSweepInterval 内存会话存储清理间隔
	SessionSweepInterval string `yaml:"session-sweep-interval" default:"10m"`
}

// TagConfig 系统标签配置
type TagConfig struct {
	System []service.SystemTag `yaml:"system"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath
	return c, realpath, nil
}

// ParseConfig 解析 YAML 配置并填充默认值
func ParseConfig(data []byte) (*AppConfig, error) {
	c := new(AppConfig)

	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	// 默认值先行，YAML 中的显式 false / 0 不会被再次覆盖
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	return c, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err := os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}

	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if c.App.WriteQueueTimeout != "" {
		if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil {
			cfg.WriteTimeout = timeout
		}
	}

	return cfg
}

// GetTokenExpiry 获取 Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	return durationOr(c.Security.TokenExpiry, 7*24*time.Hour)
}

// GetPingInterval 获取实时连接 ping 间隔
func (c *AppConfig) GetPingInterval() time.Duration {
	return durationOr(c.Realtime.PingInterval, 25*time.Second)
}

// GetPingWait 获取实时连接读超时
func (c *AppConfig) GetPingWait() time.Duration {
	return durationOr(c.Realtime.PingWait, 40*time.Second)
}

// GetSessionSweepInterval 获取内存会话清理间隔
func (c *AppConfig) GetSessionSweepInterval() time.Duration {
	return durationOr(c.Task.SessionSweepInterval, 10*time.Minute)
}

// GetContextTimeout 获取请求上下文超时
func (c *AppConfig) GetContextTimeout() time.Duration {
	return time.Duration(c.App.DefaultContextTimeout) * time.Second
}

// GetServiceConfig 提取 Service 层需要的配置
func (c *AppConfig) GetServiceConfig() *service.ServiceConfig {
	return &service.ServiceConfig{
		User: service.UserServiceConfig{
			RegisterIsEnable: c.User.RegisterIsEnable,
			ResetTokenExpiry: durationOr(c.User.ResetTokenExpiry, time.Hour),
		},
		Tag: service.TagServiceConfig{
			SystemTags: c.Tag.System,
		},
	}
}

func durationOr(s string, fallback time.Duration) time.Duration {
	if d, err := util.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return fallback
}
