// Package tracer 初始化 jaeger 并注册为全局 opentracing Tracer
package tracer

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

type Config struct {
	ServiceName string
	// AgentHostPort jaeger agent 地址，例如 127.0.0.1:6831
	AgentHostPort string
	// SampleRate 采样率 0..1，<= 0 时全部采样
	SampleRate float64
}

// Setup registers a jaeger tracer as the global tracer. It returns a nil
// closer and leaves the noop tracer in place when AgentHostPort is empty.
// Setup 注册全局 Tracer，未配置 agent 时不做任何事
func Setup(cfg Config) (io.Closer, error) {
	if cfg.AgentHostPort == "" {
		return nil, nil
	}

	sampler := &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeConst, Param: 1}
	if cfg.SampleRate > 0 && cfg.SampleRate < 1 {
		sampler = &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeProbabilistic, Param: cfg.SampleRate}
	}

	jc := jaegercfg.Configuration{
		ServiceName: cfg.ServiceName,
		Sampler:     sampler,
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: cfg.AgentHostPort,
		},
	}

	t, closer, err := jc.NewTracer()
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(t)
	return closer, nil
}
