package tracer

import (
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithoutAgentKeepsNoop(t *testing.T) {
	closer, err := Setup(Config{ServiceName: "board"})
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.IsType(t, opentracing.NoopTracer{}, opentracing.GlobalTracer())
}

func TestSetupRegistersGlobalTracer(t *testing.T) {
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	closer, err := Setup(Config{ServiceName: "board", AgentHostPort: "127.0.0.1:6831", SampleRate: 0.5})
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer closer.Close()

	assert.NotEqual(t, opentracing.NoopTracer{}, opentracing.GlobalTracer())
	span := opentracing.GlobalTracer().StartSpan("probe")
	span.Finish()
}
