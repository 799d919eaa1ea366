package service

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/pkg/code"
)

// WriteSerializer runs fn exclusively for one owner. Nested calls for the
// same owner made with the ctx handed to fn must run inline.
// WriteSerializer 按所有者串行执行写操作
type WriteSerializer interface {
	Execute(ctx context.Context, uid int64, fn func(ctx context.Context) error) error
}

// inlineSerializer runs fn directly, used when no write queue is configured.
type inlineSerializer struct{}

func (inlineSerializer) Execute(ctx context.Context, _ int64, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func serializerOrInline(q WriteSerializer) WriteSerializer {
	if q == nil {
		return inlineSerializer{}
	}
	return q
}

// Clock returns the current time. Tests replace it.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// mapNotFound replaces a domain NotFound with c and keeps every other error.
func mapNotFound(err error, c *code.Code) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c
	}
	return err
}
