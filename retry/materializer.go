package retry

import (
	"context"

	"go.uber.org/zap"

	"github.com/KOMKZ/go-yogan-singleton/component"
	"github.com/KOMKZ/go-yogan-singleton/logger"
)

// Materializer retries Instantiate of the wrapped Materializer; Destroy runs once
type Materializer struct {
	next   component.Materializer
	opts   []Option
	logger *logger.CtxZapLogger
}

// NewMaterializer wraps next; a nil log discards retry logs
func NewMaterializer(next component.Materializer, log *logger.CtxZapLogger, opts ...Option) *Materializer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Materializer{next: next, opts: opts, logger: log}
}

// Instantiate implements component.Materializer
func (m *Materializer) Instantiate(ctx context.Context, s component.Singleton) (component.Handle, error) {
	opts := append([]Option{OnRetry(func(attempt int, err error) {
		m.logger.WarnCtx(ctx, "🔁 Instantiation failed, retrying",
			zap.String("component", string(s.ID)), zap.Int("attempt", attempt), zap.Error(err))
	})}, m.opts...)

	return DoWithData(ctx, func(ctx context.Context) (component.Handle, error) {
		return m.next.Instantiate(ctx, s)
	}, opts...)
}

// Destroy implements component.Materializer
func (m *Materializer) Destroy(ctx context.Context, s component.Singleton, h component.Handle) error {
	return m.next.Destroy(ctx, s, h)
}
