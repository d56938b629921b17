package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
)

var (
	sharedOnce   sync.Once
	sharedEngine Engine
	sharedErr    error
)

// ErrNotInitialized is returned by Shared before Init succeeded.
var ErrNotInitialized = errors.New("ocr engine not initialized")

// Init creates the process-wide engine with factory. Only the first call
// runs the factory; later calls return the engine (or error) it produced.
func Init(factory func() (Engine, error)) (Engine, error) {
	sharedOnce.Do(func() {
		e, err := factory()
		if err != nil {
			sharedErr = fmt.Errorf("failed to initialize ocr engine: %w", err)
			return
		}
		sharedEngine = Serialize(e)
	})
	return sharedEngine, sharedErr
}

// Shared returns the engine created by Init.
func Shared() (Engine, error) {
	if sharedEngine == nil && sharedErr == nil {
		return nil, ErrNotInitialized
	}
	return sharedEngine, sharedErr
}

// Serialize wraps e so that at most one Recognize call runs at a time.
func Serialize(e Engine) Engine {
	if _, ok := e.(*serialized); ok {
		return e
	}
	return &serialized{inner: e}
}

type serialized struct {
	mu    sync.Mutex
	inner Engine
}

func (s *serialized) Name() string { return s.inner.Name() }

func (s *serialized) Recognize(ctx context.Context, img image.Image) (*Pass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.inner.Recognize(ctx, img)
}

func (s *serialized) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Close()
}
