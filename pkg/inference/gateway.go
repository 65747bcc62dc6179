package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-formpredict/pkg/inference/store"
)

// Gateway loads and invokes models.
type Gateway struct {
	store  store.Store
	decode Decoder
	logger *zap.Logger

	mu      sync.RWMutex
	handles map[string]*Handle
	group   singleflight.Group
}

// NewGateway constructs a gateway reading artifacts from src. A nil store
// serves only models registered with WithModel.
func NewGateway(src store.Store, opts ...Option) *Gateway {
	g := &Gateway{
		store:   src,
		decode:  DecodeArtifact,
		logger:  zap.NewNop(),
		handles: make(map[string]*Handle),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Load returns the cached handle for ref, loading it on first use. Callers
// racing on the same ref share one fetch, which is detached from the
// cancellation of whichever caller started it.
func (g *Gateway) Load(ctx context.Context, ref string) (*Handle, error) {
	if h, ok := g.cached(ref); ok {
		return h, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := g.group.Do(ref, func() (any, error) {
		if h, ok := g.cached(ref); ok {
			return h, nil
		}
		h, err := g.load(loadCtx, ref)
		if err != nil {
			return nil, err
		}
		g.mu.Lock()
		g.handles[ref] = h
		g.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Handle), nil
}

func (g *Gateway) cached(ref string) (*Handle, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	h, ok := g.handles[ref]
	return h, ok
}

func (g *Gateway) load(ctx context.Context, ref string) (*Handle, error) {
	if g.store == nil {
		return nil, &ModelNotFoundError{Ref: ref, Cause: store.ErrNotFound}
	}

	start := time.Now()
	g.logger.Debug("loading model", zap.String("model_ref", ref))

	data, err := g.store.Fetch(ctx, ref)
	if err != nil {
		g.logger.Warn("model load failed", zap.String("model_ref", ref), zap.Error(err))
		if errors.Is(err, store.ErrNotFound) {
			return nil, &ModelNotFoundError{Ref: ref, Cause: err}
		}
		return nil, &LoadError{Ref: ref, Cause: err}
	}

	model, err := g.decode(ref, data)
	if err != nil {
		g.logger.Warn("model decode failed", zap.String("model_ref", ref), zap.Error(err))
		return nil, &LoadError{Ref: ref, Cause: err}
	}
	if model == nil {
		return nil, &LoadError{Ref: ref, Cause: errors.New("decoder returned no model")}
	}

	g.logger.Info("model loaded",
		zap.String("model_ref", ref),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Handle{Ref: ref, Model: model}, nil
}

// Preload loads every ref concurrently and returns the first failure.
func (g *Gateway) Preload(ctx context.Context, refs ...string) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, ref := range refs {
		eg.Go(func() error {
			_, err := g.Load(ctx, ref)
			return err
		})
	}
	return eg.Wait()
}

// Loaded lists the cached references in sorted order.
func (g *Gateway) Loaded() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.handles))
	for ref := range g.handles {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}

// Infer runs the handle's classifier on vector. The probability is captured
// when the model also estimates probabilities and returns two finite values;
// any failure of that optional capability drops the probability.
func (g *Gateway) Infer(h *Handle, vector []float64) (Result, error) {
	if h == nil || h.Model == nil {
		return Result{}, &InferenceError{Cause: errors.New("nil model handle")}
	}

	raw, err := predict(h.Model, vector)
	if err != nil {
		return Result{}, &InferenceError{Ref: h.Ref, Cause: err}
	}
	class, err := coerceClass(raw)
	if err != nil {
		return Result{}, &InferenceError{Ref: h.Ref, Cause: err}
	}

	result := Result{Class: class}
	if est, ok := h.Model.(ProbabilityEstimator); ok {
		proba, err := predictProba(est, vector)
		switch {
		case err != nil:
			g.logger.Debug("probability unavailable", zap.String("model_ref", h.Ref), zap.Error(err))
		case len(proba) == 2 && finite(proba[0]) && finite(proba[1]):
			result.Probability = &Probability{Negative: proba[0], Positive: proba[1]}
		}
	}
	return result, nil
}

// Predict loads ref and infers in one call.
func (g *Gateway) Predict(ctx context.Context, ref string, vector []float64) (Result, error) {
	h, err := g.Load(ctx, ref)
	if err != nil {
		return Result{}, err
	}
	return g.Infer(h, vector)
}

func predict(model Classifier, vector []float64) (out float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()
	return model.Predict(append([]float64(nil), vector...))
}

func predictProba(est ProbabilityEstimator, vector []float64) (out []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probability panicked: %v", r)
		}
	}()
	return est.PredictProba(append([]float64(nil), vector...))
}

func coerceClass(raw float64) (int, error) {
	switch raw {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: got %v", ErrInvalidClass, raw)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
