package ranker

import (
	"context"
	"time"
)

// Observer receives the outcome of every scoring call.
type Observer interface {
	ObserveRankerCall(d time.Duration, err error)
}

type instrumented struct {
	inner Ranker
	obs   Observer
}

// WithObserver wraps r so every call is reported to obs.
func WithObserver(r Ranker, obs Observer) Ranker {
	return &instrumented{inner: r, obs: obs}
}

func (i *instrumented) Rank(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := i.inner.Rank(ctx, req)
	i.obs.ObserveRankerCall(time.Since(start), err)
	return resp, err
}
