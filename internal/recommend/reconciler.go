package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/theirongolddev/pricecraft/internal/logging"
	"github.com/theirongolddev/pricecraft/internal/pricing"
)

// Reconciler tracks the working inputs of a calculation session together
// with its two baselines: the configured defaults and the current
// recommendation. Observers are told about every change to the working
// inputs.
type Reconciler struct {
	recommender Recommender
	defaults    pricing.Inputs

	mu        sync.Mutex
	current   *Recommendation
	working   pricing.Inputs
	observers []func(pricing.Inputs)
}

// NewReconciler creates a reconciler whose working inputs start at defaults.
// A nil recommender behaves like Unavailable.
func NewReconciler(r Recommender, defaults pricing.Inputs) *Reconciler {
	if r == nil {
		r = Unavailable{}
	}
	return &Reconciler{
		recommender: r,
		defaults:    defaults,
		working:     defaults,
	}
}

// Available reports whether recommendations can come from the service.
func (r *Reconciler) Available() bool {
	return r.recommender.Available()
}

// Defaults returns the defaults baseline.
func (r *Reconciler) Defaults() pricing.Inputs {
	return r.defaults
}

// Subscribe registers fn to receive the working inputs after each change.
func (r *Reconciler) Subscribe(fn func(pricing.Inputs)) {
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	r.mu.Unlock()
}

// Working returns the working inputs.
func (r *Reconciler) Working() pricing.Inputs {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.working
}

// SetWorking replaces the working inputs after validating them.
func (r *Reconciler) SetWorking(in pricing.Inputs) error {
	if err := pricing.Validate(in); err != nil {
		return err
	}
	r.setWorking(in)
	return nil
}

// Current returns the tracked recommendation, if any.
func (r *Reconciler) Current() (Recommendation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return Recommendation{}, false
	}
	return *r.current, true
}

// Accept makes rec the current recommendation, replacing any earlier one,
// and loads it into the working inputs.
func (r *Reconciler) Accept(rec Recommendation) (pricing.Inputs, error) {
	in := Apply(rec)
	if err := pricing.Validate(in); err != nil {
		return pricing.Inputs{}, err
	}

	r.mu.Lock()
	r.current = &rec
	r.mu.Unlock()

	r.setWorking(in)
	return in, nil
}

// ResetToRecommendation restores the working inputs to the current
// recommendation. It reports false when there is none.
func (r *Reconciler) ResetToRecommendation() (pricing.Inputs, bool) {
	rec, ok := r.Current()
	if !ok {
		return r.Working(), false
	}
	in := Apply(rec)
	r.setWorking(in)
	return in, true
}

// ResetToDefaults restores the working inputs to the defaults baseline.
func (r *Reconciler) ResetToDefaults() pricing.Inputs {
	r.setWorking(r.defaults)
	return r.defaults
}

// Recommend asks the service for a recommendation based on conv. It never
// fails: when no usable answer is available it returns a Fallback whose
// Reason says why.
func (r *Reconciler) Recommend(ctx context.Context, conv *Conversation) Recommendation {
	if conv != nil {
		ctx = logging.WithConversation(ctx, conv.ID())
	}
	log := logging.FromContext(ctx)

	if !r.recommender.Available() {
		log.Info("recommender unavailable, using defaults")
		return FallbackFor(ErrUnavailable)
	}
	if conv == nil || conv.Turns() < MinTurns {
		log.Info("not enough conversation for a recommendation")
		return FallbackFor(ErrInsufficientContext)
	}

	rec, err := r.recommender.Recommend(ctx, conv.Summary())
	if err != nil {
		if !errors.Is(err, ErrUnavailable) && !errors.Is(err, ErrMalformed) {
			err = fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		log.Warn("recommendation failed, using defaults", logging.Error(err))
		return FallbackFor(err)
	}

	rec.Source = SourceAI
	rec.Reason = nil
	if err := pricing.Validate(Apply(rec)); err != nil {
		err = fmt.Errorf("%w: %w", ErrMalformed, err)
		log.Warn("recommendation out of range, using defaults", logging.Error(err))
		return FallbackFor(err)
	}

	log.Info("recommendation received",
		logging.Float64("material_cost", rec.MaterialCost),
		logging.Float64("hours_worked", rec.HoursWorked),
		logging.Float64("labor_rate", rec.LaborRate),
	)
	return rec
}

// RecommendAsync runs Recommend on its own goroutine. The channel receives
// exactly one value and is then closed.
func (r *Reconciler) RecommendAsync(ctx context.Context, conv *Conversation) <-chan Recommendation {
	out := make(chan Recommendation, 1)
	go func() {
		defer close(out)
		out <- r.Recommend(ctx, conv)
	}()
	return out
}

func (r *Reconciler) setWorking(in pricing.Inputs) {
	r.mu.Lock()
	r.working = in
	observers := slices.Clone(r.observers)
	r.mu.Unlock()

	for _, fn := range observers {
		fn(in)
	}
}
