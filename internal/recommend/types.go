// Package recommend turns an assistant conversation into pricing inputs and
// reconciles AI recommendations with the user's working calculation.
package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/pricecraft/internal/pricing"
)

var (
	// ErrUnavailable means no recommender is configured or reachable.
	ErrUnavailable = errors.New("recommendation service unavailable")

	// ErrMalformed means the service answered with data that does not
	// describe valid pricing inputs.
	ErrMalformed = errors.New("malformed recommendation")

	// ErrInsufficientContext means the conversation is too short to
	// recommend from. It matches ErrUnavailable.
	ErrInsufficientContext = fmt.Errorf("%w: not enough conversation", ErrUnavailable)
)

// MinTurns is the number of recorded messages, system prompt included,
// needed before a recommendation is requested.
const MinTurns = 3

// Source records where a recommendation came from.
type Source string

const (
	SourceAI      Source = "ai"
	SourceDefault Source = "default"
)

// Recommendation is a suggested set of pricing inputs.
type Recommendation struct {
	MaterialCost float64 `json:"material_cost"`
	HoursWorked  float64 `json:"hours_worked"`
	LaborRate    float64 `json:"labor_rate"`
	Uniqueness   float64 `json:"uniqueness"`
	Demand       float64 `json:"demand"`
	SellingPrice float64 `json:"selling_price"`
	Explanation  string  `json:"explanation"`

	Source Source `json:"source"`
	// Reason is set on defaults and says why the AI was not used.
	Reason error `json:"-"`
}

// IsDefault reports whether r is a fallback rather than an AI answer.
func (r Recommendation) IsDefault() bool {
	return r.Source != SourceAI
}

// Apply maps a recommendation onto pricing inputs. A selling price that is
// not positive becomes the auto-calculate sentinel.
func Apply(rec Recommendation) pricing.Inputs {
	in := pricing.Inputs{
		MaterialCost: rec.MaterialCost,
		HoursWorked:  rec.HoursWorked,
		LaborRate:    rec.LaborRate,
		Uniqueness:   rec.Uniqueness,
		Demand:       rec.Demand,
	}
	if rec.SellingPrice > 0 {
		in.SellingPrice = rec.SellingPrice
	}
	return in
}

// fallbackExplanation flags a default so it is never mistaken for advice.
const fallbackExplanation = "These are default recommendations since the AI is not available " +
	"or couldn't generate specific recommendations. Please adjust based on your specific product."

// Fallback returns the fixed default recommendation, marked as such.
func Fallback() Recommendation {
	d := pricing.DefaultInputs()
	return Recommendation{
		MaterialCost: d.MaterialCost,
		HoursWorked:  d.HoursWorked,
		LaborRate:    d.LaborRate,
		Uniqueness:   d.Uniqueness,
		Demand:       d.Demand,
		SellingPrice: d.SellingPrice,
		Explanation:  fallbackExplanation,
		Source:       SourceDefault,
		Reason:       ErrUnavailable,
	}
}

// FallbackFor returns Fallback with reason recorded.
func FallbackFor(reason error) Recommendation {
	rec := Fallback()
	if reason != nil {
		rec.Reason = reason
	}
	return rec
}

// Role is the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Recommender converts a conversation summary into a recommendation.
type Recommender interface {
	Recommend(ctx context.Context, summary string) (Recommendation, error)
	Available() bool
}

// Chatter produces the assistant's next reply for a message history.
type Chatter interface {
	Chat(ctx context.Context, history []Message) (string, error)
}

// Backend is a text-completion service that can both chat and recommend.
type Backend interface {
	Recommender
	Chatter
	Name() string
}

// Unavailable is the backend used when no service is configured. Every
// call fails with ErrUnavailable.
type Unavailable struct {
	// Why is appended to the error, e.g. "no API key".
	Why string
}

var _ Backend = Unavailable{}

func (u Unavailable) err() error {
	if u.Why == "" {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, u.Why)
}

func (u Unavailable) Recommend(context.Context, string) (Recommendation, error) {
	return Recommendation{}, u.err()
}

func (u Unavailable) Chat(context.Context, []Message) (string, error) {
	return "", u.err()
}

func (Unavailable) Available() bool { return false }

func (Unavailable) Name() string { return "none" }
