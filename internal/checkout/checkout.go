// Package checkout models the four-step share purchase wizard.
//
// A Session is created at the share selection step and carried forward
// through review and payment to confirmation. Every step validates the
// carried state on entry with Require; a session that does not satisfy a
// step is rejected and the caller sends the user back to step 1.
package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/delez/internal/model"
)

// Step is a position in the wizard.
type Step int

// Wizard steps, in order.
const (
	StepSelectShares Step = iota + 1
	StepReview
	StepPayment
	StepConfirmation
)

// Routes of the steps after share selection.
const (
	PathReview   = "/invest/review"
	PathPayment  = "/invest/payment"
	PathCheckout = "/invest/checkout"
	pathCatalog  = "/properties"
)

func (s Step) String() string {
	switch s {
	case StepSelectShares:
		return "select_shares"
	case StepReview:
		return "review"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	// ErrMissingState is returned when the carried state does not satisfy a step.
	ErrMissingState = errors.New("checkout state missing")
	// ErrInvalidShares is returned for share counts outside the available range.
	ErrInvalidShares = errors.New("invalid share count")
	// ErrUnavailable is returned when the property cannot be bought.
	ErrUnavailable = errors.New("property not available for investment")
	// ErrCompleted is returned when an earlier step is entered after confirmation.
	ErrCompleted = errors.New("checkout already completed")
)

// Session is an in-progress share purchase.
type Session struct {
	ID              string
	UserID          string
	PropertyID      string
	PropertyName    string
	PricePerShare   float64
	AvailableShares int
	Shares          int
	Step            Step
	Payment         *Payment
	PurchaseID      string
	LastError       string
	// Retryable reports whether the failure in LastError may be retried
	// with the same payment details.
	Retryable bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// New starts a checkout for shares of property p. The returned session has
// completed share selection and is ready for review.
func New(userID string, p *model.Property, shares int) (*Session, error) {
	if userID == "" || p == nil || p.ID == "" {
		return nil, ErrMissingState
	}
	if !p.IsActive() || p.PricePerShare <= 0 {
		return nil, ErrUnavailable
	}
	if shares < 1 || shares > p.AvailableShares {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidShares, shares, p.AvailableShares)
	}

	now := time.Now().UTC()
	return &Session{
		ID:              uuid.NewString(),
		UserID:          userID,
		PropertyID:      p.ID,
		PropertyName:    p.Name,
		PricePerShare:   p.PricePerShare,
		AvailableShares: p.AvailableShares,
		Shares:          shares,
		Step:            StepReview,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Require checks that the session carries everything needed to enter step.
// A nil session never satisfies any step past share selection.
func (s *Session) Require(step Step) error {
	if step <= StepSelectShares {
		return nil
	}
	if s == nil {
		return ErrMissingState
	}
	if s.PropertyID == "" {
		return fmt.Errorf("%w: property", ErrMissingState)
	}
	if s.Shares < 1 || s.PricePerShare <= 0 {
		return fmt.Errorf("%w: selection", ErrMissingState)
	}
	if s.Step < step {
		return fmt.Errorf("%w: %s not reached", ErrMissingState, step)
	}

	switch step {
	case StepReview, StepPayment:
		if s.Step == StepConfirmation {
			return ErrCompleted
		}
	case StepConfirmation:
		if s.Payment == nil {
			return fmt.Errorf("%w: payment", ErrMissingState)
		}
		if s.PurchaseID == "" {
			return fmt.Errorf("%w: purchase", ErrMissingState)
		}
	}
	return nil
}

// ConfirmReview accepts the reviewed order and unlocks payment.
func (s *Session) ConfirmReview() error {
	if err := s.Require(StepReview); err != nil {
		return err
	}
	if s.Step < StepPayment {
		s.Step = StepPayment
	}
	s.touch()
	return nil
}

// SetPayment records the payment details collected at the payment step.
func (s *Session) SetPayment(p Payment) error {
	if err := s.Require(StepPayment); err != nil {
		return err
	}
	s.Payment = &p
	s.touch()
	return nil
}

// Fail records a terminal-step failure shown on the payment page.
func (s *Session) Fail(msg string, retryable bool) {
	s.LastError = msg
	s.Retryable = retryable
	s.touch()
}

// Complete marks the purchase as created by the backend.
func (s *Session) Complete(purchaseID string) error {
	if err := s.Require(StepPayment); err != nil {
		return err
	}
	if s.Payment == nil {
		return fmt.Errorf("%w: payment", ErrMissingState)
	}
	if purchaseID == "" {
		return fmt.Errorf("%w: purchase", ErrMissingState)
	}
	s.PurchaseID = purchaseID
	s.Step = StepConfirmation
	s.LastError = ""
	s.Retryable = false
	s.touch()
	return nil
}

// Total returns the cost of the selected shares.
func (s *Session) Total() float64 {
	return float64(s.Shares) * s.PricePerShare
}

// Request builds the purchase call for the terminal step.
func (s *Session) Request() model.InvestmentRequest {
	req := model.InvestmentRequest{
		PropertyID: s.PropertyID,
		Shares:     s.Shares,
		Amount:     s.Total(),
	}
	if s.Payment != nil {
		req.PaymentMethod = s.Payment.Method
	}
	return req
}

// EntryPath returns the share selection route for this session's property.
func (s *Session) EntryPath() string {
	if s == nil || s.PropertyID == "" {
		return pathCatalog
	}
	return "/invest/" + s.PropertyID
}

// ResumePath returns the route of the furthest step reached.
func (s *Session) ResumePath() string {
	if s == nil {
		return pathCatalog
	}
	switch s.Step {
	case StepReview:
		return PathReview
	case StepPayment:
		return PathPayment
	case StepConfirmation:
		return PathCheckout
	default:
		return s.EntryPath()
	}
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
