package checkout

import (
	"errors"
	"testing"

	"github.com/erazemk/delez/internal/model"
)

func testProperty() *model.Property {
	return &model.Property{
		ID:              "P1",
		Name:            "Royal Terrace Residence",
		Status:          model.PropertyStatusActive,
		TotalShares:     100,
		AvailableShares: 85,
		PricePerShare:   25000,
	}
}

func TestWizardCarriesSelection(t *testing.T) {
	s, err := New("u1", testProperty(), 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Require(StepReview); err != nil {
		t.Fatalf("Require review: %v", err)
	}
	if err := s.ConfirmReview(); err != nil {
		t.Fatalf("ConfirmReview: %v", err)
	}

	p, err := NewPayment(MethodCard, "Ana Novak", "4242 4242 4242 4242")
	if err != nil {
		t.Fatalf("NewPayment: %v", err)
	}
	if err := s.SetPayment(p); err != nil {
		t.Fatalf("SetPayment: %v", err)
	}
	if err := s.Complete("inv-1"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if err := s.Require(StepConfirmation); err != nil {
		t.Fatalf("Require confirmation: %v", err)
	}
	if s.PropertyID != "P1" || s.Shares != 3 {
		t.Errorf("expected {P1, 3} at confirmation, got {%s, %d}", s.PropertyID, s.Shares)
	}

	req := s.Request()
	if req.PropertyID != "P1" || req.Shares != 3 || req.Amount != 75000 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestNewRejectsInvalidShares(t *testing.T) {
	for _, shares := range []int{0, -1, 86} {
		if _, err := New("u1", testProperty(), shares); !errors.Is(err, ErrInvalidShares) {
			t.Errorf("shares=%d: expected ErrInvalidShares, got %v", shares, err)
		}
	}
}

func TestNewRejectsUnavailable(t *testing.T) {
	p := testProperty()
	p.Status = model.PropertyStatusSold
	if _, err := New("u1", p, 1); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}

	p = testProperty()
	p.PricePerShare = 0
	if _, err := New("u1", p, 1); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for zero price, got %v", err)
	}
}

func TestNewRequiresUserAndProperty(t *testing.T) {
	if _, err := New("", testProperty(), 1); !errors.Is(err, ErrMissingState) {
		t.Errorf("expected ErrMissingState without user, got %v", err)
	}
	if _, err := New("u1", nil, 1); !errors.Is(err, ErrMissingState) {
		t.Errorf("expected ErrMissingState without property, got %v", err)
	}
}

func TestRequireMissingState(t *testing.T) {
	var nilSession *Session
	for _, step := range []Step{StepReview, StepPayment, StepConfirmation} {
		if err := nilSession.Require(step); !errors.Is(err, ErrMissingState) {
			t.Errorf("nil session at %s: expected ErrMissingState, got %v", step, err)
		}
	}
	if err := nilSession.Require(StepSelectShares); err != nil {
		t.Errorf("share selection should accept a nil session, got %v", err)
	}

	s, _ := New("u1", testProperty(), 2)
	if err := s.Require(StepPayment); !errors.Is(err, ErrMissingState) {
		t.Errorf("payment before review: expected ErrMissingState, got %v", err)
	}

	s.ConfirmReview()
	if err := s.Require(StepConfirmation); !errors.Is(err, ErrMissingState) {
		t.Errorf("confirmation before payment: expected ErrMissingState, got %v", err)
	}

	s.Shares = 0
	if err := s.Require(StepReview); !errors.Is(err, ErrMissingState) {
		t.Errorf("zero shares: expected ErrMissingState, got %v", err)
	}
}

func TestCompleteRequiresPayment(t *testing.T) {
	s, _ := New("u1", testProperty(), 2)
	s.ConfirmReview()

	if err := s.Complete("inv-1"); !errors.Is(err, ErrMissingState) {
		t.Errorf("expected ErrMissingState without payment, got %v", err)
	}

	p, _ := NewPayment(MethodBankTransfer, "Ana", "")
	s.SetPayment(p)
	if err := s.Complete(""); !errors.Is(err, ErrMissingState) {
		t.Errorf("expected ErrMissingState without purchase id, got %v", err)
	}
}

func TestCompletedRejectsEarlierSteps(t *testing.T) {
	s, _ := New("u1", testProperty(), 2)
	s.ConfirmReview()
	p, _ := NewPayment(MethodBankTransfer, "Ana", "")
	s.SetPayment(p)
	s.Fail("network", true)
	if !s.Retryable {
		t.Error("expected the failure to be retryable")
	}
	s.Complete("inv-1")

	if s.LastError != "" || s.Retryable {
		t.Errorf("expected failure cleared on completion, got %q retryable=%v", s.LastError, s.Retryable)
	}
	if err := s.Require(StepPayment); !errors.Is(err, ErrCompleted) {
		t.Errorf("expected ErrCompleted, got %v", err)
	}
	if s.ResumePath() != PathCheckout {
		t.Errorf("expected resume at %s, got %s", PathCheckout, s.ResumePath())
	}
}

func TestPaths(t *testing.T) {
	var nilSession *Session
	if nilSession.EntryPath() != "/properties" {
		t.Errorf("expected catalog for nil session, got %s", nilSession.EntryPath())
	}

	s, _ := New("u1", testProperty(), 1)
	if s.EntryPath() != "/invest/P1" {
		t.Errorf("expected /invest/P1, got %s", s.EntryPath())
	}
	if s.ResumePath() != PathReview {
		t.Errorf("expected %s, got %s", PathReview, s.ResumePath())
	}
	s.ConfirmReview()
	if s.ResumePath() != PathPayment {
		t.Errorf("expected %s, got %s", PathPayment, s.ResumePath())
	}
}

func TestTotal(t *testing.T) {
	s, _ := New("u1", testProperty(), 4)
	if s.Total() != 100000 {
		t.Errorf("expected 100000, got %v", s.Total())
	}
}
