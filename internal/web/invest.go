package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/checkout"
	"github.com/erazemk/delez/internal/model"
	"github.com/erazemk/delez/internal/session"
	"github.com/erazemk/delez/internal/store"
)

// Checkout step messages.
const (
	msgPurchaseRetry  = "We could not complete your purchase. Your payment details are kept; please try again."
	msgPurchaseFailed = "Your purchase was rejected. Please review your order and try again."
)

type investPage struct {
	PageData
	Checkout *checkout.Session
	Property *model.Property
	Shares   int
	Step     checkout.Step
	Steps    []string
	Retry    bool
	Methods  []paymentMethod
	Method   string
	Holder   string
}

type paymentMethod struct {
	Value, Label string
}

var paymentMethods = []paymentMethod{
	{checkout.MethodCard, "Credit or debit card"},
	{checkout.MethodBankTransfer, "Bank transfer"},
}

var stepLabels = []string{"Select Shares", "Review", "Payment", "Confirmation"}

func (s *Server) investPage(r *http.Request, title string, step checkout.Step) investPage {
	return investPage{
		PageData: s.page(r, title),
		Step:     step,
		Steps:    stepLabels,
		Methods:  paymentMethods,
	}
}

// loadCheckout returns the signed-in user's checkout named by the cookie,
// or nil.
func (s *Server) loadCheckout(r *http.Request) (*checkout.Session, error) {
	sess := session.FromContext(r.Context())
	c, err := r.Cookie(session.CheckoutCookie)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	return store.GetCheckout(r.Context(), s.DB, c.Value, sess.UserID)
}

// guard loads the checkout and checks it may enter step. It redirects and
// returns nil when it may not.
func (s *Server) guard(w http.ResponseWriter, r *http.Request, step checkout.Step) *checkout.Session {
	co, err := s.loadCheckout(r)
	if err != nil {
		slog.Error("failed to load checkout", "error", err)
		s.errorPage(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return nil
	}

	err = co.Require(step)
	switch {
	case err == nil:
		return co
	case errors.Is(err, checkout.ErrCompleted):
		http.Redirect(w, r, checkout.PathCheckout, http.StatusSeeOther)
	default:
		slog.Debug("checkout state rejected", "step", step.String(), "error", err)
		http.Redirect(w, r, co.EntryPath(), http.StatusSeeOther)
	}
	return nil
}

func (s *Server) saveCheckout(w http.ResponseWriter, r *http.Request, co *checkout.Session) bool {
	if err := store.SaveCheckout(r.Context(), s.DB, co); err != nil {
		slog.Error("failed to save checkout", "checkout", co.ID, "error", err)
		s.errorPage(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return false
	}
	return true
}

// InvestSelectPage handles GET /invest/{propertyID}.
func (s *Server) InvestSelectPage(w http.ResponseWriter, r *http.Request) {
	p, ok := s.investProperty(w, r)
	if !ok {
		return
	}

	page := s.investPage(r, "Select Shares", checkout.StepSelectShares)
	page.Property = p
	page.Shares = 1
	if !p.IsActive() {
		page.Error = "This property is not available for investment."
	}
	s.Templates.Render(w, "invest_select.html", &page)
}

// InvestSelectSubmit handles POST /invest/{propertyID}. Every submission
// starts a new checkout.
func (s *Server) InvestSelectSubmit(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	p, ok := s.investProperty(w, r)
	if !ok {
		return
	}

	shares, _ := strconv.Atoi(r.FormValue("shares"))
	co, err := checkout.New(sess.UserID, p, shares)
	if err != nil {
		page := s.investPage(r, "Select Shares", checkout.StepSelectShares)
		page.Property = p
		page.Shares = shares
		switch {
		case errors.Is(err, checkout.ErrInvalidShares):
			page.Error = "Choose between 1 and " + strconv.Itoa(p.AvailableShares) + " shares."
		default:
			page.Error = "This property is not available for investment."
		}
		s.Templates.RenderStatus(w, http.StatusUnprocessableEntity, "invest_select.html", &page)
		return
	}

	if prev, _ := r.Cookie(session.CheckoutCookie); prev != nil && prev.Value != "" {
		if err := store.DeleteCheckout(r.Context(), s.DB, prev.Value, sess.UserID); err != nil {
			slog.Warn("failed to delete previous checkout", "checkout", prev.Value, "error", err)
		}
	}
	if !s.saveCheckout(w, r, co) {
		return
	}
	s.Sessions.SetCheckout(w, co.ID)

	slog.Info("checkout started", "user", sess.UserID, "checkout", co.ID, "property", p.ID, "shares", shares)
	http.Redirect(w, r, checkout.PathReview, http.StatusSeeOther)
}

// investProperty fetches the property named in the path, rendering an
// error page when it cannot.
func (s *Server) investProperty(w http.ResponseWriter, r *http.Request) (*model.Property, bool) {
	id := chi.URLParam(r, "propertyID")
	p, err := s.Backend.GetProperty(r.Context(), id)
	if backend.IsKind(err, backend.KindNotFound) {
		s.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		slog.Error("failed to get property", "property", id, "error", err)
		s.errorPage(w, r, http.StatusBadGateway, "Failed to load the property. Please try again later.")
		return nil, false
	}
	return p, true
}

// InvestReviewPage handles GET /invest/review.
func (s *Server) InvestReviewPage(w http.ResponseWriter, r *http.Request) {
	co := s.guard(w, r, checkout.StepReview)
	if co == nil {
		return
	}
	page := s.investPage(r, "Review Investment", checkout.StepReview)
	page.Checkout = co
	s.Templates.Render(w, "invest_review.html", &page)
}

// InvestReviewSubmit handles POST /invest/review.
func (s *Server) InvestReviewSubmit(w http.ResponseWriter, r *http.Request) {
	co := s.guard(w, r, checkout.StepReview)
	if co == nil {
		return
	}
	if err := co.ConfirmReview(); err != nil {
		http.Redirect(w, r, co.EntryPath(), http.StatusSeeOther)
		return
	}
	if !s.saveCheckout(w, r, co) {
		return
	}
	http.Redirect(w, r, checkout.PathPayment, http.StatusSeeOther)
}

// InvestPaymentPage handles GET /invest/payment.
func (s *Server) InvestPaymentPage(w http.ResponseWriter, r *http.Request) {
	co := s.guard(w, r, checkout.StepPayment)
	if co == nil {
		return
	}
	page := s.investPage(r, "Payment", checkout.StepPayment)
	page.Checkout = co
	page.Method = checkout.MethodCard
	if co.Payment != nil {
		page.Method = co.Payment.Method
		page.Holder = co.Payment.Holder
		page.Retry = co.Retryable
	}
	page.Error = co.LastError
	s.Templates.Render(w, "invest_payment.html", &page)
}

// InvestPaymentSubmit handles POST /invest/payment. It records the payment
// details and makes the single purchase call. The checkout id is the
// idempotency key, so a retry after a failure cannot buy twice.
func (s *Server) InvestPaymentSubmit(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	co := s.guard(w, r, checkout.StepPayment)
	if co == nil {
		return
	}

	retry := r.FormValue("retry") != "" && co.Payment != nil && co.Retryable
	if !retry {
		p, err := checkout.NewPayment(r.FormValue("method"), r.FormValue("holder"), r.FormValue("card_number"))
		if err != nil {
			page := s.investPage(r, "Payment", checkout.StepPayment)
			page.Checkout = co
			page.Method = r.FormValue("method")
			page.Holder = r.FormValue("holder")
			page.Error = "Please check your payment details."
			s.Templates.RenderStatus(w, http.StatusUnprocessableEntity, "invest_payment.html", &page)
			return
		}
		if err := co.SetPayment(p); err != nil {
			http.Redirect(w, r, co.EntryPath(), http.StatusSeeOther)
			return
		}
	}

	inv, err := s.Backend.CreateInvestment(r.Context(), sess.Token, co.ID, co.Request())
	if err != nil {
		slog.Error("purchase failed", "user", sess.UserID, "checkout", co.ID, "retryable", backend.IsRetryable(err), "error", err)
		if backend.IsKind(err, backend.KindUnauthorized) {
			if err := s.Sessions.End(r.Context(), w, sess); err != nil {
				slog.Error("failed to end rejected session", "user", sess.UserID, "error", err)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		retryable := backend.IsRetryable(err)
		msg := msgPurchaseFailed
		if retryable {
			msg = msgPurchaseRetry
		}
		co.Fail(msg, retryable)
		if !s.saveCheckout(w, r, co) {
			return
		}

		page := s.investPage(r, "Payment", checkout.StepPayment)
		page.Checkout = co
		page.Method = co.Payment.Method
		page.Holder = co.Payment.Holder
		page.Retry = retryable
		page.Error = msg
		s.Templates.RenderStatus(w, http.StatusBadGateway, "invest_payment.html", &page)
		return
	}

	if err := co.Complete(inv.ID); err != nil {
		slog.Error("failed to complete checkout", "checkout", co.ID, "error", err)
		s.errorPage(w, r, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	if !s.saveCheckout(w, r, co) {
		return
	}

	slog.Info("investment created", "user", sess.UserID, "checkout", co.ID, "investment", inv.ID,
		"property", co.PropertyID, "shares", co.Shares)
	http.Redirect(w, r, checkout.PathCheckout, http.StatusSeeOther)
}

// InvestCheckoutPage handles GET /invest/checkout.
func (s *Server) InvestCheckoutPage(w http.ResponseWriter, r *http.Request) {
	co := s.guard(w, r, checkout.StepConfirmation)
	if co == nil {
		return
	}
	page := s.investPage(r, "Investment Confirmed", checkout.StepConfirmation)
	page.Checkout = co
	page.Success = "Your investment has been placed."
	s.Templates.Render(w, "invest_checkout.html", &page)
}
