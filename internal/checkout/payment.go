package checkout

import (
	"errors"
	"fmt"
	"strings"
)

// Payment methods.
const (
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
)

// ErrInvalidPayment is returned for incomplete or malformed payment details.
var ErrInvalidPayment = errors.New("invalid payment details")

// Payment holds what the payment step collected. Card numbers are reduced
// to their last four digits before they reach a Payment.
type Payment struct {
	Method    string `json:"method"`
	Holder    string `json:"holder"`
	CardLast4 string `json:"card_last4,omitempty"`
}

// NewPayment validates submitted payment details.
func NewPayment(method, holder, cardNumber string) (Payment, error) {
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return Payment{}, fmt.Errorf("%w: holder name required", ErrInvalidPayment)
	}

	switch method {
	case MethodBankTransfer:
		return Payment{Method: method, Holder: holder}, nil
	case MethodCard:
		digits := strings.Map(func(r rune) rune {
			if r == ' ' || r == '-' {
				return -1
			}
			return r
		}, cardNumber)
		if len(digits) < 12 || len(digits) > 19 || !luhn(digits) {
			return Payment{}, fmt.Errorf("%w: card number", ErrInvalidPayment)
		}
		return Payment{Method: method, Holder: holder, CardLast4: digits[len(digits)-4:]}, nil
	default:
		return Payment{}, fmt.Errorf("%w: unknown method %q", ErrInvalidPayment, method)
	}
}

// luhn reports whether digits passes the Luhn checksum.
func luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
