package draft

import (
	"context"
	"errors"
)

// Messages shown after a submission attempt.
const (
	MsgAuthError = "Authentication error. Please login again."
	MsgFailed    = "Failed to add property. Please try again."
	MsgInvalid   = "Please fix the highlighted fields."
	MsgAdded     = "Property added successfully"
)

// ErrNoToken is returned when a draft is submitted without a bearer token.
var ErrNoToken = errors.New("no bearer token")

// Publisher creates properties on the backend.
type Publisher interface {
	AddProperty(ctx context.Context, token string, property any) error
}

// Result is the outcome of Submit.
type Result struct {
	// Draft is the form to show next: a fresh draft after success,
	// the submitted one otherwise.
	Draft   *Draft
	Message string
	OK      bool
	Err     error
}

// Submit derives, validates and publishes d.
func Submit(ctx context.Context, pub Publisher, token string, d *Draft) Result {
	if token == "" {
		return Result{Draft: d, Message: MsgAuthError, Err: ErrNoToken}
	}

	d.Compact()
	d.Derive()
	if err := d.Validate(); err != nil {
		return Result{Draft: d, Message: MsgInvalid, Err: err}
	}

	if err := pub.AddProperty(ctx, token, d); err != nil {
		return Result{Draft: d, Message: MsgFailed, Err: err}
	}
	return Result{Draft: New(), Message: MsgAdded, OK: true}
}
