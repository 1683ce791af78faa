package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/nickpending/reelfeed/internal/media"
)

// Recovery reflects the controller's errored state and offers a manual
// retry. There is no automatic retry or backoff.
type Recovery struct {
	ctrl *Controller
}

// NewRecovery creates a Recovery for ctrl
func NewRecovery(ctrl *Controller) *Recovery {
	return &Recovery{ctrl: ctrl}
}

// Active reports whether the feed is errored
func (r *Recovery) Active() bool {
	return r.ctrl.State().Errored
}

// Err returns the error that put the feed in the errored state
func (r *Recovery) Err() error {
	st := r.ctrl.State()
	if !st.Errored {
		return nil
	}
	return st.Err
}

// Message returns a short description of the failure for display
func (r *Recovery) Message() string {
	err := r.Err()
	if err == nil {
		return ""
	}

	var fe *media.FetchError
	if errors.As(err, &fe) {
		switch fe.Op {
		case "list":
			return fmt.Sprintf("Could not list videos: %v", fe.Err)
		case "url", "metadata":
			return fmt.Sprintf("Could not load %s: %v", fe.Ref, fe.Err)
		}
	}
	return fmt.Sprintf("Could not load videos: %v", err)
}

// Retry re-runs the fetch when errored; otherwise it does nothing
func (r *Recovery) Retry(ctx context.Context) error {
	if !r.Active() {
		return nil
	}
	return r.ctrl.Retry(ctx)
}

// Begin is the non-blocking form of Retry. ok is false when the feed is
// not errored.
func (r *Recovery) Begin(ctx context.Context) (run func() error, ok bool, err error) {
	if !r.Active() {
		return nil, false, nil
	}
	run, err = r.ctrl.Begin(ctx)
	return run, err == nil, err
}
