// Package capture implements photo acquisition: the camera permission gate,
// the temporary destination file, the external camera command and the
// gallery (existing file) path.
//
// One Flow tracks one attempt at a time:
//
//	Idle -> PermissionCheck -> Capturing -> Attached
//	                        \-> AwaitingPermission -> Capturing | Denied
//
// A cancelled capture goes back to Idle and is not an error for the user.
package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/snaptodo/internal/model"
)

// DeniedMessage is shown when the camera permission request is refused.
const DeniedMessage = "Permission is not granted"

var (
	ErrPermissionDenied = errors.New("camera permission not granted")
	// ErrCaptureCancelled means the camera exited without producing a photo.
	ErrCaptureCancelled = errors.New("capture cancelled")
)

type State int

const (
	Idle State = iota
	PermissionCheck
	AwaitingPermission
	Capturing
	Attached
	Denied
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PermissionCheck:
		return "permission-check"
	case AwaitingPermission:
		return "awaiting-permission"
	case Capturing:
		return "capturing"
	case Attached:
		return "attached"
	case Denied:
		return "denied"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Permissions answers whether camera use is allowed and records a grant.
type Permissions interface {
	Granted() bool
	Grant() error
}

type Flow struct {
	perms Permissions
	state State
}

func NewFlow(p Permissions) *Flow {
	return &Flow{perms: p}
}

func (f *Flow) State() State { return f.state }

// Busy reports whether an attempt is in progress.
func (f *Flow) Busy() bool {
	switch f.state {
	case PermissionCheck, AwaitingPermission, Capturing:
		return true
	}
	return false
}

// Begin starts an attempt and checks the permission. It returns Capturing
// when already granted, AwaitingPermission otherwise.
func (f *Flow) Begin() State {
	f.state = PermissionCheck
	if f.perms.Granted() {
		f.state = Capturing
	} else {
		f.state = AwaitingPermission
	}
	return f.state
}

// Resolve applies the user's answer to the permission request.
func (f *Flow) Resolve(granted bool) (State, error) {
	if f.state != AwaitingPermission {
		return f.state, fmt.Errorf("permission answer in state %s", f.state)
	}
	if !granted {
		f.state = Denied
		return f.state, ErrPermissionDenied
	}
	if err := f.perms.Grant(); err != nil {
		log.Warn().Err(err).Msg("could not persist camera permission")
	}
	f.state = Capturing
	return f.state, nil
}

// Finish closes a capture. A camera error or an empty file is a cancellation.
func (f *Flow) Finish(shot Shot, runErr error, now time.Time) (model.ImageRef, error) {
	if f.state != Capturing {
		return model.ImageRef{}, fmt.Errorf("capture finished in state %s", f.state)
	}
	if runErr != nil || !shot.Captured() {
		log.Debug().Err(runErr).Str("path", shot.Path).Msg("capture cancelled")
		f.state = Idle
		return model.ImageRef{}, ErrCaptureCancelled
	}
	f.state = Attached
	return model.NewImageRef(shot.Path, model.SourceCamera, now), nil
}

// Reset returns to Idle, e.g. after Attached, Denied or a failed setup.
func (f *Flow) Reset() { f.state = Idle }
