// Package push obtains the device push token used for match and club
// notifications. Registration is always best-effort: token delivery is a
// side effect of login, never a precondition for it.
package push

import "context"

// Registrar requests notification permission and registers the install,
// returning the resulting push token. An empty token with a nil error means
// the platform has no push support (simulators, desktop builds); callers
// must treat that as "absent", not as a failure.
type Registrar interface {
	Register(ctx context.Context) (string, error)
}

// Noop is the Registrar for environments without a configured gateway.
type Noop struct{}

func (Noop) Register(ctx context.Context) (string, error) {
	return "", nil
}
