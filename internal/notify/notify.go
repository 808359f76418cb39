// Package notify moves committed match and connection changes to the
// clients of the affected users.
package notify

import (
	"context"
	"errors"

	"github.com/teammatch/backend/internal/domain"
)

// Fanout delivers each change to every notifier in order. One failing
// notifier does not stop the others.
type Fanout []domain.Notifier

func (f Fanout) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
