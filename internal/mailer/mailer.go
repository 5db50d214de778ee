// Package mailer sends transactional email. Delivery is best-effort: callers
// get a bool and carry on either way.
package mailer

import (
	"context"
)

type Mailer interface {
	// Send delivers an HTML message and reports whether the provider accepted it.
	Send(ctx context.Context, to, subject, htmlBody string) bool
}
