// pkg/notify_err/wrap.go

package notify_err

import (
	cerr "github.com/cockroachdb/errors"
)

// WrapWithHint attaches the remediation hint of a classified error so cockroach
// formatting (`%+v`, cerr.FlattenHints) shows it.
func WrapWithHint(err error) error {
	if err == nil {
		return nil
	}
	var classified *ClassifiedError
	if cerr.As(err, &classified) {
		if hint := classified.Hint(); hint != "" {
			return cerr.WithHint(cerr.WithStack(err), hint)
		}
	}
	return cerr.WithStack(err)
}
