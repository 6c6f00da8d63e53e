package domain

import "errors"

// ErrTemporarilyUnavailable marks failures of the remote matcher that may
// resolve on their own. Callers degrade to the local fallback and retry later.
var ErrTemporarilyUnavailable = errors.New("temporarily unavailable")
