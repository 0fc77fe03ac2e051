package artifact

import "errors"

// ErrNotFound indicates no raw output is stored for the requested job/agent pair.
var ErrNotFound = errors.New("artifact not found")
