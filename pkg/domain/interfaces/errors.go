package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned when a requested notebook does not exist in the
// repository. Callers may treat it as a normal "no documents" outcome.
var ErrNotFound = goerr.New("notebook not found")
