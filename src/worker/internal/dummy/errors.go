package dummy

import "github.com/cockroachdb/errors"

var (
	NetworkFailure = errors.New("network failure")
	NotFound       = errors.New("not found")
)
