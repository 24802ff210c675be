package opts

import (
	"time"

	"github.com/walteh/lumins/pkg/operation"
	"github.com/walteh/lumins/pkg/status"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Source      string
	Destination string
	Options     operation.Options
	Debounce    time.Duration
	Status      *status.Manager
	UserLogger  *status.UserLogger
}
