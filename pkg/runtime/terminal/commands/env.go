package commands

import (
	"io"
	"time"

	"github.com/de-tools/tenant-health/pkg/services/config"
)

// Env is shared by all subcommands. Config is filled in by the root command
// before any subcommand runs.
type Env struct {
	Config *config.Config
	Output io.Writer
	Now    func() time.Time
}
