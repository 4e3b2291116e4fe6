package opts

import (
	"io"

	"github.com/walteh/namescrub/pkg/config"
	"github.com/walteh/namescrub/pkg/log"
)

// RootOpts contains everything the root command hands to a run
type RootOpts struct {
	Config  *config.Config
	Console *log.Logger
	Stdout  io.Writer
}
