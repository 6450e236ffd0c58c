package opts

import (
	"io"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// ConfigFile is the path given with --config
	ConfigFile string
	// Once runs a single backup instead of the periodic loop
	Once bool
	// Debug enables debug logging
	Debug bool
	// Out receives operator-facing output
	Out io.Writer
}
