package plugin

import "github.com/rs/zerolog"

// HostContext is the Context implementation handed out by the host program.
type HostContext struct {
	logger zerolog.Logger
	config map[string]string
}

// NewHostContext creates a context exposing logger and a copy of config.
func NewHostContext(logger zerolog.Logger, config map[string]string) *HostContext {
	c := &HostContext{
		logger: logger,
		config: make(map[string]string, len(config)),
	}
	for k, v := range config {
		c.config[k] = v
	}
	return c
}

// Logger implements Context interface
func (c *HostContext) Logger() *zerolog.Logger {
	return &c.logger
}

// Config implements Context interface
func (c *HostContext) Config(key string) (string, bool) {
	v, ok := c.config[key]
	return v, ok
}
