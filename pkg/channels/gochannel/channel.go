// Package gochannel provides the in-memory pub/sub used by single-process deployments and tests.
package gochannel

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// outputBuffer bounds the events queued per subscriber before publishing blocks.
const outputBuffer = 1000

// Option adjusts the GoChannel configuration.
type Option func(*gochannel.Config)

// Persistent keeps published events so subscribers that join late still receive them.
func Persistent() Option {
	return func(c *gochannel.Config) {
		c.Persistent = true
	}
}

// CreateChannel creates a GoChannel-based publisher and subscriber.
// GoChannel implements both interfaces, so the same instance is returned twice.
func CreateChannel(logger watermill.LoggerAdapter, opts ...Option) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	config := gochannel.Config{OutputChannelBuffer: outputBuffer}
	for _, opt := range opts {
		opt(&config)
	}

	pubSub := gochannel.NewGoChannel(config, logger)

	return pubSub, pubSub, nil
}
