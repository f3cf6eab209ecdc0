package rediskv

import "time"

const defaultPrefix = "masomo:session:"

type options struct {
	prefix string
	ttl    time.Duration // 0: no expiration
}

type Option func(*options)

// WithTTL sets the expiration of every written entry.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithPrefix sets the prefix of every key.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}
