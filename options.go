package handlepool

import "go.uber.org/zap"

// Option configures a Pool.
type Option func(*options)

type options struct {
	capacity int
	logger   *zap.Logger
}

func defaultOptions() options {
	return options{logger: zap.NewNop()}
}

// WithCapacity preallocates storage for n slots.
// Values <= 0 leave storage unallocated until the first Insert.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithLogger sets the logger used for faults and storage growth.
// A nil logger keeps the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
