package tool

import "time"

func WithWaitDelayForTest(d time.Duration) Option {
	return func(x *Client) {
		x.waitDelay = d
	}
}

type CappedBufferForTest = cappedBuffer

var NewCappedBufferForTest = newCappedBuffer
