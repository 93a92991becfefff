package application

import "time"

// SystemClock is the ports.Clock reading the wall clock.
type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}
