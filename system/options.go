package system

import (
	"time"
)

type ServiceOption func(*ServiceImpl)

// WithPauseDuration sets how long Pause stops the relay. Zero disables pausing.
func WithPauseDuration(duration time.Duration) ServiceOption {
	return func(svc *ServiceImpl) {
		svc.pauseDuration = duration
	}
}
