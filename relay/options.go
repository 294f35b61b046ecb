package relay

import (
	log "github.com/sirupsen/logrus"
	"github.com/wabridge/wa-relay-api/system"
	"go.uber.org/ratelimit"
)

type ServiceOption func(*ServiceImpl)

// WithSystemService enables maintenance mode and pausing on gateway
// connection errors.
func WithSystemService(svc system.Service) ServiceOption {
	return func(s *ServiceImpl) {
		s.system = svc
	}
}

func WithRatelimiter(limiter ratelimit.Limiter) ServiceOption {
	return func(s *ServiceImpl) {
		s.ratelimiter = limiter
	}
}

func WithLogger(logger *log.Logger) ServiceOption {
	return func(s *ServiceImpl) {
		s.logger = logger
	}
}
