package accounts

import (
	log "github.com/sirupsen/logrus"
	"github.com/wabridge/wa-relay-api/secrets"
)

type ServiceOption func(*ServiceImpl)

// WithCrypter sets how api keys are sealed before they are stored.
func WithCrypter(c secrets.Crypter) ServiceOption {
	return func(svc *ServiceImpl) {
		svc.crypter = c
	}
}

func WithLogger(logger *log.Logger) ServiceOption {
	return func(svc *ServiceImpl) {
		svc.logger = logger
	}
}
