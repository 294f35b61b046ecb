package relay

import (
	"context"
	stderrors "errors"

	log "github.com/sirupsen/logrus"
	"github.com/wabridge/wa-relay-api/accounts"
	"github.com/wabridge/wa-relay-api/errors"
	"github.com/wabridge/wa-relay-api/gateway"
	"github.com/wabridge/wa-relay-api/messages"
	"github.com/wabridge/wa-relay-api/system"
	"go.uber.org/ratelimit"
)

type Service interface {
	Send(ctx context.Context, phone, content string) (*messages.Message, error)
}

type ServiceImpl struct {
	accounts    accounts.Service
	messages    messages.Service
	gateway     gateway.Client
	system      system.Service
	ratelimiter ratelimit.Limiter
	logger      *log.Logger
}

func NewService(
	accountService accounts.Service,
	messageService messages.Service,
	gw gateway.Client,
	opts ...ServiceOption,
) Service {
	svc := &ServiceImpl{
		accounts:    accountService,
		messages:    messageService,
		gateway:     gw,
		ratelimiter: ratelimit.NewUnlimited(),
		logger:      log.StandardLogger(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

// Send relays content to phone through the active account and logs it.
// The active account is resolved before the phone number is validated.
// Nothing is logged when the gateway fails. If logging fails after the
// gateway accepted the message, the message stays sent and a StorageError
// is returned.
func (s *ServiceImpl) Send(ctx context.Context, phone, content string) (*messages.Message, error) {
	if s.system != nil {
		if err := s.system.CheckAvailable(); err != nil {
			return nil, err
		}
	}

	a, err := s.accounts.Active(ctx)
	if err != nil {
		return nil, err
	}

	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}

	s.ratelimiter.Take()

	entry := s.logger.WithFields(log.Fields{
		"accountId":   a.ID,
		"destination": phone,
	})

	res, err := s.gateway.Send(ctx, gateway.Message{
		APIKey:      a.APIKey,
		Source:      a.PhoneNumber,
		Destination: phone,
		Text:        content,
	})
	if err != nil {
		entry.WithFields(log.Fields{"error": err}).Warn("Gateway call failed")

		var gwErr *gateway.Error
		if stderrors.As(err, &gwErr) {
			return nil, &errors.RelayError{Payload: gwErr.Payload, Err: err}
		}

		// A caller that went away does not pause the relay
		if s.system != nil && ctx.Err() == nil && errors.IsGatewayConnectionError(err) {
			if pauseErr := s.system.Pause(); pauseErr != nil {
				entry.WithFields(log.Fields{"error": pauseErr}).Warn("Could not pause relay")
			}
		}

		return nil, &errors.RelayError{Err: err}
	}

	m, err := s.messages.LogSent(phone, content, a.ID)
	if err != nil {
		entry.WithFields(log.Fields{"error": err, "messageId": res.MessageID}).Error("Message sent but not logged")
		return nil, err
	}

	entry.WithFields(log.Fields{"messageId": res.MessageID}).Info("Message sent")

	return m, nil
}
