package system

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/wabridge/wa-relay-api/errors"
)

type Service interface {
	GetSettings() (*Settings, error)
	SaveSettings(settings *Settings) error
	// Pause stops relaying for the configured pause duration.
	Pause() error
	// CheckAvailable returns a 503 RequestError while in maintenance mode or paused.
	CheckAvailable() error
}

type ServiceImpl struct {
	store         Store
	pauseDuration time.Duration
}

func NewService(store Store, opts ...ServiceOption) Service {
	svc := &ServiceImpl{store: store}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

func (svc *ServiceImpl) GetSettings() (*Settings, error) {
	s, err := svc.store.GetSettings()
	if err != nil {
		return nil, &errors.StorageError{Op: "get system settings", Err: err}
	}
	return s, nil
}

func (svc *ServiceImpl) SaveSettings(settings *Settings) error {
	if settings.ID == 0 {
		return fmt.Errorf("settings object has no ID, get an existing settings first and alter it")
	}
	log.WithFields(log.Fields{"settings": settings}).Trace("Save system settings")
	if err := svc.store.SaveSettings(settings); err != nil {
		return &errors.StorageError{Op: "save system settings", Err: err}
	}
	return nil
}

func (svc *ServiceImpl) Pause() error {
	if svc.pauseDuration <= 0 {
		return nil
	}

	settings, err := svc.GetSettings()
	if err != nil {
		return err
	}

	settings.PausedSince = sql.NullTime{Time: time.Now(), Valid: true}

	log.WithFields(log.Fields{"duration": svc.pauseDuration}).Warn("Pausing relay")

	return svc.SaveSettings(settings)
}

func (svc *ServiceImpl) CheckAvailable() error {
	settings, err := svc.GetSettings()
	if err != nil {
		return err
	}

	if settings.MaintenanceMode {
		return &errors.RequestError{
			StatusCode: http.StatusServiceUnavailable,
			Err:        fmt.Errorf("service in maintenance mode"),
		}
	}

	if svc.pauseDuration > 0 {
		if until, ok := settings.PausedUntil(svc.pauseDuration); ok && until.After(time.Now()) {
			return &errors.RequestError{
				StatusCode: http.StatusServiceUnavailable,
				Err:        fmt.Errorf("relay paused until %s", until.UTC().Format(time.RFC3339)),
			}
		}
	}

	return nil
}
