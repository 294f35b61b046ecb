package accounts

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/wabridge/wa-relay-api/datastore"
	"github.com/wabridge/wa-relay-api/errors"
	"github.com/wabridge/wa-relay-api/secrets"
	"gorm.io/gorm"
)

type Service interface {
	List(limit, offset int) ([]Account, error)
	Details(id int64) (Account, error)
	Create(ctx context.Context, accountName, phoneNumber, apiKey string) (*Account, error)
	Switch(ctx context.Context, id int64) (bool, error)
	Active(ctx context.Context) (*Account, error)
}

// ServiceImpl defines the API for account management.
type ServiceImpl struct {
	store   Store
	crypter secrets.Crypter
	logger  *log.Logger
}

// NewService initiates a new account service.
func NewService(store Store, opts ...ServiceOption) Service {
	svc := &ServiceImpl{
		store:   store,
		crypter: secrets.NewPlainCrypter(),
		logger:  log.StandardLogger(),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

// List returns accounts in the datastore. Api keys are masked.
func (s *ServiceImpl) List(limit, offset int) ([]Account, error) {
	o := datastore.ParseListOptions(limit, offset)

	aa, err := s.store.Accounts(o)
	if err != nil {
		return nil, &errors.StorageError{Op: "list accounts", Err: err}
	}

	if aa == nil {
		aa = []Account{}
	}

	for i := range aa {
		aa[i] = s.masked(aa[i])
	}

	return aa, nil
}

// Details returns a single account with its api key masked.
func (s *ServiceImpl) Details(id int64) (Account, error) {
	a, err := s.store.Account(id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, &errors.RequestError{
				StatusCode: http.StatusNotFound,
				Err:        fmt.Errorf("account not found"),
			}
		}
		return Account{}, &errors.StorageError{Op: "get account", Err: err}
	}

	return s.masked(a), nil
}

// Create stores a new inactive account. All fields are required.
func (s *ServiceImpl) Create(ctx context.Context, accountName, phoneNumber, apiKey string) (*Account, error) {
	accountName = strings.TrimSpace(accountName)
	phoneNumber = strings.TrimSpace(phoneNumber)
	apiKey = strings.TrimSpace(apiKey)

	switch {
	case accountName == "":
		return nil, &errors.ValidationError{Field: "accountName"}
	case phoneNumber == "":
		return nil, &errors.ValidationError{Field: "phoneNumber"}
	case apiKey == "":
		return nil, &errors.ValidationError{Field: "apiKey"}
	}

	sealed, err := secrets.Seal(s.crypter, apiKey)
	if err != nil {
		return nil, &errors.StorageError{Op: "encrypt api key", Err: err}
	}

	a := Account{
		AccountName: accountName,
		PhoneNumber: phoneNumber,
		APIKey:      sealed,
	}

	if err := s.store.InsertAccount(&a); err != nil {
		return nil, &errors.StorageError{Op: "insert account", Err: err}
	}

	s.logger.WithFields(log.Fields{"accountId": a.ID, "accountName": a.AccountName}).Info("Account created")

	m := s.masked(a)
	return &m, nil
}

// Switch makes the account with the given id the only active account.
// An unknown id deactivates every account and is not an error, the returned
// bool tells whether an account was activated.
func (s *ServiceImpl) Switch(ctx context.Context, id int64) (bool, error) {
	activated, err := s.store.SwitchActive(id)
	if err != nil {
		return false, &errors.StorageError{Op: "switch active account", Err: err}
	}

	entry := s.logger.WithFields(log.Fields{"accountId": id})
	if activated {
		entry.Info("Active account switched")
	} else {
		entry.Warn("No account with this id, all accounts are now inactive")
	}

	return activated, nil
}

// Active returns the active account with its api key in plain text.
func (s *ServiceImpl) Active(ctx context.Context) (*Account, error) {
	a, err := s.store.ActiveAccount()
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNoActiveAccount
		}
		return nil, &errors.StorageError{Op: "get active account", Err: err}
	}

	key, err := secrets.Open(s.crypter, a.APIKey)
	if err != nil {
		return nil, &errors.StorageError{Op: "decrypt api key", Err: err}
	}
	a.APIKey = key

	return &a, nil
}

// masked hides the api key. Sealed keys are hidden entirely since their tail
// says nothing about the key.
func (s *ServiceImpl) masked(a Account) Account {
	if _, plain := s.crypter.(*secrets.PlainCrypter); plain {
		a.APIKey = secrets.Mask(a.APIKey)
	} else {
		a.APIKey = secrets.Mask("")
	}
	return a
}
