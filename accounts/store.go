package accounts

import (
	"github.com/wabridge/wa-relay-api/datastore"
)

// Store manages data regarding accounts.
type Store interface {
	// List accounts ordered by id.
	Accounts(datastore.ListOptions) ([]Account, error)

	// Get account details.
	Account(id int64) (Account, error)

	// Get the account with is_active set.
	ActiveAccount() (Account, error)

	// Insert a new account.
	InsertAccount(a *Account) error

	// Deactivate every account and activate the one with the given id in a
	// single transaction. Returns false if no account has that id, which
	// leaves no account active.
	SwitchActive(id int64) (bool, error)

	// Read the active account state row.
	ActiveState() (ActiveAccountState, error)
}
