// Package credentials persists the bearer credential in the client-local
// key/value store. Exactly one entry ever exists: the credential under
// common.CredentialKey.
package credentials

import (
	"context"
	"errors"
	"fmt"
)

// Store is a synchronous, persistent credential slot.
//
// Get returns ("", nil) when nothing is stored. Delete of a missing
// credential is not an error.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, credential string) error
	Delete(ctx context.Context) error
}

// Tombstone is written in place of a credential that could not be deleted.
// Get implementations report it as "".
const Tombstone = "\x00revoked"

// Revoke removes the stored credential. When Delete fails the credential is
// overwritten with Tombstone so that a later Get still finds nothing usable.
// An error is returned only when neither write succeeded.
func Revoke(ctx context.Context, s Store) error {
	delErr := s.Delete(ctx)
	if delErr == nil {
		return nil
	}
	if err := s.Set(ctx, Tombstone); err != nil {
		return errors.Join(delErr, fmt.Errorf("overwrite credential: %w", err))
	}
	return nil
}

func visible(v string) string {
	if v == Tombstone {
		return ""
	}
	return v
}
