// Package storage defines how ledger snapshots are persisted.
//
// A Store loads and saves the whole Snapshot of one identity at a time;
// there is no incremental log. Implementations live in the file, sqlite
// and memory subpackages.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finledger/internal/core"
)

// ErrNotFound is returned by Load when the identity has no snapshot yet.
var ErrNotFound = errors.New("snapshot not found")

// Store persists one snapshot per identity.
type Store interface {
	// Load returns the identity's snapshot. It fails with ErrNotFound when
	// nothing was saved yet and with core.ErrCorruptSnapshot when the
	// persisted data does not have the expected shape.
	Load(ctx context.Context, identity string) (core.Snapshot, error)

	// Save replaces the identity's snapshot. I/O failures wrap core.ErrPersistence.
	Save(ctx context.Context, identity string, s core.Snapshot) error
}

// ValidateIdentity rejects identities that cannot name a snapshot safely.
func ValidateIdentity(identity string) error {
	switch {
	case strings.TrimSpace(identity) == "":
		return fmt.Errorf("%w: empty", core.ErrInvalidIdentity)
	case identity != strings.TrimSpace(identity):
		return fmt.Errorf("%w: %q has surrounding spaces", core.ErrInvalidIdentity, identity)
	case strings.ContainsAny(identity, `/\`+"\x00"), identity == ".", identity == "..":
		return fmt.Errorf("%w: %q", core.ErrInvalidIdentity, identity)
	}
	return nil
}
