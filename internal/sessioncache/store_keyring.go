package sessioncache

import (
	"github.com/99designs/keyring"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// KrItemPerEntryStore stores one keyring item per entry, keyed by the entry
// name a DirStore would use for the file
type KrItemPerEntryStore struct {
	Keyring keyring.Keyring
}

// EnsureRoot is a no-op; the keyring is opened by the caller
func (s *KrItemPerEntryStore) EnsureRoot() error {
	return nil
}

func (s *KrItemPerEntryStore) List(prefix string) ([]Candidate, error) {
	keys, err := s.Keyring.Keys()
	if err != nil {
		return nil, xerrors.Errorf("failed Keyring.Keys(): %w", err)
	}
	return candidatesFor(prefix, keys), nil
}

func (s *KrItemPerEntryStore) Write(prefix string, expiration int64, r *Record) ([]byte, error) {
	bytes, err := r.Bytes()
	if err != nil {
		return nil, xerrors.Errorf("failed marshal of record: %w", err)
	}

	name := EntryName(prefix, expiration)
	log.Debugf("Writing cache entry %s to keyring", name)
	err = s.Keyring.Set(keyring.Item{
		Key:                         name,
		Label:                       "aws-mfa credentials " + name,
		Data:                        bytes,
		KeychainNotTrustApplication: false,
	})
	if err != nil {
		return nil, xerrors.Errorf("failed Keyring.Set(%q): %w", name, err)
	}

	return bytes, nil
}

func (s *KrItemPerEntryStore) Read(name string) ([]byte, error) {
	item, err := s.Keyring.Get(name)
	if err != nil {
		return nil, xerrors.Errorf("failed Keyring.Get(%q): %w", name, err)
	}
	return item.Data, nil
}

func (s *KrItemPerEntryStore) Delete(name string) error {
	err := s.Keyring.Remove(name)
	if err != nil && !xerrors.Is(err, keyring.ErrKeyNotFound) {
		return xerrors.Errorf("failed Keyring.Remove(%q): %w", name, err)
	}
	return nil
}
