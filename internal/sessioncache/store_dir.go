package sessioncache

import (
	"io/ioutil"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// DirStore stores one file per entry in Dir.
//
// Files are plain JSON; nothing is encrypted.
type DirStore struct {
	Dir string
}

// EnsureRoot creates Dir (and its parents) if it's missing, replacing a
// plain file found in its place
func (s *DirStore) EnsureRoot() error {
	info, err := os.Stat(s.Dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err == nil {
		log.Debugf("cache dir `%s` is a file, removing", s.Dir)
		if err := os.Remove(s.Dir); err != nil {
			return xerrors.Errorf("failed removing file at cache dir %q: %w", s.Dir, err)
		}
	} else if !os.IsNotExist(err) {
		return xerrors.Errorf("failed stat of cache dir %q: %w", s.Dir, err)
	}

	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return xerrors.Errorf("failed creating cache dir %q: %w", s.Dir, err)
	}
	return nil
}

// List returns the entries of Dir whose name starts with `{prefix}-`.
//
// A missing Dir, or a file in its place, holds no entries.
func (s *DirStore) List(prefix string) ([]Candidate, error) {
	infos, err := ioutil.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		if info, statErr := os.Stat(s.Dir); statErr == nil && !info.IsDir() {
			return nil, nil
		}
		return nil, xerrors.Errorf("failed listing cache dir %q: %w", s.Dir, err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}

	return candidatesFor(prefix, names), nil
}

func (s *DirStore) Write(prefix string, expiration int64, r *Record) ([]byte, error) {
	data, err := r.Bytes()
	if err != nil {
		return nil, xerrors.Errorf("failed marshal of record: %w", err)
	}

	path := filepath.Join(s.Dir, EntryName(prefix, expiration))
	if err := ioutil.WriteFile(path, data, 0600); err != nil {
		return nil, xerrors.Errorf("failed writing %q: %w", path, err)
	}

	return data, nil
}

func (s *DirStore) Read(name string) ([]byte, error) {
	return ioutil.ReadFile(filepath.Join(s.Dir, name))
}

// Delete removes the named entry. An entry that is already gone is not an
// error.
func (s *DirStore) Delete(name string) error {
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
