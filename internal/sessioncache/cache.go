package sessioncache

import (
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Cache serves and saves credential_process output through a Store
type Cache struct {
	Backend Store

	// ExpiryWindow defaults to DefaultExpiryWindow
	ExpiryWindow time.Duration

	// Now defaults to time.Now
	Now func() time.Time
}

func New(s Store) *Cache {
	return &Cache{
		Backend:      s,
		ExpiryWindow: DefaultExpiryWindow,
		Now:          time.Now,
	}
}

func (c *Cache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Cache) window() time.Duration {
	if c.ExpiryWindow == 0 {
		return DefaultExpiryWindow
	}
	return c.ExpiryWindow
}

// Sweep purges the invalid, almost expired and superseded entries for k and
// returns the one left to serve, if any
func (c *Cache) Sweep(k Key) (*Candidate, error) {
	keyStr := k.Key()

	candidates, err := c.Backend.List(keyStr)
	if err != nil {
		return nil, xerrors.Errorf("failed listing entries for %q: %w", keyStr, err)
	}

	sel := Select(c.now(), c.window(), candidates)
	for _, ev := range sel.Purge {
		if err := c.Backend.Delete(ev.Name); err != nil {
			log.Warnf("cache sweep `%s`: failed deleting %s entry %s: %s", keyStr, ev.Reason, ev.Name, err)
			continue
		}
		log.Debugf("cache sweep `%s`: deleted %s entry %s", keyStr, ev.Reason, ev.Name)
	}

	return sel.Active, nil
}

// Lookup returns the stored bytes of the active entry for k, as written.
//
// If no entry may be served, returns wrapped ErrCacheMiss.
func (c *Cache) Lookup(k Key) ([]byte, error) {
	keyStr := k.Key()

	active, err := c.Sweep(k)
	if err != nil {
		log.Debugf("cache get `%s`: miss (sweep error): %s", keyStr, err)
		return nil, err
	}

	if active == nil {
		log.Debugf("cache get `%s`: miss", keyStr)
		return nil, xerrors.Errorf("no entry for %q: %w", keyStr, ErrCacheMiss)
	}

	data, err := c.Backend.Read(active.Name)
	if err != nil {
		log.Debugf("cache get `%s`: miss (read error): %s", keyStr, err)
		return nil, xerrors.Errorf("failed reading %q: %w", active.Name, err)
	}

	log.Debugf("cache get `%s`: hit %s", keyStr, active.Name)
	return data, nil
}

// Store saves r under k and returns the bytes written.
//
// Errors wrap ErrInvalidRecord if r.Expiration can't be parsed, ErrCacheSave
// otherwise.
func (c *Cache) Store(k Key, r *Record) ([]byte, error) {
	keyStr := k.Key()

	expires, err := r.ExpiresAt()
	if err != nil {
		return nil, xerrors.Errorf("expiration %q (%s): %w", r.Expiration, err, ErrInvalidRecord)
	}

	if err := c.Backend.EnsureRoot(); err != nil {
		log.Debugf("cache put `%s`: error (root): %s", keyStr, err)
		return nil, xerrors.Errorf("%s: %w", err, ErrCacheSave)
	}

	data, err := c.Backend.Write(keyStr, epochSeconds(expires), r)
	if err != nil {
		log.Debugf("cache put `%s`: error (writing): %s", keyStr, err)
		return nil, xerrors.Errorf("%s: %w", err, ErrCacheSave)
	}

	log.Debugf("cache put `%s`: success", keyStr)
	return data, nil
}

// epochSeconds rounds t to the nearest second
func epochSeconds(t time.Time) int64 {
	return t.Round(time.Second).Unix()
}
