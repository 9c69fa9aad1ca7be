// sessioncache caches temporary role credentials (credential_process output)
//
// sessioncache splits Stores (the way cache entries are persisted) from Keys
// (the way cache entries are looked up/replaced). Every entry is named
// `{key}-{expiration unix seconds}.json`, so picking the active entry never
// needs to read a payload.
package sessioncache

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	// use xerrors until 1.13 is stable/oldest supported version
	"golang.org/x/xerrors"
)

// RecordVersion is the only credential_process output version the AWS CLI knows
const RecordVersion = 1

const entryExt = ".json"

// Record is the credential_process output, as persisted in the cache
type Record struct {
	Version         int    `json:"Version"`
	AccessKeyID     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	SessionToken    string `json:"SessionToken"`
	Expiration      string `json:"Expiration"`
}

func (r *Record) Bytes() ([]byte, error) {
	return json.Marshal(r)
}

// ExpiresAt parses Expiration
func (r *Record) ExpiresAt() (time.Time, error) {
	return time.Parse(time.RFC3339, r.Expiration)
}

// Key is used to compute the cache key for a role
type Key interface {
	Key() string
}

// Candidate is one stored entry whose name starts with `{key}-`.
//
// Err is set when the rest of the name is not `<digits>.json`; such entries
// are never served.
type Candidate struct {
	Name       string
	Expiration time.Time
	Err        error
}

// Store persists records. Names passed to Read and Delete come from List.
type Store interface {
	EnsureRoot() error
	List(prefix string) ([]Candidate, error)
	Write(prefix string, expiration int64, r *Record) ([]byte, error)
	Read(name string) ([]byte, error)
	Delete(name string) error
}

var (
	ErrCacheMiss     = errors.New("no active cache entry")
	ErrCacheSave     = errors.New("failed to save cache entry")
	ErrInvalidRecord = errors.New("invalid credential record")
	ErrInvalidName   = errors.New("not a cache entry name")
)

// EntryName returns the name of the entry for prefix expiring at expiration
func EntryName(prefix string, expiration int64) string {
	return prefix + "-" + strconv.FormatInt(expiration, 10) + entryExt
}

// ParseEntryName returns the expiration encoded in name. Errors wrap
// ErrInvalidName.
func ParseEntryName(prefix, name string) (time.Time, error) {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-(\d+)` + regexp.QuoteMeta(entryExt) + `$`)

	m := re.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, xerrors.Errorf("%q: %w", name, ErrInvalidName)
	}

	sec, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, xerrors.Errorf("%q (%s): %w", name, err, ErrInvalidName)
	}

	return time.Unix(sec, 0), nil
}

func candidatesFor(prefix string, names []string) []Candidate {
	var cs []Candidate
	for _, name := range names {
		if !strings.HasPrefix(name, prefix+"-") {
			continue
		}
		exp, err := ParseEntryName(prefix, name)
		cs = append(cs, Candidate{Name: name, Expiration: exp, Err: err})
	}
	return cs
}
