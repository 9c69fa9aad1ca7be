package sessioncache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

var theDistantFuture = time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)

// storeFixture wraps a Store with raw access to its backing storage, to plant
// entries the Store would never write itself
type storeFixture struct {
	Store
	plant  func(t *testing.T, name string, data []byte)
	exists func(t *testing.T, name string) bool
}

func testRecord(expiration time.Time) *Record {
	return &Record{
		Version:         RecordVersion,
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
		SessionToken:    "token",
		Expiration:      expiration.UTC().Format(time.RFC3339),
	}
}

func testStore(t *testing.T, fixtureFactory func(t *testing.T) storeFixture) {
	const prefix = "abc1234"
	exp := theDistantFuture.Unix()

	t.Run("write-read", func(t *testing.T) {
		st := fixtureFactory(t)
		require.NoError(t, st.EnsureRoot())

		rec := testRecord(theDistantFuture)
		written, err := st.Write(prefix, exp, rec)
		require.NoError(t, err)

		want, err := rec.Bytes()
		require.NoError(t, err)
		assert.Equal(t, want, written)

		got, err := st.Read(EntryName(prefix, exp))
		require.NoError(t, err)
		assert.Equal(t, written, got)
	})

	t.Run("write over an existing entry", func(t *testing.T) {
		st := fixtureFactory(t)
		require.NoError(t, st.EnsureRoot())

		_, err := st.Write(prefix, exp, testRecord(theDistantFuture))
		require.NoError(t, err)

		rec := testRecord(theDistantFuture)
		rec.SessionToken = "other"
		written, err := st.Write(prefix, exp, rec)
		require.NoError(t, err)

		got, err := st.Read(EntryName(prefix, exp))
		require.NoError(t, err)
		assert.Equal(t, written, got)
	})

	t.Run("list only returns the prefix", func(t *testing.T) {
		st := fixtureFactory(t)
		require.NoError(t, st.EnsureRoot())

		_, err := st.Write(prefix, exp, testRecord(theDistantFuture))
		require.NoError(t, err)
		_, err = st.Write("fff0000", exp, testRecord(theDistantFuture))
		require.NoError(t, err)
		st.plant(t, prefix+"-notanumber.json", []byte("{}"))
		st.plant(t, prefix+"0-1.json", []byte("{}"))

		got, err := st.List(prefix)
		require.NoError(t, err)
		require.Len(t, got, 2)

		byName := map[string]Candidate{}
		for _, c := range got {
			byName[c.Name] = c
		}

		valid, ok := byName[EntryName(prefix, exp)]
		require.True(t, ok)
		assert.NoError(t, valid.Err)
		assert.Equal(t, exp, valid.Expiration.Unix())

		invalid, ok := byName[prefix+"-notanumber.json"]
		require.True(t, ok)
		assert.True(t, xerrors.Is(invalid.Err, ErrInvalidName))
	})

	t.Run("delete", func(t *testing.T) {
		st := fixtureFactory(t)
		require.NoError(t, st.EnsureRoot())

		_, err := st.Write(prefix, exp, testRecord(theDistantFuture))
		require.NoError(t, err)

		name := EntryName(prefix, exp)
		require.True(t, st.exists(t, name))
		require.NoError(t, st.Delete(name))
		assert.False(t, st.exists(t, name))
	})

	t.Run("delete of a missing entry is not an error", func(t *testing.T) {
		st := fixtureFactory(t)
		require.NoError(t, st.EnsureRoot())

		assert.NoError(t, st.Delete(EntryName(prefix, exp)))
	})
}
