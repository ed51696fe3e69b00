package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the common contract against any Store implementation.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, []byte(`{"id":"1"}`)))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(got))

	require.NoError(t, s.Save(ctx, []byte(`{"id":"2"}`)))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"2"}`, string(got))

	require.NoError(t, s.Delete(ctx))
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	// deleting twice is fine
	require.NoError(t, s.Delete(ctx))
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryWith_Preloaded(t *testing.T) {
	m := NewMemoryWith([]byte("x"))
	got, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

func TestFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	exerciseStore(t, NewFile(dir, CartKey))
}

func TestFile_WritesUnderKeyName(t *testing.T) {
	dir := t.TempDir()
	s := NewFile(dir, SessionKey)
	require.NoError(t, s.Save(context.Background(), []byte("{}")))

	_, err := os.Stat(filepath.Join(dir, "shopease-user.json"))
	require.NoError(t, err)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	exerciseStore(t, NewRedisStore(client, CartKey))
}

func TestRedisStore_Key(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := NewRedisStore(client, SessionKey)
	require.NoError(t, s.Save(context.Background(), []byte("blob")))

	stored, err := mr.Get("storefront:shopease-user")
	require.NoError(t, err)
	assert.Equal(t, "blob", stored)
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	_, err := NewRedisStore(client, CartKey).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDynamoStore(t *testing.T) {
	exerciseStore(t, NewDynamoStore(newMockDynamo(), "snapshots", CartKey))
}

func TestDynamoStore_KeysAreIndependent(t *testing.T) {
	mock := newMockDynamo()
	ctx := context.Background()
	cart := NewDynamoStore(mock, "snapshots", CartKey)
	user := NewDynamoStore(mock, "snapshots", SessionKey)

	require.NoError(t, cart.Save(ctx, []byte("[]")))
	_, err := user.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

type failingStore struct {
	calls int
	err   error
}

func (f *failingStore) Load(ctx context.Context) ([]byte, error) { f.calls++; return nil, f.err }
func (f *failingStore) Save(ctx context.Context, b []byte) error { f.calls++; return f.err }
func (f *failingStore) Delete(ctx context.Context) error         { f.calls++; return f.err }

func TestBreakerStore_TripsAfterConsecutiveFailures(t *testing.T) {
	inner := &failingStore{err: errors.New("connection refused")}
	b := NewBreakerStore("cart", inner, 2, time.Minute)
	ctx := context.Background()

	require.Error(t, b.Save(ctx, []byte("x")))
	require.Error(t, b.Save(ctx, []byte("x")))
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err := b.Load(ctx)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, inner.calls, "open breaker must not reach the backend")
}

func TestBreakerStore_NotFoundIsNotAFailure(t *testing.T) {
	inner := &failingStore{err: ErrNotFound}
	b := NewBreakerStore("cart", inner, 1, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := b.Load(context.Background())
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestDecode(t *testing.T) {
	type rec struct {
		ID string `json:"id"`
	}
	v, err := Decode[rec]([]byte(`{"id":"7"}`))
	require.NoError(t, err)
	assert.Equal(t, "7", v.ID)

	_, err = Decode[rec]([]byte(`{"id":`))
	assert.ErrorIs(t, err, ErrCorrupt)
}
