package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "cart")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "cart", []byte(`{"items":[]}`)))
	got, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))

	require.NoError(t, s.Set(ctx, "cart", []byte(`{"items":[1]}`)))
	got, err = s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[1]}`, string(got))

	require.NoError(t, s.Delete(ctx, "cart"))
	_, err = s.Get(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "cart"), "deleting a missing key")
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFile(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, f)
}

func TestFile_RejectsPathKeys(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	err = f.Set(context.Background(), "../escape", []byte("x"))
	assert.Error(t, err)
}

func TestNamespace(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	alice := Namespace(base, "alice")
	bob := Namespace(base, "bob")

	exerciseStore(t, alice)

	require.NoError(t, alice.Set(ctx, "token", []byte("a")))
	_, err := bob.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)

	raw, err := base.Get(ctx, "alice:token")
	require.NoError(t, err)
	assert.Equal(t, "a", string(raw))

	assert.Same(t, base, Namespace(base, ""))
}
