package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-client/internal/cart"
	"restaurant-client/internal/models"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestTokenRoundTrip(t *testing.T) {
	s, _ := openStore(t)

	assert.Empty(t, s.Token(), "fresh store means guest")

	require.NoError(t, s.SetToken("tok-123"))
	require.NoError(t, s.SetRole("customer"))
	assert.Equal(t, "tok-123", s.Token())
	assert.Equal(t, "customer", s.Role())

	// Overwrite, not append.
	require.NoError(t, s.SetToken("tok-456"))
	assert.Equal(t, "tok-456", s.Token())
}

func TestClear_DropsCredentialKeepsCart(t *testing.T) {
	s, _ := openStore(t)

	require.NoError(t, s.SetToken("tok-123"))
	require.NoError(t, s.SetRole("customer"))

	c := cart.New()
	c.AddItem(models.MenuItem{ID: "A", Name: "Pizza", Price: 10}, "")
	require.NoError(t, s.SaveCart(c.Snapshot()))

	require.NoError(t, s.Clear())

	assert.Empty(t, s.Token())
	assert.Empty(t, s.Role())

	restored, err := s.LoadCart()
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Len(), "logout must not empty the cart")
}

func TestCartRoundTrip(t *testing.T) {
	s, _ := openStore(t)

	// Nothing saved yet: an empty cart, not an error.
	c, err := s.LoadCart()
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	c.AddItem(models.MenuItem{ID: "A", Name: "Pizza", Price: 10}, "no basil")
	c.AddItem(models.MenuItem{ID: "A", Name: "Pizza", Price: 10}, "no basil")
	c.AddItem(models.MenuItem{ID: "B", Name: "Tiramisu", Price: 4.25}, "")
	require.NoError(t, s.SaveCart(c.Snapshot()))

	restored, err := s.LoadCart()
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Len())
	assert.Equal(t, c.Total(), restored.Total())

	require.NoError(t, s.DropCart())
	emptied, err := s.LoadCart()
	require.NoError(t, err)
	assert.Equal(t, 0, emptied.Len())
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetToken("tok-123"))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, "tok-123", reopened.Token())
}
