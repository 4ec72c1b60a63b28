package crypt_test

import (
	"testing"

	"github.com/shashiranjanraj/brewandco/pkg/crypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	c, err := crypt.New("s3cret")
	require.NoError(t, err)

	sealed, err := c.Seal([]byte("cart contents"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "cart")

	plain, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "cart contents", string(plain))
}

func TestSealUsesFreshNonce(t *testing.T) {
	c, _ := crypt.New("k")
	a, _ := c.Seal([]byte("x"))
	b, _ := c.Seal([]byte("x"))
	assert.NotEqual(t, a, b)
}

func TestOpenWithWrongKey(t *testing.T) {
	a, _ := crypt.New("one")
	b, _ := crypt.New("two")

	sealed, err := a.Seal([]byte("x"))
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, crypt.ErrDecrypt)
}

func TestOpenGarbage(t *testing.T) {
	c, _ := crypt.New("k")
	_, err := c.Open([]byte("!!not base64!!"))
	assert.ErrorIs(t, err, crypt.ErrDecrypt)

	_, err = c.Open([]byte("YQ=="))
	assert.ErrorIs(t, err, crypt.ErrDecrypt)
}

func TestJSONHelpers(t *testing.T) {
	c, _ := crypt.New("k")
	sealed, err := c.SealJSON(map[string]int{"qty": 2})
	require.NoError(t, err)

	var out map[string]int
	require.NoError(t, c.OpenJSON(sealed, &out))
	assert.Equal(t, 2, out["qty"])
}

func TestNewRejectsEmptyKey(t *testing.T) {
	_, err := crypt.New("")
	assert.ErrorIs(t, err, crypt.ErrNoKey)
}
