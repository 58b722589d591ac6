package encryption_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitcollab/internal/infrastructure/encryption"
)

func TestEncryptDecrypt(t *testing.T) {
	key, err := encryption.GenerateKey()
	require.NoError(t, err)

	svc, err := encryption.NewService(key)
	require.NoError(t, err)

	sealed, err := svc.Encrypt("gho_secret")
	require.NoError(t, err)
	assert.NotEqual(t, "gho_secret", sealed)

	again, err := svc.Encrypt("gho_secret")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per call")

	plain, err := svc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "gho_secret", plain)

	empty, err := svc.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecryptWithWrongKey(t *testing.T) {
	k1, _ := encryption.GenerateKey()
	k2, _ := encryption.GenerateKey()
	s1, _ := encryption.NewService(k1)
	s2, _ := encryption.NewService(k2)

	sealed, err := s1.Encrypt("token")
	require.NoError(t, err)

	_, err = s2.Decrypt(sealed)
	assert.Error(t, err)
}

func TestNewServiceRejectsBadKeys(t *testing.T) {
	for _, key := range []string{"", "not base64!", "c2hvcnQ="} {
		_, err := encryption.NewService(key)
		assert.Error(t, err, key)
	}
}
