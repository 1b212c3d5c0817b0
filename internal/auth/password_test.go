package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashIsSaltedPerInvocation(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("correctpw")
	require.NoError(t, err)
	second, err := hasher.Hash("correctpw")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, hasher.Verify("correctpw", first))
	require.True(t, hasher.Verify("correctpw", second))
}

func TestVerifyWrongPassword(t *testing.T) {
	hasher := NewPasswordHasher()

	digest, err := hasher.Hash("correctpw")
	require.NoError(t, err)

	require.False(t, hasher.Verify("wrongpw", digest))
}

func TestVerifyMalformedDigest(t *testing.T) {
	hasher := NewPasswordHasher()

	require.False(t, hasher.Verify("correctpw", "not-a-bcrypt-digest"))
	require.False(t, hasher.Verify("correctpw", ""))
}
