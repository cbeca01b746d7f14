package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"baseline_academy/internal/common"
)

// bcrypt hash of "password" used for the seeded admin.
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), 24*time.Hour)

	token, err := codec.Issue(42, "admin", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, claims.IssuedAt.Add(24*time.Hour), claims.ExpiresAt, time.Second)
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), time.Hour)
	token, err := codec.Issue(1, "t1", "teacher")
	require.NoError(t, err)

	sigStart := len(token) - 20
	b := []byte(token)
	if b[sigStart] == 'A' {
		b[sigStart] = 'B'
	} else {
		b[sigStart] = 'A'
	}

	_, err = codec.Verify(context.Background(), string(b))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), 24*time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })

	token, err := codec.Issue(1, "t1", "teacher")
	require.NoError(t, err)

	_, err = codec.Verify(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestTokenCodec_WrongSecretAndGarbage(t *testing.T) {
	issuer := NewTokenCodec([]byte("one"), time.Hour)
	verifier := NewTokenCodec([]byte("two"), time.Hour)

	token, err := issuer.Issue(1, "t1", "teacher")
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = verifier.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = verifier.Verify(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestClaimsFromMap(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	claims, err := ClaimsFromMap(map[string]interface{}{
		"id": float64(7), "username": "u", "role": "staff", "exp": exp,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "staff", claims.Role)
	assert.True(t, exp.Equal(claims.ExpiresAt))

	_, err = ClaimsFromMap(map[string]interface{}{"username": "u"})
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = ClaimsFromMap(map[string]interface{}{"id": "7", "username": "u"})
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("p")
	require.NoError(t, err)
	assert.NotEqual(t, "p", hash)

	ok, err := h.Compare(hash, "p")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare(hash, "q")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Compare("not-a-hash", "p")
	assert.Error(t, err)
}

func TestPasswordHasher_SeedHashMatches(t *testing.T) {
	ok, err := NewPasswordHasher(0).Compare(passwordHash, "password")
	require.NoError(t, err)
	assert.True(t, ok)
}
