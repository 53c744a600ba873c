package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahlgren/helmsman/internal/util"
)

func TestArgon2idRoundTrip(t *testing.T) {
	h := NewArgon2idHasher()
	hash, err := h.Hash("hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	assert.NoError(t, h.Compare(context.Background(), hash, "hunter2"))
	assert.Error(t, h.Compare(context.Background(), hash, "hunter3"))
}

func TestArgon2idUsesEmbeddedParams(t *testing.T) {
	// Hash under non-default params; Compare must still succeed because it
	// reads the params out of the hash rather than using its own.
	h := &Argon2idHasher{params: util.Argon2idParams{
		Time: 2, MemoryKiB: 16 * 1024, Parallelism: 1, KeyLen: 32,
	}}
	hash, err := h.Hash("hunter2")
	require.NoError(t, err)

	assert.NoError(t, NewArgon2idHasher().Compare(context.Background(), hash, "hunter2"))
}

func TestArgon2idRejectsForeignFormats(t *testing.T) {
	h := NewArgon2idHasher()
	assert.Error(t, h.Compare(context.Background(), dummyHash, "anything"))
	assert.Error(t, h.Compare(context.Background(), "$argon2id$v=19$garbage", "x"))
}

func TestMultiHasherDispatch(t *testing.T) {
	h := NewMultiHasher()
	ctx := context.Background()

	bcryptHash, err := h.Hash("hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(bcryptHash, "$2"))
	assert.NoError(t, h.Compare(ctx, bcryptHash, "hunter2"))
	assert.Error(t, h.Compare(ctx, bcryptHash, "wrong"))

	argonHash, err := NewArgon2idHasher().Hash("hunter2")
	require.NoError(t, err)
	assert.NoError(t, h.Compare(ctx, argonHash, "hunter2"))
	assert.Error(t, h.Compare(ctx, argonHash, "wrong"))
}
