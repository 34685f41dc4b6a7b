package services

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildObjectKeyLayout(t *testing.T) {
	owner := uuid.New()

	key := BuildObjectKey("certificates", owner, "Residence Proof.PDF")

	parts := strings.Split(key, "/")
	require.Len(t, parts, 3)
	assert.Equal(t, "certificates", parts[0])
	assert.Equal(t, owner.String(), parts[1])
	assert.True(t, strings.HasSuffix(parts[2], ".pdf"), "extension must be lowercased: %s", parts[2])

	// The basename before the extension is a timestamp.
	stamp := strings.TrimSuffix(parts[2], ".pdf")
	_, err := strconv.ParseInt(stamp, 10, 64)
	assert.NoError(t, err)
}

func TestBuildObjectKeyWithoutExtension(t *testing.T) {
	owner := uuid.New()

	key := BuildObjectKey("avatars", owner, "photo")

	assert.NotContains(t, key, ".")
	assert.True(t, strings.HasPrefix(key, "avatars/"+owner.String()+"/"))
}
