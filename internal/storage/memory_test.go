package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory("http://localhost:5000/blobs")

	info, err := s.Put(ctx, "3d-models/chair.glb", strings.NewReader("glTF"), PutObjectOptions{ContentType: "model/gltf-binary"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.Size)

	rc, got, err := s.Get(ctx, "3d-models/chair.glb")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "glTF", string(body))
	assert.Equal(t, "model/gltf-binary", got.ContentType)
	assert.Equal(t, "http://localhost:5000/blobs/3d-models/chair.glb", s.URL("3d-models/chair.glb"))

	require.NoError(t, s.Delete(ctx, "3d-models/chair.glb"))
	assert.ErrorIs(t, s.Delete(ctx, "3d-models/chair.glb"), ErrObjectNotFound)
	_, _, err = s.Get(ctx, "3d-models/chair.glb")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
