package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyIsZeroValue(t *testing.T) {
	var id ID
	assert.True(t, id.IsEmpty())
	assert.Equal(t, "empty", id.String())
	assert.False(t, id.IsSolid())
}

func TestLookupAndByName(t *testing.T) {
	for _, id := range All() {
		k, ok := Lookup(id)
		require.True(t, ok, "kind %d", id)
		assert.Equal(t, id, k.ID)

		back, ok := ByName(k.Name)
		require.True(t, ok)
		assert.Equal(t, id, back)
	}

	_, ok := Lookup(ID(200))
	assert.False(t, ok)
	assert.Equal(t, "unknown", ID(200).String())
}

func TestGrassFaces(t *testing.T) {
	k, _ := Lookup(Grass)
	assert.Equal(t, "grassTop", k.Texture(FaceTop))
	assert.Equal(t, "dirt", k.Texture(FaceBottom))
	for _, f := range []Face{FaceFront, FaceBack, FaceLeft, FaceRight} {
		assert.Equal(t, "grassSide", k.Texture(f))
	}
}

func TestResourcesAreFlagged(t *testing.T) {
	for _, id := range Resources() {
		k, _ := Lookup(id)
		assert.True(t, k.IsResource, k.Name)
	}
	k, _ := Lookup(Dirt)
	assert.False(t, k.IsResource)
}

func TestBedrockIndestructible(t *testing.T) {
	k, _ := Lookup(Bedrock)
	assert.True(t, k.Indestructible)
	assert.Len(t, All(), Count()-1)
}
