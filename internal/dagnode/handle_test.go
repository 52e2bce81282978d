// internal/dagnode/handle_test.go
package dagnode

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_Lifecycle(t *testing.T) {
	h := NewHandle()
	assert.False(t, h.Attached())
	assert.Equal(t, Detached, h.Index())

	require.NoError(t, h.SetIndex(5))
	assert.True(t, h.Attached())
	assert.Equal(t, 5, h.Index())

	require.NoError(t, h.SetIndex(Detached))
	assert.False(t, h.Attached())
	assert.Equal(t, Detached, h.Index())

	require.NoError(t, h.SetIndex(0))
	assert.True(t, h.Attached())
	assert.Equal(t, 0, h.Index())

	h.Detach()
	assert.False(t, h.Attached())
}

func TestHandle_SetIndex_Validation(t *testing.T) {
	h := NewHandle()
	require.NoError(t, h.SetIndex(7))

	err := h.SetIndex(-2)
	require.ErrorIs(t, err, ErrBadIndex)
	// A rejected write must leave the handle untouched.
	assert.Equal(t, 7, h.Index())

	_, err = HandleAt(-5)
	require.ErrorIs(t, err, ErrBadIndex)
}

func TestHandle_ZeroValueIsDetached(t *testing.T) {
	var h Handle
	assert.False(t, h.Attached())
	assert.Equal(t, Detached, h.Index())

	at0, err := HandleAt(0)
	require.NoError(t, err)
	assert.True(t, at0.Attached())
	assert.NotEqual(t, h.Index(), at0.Index())
}

func TestHandle_Ordering(t *testing.T) {
	detached := NewHandle()
	at0, _ := HandleAt(0)
	at3, _ := HandleAt(3)

	// Detached sorts before every attached index.
	assert.True(t, detached.Less(at0))
	assert.True(t, at0.Less(at3))
	assert.False(t, at3.Less(at0))
	assert.False(t, detached.Less(detached))

	handles := []Handle{at3, detached, at0}
	sort.Slice(handles, func(i, j int) bool { return handles[i].Less(handles[j]) })
	assert.Equal(t, []Handle{detached, at0, at3}, handles)
}

func TestHandle_Hash(t *testing.T) {
	at4a, _ := HandleAt(4)
	at4b, _ := HandleAt(4)
	at5, _ := HandleAt(5)

	assert.Equal(t, at4a.Hash(), at4b.Hash())
	assert.NotEqual(t, at4a.Hash(), at5.Hash())
	assert.NotEqual(t, NewHandle().Hash(), at4a.Hash())
}
