package template

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMove_RelocatesItem(t *testing.T) {
	list := []string{"a", "b", "c", "d"}

	out, err := Move(list, 3, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"d", "a", "b", "c"}, out)

	out, err = Move(list, 0, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c", "a", "d"}, out)

	// Original untouched.
	require.Equal(t, []string{"a", "b", "c", "d"}, list)
}

func TestMove_SamePosition(t *testing.T) {
	out, err := Move([]string{"a", "b"}, 1, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, out)
}

func TestMove_OutOfRange(t *testing.T) {
	_, err := Move([]string{"a"}, 0, 1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = Move([]string{"a"}, -1, 0)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRemove_RefusesToEmptyStage(t *testing.T) {
	_, err := Remove([]string{"only"}, 0)
	require.ErrorIs(t, err, ErrLastTask)
}

func TestRemove_DropsItem(t *testing.T) {
	list := []string{"a", "b", "c"}
	out, err := Remove(list, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, out)
	require.Equal(t, []string{"a", "b", "c"}, list)
}
