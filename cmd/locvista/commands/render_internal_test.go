package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenOutputReportsCloseError(t *testing.T) {
	t.Parallel()

	dst := filepath.Join(t.TempDir(), "out.svg")
	w, done, err := openOutput(&cobra.Command{}, dst)
	require.NoError(t, err)
	f, ok := w.(*os.File)
	require.True(t, ok)

	require.NoError(t, f.Close())
	err = done()
	require.ErrorIs(t, err, os.ErrClosed)
	assert.ErrorContains(t, err, "closing "+dst)

	_, done, err = openOutput(&cobra.Command{}, "")
	require.NoError(t, err)
	assert.NoError(t, done())
}
