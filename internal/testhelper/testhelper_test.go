package testhelper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrepareTestRootDir(t *testing.T) {
	oldWd, err := os.Getwd()
	require.NoError(t, err)

	t.Run("changes into a copy of the test root", func(t *testing.T) {
		testRoot := PrepareTestRootDir(t)

		wd, err := os.Getwd()
		require.NoError(t, err)
		require.Equal(t, evalSymlinks(t, testRoot), evalSymlinks(t, wd))

		require.FileExists(t, filepath.Join(testRoot, "config.yml"))
		require.FileExists(t, filepath.Join(testRoot, "minimal", "config.yml"))
	})

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.Equal(t, oldWd, wd)
}

func evalSymlinks(t *testing.T, path string) string {
	t.Helper()

	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)

	return resolved
}
