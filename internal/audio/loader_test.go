package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecognizedExtensionsCoversCoreFormats(t *testing.T) {
	for _, ext := range []string{".mp3", ".wav", ".flac", ".m4a", ".ogg"} {
		require.True(t, RecognizedExtensions[ext], "expected %s to be recognized", ext)
	}
	require.False(t, RecognizedExtensions[".txt"])
}

func TestLoadRejectsUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.ogg")
	require.NoError(t, os.WriteFile(path, []byte("not real audio"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
}
