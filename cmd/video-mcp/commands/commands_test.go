package commands

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFrames(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("f%02d.png", i)))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 3, 2))))
		require.NoError(t, f.Close())
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func Test_Commands(t *testing.T) {
	t.Setenv("VIDEO_MCP_LOG_LEVEL", "error")

	t.Run("help", func(t *testing.T) {
		out, err := execute(t, "help")
		require.NoError(t, err)
		assert.Contains(t, out, "Available Commands")
		for _, name := range []string{"serve", "run", "info", "version"} {
			assert.Contains(t, out, name)
		}
	})

	t.Run("version", func(t *testing.T) {
		out, err := execute(t, "version")
		require.NoError(t, err)
		assert.Contains(t, out, "video-tools-mcp dev")
	})

	t.Run("serve flags", func(t *testing.T) {
		cmd := NewServeCommand()
		assert.Equal(t, "int", cmd.Flag("cache-size").Value.Type())
		assert.Equal(t, "string", cmd.Flag("metrics-addr").Value.Type())
		assert.NotNil(t, NewRootCommand().Flags().Lookup("metrics-addr"))
	})

	t.Run("info", func(t *testing.T) {
		out, err := execute(t, "info", writeFrames(t, 3))
		require.NoError(t, err)
		assert.Contains(t, out, "frames: 3")
		assert.Contains(t, out, "width: 3")
	})

	t.Run("info needs a directory", func(t *testing.T) {
		_, err := execute(t, "info")
		assert.Error(t, err)
	})

	t.Run("run", func(t *testing.T) {
		in := writeFrames(t, 4)
		out := filepath.Join(t.TempDir(), "out")
		path := filepath.Join(t.TempDir(), "pipeline.yaml")
		cfg := fmt.Sprintf("source:\n  dir: %s\nstages:\n  - type: grayscale\noutput:\n  dir: %s\n", in, out)
		require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

		stdout, err := execute(t, "run", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "wrote 4 frames [0, 4)")

		_, err = os.Stat(filepath.Join(out, "manifest.yaml"))
		assert.NoError(t, err)
	})

	t.Run("run requires config", func(t *testing.T) {
		_, err := execute(t, "run")
		assert.ErrorContains(t, err, "--config is required")
	})
}
