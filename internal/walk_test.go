package internal

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, fs afero.Fs, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, afero.WriteFile(fs, name, []byte("x"), 0644))
	}
}

func TestWalk(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs,
		"/in/a.jpg",
		"/in/b.JPEG",
		"/in/photo.gif",
		"/in/photo.PNG",
		"/in/notes.txt",
		"/in/sub/c.png",
		"/in/sub/deeper/still/d.jpeg",
		"/in/sub/noext",
	)

	tasks, errs := Walk(fs, "/in", "/out")
	require.Empty(t, errs)

	assert.Equal(t, []FileTask{
		{Root: "/in", Source: "/in/a.jpg", Dest: "/out/a.jpg"},
		{Root: "/in", Source: "/in/b.JPEG", Dest: "/out/b.JPEG"},
		{Root: "/in", Source: "/in/photo.PNG", Dest: "/out/photo.PNG"},
		{Root: "/in", Source: "/in/sub/c.png", Dest: "/out/sub/c.png"},
		{Root: "/in", Source: "/in/sub/deeper/still/d.jpeg", Dest: "/out/sub/deeper/still/d.jpeg"},
	}, tasks)
}

func TestWalk_RootIsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs, "/in/sub/a.png")

	tasks, errs := Walk(fs, "/in/sub/a.png", "out")
	require.Empty(t, errs)
	assert.Equal(t, []FileTask{
		{Root: "/in/sub/a.png", Source: "/in/sub/a.png", Dest: filepath.Join("out", "a.png")},
	}, tasks)
}

func TestWalk_SkipsOutputInsideRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	touch(t, fs, "/in/a.png", "/in/watermarked/a.png", "/in/watermarked/sub/b.png")

	tasks, errs := Walk(fs, "/in", "/in/watermarked")
	require.Empty(t, errs)
	require.Len(t, tasks, 1)
	assert.Equal(t, "/in/a.png", tasks[0].Source)
	assert.Equal(t, "/in/watermarked/a.png", tasks[0].Dest)
}

func TestWalk_MissingRoot(t *testing.T) {
	fs := afero.NewMemMapFs()

	tasks, errs := Walk(fs, "/nowhere", "/out")
	assert.Empty(t, tasks)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "/nowhere")
}
