package remote

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirRemote_SaveThenLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cloud")
	r := NewDirRemote(dir)
	ctx := context.Background()

	env, err := r.Load(ctx, "de")
	require.NoError(t, err)
	assert.Nil(t, env)

	require.NoError(t, r.Save(ctx, "de", &Envelope{Due: []string{"de:home:Haus"}}))
	require.NoError(t, r.Save(ctx, "de", &Envelope{Due: []string{"de:home:Tür"}}))

	env, err = r.Load(ctx, "de")
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.Equal(t, []string{"de:home:Tür"}, env.Due)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "de.json", entries[0].Name())
}

func TestDirRemote_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sr.json"), []byte("garbage"), 0o644))

	_, err := NewDirRemote(dir).Load(context.Background(), "sr")
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestDirRemote_RejectsPathLanguage(t *testing.T) {
	r := NewDirRemote(t.TempDir())
	for _, lang := range []string{"", "../etc", "a/b", ".hidden"} {
		err := r.Save(context.Background(), lang, &Envelope{})
		var rej *ErrRejected
		assert.ErrorAs(t, err, &rej, "language %q", lang)
	}
}
