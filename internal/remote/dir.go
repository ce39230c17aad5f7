package remote

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirRemote keeps one envelope file per language in a directory, such as
// a folder synchronized by a cloud drive.
type DirRemote struct {
	dir string
}

// NewDirRemote creates a directory backend rooted at dir.
func NewDirRemote(dir string) *DirRemote {
	return &DirRemote{dir: dir}
}

func (d *DirRemote) Name() string { return KindDir }

func (d *DirRemote) path(language string) (string, error) {
	if language == "" || strings.ContainsAny(language, `/\`) || strings.HasPrefix(language, ".") {
		return "", fmt.Errorf("invalid language code %q", language)
	}
	return filepath.Join(d.dir, language+".json"), nil
}

func (d *DirRemote) Load(_ context.Context, language string) (*Envelope, error) {
	p, err := d.path(language)
	if err != nil {
		return nil, &ErrRejected{Err: err}
	}
	raw, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &ErrUnavailable{Err: err}
	}
	return Decode(raw)
}

// Save writes the envelope to a temp file and renames it into place so a
// reader never sees a partial file.
func (d *DirRemote) Save(_ context.Context, language string, env *Envelope) error {
	p, err := d.path(language)
	if err != nil {
		return &ErrRejected{Err: err}
	}
	data, err := Encode(env)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return &ErrUnavailable{Err: fmt.Errorf("create remote dir: %w", err)}
	}
	f, err := os.CreateTemp(d.dir, ".lingua-"+language+"-*")
	if err != nil {
		return &ErrUnavailable{Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return &ErrUnavailable{Err: fmt.Errorf("write temp file: %w", err)}
	}
	if err := f.Close(); err != nil {
		return &ErrUnavailable{Err: fmt.Errorf("close temp file: %w", err)}
	}
	if err := os.Rename(tmp, p); err != nil {
		return &ErrUnavailable{Err: fmt.Errorf("rename: %w", err)}
	}
	return nil
}
