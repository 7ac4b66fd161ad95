package loader

import (
	"context"
	"errors"
	"io/fs"
)

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("rawdoc loader: fs path is required")
	}
	if files == nil {
		return nil, errors.New("rawdoc loader: fs is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := fs.Stat(files, name)
	if err != nil {
		return nil, err
	}
	if err := checkSize(name, info); err != nil {
		return nil, err
	}
	return fs.ReadFile(files, name)
}
