package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// maxDocumentBytes bounds every strategy; form documents are small.
const maxDocumentBytes = 8 << 20

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("rawdoc loader: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if err := checkSize(abs, info); err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func checkSize(name string, info fs.FileInfo) error {
	if info.IsDir() {
		return fmt.Errorf("rawdoc loader: %s is a directory", name)
	}
	if info.Size() > maxDocumentBytes {
		return fmt.Errorf("rawdoc loader: %s exceeds %d bytes", name, maxDocumentBytes)
	}
	return nil
}
