package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"geomoments/internal/modules/checkin/domain"
	checkinout "geomoments/internal/modules/checkin/port/out"
	apperrors "geomoments/internal/platform/errors"
)

type LocalImageReader struct{}

func NewLocalImageReader() checkinout.ImageReader {
	return LocalImageReader{}
}

func (LocalImageReader) Read(_ context.Context, path string) ([]byte, error) {
	path = expandHome(strings.TrimSpace(path))
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: image %s", apperrors.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", apperrors.ErrInvalidInput, path)
	}
	if info.Size() > domain.MaxImageBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", apperrors.ErrInvalidInput, path, domain.MaxImageBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
