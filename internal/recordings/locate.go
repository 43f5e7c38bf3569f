package recordings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

var errStop = errors.New("stop walk")

// Locate walks basePath and hands every regular file to visit until visit
// returns false or an error.
func Locate(ctx context.Context, basePath string, visit func(path string) (bool, error)) error {
	err := filepath.WalkDir(basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		more, err := visit(path)
		if err != nil {
			return err
		}
		if !more {
			return errStop
		}
		return nil
	})
	if errors.Is(err, errStop) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan %s: %w", basePath, err)
	}
	return nil
}

// LocateAndRead returns the content of the first file accepted by match, or nil
// when nothing matched.
func LocateAndRead(ctx context.Context, basePath string, match func(path string) bool) ([]byte, error) {
	var found string
	err := Locate(ctx, basePath, func(path string) (bool, error) {
		if match(path) {
			found = path
			return false, nil
		}
		return true, nil
	})
	if err != nil || found == "" {
		return nil, err
	}
	return ReadLocked(found)
}
