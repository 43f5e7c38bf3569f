package recordings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

var ErrInvalidName = errors.New("invalid recording name")

// Store finds call recordings by basename under a spool directory.
type Store struct {
	base   string
	logger zerolog.Logger

	mu    sync.RWMutex
	index map[string]string
}

func NewStore(base string, logger *zerolog.Logger) *Store {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "recordings").Logger()
	}
	return &Store{base: base, logger: l, index: make(map[string]string)}
}

func (s *Store) Base() string {
	return s.base
}

// Find returns the recording content, or nil without error when no file has that name.
func (s *Store) Find(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	if path, ok := s.lookup(name); ok {
		data, err := ReadLocked(path)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		s.forget(path)
	}

	var found string
	err := Locate(ctx, s.base, func(path string) (bool, error) {
		if filepath.Base(path) == name {
			found = path
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if found == "" {
		s.logger.Debug().Str("file", name).Msg("recording not found")
		return nil, nil
	}

	s.remember(found)
	return ReadLocked(found)
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (s *Store) lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	path, ok := s.index[name]
	return path, ok
}

func (s *Store) remember(path string) {
	s.mu.Lock()
	s.index[filepath.Base(path)] = path
	s.mu.Unlock()
}

func (s *Store) forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := filepath.Base(path)
	if s.index[name] == path {
		delete(s.index, name)
	}
}

// Indexed reports how many basenames are currently known.
func (s *Store) Indexed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}

// Watch indexes the spool directory and keeps the index current until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := s.addTree(ctx, watcher, s.base); err != nil {
		watcher.Close()
		return err
	}

	s.logger.Info().Str("path", s.base).Int("files", s.Indexed()).Msg("recordings watcher started")

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				s.handleEvent(ctx, watcher, evt)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn().Err(err).Msg("recordings watcher error")
			}
		}
	}()
	return nil
}

func (s *Store) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, evt fsnotify.Event) {
	switch {
	case evt.Op&fsnotify.Create != 0:
		if isDir(evt.Name) {
			if err := s.addTree(ctx, watcher, evt.Name); err != nil {
				s.logger.Warn().Err(err).Str("path", evt.Name).Msg("failed to watch new directory")
			}
			return
		}
		s.remember(evt.Name)
	case evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// при переименовании приходит ещё Create с новым именем
		s.forget(evt.Name)
	}
}

func (s *Store) addTree(ctx context.Context, watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		if d.Type().IsRegular() {
			s.remember(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
