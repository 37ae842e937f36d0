package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileSource serves timelines from <dir>/<trackID>.json. Files are loaded
// into memory and reloaded when they change on disk.
type FileSource struct {
	dir string
	log *zap.Logger

	mu        sync.RWMutex
	timelines map[string]*Timeline

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewFileSource loads every timeline in dir. Call Watch to follow changes.
func NewFileSource(dir string, log *zap.Logger) (*FileSource, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &FileSource{
		dir:       dir,
		log:       log,
		timelines: make(map[string]*Timeline),
		done:      make(chan struct{}),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read timeline dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := s.load(filepath.Join(dir, e.Name())); err != nil {
			log.Warn("skipping timeline file", zap.String("file", e.Name()), zap.Error(err))
		}
	}
	return s, nil
}

// Watch starts reloading files as they are written, created or removed.
func (s *FileSource) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	s.watcher = watcher

	s.wg.Add(1)
	go s.run()
	return nil
}

func (s *FileSource) run() {
	defer s.wg.Done()
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			switch {
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				s.forget(event.Name)
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if err := s.load(event.Name); err != nil {
					s.log.Warn("timeline reload failed", zap.String("file", event.Name), zap.Error(err))
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("timeline watcher error", zap.Error(err))
		case <-s.done:
			return
		}
	}
}

// Close stops the watcher.
func (s *FileSource) Close() error {
	close(s.done)
	var err error
	if s.watcher != nil {
		err = s.watcher.Close()
	}
	s.wg.Wait()
	return err
}

func (s *FileSource) Timeline(_ context.Context, trackID string) (*Timeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.timelines[trackID]
	if !ok {
		return nil, NotFound(trackID)
	}
	cp := *t
	cp.Markers = append(cp.Markers[:0:0], t.Markers...)
	return &cp, nil
}

// SaveTimeline writes the timeline file; the in-memory copy is updated
// immediately rather than waiting for the watcher.
func (s *FileSource) SaveTimeline(_ context.Context, t *Timeline) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.Normalize()
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, trackFile(t.TrackID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write timeline: %w", err)
	}
	cp := *t
	s.put(&cp)
	return nil
}

func (s *FileSource) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var t Timeline
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	t.TrackID = strings.TrimSuffix(filepath.Base(path), ".json")
	t.Normalize()
	s.put(&t)
	s.log.Debug("timeline loaded", zap.String("track", t.TrackID), zap.Int("markers", len(t.Markers)))
	return nil
}

func (s *FileSource) put(t *Timeline) {
	s.mu.Lock()
	s.timelines[t.TrackID] = t
	s.mu.Unlock()
}

func (s *FileSource) forget(path string) {
	id := strings.TrimSuffix(filepath.Base(path), ".json")
	s.mu.Lock()
	delete(s.timelines, id)
	s.mu.Unlock()
}

func trackFile(trackID string) string {
	return filepath.Base(filepath.Clean("/"+trackID)) + ".json"
}
