// Package zonecache memoizes zones loaded by name, so repeated
// resolutions do not reread and redecode the same files.
package zonecache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/wallclock/zoned/tzdir"
	"github.com/wallclock/zoned/zone"
)

// Loader turns a zone name into a zone.
type Loader func(name string) (zone.Zone, error)

// Cache memoizes name to zone lookups. Use New or NewWithLoader; the
// zero value has no loader.
type Cache struct {
	load Loader

	mu    sync.RWMutex
	zones map[string]zone.Zone
}

// New returns an empty cache backed by tzdir.Load.
func New() *Cache {
	return NewWithLoader(tzdir.Load)
}

// NewWithLoader returns an empty cache backed by load.
func NewWithLoader(load Loader) *Cache {
	return &Cache{load: load, zones: make(map[string]zone.Zone)}
}

// Get returns the zone for name, loading and memoizing it on first
// use. Failed loads are not cached.
func (c *Cache) Get(name string) (zone.Zone, error) {
	c.mu.RLock()
	z, ok := c.zones[name]
	c.mu.RUnlock()
	if ok {
		return z, nil
	}

	z, err := c.load(name)
	if err != nil {
		return zone.Zone{}, err
	}

	c.mu.Lock()
	c.zones[name] = z
	c.mu.Unlock()
	return z, nil
}

// Put seeds the cache, for example from a downloaded bundle.
func (c *Cache) Put(name string, z zone.Zone) {
	c.mu.Lock()
	c.zones[name] = z
	c.mu.Unlock()
}

// Invalidate drops every memoized zone.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	clear(c.zones)
	c.mu.Unlock()
}

// Len reports how many zones are memoized.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.zones)
}

// Watch invalidates the cache whenever a file under one of the given
// directories changes. It blocks until ctx is canceled and returns
// ctx.Err(), or an error when no directory could be watched.
func (c *Cache) Watch(ctx context.Context, dirs []string, log zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("not watching zone directory")
			continue
		}
		watched++
		log.Debug().Str("dir", dir).Msg("watching zone directory")
	}
	if watched == 0 {
		return errors.New("no watchable zone directories")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			c.Invalidate()
			log.Info().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("zone files changed, cache dropped")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("zone watcher error")
		}
	}
}
