package raster

import (
	"os"
	"sync"

	"github.com/rs/zerolog/log"
)

// DatasetCache keeps opened datasets keyed by path so repeated tool calls on
// the same file do not reopen it.
//
// DatasetCache is safe for concurrent use. Cached datasets stay open until
// Evict or Clear closes them.
//
// # Example Usage
//
//	cache := raster.NewDatasetCache()
//	ds, err := cache.Load("/data/scene.tif")
//	if err != nil {
//	    return err
//	}
//	stats, err := raster.BasicStatistics(ds)
type DatasetCache struct {
	mu       sync.RWMutex
	datasets map[string]Dataset
	open     func(string) (Dataset, error)
}

// NewDatasetCache creates an empty cache that opens files with Open.
func NewDatasetCache() *DatasetCache {
	return &DatasetCache{
		datasets: make(map[string]Dataset),
		open:     Open,
	}
}

// Load returns the cached dataset for path, opening it on first use.
//
// The path string is the cache key as given; a relative and an absolute path
// to the same file are cached separately.
func (c *DatasetCache) Load(path string) (Dataset, error) {
	c.mu.RLock()
	if ds, ok := c.datasets[path]; ok {
		c.mu.RUnlock()
		return ds, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if ds, ok := c.datasets[path]; ok {
		return ds, nil
	}

	ds, err := c.open(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Str("driver", ds.Driver()).
		Int("width", ds.Width()).Int("height", ds.Height()).Int("bands", ds.BandCount()).
		Msg("opened raster")
	c.datasets[path] = ds
	return ds, nil
}

// Put stores ds under key, closing any dataset previously cached there.
// Keys need not be file paths, which lets derived in-memory results be
// loaded by name.
func (c *DatasetCache) Put(key string, ds Dataset) {
	c.mu.Lock()
	old, ok := c.datasets[key]
	c.datasets[key] = ds
	c.mu.Unlock()

	if ok && old != ds {
		closeQuietly(key, old)
	}
}

// Evict closes and forgets the dataset cached for path. Unknown paths are ignored.
func (c *DatasetCache) Evict(path string) {
	c.mu.Lock()
	ds, ok := c.datasets[path]
	delete(c.datasets, path)
	c.mu.Unlock()

	if ok {
		closeQuietly(path, ds)
	}
}

// Clear closes every cached dataset.
func (c *DatasetCache) Clear() {
	c.mu.Lock()
	old := c.datasets
	c.datasets = make(map[string]Dataset)
	c.mu.Unlock()

	for path, ds := range old {
		closeQuietly(path, ds)
	}
}

// Len reports how many datasets are cached.
func (c *DatasetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.datasets)
}

func closeQuietly(path string, ds Dataset) {
	if err := ds.Close(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to close raster")
	}
}

// Info is the summary returned for a raster file.
type Info struct {
	Path          string     `json:"path"`
	Metadata      Metadata   `json:"metadata"`
	Bounds        [4]float64 `json:"bounds"`
	FileSizeBytes int64      `json:"file_size_bytes,omitempty"`
}

// LoadInfo opens path through the cache and describes it. FileSizeBytes is
// left zero for datasets stored with Put under a non-file key.
func LoadInfo(cache *DatasetCache, path string) (*Info, error) {
	ds, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	meta := Describe(ds)
	b := meta.Bounds()
	info := &Info{
		Path:     path,
		Metadata: meta,
		Bounds:   [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]},
	}
	if stat, err := os.Stat(path); err == nil {
		info.FileSizeBytes = stat.Size()
	}
	return info, nil
}
