package main

import (
	"net/http"
	"sync"

	"github.com/netisu/relief/aeno"
)

// A thread-safe cache for textures and height maps to avoid redundant downloads.
type AssetCache struct {
	mu         sync.RWMutex
	textures   map[string]aeno.Texture
	heights    map[string]*aeno.ImageHeightField
	httpClient *http.Client
}

func NewAssetCache(client *http.Client) *AssetCache {
	return &AssetCache{
		textures:   make(map[string]aeno.Texture),
		heights:    make(map[string]*aeno.ImageHeightField),
		httpClient: client,
	}
}

// GetTexture fetches a texture from the cache or loads it from the URL if not present.
func (c *AssetCache) GetTexture(url string) (aeno.Texture, error) {
	c.mu.RLock()
	texture, ok := c.textures[url]
	c.mu.RUnlock()
	if ok {
		return texture, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Double check after acquiring lock
	if texture, ok = c.textures[url]; ok {
		return texture, nil
	}

	texture, err := aeno.LoadTextureFromURL(c.httpClient, url)
	if err != nil {
		return nil, err
	}
	c.textures[url] = texture
	return texture, nil
}

// GetHeightField fetches a height map from the cache or loads it from the URL if not present.
func (c *AssetCache) GetHeightField(url string) (*aeno.ImageHeightField, error) {
	c.mu.RLock()
	field, ok := c.heights[url]
	c.mu.RUnlock()
	if ok {
		return field, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if field, ok = c.heights[url]; ok {
		return field, nil
	}

	field, err := aeno.LoadHeightFieldFromURL(c.httpClient, url)
	if err != nil {
		return nil, err
	}
	c.heights[url] = field
	return field, nil
}

// Len is the number of cached assets.
func (c *AssetCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.textures) + len(c.heights)
}
