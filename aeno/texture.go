package aeno

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/fogleman/fauxgl"
)

// Texture interface for texture
type Texture interface {
	Sample(u, v float64) Color
	BilinearSample(u, v float64) Color
}

// NewImageTexture image.Image to texture
func NewImageTexture(im image.Image) Texture {
	return fauxgl.NewImageTexture(im)
}

// SolidTexture samples to the same colour everywhere.
type SolidTexture Color

func (t SolidTexture) Sample(u, v float64) Color {
	return Color(t)
}

func (t SolidTexture) BilinearSample(u, v float64) Color {
	return Color(t)
}

// LoadTexture returns texture from filepath
func LoadTexture(path string) (Texture, error) {
	im, err := fauxgl.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	return NewImageTexture(im), nil
}

// TextureFromReader decodes a PNG or JPEG texture.
func TextureFromReader(r io.Reader) (Texture, error) {
	im, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return NewImageTexture(im), nil
}

// TexFromBytes returns texture created with given bytes
func TexFromBytes(data []byte) (Texture, error) {
	return TextureFromReader(bytes.NewReader(data))
}

// LoadTextureFromURL fetches and decodes a texture with client.
func LoadTextureFromURL(client *http.Client, url string) (Texture, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch texture %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch texture %s: status %d", url, resp.StatusCode)
	}
	return TextureFromReader(resp.Body)
}

// LoadHeightFieldFromURL fetches and decodes a height map with client.
func LoadHeightFieldFromURL(client *http.Client, url string) (*ImageHeightField, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch height map %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch height map %s: status %d", url, resp.StatusCode)
	}
	return HeightFieldFromReader(resp.Body)
}
