package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/netisu/relief/aeno"
	"github.com/polds/imgbase64"
)

// --- Constants and Global Variables ---
const (
	Scale               = 2
	FovY                = 40
	Near                = 0.1
	Far                 = 100.0
	AmbColor            = "#b0b0b0"
	LightColor          = "#808080"
	Dimensions          = 512
	OffsetDimensions    = 256
	MaxOffsetDimensions = 2048
	MaxLayers           = 256
	MinViewZ            = 0.05
	RenderTimeout       = 20 * time.Second
	UploadTimeout       = 10 * time.Second
)

var (
	light = aeno.V(-1, 1, 2).Normalize()

	thumbnailCamera = aeno.Camera{Eye: aeno.V(0, -1.1, 1.4), Center: aeno.V(0, 0, 0), Up: aeno.V(0, 1, 0), Fovy: FovY, Near: Near, Far: Far}
	closeupCamera   = aeno.Camera{Eye: aeno.V(0, -0.95, 0.3), Center: aeno.V(0, 0.1, 0), Up: aeno.V(0, 0, 1), Fovy: 35, Near: Near, Far: Far}
	cubeCamera      = aeno.Camera{Eye: aeno.V(1.6, 1.3, 2.0), Center: aeno.V(0, 0, 0), Up: aeno.V(0, 1, 0), Fovy: FovY, Near: Near, Far: Far}

	defaultOffsetView = [3]float64{0.4, 0.3, 0.87}
)

var (
	errInvalidMaterial = errors.New("invalid material")
	errRenderTimeout   = errors.New("render timeout")
)

type RenderRequestType struct {
	RenderType string `json:"RenderType"`
}

// MaterialConfig selects a preset and overrides parts of it. Asset
// fields are upload hashes.
type MaterialConfig struct {
	Preset      string      `json:"preset"`
	Albedo      string      `json:"albedo"`
	Height      string      `json:"height"`
	Normal      string      `json:"normal"`
	Color       string      `json:"color"`
	Invert      bool        `json:"invert"`
	Layers      int         `json:"layers"`
	HeightScale *float64    `json:"height_scale"`
	View        *[3]float64 `json:"view"`
	Size        int         `json:"size"`
	Inline      bool        `json:"inline"`
}

type MaterialEvent struct {
	Hash       string         `json:"Hash"`
	RenderJson MaterialConfig `json:"RenderJson"`
}

type InlineResponse struct {
	Hash   string            `json:"Hash"`
	Images map[string]string `json:"Images"`
}

// renderOutput is one image produced by a request.
type renderOutput struct {
	name   string
	key    string
	render func(io.Writer) error
}

// Holds shared dependencies like config, S3 client, and cache.
type Server struct {
	config     *Config
	s3Uploader s3iface.S3API
	cache      *AssetCache
	presets    map[string]MaterialPreset
	metrics    *Metrics
}

func NewServer(cfg *Config, uploader s3iface.S3API, cache *AssetCache, presets map[string]MaterialPreset, metrics *Metrics) *Server {
	return &Server{
		config:     cfg,
		s3Uploader: uploader,
		cache:      cache,
		presets:    presets,
		metrics:    metrics,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRender)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if s.config.PostKey != "" && r.Header.Get("Aeo-Access-Key") != s.config.PostKey {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Peek at the RenderType
	var reqType RenderRequestType
	if err := json.Unmarshal(body, &reqType); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	var e MaterialEvent
	if err := json.Unmarshal(body, &e); err != nil {
		http.Error(w, "Invalid render body", http.StatusBadRequest)
		return
	}

	job := uuid.NewString()
	if e.Hash == "" {
		e.Hash = job
	}
	if strings.ContainsAny(e.Hash, `/\`) {
		log.Printf("[job %s] Rejected hash %q", job, e.Hash)
		http.Error(w, "Invalid Hash", http.StatusBadRequest)
		return
	}
	log.Printf("[job %s] Received RenderType: %s hash=%s", job, reqType.RenderType, e.Hash)

	var outputs []renderOutput
	switch reqType.RenderType {
	case "material":
		outputs, err = s.materialOutputs(e)
	case "cube":
		outputs, err = s.cubeOutputs(e)
	case "offsets":
		outputs, err = s.offsetOutputs(e)
	default:
		http.Error(w, "Unknown RenderType", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("[job %s] Material setup failed: %v", job, err)
		if errors.Is(err, errInvalidMaterial) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, "Asset fetch failed", http.StatusBadGateway)
		}
		return
	}

	s.process(w, r, job, reqType.RenderType, e, outputs)
}

func (s *Server) materialOutputs(e MaterialEvent) ([]renderOutput, error) {
	material, err := s.buildMaterial(e.RenderJson)
	if err != nil {
		return nil, err
	}
	return []renderOutput{
		{
			name:   "thumbnail",
			key:    path.Join("thumbnails", e.Hash+".png"),
			render: s.sceneRender([]*aeno.Object{aeno.NewPanel(material)}, thumbnailCamera),
		},
		{
			name:   "closeup",
			key:    path.Join("thumbnails", e.Hash+"_closeup.png"),
			render: s.sceneRender([]*aeno.Object{aeno.NewPanel(material)}, closeupCamera),
		},
	}, nil
}

func (s *Server) cubeOutputs(e MaterialEvent) ([]renderOutput, error) {
	material, err := s.buildMaterial(e.RenderJson)
	if err != nil {
		return nil, err
	}
	return []renderOutput{{
		name:   "cube",
		key:    path.Join("thumbnails", e.Hash+".png"),
		render: s.sceneRender(aeno.NewPanelCube(material), cubeCamera),
	}}, nil
}

func (s *Server) offsetOutputs(e MaterialEvent) ([]renderOutput, error) {
	cfg := e.RenderJson
	material, err := s.buildMaterial(cfg)
	if err != nil {
		return nil, err
	}
	if material.Height == nil {
		return nil, fmt.Errorf("%w: offsets need a height field", errInvalidMaterial)
	}

	view := defaultOffsetView
	if cfg.View != nil {
		view = *cfg.View
	}
	// The marcher divides by the normal component; refuse grazing views here.
	if view[2] < MinViewZ {
		return nil, fmt.Errorf("%w: view z must be at least %v", errInvalidMaterial, MinViewZ)
	}

	size := cfg.Size
	if size == 0 {
		size = OffsetDimensions
	}
	if size < 1 || size > MaxOffsetDimensions {
		return nil, fmt.Errorf("%w: size must be in [1, %d]", errInvalidMaterial, MaxOffsetDimensions)
	}

	workers := s.config.RenderWorkers
	return []renderOutput{{
		name: "offsets",
		key:  path.Join("offsets", e.Hash+".png"),
		render: func(w io.Writer) error {
			m := aeno.ComputeOffsetMap(material.Height, material.Parallax, aeno.V(view[0], view[1], view[2]), size, size, workers)
			return png.Encode(w, m.Image(m.MaxOffset()))
		},
	}}, nil
}

func (s *Server) sceneRender(objects []*aeno.Object, camera aeno.Camera) func(io.Writer) error {
	return func(w io.Writer) error {
		return aeno.GenerateSceneToWriter(w, objects, camera, Dimensions, Scale, light, AmbColor, LightColor)
	}
}

// process renders every output in parallel and uploads or inlines them.
func (s *Server) process(w http.ResponseWriter, r *http.Request, job, renderType string, e MaterialEvent, outputs []renderOutput) {
	start := time.Now()
	images := make([][]byte, len(outputs))
	errs := make([]error, len(outputs))

	var wg sync.WaitGroup
	wg.Add(len(outputs))
	for i, out := range outputs {
		go func() {
			defer wg.Done()
			renderStart := time.Now()
			buf, err := s.runRenderWithTimeout(r.Context(), out.render)
			s.metrics.ObserveRender(renderType, renderStart, err)
			if err != nil {
				errs[i] = fmt.Errorf("%s render: %w", out.name, err)
				return
			}
			images[i] = buf
			if e.RenderJson.Inline {
				return
			}
			if err := s.uploadToS3(r.Context(), buf, out.key); err != nil {
				errs[i] = fmt.Errorf("%s upload: %w", out.name, err)
			}
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		log.Printf("[job %s] %s failed: %v", job, renderType, err)
		if errors.Is(err, errRenderTimeout) {
			http.Error(w, "Render failed", http.StatusGatewayTimeout)
		} else {
			http.Error(w, "Render failed", http.StatusInternalServerError)
		}
		return
	}
	log.Printf("[job %s] Completed %s render for %s in %v", job, renderType, e.Hash, time.Since(start))

	if e.RenderJson.Inline {
		resp := InlineResponse{Hash: e.Hash, Images: make(map[string]string, len(outputs))}
		for i, out := range outputs {
			resp.Images[out.name] = imgbase64.FromBuffer(*bytes.NewBuffer(images[i]))
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("[job %s] Failed to write inline response: %v", job, err)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Material processed.")
}

func (s *Server) runRenderWithTimeout(ctx context.Context, render func(io.Writer) error) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, RenderTimeout)
	defer cancel()

	type result struct {
		data []byte
		err  error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{nil, fmt.Errorf("panic in renderer: %v", r)}
			}
		}()

		var buf bytes.Buffer
		err := render(&buf)
		resChan <- result{data: buf.Bytes(), err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, errRenderTimeout
	case res := <-resChan:
		return res.data, res.err
	}
}

func (s *Server) uploadToS3(ctx context.Context, data []byte, key string) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := s.s3Uploader.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
		ACL:           aws.String("public-read"),
	})
	s.metrics.ObserveUpload(len(data), err)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("Uploaded %s to S3 (%d bytes)", key, size)
	return nil
}

// assetURL resolves an upload hash on the CDN.
func (s *Server) assetURL(hash string) string {
	return fmt.Sprintf("%s/uploads/%s.png", s.config.CDNURL, hash)
}

// buildMaterial resolves a preset, applies the request overrides and
// fetches the assets it names.
func (s *Server) buildMaterial(cfg MaterialConfig) (*aeno.Material, error) {
	preset := MaterialPreset{Parallax: aeno.DefaultParallax}
	name := "custom"
	if cfg.Preset != "" {
		p, ok := s.presets[cfg.Preset]
		if !ok {
			return nil, fmt.Errorf("%w: unknown preset %q", errInvalidMaterial, cfg.Preset)
		}
		preset, name = p, cfg.Preset
	}
	if cfg.Albedo != "" {
		preset.Albedo = cfg.Albedo
	}
	if cfg.Normal != "" {
		preset.Normal = cfg.Normal
	}
	if cfg.Height != "" {
		preset.Height = cfg.Height
		preset.Perlin = nil
	}
	if cfg.Color != "" {
		preset.Color = cfg.Color
	}
	if cfg.Layers != 0 {
		preset.Parallax.Layers = cfg.Layers
	}
	if cfg.HeightScale != nil {
		preset.Parallax.HeightScale = *cfg.HeightScale
	}
	preset.Invert = preset.Invert || cfg.Invert
	if preset.Parallax.Layers > MaxLayers {
		return nil, fmt.Errorf("%w: layers must be at most %d", errInvalidMaterial, MaxLayers)
	}

	color := "#ffffff"
	if preset.Color != "" {
		color = preset.Color
	}
	material := aeno.NewMaterial(name, aeno.HexColor(color))
	material.Parallax = preset.Parallax

	if preset.Albedo != "" {
		texture, err := s.cache.GetTexture(s.assetURL(preset.Albedo))
		if err != nil {
			return nil, err
		}
		material.Albedo = texture
	}
	if preset.Normal != "" {
		texture, err := s.cache.GetTexture(s.assetURL(preset.Normal))
		if err != nil {
			return nil, err
		}
		material.Normal = texture
	}
	switch {
	case preset.Height != "":
		field, err := s.cache.GetHeightField(s.assetURL(preset.Height))
		if err != nil {
			return nil, err
		}
		if preset.Invert {
			material.Height = aeno.InvertHeightField{Field: field}
		} else {
			material.Height = field
		}
	case preset.Perlin != nil:
		material.Height = preset.Perlin.PerlinField()
	}

	if err := material.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidMaterial, err)
	}
	return material, nil
}
