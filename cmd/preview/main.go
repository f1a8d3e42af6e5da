package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/netisu/relief/aeno"
)

var (
	eye          = aeno.V(0, -1.1, 1.4)
	center       = aeno.V(0, 0, 0)
	up           = aeno.V(0, 1, 0)
	Dimentions   = 512
	CameraScale  = 2 // set to 4 or 5 for production, 2 or 3 for testing
	light        = aeno.V(-1, 1, 2).Normalize()
	fovy         = 40.0
	near         = 0.1
	far          = 100.0
	color        = "#808080"
	Amb          = "#b0b0b0"
	cdnDirectory = "./cdn" // set this to your storage root
)

type options struct {
	renderType string
	albedo     string
	height     string
	normal     string
	color      string
	invert     bool
	seed       int64
	layers     int
	scale      float64
	view       [3]float64
	out        string
}

func main() {
	var o options
	flag.StringVar(&o.renderType, "type", "material", "Render type: material, cube or offsets")
	flag.StringVar(&o.albedo, "albedo", "", "Albedo texture, relative to -cdn")
	flag.StringVar(&o.height, "height", "", "Height map, relative to -cdn (procedural when empty)")
	flag.StringVar(&o.normal, "normal", "", "Normal map, relative to -cdn")
	flag.StringVar(&o.color, "color", "#d8c08a", "Base colour when no albedo is given")
	flag.BoolVar(&o.invert, "invert", false, "Height map stores depth (white is deep)")
	flag.Int64Var(&o.seed, "seed", 7, "Perlin seed for the procedural height field")
	flag.IntVar(&o.layers, "layers", aeno.DefaultParallax.Layers, "Parallax layers")
	flag.Float64Var(&o.scale, "scale", aeno.DefaultParallax.HeightScale, "Parallax height scale")
	flag.Float64Var(&o.view[0], "vx", 0.4, "Offsets view direction x")
	flag.Float64Var(&o.view[1], "vy", 0.3, "Offsets view direction y")
	flag.Float64Var(&o.view[2], "vz", 0.87, "Offsets view direction z")
	flag.StringVar(&o.out, "out", "", "Output PNG (default output/<type>_<timestamp>.png)")
	flag.StringVar(&cdnDirectory, "cdn", cdnDirectory, "Local asset directory")
	flag.Parse()

	if err := run(o); err != nil {
		log.Fatal(err)
	}
}

func run(o options) error {
	material, err := loadMaterial(o)
	if err != nil {
		return err
	}

	if o.out == "" {
		o.out = filepath.Join("output", fmt.Sprintf("%s_%s.png", o.renderType, time.Now().Format("20060102_150405")))
	}
	if err := os.MkdirAll(filepath.Dir(o.out), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(o.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()

	start := time.Now()
	camera := aeno.Camera{Eye: eye, Center: center, Up: up, Fovy: fovy, Near: near, Far: far}
	switch o.renderType {
	case "material":
		err = aeno.GenerateSceneToWriter(file, []*aeno.Object{aeno.NewPanel(material)}, camera, Dimentions, CameraScale, light, Amb, color)
	case "cube":
		camera.Eye = aeno.V(1.6, 1.3, 2.0)
		err = aeno.GenerateSceneToWriter(file, aeno.NewPanelCube(material), camera, Dimentions, CameraScale, light, Amb, color)
	case "offsets":
		if o.view[2] <= 0 {
			return fmt.Errorf("view z must be positive, got %v", o.view[2])
		}
		m := aeno.ComputeOffsetMap(material.Height, material.Parallax, aeno.V(o.view[0], o.view[1], o.view[2]), Dimentions, Dimentions, 0)
		err = png.Encode(file, m.Image(m.MaxOffset()))
	default:
		return fmt.Errorf("invalid render type: %s", o.renderType)
	}
	if err != nil {
		return err
	}
	log.Printf("Rendered %s to %s in %v", o.renderType, o.out, time.Since(start))
	return nil
}

func loadMaterial(o options) (*aeno.Material, error) {
	material := aeno.NewMaterial("preview", aeno.HexColor(o.color))
	material.Parallax = aeno.Parallax{Layers: o.layers, HeightScale: o.scale}

	if o.height != "" {
		field, err := aeno.LoadHeightField(filepath.Join(cdnDirectory, o.height))
		if err != nil {
			return nil, err
		}
		material.Height = field
		if o.invert {
			material.Height = aeno.InvertHeightField{Field: field}
		}
	} else {
		material.Height = aeno.NewPerlinHeightField(2, 2, 3, o.seed, 6)
	}
	if o.albedo != "" {
		texture, err := aeno.LoadTexture(filepath.Join(cdnDirectory, o.albedo))
		if err != nil {
			return nil, err
		}
		material.Albedo = texture
	}
	if o.normal != "" {
		texture, err := aeno.LoadTexture(filepath.Join(cdnDirectory, o.normal))
		if err != nil {
			return nil, err
		}
		material.Normal = texture
	}
	return material, material.Validate()
}
