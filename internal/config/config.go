package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/protein"
	"github.com/san-kum/molview/internal/scene"
)

const (
	DefaultStructure   = "testdata/caffeine.pdb"
	DefaultFPS         = 60
	DefaultBackend     = "ballstick"
	DefaultTimeout     = 10 * time.Second
	DefaultAddr        = ":5000"
	DefaultStorageDir  = ".molview"
	DefaultFrameFPS    = 15
	DefaultFrameWidth  = 800
	DefaultFrameHeight = 600

	// EnvPrefix marks environment overrides. A double underscore descends
	// into a section: MOLVIEW_VIEWER__FPS sets viewer.fps.
	EnvPrefix = "MOLVIEW_"
)

type Config struct {
	Structure StructureConfig `yaml:"structure" koanf:"structure"`
	Geometry  GeometryConfig  `yaml:"geometry" koanf:"geometry"`
	Viewer    ViewerConfig    `yaml:"viewer" koanf:"viewer"`
	Protein   ProteinConfig   `yaml:"protein" koanf:"protein"`
	Server    ServerConfig    `yaml:"server" koanf:"server"`
	Storage   StorageConfig   `yaml:"storage" koanf:"storage"`
	Log       LogConfig       `yaml:"log" koanf:"log"`
}

type StructureConfig struct {
	Path string `yaml:"path" koanf:"path"`
	// Format overrides detection from the file extension ("pdb" or "cif").
	Format string `yaml:"format" koanf:"format"`
}

type GeometryConfig struct {
	Scale      float64 `yaml:"scale" koanf:"scale"`
	AtomRadius float64 `yaml:"atom_radius" koanf:"atom_radius"`
	BondWidth  float64 `yaml:"bond_width" koanf:"bond_width"`
	BondColor  string  `yaml:"bond_color" koanf:"bond_color"`
}

type ViewerConfig struct {
	FPS     int    `yaml:"fps" koanf:"fps"`
	Backend string `yaml:"backend" koanf:"backend"`
	Labels  bool   `yaml:"labels" koanf:"labels"`
}

type ProteinConfig struct {
	API         string        `yaml:"api" koanf:"api"`
	AlphaFold   string        `yaml:"alphafold" koanf:"alphafold"`
	UniProt     string        `yaml:"uniprot" koanf:"uniprot"`
	ColorScheme string        `yaml:"color_scheme" koanf:"color_scheme"`
	Timeout     time.Duration `yaml:"timeout" koanf:"timeout"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr" koanf:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins" koanf:"allowed_origins"`
	FrameFPS       int           `yaml:"frame_fps" koanf:"frame_fps"`
	FrameWidth     int           `yaml:"frame_width" koanf:"frame_width"`
	FrameHeight    int           `yaml:"frame_height" koanf:"frame_height"`
}

type StorageConfig struct {
	Dir string `yaml:"dir" koanf:"dir"`
}

type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
}

func DefaultConfig() *Config {
	p := scene.DefaultParams()
	return &Config{
		Structure: StructureConfig{Path: DefaultStructure},
		Geometry: GeometryConfig{
			Scale:      p.Scale,
			AtomRadius: p.AtomRadius,
			BondWidth:  p.BondWidth,
			BondColor:  p.BondColor.Hex(),
		},
		Viewer: ViewerConfig{
			FPS:     DefaultFPS,
			Backend: DefaultBackend,
			Labels:  true,
		},
		Protein: ProteinConfig{
			API:         protein.DefaultAPI,
			AlphaFold:   protein.AlphaFoldAPI,
			UniProt:     protein.UniProtAPI,
			ColorScheme: string(protein.Spectrum),
			Timeout:     DefaultTimeout,
		},
		Server: ServerConfig{
			Addr:           DefaultAddr,
			RequestTimeout: 60 * time.Second,
			AllowedOrigins: []string{"*"},
			FrameFPS:       DefaultFrameFPS,
			FrameWidth:     DefaultFrameWidth,
			FrameHeight:    DefaultFrameHeight,
		},
		Storage: StorageConfig{Dir: DefaultStorageDir},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path, if it exists, over the defaults and
// then applies MOLVIEW_* environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func Save(path string, cfg *Config) error {
	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Structure.Path == "" {
		return fmt.Errorf("structure.path is required")
	}
	if c.Structure.Format != "" && c.Structure.Format != "pdb" && c.Structure.Format != "cif" {
		return fmt.Errorf("invalid structure.format %q: must be pdb or cif", c.Structure.Format)
	}
	if c.Geometry.Scale <= 0 {
		return fmt.Errorf("geometry.scale must be positive")
	}
	if c.Geometry.AtomRadius <= 0 || c.Geometry.BondWidth <= 0 {
		return fmt.Errorf("geometry.atom_radius and geometry.bond_width must be positive")
	}
	if _, err := parseHexColor(c.Geometry.BondColor); err != nil {
		return fmt.Errorf("invalid geometry.bond_color: %w", err)
	}
	if c.Viewer.FPS <= 0 || c.Viewer.FPS > 240 {
		return fmt.Errorf("viewer.fps must be between 1 and 240")
	}
	if _, err := protein.ParseColorScheme(c.Protein.ColorScheme); err != nil {
		return err
	}
	if c.Protein.Timeout < 0 {
		return fmt.Errorf("protein.timeout must be non-negative")
	}
	if c.Server.FrameFPS <= 0 {
		return fmt.Errorf("server.frame_fps must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	return nil
}

// Params converts the geometry section for the builder.
func (c *Config) Params() scene.Params {
	color, err := parseHexColor(c.Geometry.BondColor)
	if err != nil {
		color = molecule.White
	}
	return scene.Params{
		Scale:      c.Geometry.Scale,
		AtomRadius: c.Geometry.AtomRadius,
		BondWidth:  c.Geometry.BondWidth,
		BondColor:  color,
	}
}

// Style converts the protein colour scheme for the structure widget.
func (c *Config) Style() protein.Style {
	scheme, err := protein.ParseColorScheme(c.Protein.ColorScheme)
	if err != nil {
		scheme = protein.Spectrum
	}
	return protein.Style{Color: scheme}
}

func parseHexColor(s string) (molecule.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return molecule.Color{}, fmt.Errorf("want #rrggbb, got %q", s)
	}
	return molecule.ColorFromHex(uint32(v)), nil
}
