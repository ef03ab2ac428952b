// Package config assembles the provider registry's startup configuration —
// file-provider roots, the embedded-resource table, lorem-ipsum repeat
// defaults and generated-texture descriptor wiring — the way the teacher
// repo never needed to (its configuration is all functional options baked
// in at main(), see engine/engine_builder.go), but the resource subsystem
// does (spec §2 Component B "Provider Registry", §4.C "File provider").
//
// Layering follows the same file → env → explicit-override precedence
// Hola-to-network_logistics_problem's pkg/logger and cmd/*/main.go use:
// github.com/knadh/koanf/v2 with the file and env providers and the yaml
// parser.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/provider"
	"github.com/oxy-go/oxyres/resource/provider/eagitex"
	"github.com/oxy-go/oxyres/resource/provider/eagitexi"
	"github.com/oxy-go/oxyres/resource/provider/embedded"
	fileprovider "github.com/oxy-go/oxyres/resource/provider/file"
	"github.com/oxy-go/oxyres/resource/provider/textprovider"
)

// TextureDescriptor configures one eagitex.Square2D descriptor provider
// (spec §4.C "Descriptor providers").
type TextureDescriptor struct {
	Path      string `koanf:"path"`
	ImagePath string `koanf:"image_path"`
	DataType  string `koanf:"data_type"`
	Format    string `koanf:"format"`
	IFormat   string `koanf:"iformat"`
	Channels  int    `koanf:"channels"`
}

// Config is the provider registry's startup configuration.
type Config struct {
	// FileRoots are the directories the file provider serves regular files
	// from (spec §4.C "File provider").
	FileRoots []string `koanf:"file_roots"`
	// TextRepeatDefault is the lorem-ipsum provider's `repeat=N` default
	// when the query omits it.
	TextRepeatDefault int `koanf:"text_repeat_default"`
	// LogLevel is a logrus level name ("debug", "info", "warn", "error"),
	// consumed by the logging package.
	LogLevel string `koanf:"log_level"`
	// TextureDescriptors lists the eagitex descriptor providers to wire
	// into the default registry.
	TextureDescriptors []TextureDescriptor `koanf:"texture_descriptors"`
}

// Default returns the configuration used when no file or environment
// overrides are present: no file roots, a repeat default of 1, info-level
// logging and no texture descriptors.
func Default() Config {
	return Config{
		TextRepeatDefault: 1,
		LogLevel:          "info",
	}
}

// Load layers a YAML file at path (skipped if path is empty) under
// environment variables prefixed with envPrefix (e.g. "OXYRES_FILE_ROOTS")
// over Default(). Environment keys have envPrefix stripped and are
// lower-cased, so with envPrefix "OXYRES_" the variable OXYRES_FILE_ROOTS
// sets the file_roots key.
func Load(path, envPrefix string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if envPrefix != "" {
		transform := func(s string) string {
			return strings.ToLower(strings.TrimPrefix(s, envPrefix))
		}
		if err := k.Load(env.Provider(envPrefix, ".", transform), nil); err != nil {
			return cfg, fmt.Errorf("config: load env: %w", err)
		}
	}

	if k.Exists("file_roots") {
		cfg.FileRoots = k.Strings("file_roots")
	}
	if k.Exists("text_repeat_default") {
		cfg.TextRepeatDefault = k.Int("text_repeat_default")
	}
	if k.Exists("log_level") {
		cfg.LogLevel = k.String("log_level")
	}
	if k.Exists("texture_descriptors") {
		var descs []TextureDescriptor
		if err := k.Unmarshal("texture_descriptors", &descs); err != nil {
			return cfg, fmt.Errorf("config: unmarshal texture_descriptors: %w", err)
		}
		cfg.TextureDescriptors = descs
	}

	return cfg, nil
}

// Square2DProviders builds the eagitex.Square2D descriptor providers named
// by cfg.TextureDescriptors, in configuration order.
func (c Config) Square2DProviders() []eagitex.Square2D {
	out := make([]eagitex.Square2D, 0, len(c.TextureDescriptors))
	for _, d := range c.TextureDescriptors {
		out = append(out, eagitex.NewSquare2D(d.Path, d.ImagePath, d.DataType, d.Format, d.IFormat, d.Channels))
	}
	return out
}

// NewRegistry wires a provider.Registry with the standard non-GPU provider
// set, configured from c: the file provider over c.FileRoots, the
// lorem-ipsum/string-list/URL-list seed fixtures plus a self-describing
// resource-list index, the checkerboard/stripes/random/sphere-volume/
// single-colour/tiling `eagitexi:` generators, c.TextureDescriptors'
// `eagitex:` descriptors, and embedded over embeddedTable. Registration
// order follows spec §4.B
// "Policy" precedence: file first (most specific, filesystem-backed),
// then the generated and fixture providers, then embedded as a catch-all,
// and finally the resource-list index, so it can enumerate every provider
// registered before it.
//
// The GPU-rendered cube-map-sky provider is deliberately not wired here —
// it needs a live gpu.Context, which this package (startup configuration
// only) does not hold; callers that have one register cubemapsky.Provider
// separately, as resource/loader's tests do.
func NewRegistry(c Config, embeddedTable map[string][]byte) *provider.Registry {
	reg := provider.NewRegistry()

	reg.Register(fileprovider.New(c.FileRoots...))

	seed := textprovider.NewSeedFixtures().WithDefaultRepeat(c.TextRepeatDefault)
	reg.Register(seed)

	reg.Register(eagitexi.NewChecks2D())
	reg.Register(eagitexi.NewStripes())
	reg.Register(eagitexi.NewRandom())
	reg.Register(eagitexi.NewSphereVolume())
	reg.Register(eagitexi.NewSingleColor())
	reg.Register(eagitexi.NewTiling(registryReader{reg}))

	for _, sq := range c.Square2DProviders() {
		reg.Register(sq)
	}

	reg.Register(embedded.New(embeddedTable))

	// Registered last so its self-describing index reflects every other
	// provider already registered above (spec §4.C "Resource-list
	// provider").
	reg.Register(textprovider.NewResourceList("/resources", reg))

	return reg
}

// registryReader adapts *provider.Registry to the eagitexi.sourceReader
// interface the Tiling generator needs to resolve its `source` query
// argument, reading through provider.Registry.ReadAll with the sentinel
// resource.Invalid id since this lookup is not tied to any in-flight
// pending request.
type registryReader struct{ reg *provider.Registry }

func (r registryReader) ReadAll(url string) ([]byte, bool, error) {
	return r.reg.ReadAll(resource.Invalid, url)
}
