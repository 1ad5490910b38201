// Package render turns viewer preferences into renderer parameters and
// applies them to a loaded scene.
package render

import (
	"strconv"
	"strings"

	"modelviewer/internal/model"
)

// Color is an sRGB triple in [0,1], each channel the hex byte over 255.
type Color struct {
	R, G, B float64
}

// White is the fallback background.
var White = Color{1, 1, 1}

// ParseColor parses #rgb, #rgba, #rrggbb or #rrggbbaa. Alpha is ignored.
func ParseColor(s string) (Color, bool) {
	if !model.ValidColor(s) {
		return Color{}, false
	}
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 || len(h) == 4 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	v, err := strconv.ParseUint(h[:6], 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}, true
}

// Environment is the lighting environment and its HDR image.
type Environment struct {
	Preset model.EnvironmentPreset
	File   string
}

var environments = map[model.EnvironmentPreset]string{
	model.PresetSunset:    "venice_sunset_1k.hdr",
	model.PresetDawn:      "kiara_1_dawn_1k.hdr",
	model.PresetNight:     "dikhololo_night_1k.hdr",
	model.PresetWarehouse: "empty_warehouse_01_1k.hdr",
	model.PresetForest:    "forest_slope_1k.hdr",
	model.PresetApartment: "lebombo_1k.hdr",
	model.PresetStudio:    "studio_small_03_1k.hdr",
	model.PresetCity:      "potsdamer_platz_1k.hdr",
}

// EnvironmentFor returns the environment of p, or sunset when p is unknown.
func EnvironmentFor(p model.EnvironmentPreset) Environment {
	if f, ok := environments[p]; ok {
		return Environment{Preset: p, File: f}
	}
	return Environment{Preset: model.PresetSunset, File: environments[model.PresetSunset]}
}

// Material is the physically based surface tuple applied to every mesh.
type Material struct {
	Metalness float64
	Roughness float64
}

// MaterialFor maps a kind to its tuple. Unknown kinds render as standard.
func MaterialFor(k model.MaterialKind) Material {
	switch k {
	case model.MaterialMetallic:
		return Material{Metalness: 1.0, Roughness: 0.3}
	case model.MaterialPlastic:
		return Material{Metalness: 0.0, Roughness: 0.5}
	case model.MaterialLeather:
		return Material{Metalness: 0.0, Roughness: 0.8}
	default:
		return Material{Metalness: 0.0, Roughness: 1.0}
	}
}

// Params is everything the renderer needs from the preferences.
type Params struct {
	Background  Color
	Environment Environment
	Material    Material
	Wireframe   bool
}

// Derive computes Params from p. It never fails: invalid values fall back
// to white, sunset and standard.
func Derive(p model.Preferences) Params {
	bg, ok := ParseColor(p.BackgroundColor)
	if !ok {
		bg = White
	}
	return Params{
		Background:  bg,
		Environment: EnvironmentFor(p.EnvironmentPreset),
		Material:    MaterialFor(p.MaterialKind),
		Wireframe:   p.Wireframe,
	}
}
