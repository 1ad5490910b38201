package model

import (
	"regexp"
	"time"
)

// MaterialKind selects the surface finish applied to every mesh.
type MaterialKind string

const (
	MaterialStandard MaterialKind = "standard"
	MaterialMetallic MaterialKind = "metallic"
	MaterialPlastic  MaterialKind = "plastic"
	MaterialLeather  MaterialKind = "leather"
)

// MaterialKinds lists the accepted material kinds in display order.
var MaterialKinds = []MaterialKind{MaterialStandard, MaterialMetallic, MaterialPlastic, MaterialLeather}

func (m MaterialKind) Valid() bool {
	for _, k := range MaterialKinds {
		if k == m {
			return true
		}
	}
	return false
}

// EnvironmentPreset names a lighting environment (HDRI).
type EnvironmentPreset string

const (
	PresetSunset    EnvironmentPreset = "sunset"
	PresetDawn      EnvironmentPreset = "dawn"
	PresetNight     EnvironmentPreset = "night"
	PresetWarehouse EnvironmentPreset = "warehouse"
	PresetForest    EnvironmentPreset = "forest"
	PresetApartment EnvironmentPreset = "apartment"
	PresetStudio    EnvironmentPreset = "studio"
	PresetCity      EnvironmentPreset = "city"
)

// EnvironmentPresets lists the accepted presets in display order.
var EnvironmentPresets = []EnvironmentPreset{
	PresetSunset, PresetDawn, PresetNight, PresetWarehouse,
	PresetForest, PresetApartment, PresetStudio, PresetCity,
}

func (p EnvironmentPreset) Valid() bool {
	for _, k := range EnvironmentPresets {
		if k == p {
			return true
		}
	}
	return false
}

// Defaults applied when a save omits an optional field, and when no media is active.
const (
	DefaultBackgroundColor   = "#ffffff"
	DefaultWireframe         = false
	DefaultMaterialKind      = MaterialStandard
	DefaultEnvironmentPreset = PresetSunset
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidColor reports whether s is a CSS hex colour.
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}

// Preferences are the user-editable viewer options, independent of storage.
type Preferences struct {
	BackgroundColor   string            `json:"backgroundColor"`
	Wireframe         bool              `json:"wireframe_mode"`
	MaterialKind      MaterialKind      `json:"material_type"`
	EnvironmentPreset EnvironmentPreset `json:"hdri_preset"`
}

// DefaultPreferences returns the preferences used when nothing is stored.
func DefaultPreferences() Preferences {
	return Preferences{
		BackgroundColor:   DefaultBackgroundColor,
		Wireframe:         DefaultWireframe,
		MaterialKind:      DefaultMaterialKind,
		EnvironmentPreset: DefaultEnvironmentPreset,
	}
}

// Settings is the persisted viewer preference record of one media.
// At most one record exists per MediaID.
type Settings struct {
	ID              string            `json:"_id" bson:"_id"`
	MediaID         string            `json:"media_id" bson:"media_id"`
	BackgroundColor string            `json:"backgroundColor" bson:"background_color"`
	WireframeMode   bool              `json:"wireframe_mode" bson:"wireframe_mode"`
	MaterialType    MaterialKind      `json:"material_type" bson:"material_type"`
	HDRIPreset      EnvironmentPreset `json:"hdri_preset" bson:"hdri_preset"`
	CreatedAt       time.Time         `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updatedAt" bson:"updated_at"`
}

// Preferences extracts the editable part of s. Empty enum values read back
// as defaults.
func (s Settings) Preferences() Preferences {
	p := Preferences{
		BackgroundColor:   s.BackgroundColor,
		Wireframe:         s.WireframeMode,
		MaterialKind:      s.MaterialType,
		EnvironmentPreset: s.HDRIPreset,
	}
	if p.MaterialKind == "" {
		p.MaterialKind = DefaultMaterialKind
	}
	if p.EnvironmentPreset == "" {
		p.EnvironmentPreset = DefaultEnvironmentPreset
	}
	return p
}
