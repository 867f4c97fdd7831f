package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadSpec reads and unmarshals a YAML spec file.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// MortalitySpec configures the mortality state machine.
type MortalitySpec struct {
	MaxHealth             int     `yaml:"max_health"`
	RespawnDelay          float64 `yaml:"respawn_delay"`
	ReloadScene           bool    `yaml:"reload_scene"`
	RespawnExplicit       bool    `yaml:"respawn_explicit"`
	RespawnX              float64 `yaml:"respawn_x"`
	RespawnY              float64 `yaml:"respawn_y"`
	RagdollIgnoreDuration float64 `yaml:"ragdoll_ignore_duration"`
	SuppressRetryFrames   int     `yaml:"suppress_retry_frames"`
	NudgeDistance         float64 `yaml:"nudge_distance"`
}

// CameraSpec configures the camera focus coordinator.
type CameraSpec struct {
	Activation            string  `yaml:"activation"` // "priority" or "exclusive"
	NearPriority          float64 `yaml:"near_priority"`
	FarPriority           float64 `yaml:"far_priority"`
	FallVelocityThreshold float64 `yaml:"fall_velocity_threshold"`
	FallHeightThreshold   float64 `yaml:"fall_height_threshold"`
	PitSearchRadius       float64 `yaml:"pit_search_radius"`
	FallAnchorHeight      float64 `yaml:"fall_anchor_height"`
	DeathAnchorHeight     float64 `yaml:"death_anchor_height"`
	NearZoom              float64 `yaml:"near_zoom"`
	FarZoom               float64 `yaml:"far_zoom"`
	BlendSeconds          float64 `yaml:"blend_seconds"`
	PermissiveSight       bool    `yaml:"permissive_sight"`
}

// PlayerSpec configures the controllable entity.
type PlayerSpec struct {
	MoveSpeed float64 `yaml:"move_speed"`
	JumpSpeed float64 `yaml:"jump_speed"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Mass      float64 `yaml:"mass"`
}

// GameSpec is the root configuration surface.
type GameSpec struct {
	Mortality MortalitySpec `yaml:"mortality"`
	Camera    CameraSpec    `yaml:"camera"`
	Player    PlayerSpec    `yaml:"player"`
}

// LoadGameSpec loads config.yaml.
func LoadGameSpec() (GameSpec, error) {
	return LoadSpec[GameSpec]("config.yaml")
}

// RagdollPartSpec is one body part in the ragdoll layout, offset from the
// source pose.
type RagdollPartSpec struct {
	Name    string  `yaml:"name"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Mass    float64 `yaml:"mass"`
}

// RagdollSpec is the configured ragdoll representation. An empty part list
// means no ragdoll is configured and death falls back to freezing the body.
type RagdollSpec struct {
	Parts        []RagdollPartSpec `yaml:"parts"`
	NudgeImpulse float64           `yaml:"nudge_impulse"`
	Friction     float64           `yaml:"friction"`
}

// LoadRagdollSpec loads ragdoll.yaml.
func LoadRagdollSpec() (RagdollSpec, error) {
	return LoadSpec[RagdollSpec]("ragdoll.yaml")
}

// RectSpec is a positioned box. X, Y are the center.
type RectSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// HazardSpec is a trigger volume that harms the player.
type HazardSpec struct {
	RectSpec `yaml:",inline"`
	Cause    string `yaml:"cause"` // "generic" or "forced_fall"
	Damage   int    `yaml:"damage"`
	Script   string `yaml:"script"`
}

// PointSpec is a bare position.
type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// LevelSpec is the demo arena layout.
type LevelSpec struct {
	Spawn      PointSpec    `yaml:"spawn"`
	Bounds     RectSpec     `yaml:"bounds"`
	Platforms  []RectSpec   `yaml:"platforms"`
	Hazards    []HazardSpec `yaml:"hazards"`
	PitMarkers []PointSpec  `yaml:"pit_markers"`
}

// LoadLevelSpec loads level.yaml.
func LoadLevelSpec() (LevelSpec, error) {
	return LoadSpec[LevelSpec]("level.yaml")
}
