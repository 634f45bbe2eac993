// Package config handles viewer configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/floorview/pkg/math"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FPSLimit   int        `yaml:"fps_limit"`
	FOV        float32    `yaml:"fov"`
	Background [3]float32 `yaml:"background"`
}

// SceneConfig describes the building scene.
type SceneConfig struct {
	ModelDir  string          `yaml:"model_dir"` // Directory model paths are relative to
	HotReload bool            `yaml:"hot_reload"`
	Floors    []FloorConfig   `yaml:"floors"`
	Box       BoxConfig       `yaml:"opacity_box"`
	Ping      PingConfig      `yaml:"location_ping"`
	Camera    CameraConfig    `yaml:"camera"`
	Animation AnimationConfig `yaml:"animation"`
}

// FloorConfig places one building level.
type FloorConfig struct {
	Name     string    `yaml:"name"`
	Model    string    `yaml:"model"`
	Position math.Vec3 `yaml:"position"`
	Scale    float32   `yaml:"scale"` // 0 keeps the model's own scale
	// Raised is the model offset from Position while upper floors are
	// lifted. Floors without one stay in place.
	Raised *math.Vec3 `yaml:"raised,omitempty"`
	// Upper floors are faded to reveal the ones below.
	Upper bool `yaml:"upper"`
}

// BoxConfig holds the highlight box settings.
type BoxConfig struct {
	Position         math.Vec3  `yaml:"position"`
	AnimatedPosition math.Vec3  `yaml:"animated_position"`
	Size             math.Vec3  `yaml:"size"`
	Color            [3]float32 `yaml:"color"`
	Opacity          float32    `yaml:"opacity"`
}

// PingConfig holds the location ping settings.
type PingConfig struct {
	Position    math.Vec3     `yaml:"position"`
	Radius      float32       `yaml:"radius"`
	Color       [3]float32    `yaml:"color"`
	Opacity     float32       `yaml:"opacity"`
	PulseRange  float32       `yaml:"pulse_range"`
	PulsePeriod time.Duration `yaml:"pulse_period"`
}

// CameraConfig holds the camera presets, cycled in order.
type CameraConfig struct {
	Target  math.Vec3      `yaml:"target"`
	Presets []CameraPreset `yaml:"presets"`
}

// CameraPreset is a named eye position.
type CameraPreset struct {
	Name     string    `yaml:"name"`
	Position math.Vec3 `yaml:"position"`
}

// AnimationConfig holds animation timings.
type AnimationConfig struct {
	FloorMove    time.Duration `yaml:"floor_move"`
	Fade         time.Duration `yaml:"fade"`
	FadeOpacity  float32       `yaml:"fade_opacity"` // Multiplier applied to upper floors
	CameraMove   time.Duration `yaml:"camera_move"`
	BoxSmoothing float32       `yaml:"box_smoothing"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			FOV:        50,
			Background: [3]float32{0.93, 0.93, 0.95},
		},
		Scene: SceneConfig{
			ModelDir:  "models",
			HotReload: false,
			Floors: []FloorConfig{
				{Name: "myhal1", Model: "myhal1.yaml", Position: math.V3(0, 0, 0)},
				{Name: "myhal2", Model: "myhal2.yaml", Position: math.V3(0, 100, 0), Raised: ptr(math.V3(0, 200, 0)), Upper: true},
				{Name: "myhal150", Model: "myhal150.yaml", Position: math.V3(0, 100, -334), Raised: ptr(math.V3(0, 200, 0)), Upper: true},
			},
			Box: BoxConfig{
				Position:         math.V3(0, 20, 0),
				AnimatedPosition: math.V3(0, -80, 0),
				Size:             math.V3(500, 100, 500),
				Color:            [3]float32{0.2, 0.5, 1},
				Opacity:          0.3,
			},
			Ping: PingConfig{
				Position:    math.V3(0, 0, 0),
				Radius:      100,
				Color:       [3]float32{1, 0.3, 0.2},
				Opacity:     0.8,
				PulseRange:  0.5,
				PulsePeriod: time.Second,
			},
			Camera: CameraConfig{
				Target: math.V3(0, 0, 0),
				Presets: []CameraPreset{
					{Name: "default", Position: math.V3(400, 200, 400)},
					{Name: "floor1View", Position: math.V3(300, 300, 300)},
				},
			},
			Animation: AnimationConfig{
				FloorMove:    time.Second,
				Fade:         500 * time.Millisecond,
				FadeOpacity:  0.2,
				CameraMove:   time.Second,
				BoxSmoothing: 0.2,
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
