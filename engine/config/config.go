// Package config loads the viewer configuration from a TOML file and watches it for edits.
//
// Angles in the file are in degrees; everything handed to the engine is in radians.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/hyperray/common"
	"github.com/Carmen-Shannon/hyperray/engine/camera"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/material"
	"github.com/Carmen-Shannon/hyperray/engine/scene"
	"github.com/Carmen-Shannon/hyperray/engine/shape"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full viewer configuration.
type Config struct {
	Window    Window     `toml:"window"`
	Renderer  Renderer   `toml:"renderer"`
	Camera    Camera     `toml:"camera"`
	Materials []Material `toml:"materials"`
	Spheres   []Sphere   `toml:"spheres"`
	Planes    []Plane    `toml:"planes"`
}

type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type Renderer struct {
	VSync    bool `toml:"vsync"`
	Software bool `toml:"software"`
}

// Camera holds the start-up camera and controller settings. Angles are in degrees and the
// rotation speed in degrees per second.
type Camera struct {
	Position      [4]float32 `toml:"position"`
	Yaw           float32    `toml:"yaw"`
	Pitch         float32    `toml:"pitch"`
	WYaw          float32    `toml:"w_yaw"`
	WPitch        float32    `toml:"w_pitch"`
	Fov           float32    `toml:"fov"`
	MinDistance   float32    `toml:"min_distance"`
	MaxDistance   float32    `toml:"max_distance"`
	Bounces       uint32     `toml:"bounces"`
	Samples       uint32     `toml:"samples"`
	Speed         float32    `toml:"speed"`
	RotationSpeed float32    `toml:"rotation_speed"`
}

type Material struct {
	BaseColor        [3]float32 `toml:"base_color"`
	EmissiveColor    [3]float32 `toml:"emissive_color"`
	EmissiveStrength float32    `toml:"emissive_strength"`
}

type Sphere struct {
	Name     string     `toml:"name"`
	Center   [4]float32 `toml:"center"`
	Radius   float32    `toml:"radius"`
	Material uint32     `toml:"material"`
}

type Plane struct {
	Name     string     `toml:"name"`
	Point    [4]float32 `toml:"point"`
	Normal   [4]float32 `toml:"normal"`
	Material uint32     `toml:"material"`
}

// Default returns the configuration of the start-up viewer: the default camera looking at an
// orange hypersphere on a green ground plane.
func Default() Config {
	c := Config{
		Window:   Window{Title: "hyperray", Width: 1280, Height: 720},
		Renderer: Renderer{VSync: true},
		Camera: Camera{
			Position:      [4]float32{0, 1, -3, 0},
			Fov:           90,
			MinDistance:   0.01,
			MaxDistance:   1000,
			Bounces:       5,
			Samples:       1,
			Speed:         camera.DefaultSpeed,
			RotationSpeed: common.RadToDeg(camera.DefaultRotationSpeed),
		},
	}
	snap := scene.DefaultSnapshot()
	for _, m := range snap.Materials {
		c.Materials = append(c.Materials, Material{
			BaseColor:        vec3(m.BaseColor),
			EmissiveColor:    vec3(m.EmissiveColor),
			EmissiveStrength: m.EmissiveStrength,
		})
	}
	for i, s := range snap.Spheres {
		c.Spheres = append(c.Spheres, Sphere{
			Name:     snap.SphereNames[i],
			Center:   vec4(s.Center),
			Radius:   s.Radius,
			Material: s.Material,
		})
	}
	for i, p := range snap.Planes {
		c.Planes = append(c.Planes, Plane{
			Name:     snap.PlaneNames[i],
			Point:    vec4(p.Point),
			Normal:   vec4(p.Normal),
			Material: p.Material,
		})
	}
	return c
}

// Load reads, decodes and validates a configuration file. Keys missing from the file keep
// their Default values; unknown keys are rejected.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read, decode or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates TOML on top of Default. A file that lists any materials, spheres
// or planes replaces the default list entirely.
func Parse(data []byte) (Config, error) {
	c := Default()
	// tables of arrays merge element-wise into existing slices, so start them empty
	if hasAny(data, "materials", "spheres", "planes") {
		c.Materials, c.Spheres, c.Planes = nil, nil, nil
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("decode config: %s", strict.String())
		}
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every problem in the configuration at once.
//
// Returns:
//   - error: nil, or the joined problems, each wrapping ErrInvalid
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		bad("camera fov %g must be in (0, 180) degrees", c.Camera.Fov)
	}
	if c.Camera.MinDistance < 0 || c.Camera.MaxDistance < c.Camera.MinDistance {
		bad("camera distances [%g, %g] must satisfy 0 <= min <= max", c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	if c.Camera.Bounces < 1 {
		bad("camera bounces must be at least 1")
	}
	if c.Camera.Samples < 1 {
		bad("camera samples must be at least 1")
	}
	if c.Camera.Speed < 0 || c.Camera.RotationSpeed < 0 {
		bad("camera speeds must be non-negative")
	}

	materials := uint32(len(c.Materials))
	for i, s := range c.Spheres {
		if s.Radius <= 0 {
			bad("spheres[%d] %q: radius %g must be positive", i, s.Name, s.Radius)
		}
		if s.Material >= materials {
			bad("spheres[%d] %q: material %d out of range [0, %d)", i, s.Name, s.Material, materials)
		}
	}
	for i, p := range c.Planes {
		if vec4Of(p.Normal).Length() < 1e-6 {
			bad("planes[%d] %q: normal must be non-zero", i, p.Name)
		}
		if p.Material >= materials {
			bad("planes[%d] %q: material %d out of range [0, %d)", i, p.Name, p.Material, materials)
		}
	}
	return errors.Join(errs...)
}

// Encode renders the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Snapshot converts the scene tables into editable scene contents.
func (c Config) Snapshot() scene.Snapshot {
	var snap scene.Snapshot
	for _, m := range c.Materials {
		snap.Materials = append(snap.Materials, material.NewMaterial(
			material.WithBaseColor(m.BaseColor[0], m.BaseColor[1], m.BaseColor[2]),
			material.WithEmission(m.EmissiveColor[0], m.EmissiveColor[1], m.EmissiveColor[2], m.EmissiveStrength),
		))
	}
	for _, s := range c.Spheres {
		snap.Spheres = append(snap.Spheres, shape.HyperSphere{Center: vec4Of(s.Center), Radius: s.Radius, Material: s.Material})
		snap.SphereNames = append(snap.SphereNames, s.Name)
	}
	for _, p := range c.Planes {
		snap.Planes = append(snap.Planes, shape.HyperPlane{Point: vec4Of(p.Point), Normal: vec4Of(p.Normal), Material: p.Material})
		snap.PlaneNames = append(snap.PlaneNames, p.Name)
	}
	return snap
}

// CameraOptions converts the camera table into camera builder options.
func (c Config) CameraOptions() []camera.CameraBuilderOption {
	cc := c.Camera
	return []camera.CameraBuilderOption{
		camera.WithPosition(vec4Of(cc.Position)),
		camera.WithAngles(common.DegToRad(cc.Yaw), common.DegToRad(cc.Pitch), common.DegToRad(cc.WYaw), common.DegToRad(cc.WPitch)),
		camera.WithFov(common.DegToRad(cc.Fov)),
		camera.WithDistances(cc.MinDistance, cc.MaxDistance),
		camera.WithBounceCount(cc.Bounces),
		camera.WithSampleCount(cc.Samples),
	}
}

// ControllerOptions converts the camera speeds into controller options.
func (c Config) ControllerOptions() []camera.CameraControllerOption {
	return []camera.CameraControllerOption{
		camera.WithSpeed(c.Camera.Speed),
		camera.WithRotationSpeed(common.DegToRad(c.Camera.RotationSpeed)),
	}
}

// ApplyCamera pushes the ray settings and speeds of a reloaded configuration into a running
// camera and controller. Position and angles are left alone so a reload does not teleport the
// viewer.
func (c Config) ApplyCamera(cam camera.Camera, cc camera.CameraController) {
	cam.SetFov(common.DegToRad(c.Camera.Fov))
	cam.SetMinDistance(c.Camera.MinDistance)
	cam.SetMaxDistance(c.Camera.MaxDistance)
	cam.SetBounceCount(c.Camera.Bounces)
	cam.SetSampleCount(c.Camera.Samples)
	cc.SetSpeed(c.Camera.Speed)
	cc.SetRotationSpeed(common.DegToRad(c.Camera.RotationSpeed))
}

// hasAny reports whether the document declares any of the named arrays of tables.
func hasAny(data []byte, names ...string) bool {
	var probe map[string]any
	if err := toml.Unmarshal(data, &probe); err != nil {
		return false
	}
	for _, n := range names {
		if _, ok := probe[n]; ok {
			return true
		}
	}
	return false
}

func vec3(v math32.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func vec4(v math32.Vector4) [4]float32 {
	return [4]float32{v.X, v.Y, v.Z, v.W}
}

func vec4Of(a [4]float32) math32.Vector4 {
	return math32.Vec4(a[0], a[1], a[2], a[3])
}
