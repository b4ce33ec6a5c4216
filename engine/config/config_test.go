package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/hyperray/common"
	"github.com/Carmen-Shannon/hyperray/engine/camera"
	"github.com/Carmen-Shannon/hyperray/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesStartupScene(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	snap := c.Snapshot()
	want := scene.DefaultSnapshot()
	assert.Equal(t, want.SphereNames, snap.SphereNames)
	assert.Equal(t, want.PlaneNames, snap.PlaneNames)
	assert.Equal(t, want.Spheres, snap.Spheres)
	assert.Equal(t, want.Planes, snap.Planes)
	assert.Equal(t, want.Materials, snap.Materials)

	cam := camera.NewCamera(c.CameraOptions()...)
	def := camera.NewCamera()
	assert.Equal(t, def.Position(), cam.Position())
	assert.InDelta(t, def.Fov(), cam.Fov(), 1e-6)
	assert.Equal(t, def.BounceCount(), cam.BounceCount())

	cc := camera.NewCameraController(c.ControllerOptions()...)
	assert.InDelta(t, camera.DefaultRotationSpeed, cc.RotationSpeed(), 1e-5)
	assert.Equal(t, camera.DefaultSpeed, cc.Speed())
}

func TestEncodeRoundTrip(t *testing.T) {
	c := Default()
	data, err := c.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[spheres]]")
	assert.Contains(t, string(data), "w_pitch")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
[window]
title = "tesseract"

[camera]
w_yaw = 90
samples = 4

[[materials]]
base_color = [1, 1, 1]
emissive_color = [1, 0.5, 0]
emissive_strength = 2

[[spheres]]
name = "sun"
center = [0, 5, 0, 1]
radius = 0.5
material = 0
`))
	require.NoError(t, err)

	assert.Equal(t, "tesseract", c.Window.Title)
	assert.Equal(t, 1280, c.Window.Width)
	assert.Equal(t, uint32(4), c.Camera.Samples)
	assert.Equal(t, uint32(5), c.Camera.Bounces)
	require.Len(t, c.Spheres, 1)
	assert.Empty(t, c.Planes)

	snap := c.Snapshot()
	assert.Equal(t, []string{"sun"}, snap.SphereNames)
	assert.Equal(t, math32.Vec4(0, 5, 0, 1), snap.Spheres[0].Center)
	assert.True(t, snap.Materials[0].Emissive())

	cam := camera.NewCamera(c.CameraOptions()...)
	_, _, wYaw, _ := cam.Angles()
	assert.InDelta(t, math32.Pi/2, wYaw, 1e-6)
	_, right, _ := cam.Basis()
	assert.InDelta(t, 1, right.W, 1e-5)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":     "[camera]\nzoom = 2\n",
		"bad syntax":      "[camera\n",
		"zero radius":     "[[materials]]\n[[spheres]]\nradius = 0\n",
		"material range":  "[[materials]]\n[[planes]]\nnormal = [0, 1, 0, 0]\nmaterial = 1\n",
		"zero normal":     "[[materials]]\n[[planes]]\nnormal = [0, 0, 0, 0]\n",
		"inverted range":  "[camera]\nmin_distance = 5\nmax_distance = 1\n",
		"no bounces":      "[camera]\nbounces = 0\n",
		"window too thin": "[window]\nheight = 0\n",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestValidateJoinsProblems(t *testing.T) {
	c := Default()
	c.Spheres[0].Radius = -1
	c.Planes[0].Material = 9
	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, "spheres[0]")
	assert.ErrorContains(t, err, "planes[0]")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyCameraKeepsPose(t *testing.T) {
	cam := camera.NewCamera(camera.WithPosition(math32.Vec4(1, 2, 3, 4)))
	cc := camera.NewCameraController()

	c := Default()
	c.Camera.Fov = 60
	c.Camera.Samples = 8
	c.Camera.Speed = 7
	c.Camera.Position = [4]float32{}
	c.ApplyCamera(cam, cc)

	assert.Equal(t, math32.Vec4(1, 2, 3, 4), cam.Position())
	assert.InDelta(t, common.DegToRad(60), cam.Fov(), 1e-6)
	assert.Equal(t, uint32(8), cam.SampleCount())
	assert.Equal(t, float32(7), cc.Speed())
}

func TestWatchDeliversReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hyperray.toml")
	data, err := Default().Encode()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads, err := Watch(ctx, path)
	require.NoError(t, err)

	edited := Default()
	edited.Camera.Samples = 3
	data, err = edited.Encode()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-reloads:
			if c.Camera.Samples == 3 {
				cancel()
				// the channel closes once the watcher stops
				for range reloads {
				}
				return
			}
		case <-deadline:
			t.Fatal("no reload delivered")
		}
	}
}
