package shape

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/hyperray/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUSizes(t *testing.T) {
	var s GPUHyperSphere
	var p GPUHyperPlane
	assert.Equal(t, GPUHyperSphereStride, s.Size())
	assert.Equal(t, GPUHyperPlaneStride, p.Size())
}

func TestPutHyperSphere(t *testing.T) {
	buf := make([]byte, GPUHyperSphereStride)
	PutHyperSphere(buf, HyperSphere{Center: math32.Vec4(1, 2, 3, 4), Radius: 0.5, Material: 9})

	assert.Equal(t, float32(1), common.F32At(buf, 0))
	assert.Equal(t, float32(4), common.F32At(buf, 12))
	assert.Equal(t, float32(0.5), common.F32At(buf, 16))
	assert.Equal(t, uint32(9), common.U32At(buf, 20))
	assert.Equal(t, make([]byte, 8), buf[24:])
}

func TestPutHyperPlane(t *testing.T) {
	buf := make([]byte, GPUHyperPlaneStride)
	PutHyperPlane(buf, HyperPlane{Point: math32.Vec4(0, -1, 0, 2), Normal: math32.Vec4(0, 0, 0, 1), Material: 3})

	assert.Equal(t, float32(-1), common.F32At(buf, 4))
	assert.Equal(t, float32(2), common.F32At(buf, 12))
	assert.Equal(t, float32(1), common.F32At(buf, 28))
	assert.Equal(t, uint32(3), common.U32At(buf, 32))
	assert.Equal(t, make([]byte, 12), buf[36:])
}

func TestSphereClamped(t *testing.T) {
	s := HyperSphere{Radius: -2, Material: 10}.Clamped(3)
	assert.Equal(t, float32(0), s.Radius)
	assert.Equal(t, uint32(2), s.Material)

	s = HyperSphere{Radius: 1, Material: 4}.Clamped(0)
	assert.Equal(t, uint32(0), s.Material)
}

func TestPlaneClamped(t *testing.T) {
	p := HyperPlane{Normal: math32.Vec4(0, 3, 0, 4), Material: 1}.Clamped(2)
	require.InDelta(t, 1, p.Normal.Length(), 1e-6)
	assert.InDelta(t, 0.6, p.Normal.Y, 1e-6)
	assert.InDelta(t, 0.8, p.Normal.W, 1e-6)
	assert.Equal(t, uint32(1), p.Material)

	p = HyperPlane{}.Clamped(1)
	assert.Equal(t, DefaultNormal, p.Normal)
}
