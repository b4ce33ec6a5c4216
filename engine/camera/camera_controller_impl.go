package camera

import (
	"sync"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/hyperray/common"
)

const (
	// DefaultSpeed is the translation speed in units per second.
	DefaultSpeed float32 = 3.0
	// DefaultRotationSpeed is the turn rate, one and a half quarter turns per second.
	DefaultRotationSpeed float32 = 1.5 * math32.Pi / 2
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	held map[uint32]bool

	speed         float32
	rotationSpeed float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new keyboard camera controller moving at DefaultSpeed and
// turning at DefaultRotationSpeed.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:            &sync.Mutex{},
		held:          make(map[uint32]bool),
		speed:         DefaultSpeed,
		rotationSpeed: DefaultRotationSpeed,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) KeyDown(key uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.held[key] = true
}

func (cc *cameraControllerImpl) KeyUp(key uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	delete(cc.held, key)
}

func (cc *cameraControllerImpl) Held(key uint32) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.held[key]
}

func (cc *cameraControllerImpl) ReleaseAll() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	clear(cc.held)
}

func (cc *cameraControllerImpl) Update(cam Camera, dt float32) {
	cc.mu.Lock()
	fwd := axis(cc.held, common.KeyW, common.KeyS)
	side := axis(cc.held, common.KeyD, common.KeyA)
	vert := axis(cc.held, common.KeyE, common.KeyQ)
	turnV := axis(cc.held, common.KeyUp, common.KeyDown)
	turnH := axis(cc.held, common.KeyRight, common.KeyLeft)
	shift := false
	for key := range cc.held {
		shift = shift || common.IsShift(key)
	}
	move := cc.speed * dt
	turn := cc.rotationSpeed * dt
	cc.mu.Unlock()

	if fwd != 0 || side != 0 || vert != 0 {
		forward, right, up := cam.Basis()
		delta := forward.MulScalar(fwd * move).
			Add(right.MulScalar(side * move)).
			Add(up.MulScalar(vert * move))
		cam.Translate(delta)
	}

	if turnV == 0 && turnH == 0 {
		return
	}
	if shift {
		cam.Rotate(0, 0, turnH*turn, turnV*turn)
	} else {
		cam.Rotate(turnH*turn, turnV*turn, 0, 0)
	}
}

func (cc *cameraControllerImpl) Speed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speed
}

func (cc *cameraControllerImpl) SetSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.speed = speed
}

func (cc *cameraControllerImpl) RotationSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rotationSpeed
}

func (cc *cameraControllerImpl) SetRotationSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.rotationSpeed = speed
}

// axis folds a positive and a negative key into -1, 0 or +1. Caller must hold the mutex.
func axis(held map[uint32]bool, pos, neg uint32) float32 {
	var v float32
	if held[pos] {
		v++
	}
	if held[neg] {
		v--
	}
	return v
}
