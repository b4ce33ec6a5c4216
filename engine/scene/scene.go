package scene

import (
	"fmt"
	"log"
	"slices"
	"sync"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/hyperray/common"
	"github.com/Carmen-Shannon/hyperray/engine/camera"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/material"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/mirror"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/shader"
	"github.com/Carmen-Shannon/hyperray/engine/shape"
	"github.com/cogentcore/webgpu/wgpu"
)

// Names given to records created by AddSphere and AddPlane when no name is supplied.
const (
	DefaultSphereName = "Default Hyper Sphere"
	DefaultPlaneName  = "Default Hyper Plane"
)

// Renderer is the part of the renderer a scene draws through.
type Renderer interface {
	mirror.Device
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error
	OutputView() *wgpu.TextureView
	Size() (int, int)
	DispatchCompute(pipelineKey string, groups []bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) error
	Draw(pipelineKey string, vertexCount uint32, groups []bind_group_provider.BindGroupProvider) error
}

// Snapshot is a full copy of the editable scene contents.
type Snapshot struct {
	Spheres     []shape.HyperSphere
	SphereNames []string
	Planes      []shape.HyperPlane
	PlaneNames  []string
	Materials   []material.Material
}

// DefaultSnapshot returns the start-up scene: an orange hypersphere resting on a green ground plane.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Spheres: []shape.HyperSphere{
			{Center: math32.Vec4(0, 1, 0, 0), Radius: 1, Material: 0},
		},
		SphereNames: []string{"Hyper Sphere"},
		Planes: []shape.HyperPlane{
			{Normal: shape.DefaultNormal, Material: 1},
		},
		PlaneNames: []string{"Ground"},
		Materials: []material.Material{
			material.NewMaterial(material.WithBaseColor(0.8, 0.4, 0.1)),
			material.NewMaterial(material.WithBaseColor(0.1, 0.8, 0.3)),
		},
	}
}

// binding ties one mirror to its slot in the kernel, erasing the record type.
type binding struct {
	arg         shader.AnnotationArg
	group       int
	index       int
	buffer      func() mirror.Buffer
	invalidated func() bool
	markRebuilt func()
}

func bindMirror[T any](m mirror.Mirror[T], arg shader.AnnotationArg) binding {
	return binding{
		arg:         arg,
		buffer:      m.Buffer,
		invalidated: m.Invalidated,
		markRebuilt: m.MarkRebuilt,
	}
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex

	camera     camera.Camera
	controller camera.CameraController

	spheres   NamedList[shape.HyperSphere]
	planes    NamedList[shape.HyperPlane]
	materials []material.Material

	kernel  pipeline.Pipeline
	present pipeline.Pipeline

	// GPU state, populated by Attach.
	renderer       Renderer
	cameraMirror   mirror.Mirror[camera.GPUCamera]
	sphereMirror   mirror.Mirror[shape.HyperSphere]
	planeMirror    mirror.Mirror[shape.HyperPlane]
	materialMirror mirror.Mirror[material.Material]
	bindings       []binding
	kernelGroups   []bind_group_provider.BindGroupProvider
	presentGroups  []bind_group_provider.BindGroupProvider
	outputDirty    bool

	onGrow func(label string, capacity uint64)
}

// Scene owns the camera, the three editable collections and the GPU mirrors that feed them to
// the ray tracing kernel.
//
// Editor operations clamp every record they touch, so the data handed to the kernel is always
// valid: plane normals are unit length, radii are non-negative and material indices are in range.
// Materials are append-only; indices held by spheres and planes never dangle.
//
// All methods are safe to call from any goroutine, but frame methods are meant to be called from
// a single frame goroutine in the order PrepareCompute, DrawCalls.
type Scene interface {
	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Controller returns the input controller that moves the camera each frame.
	Controller() camera.CameraController

	// Spheres returns a copy of the spheres and their names.
	Spheres() ([]shape.HyperSphere, []string)

	// Planes returns a copy of the planes and their names.
	Planes() ([]shape.HyperPlane, []string)

	// Materials returns a copy of the materials.
	Materials() []material.Material

	// AddSphere appends a light grey material and a unit hypersphere at the origin that uses it.
	//
	// Parameters:
	//   - name: the display name; empty means DefaultSphereName
	//
	// Returns:
	//   - int: the index of the new sphere
	AddSphere(name string) int

	// EditSphere mutates sphere i in place and clamps the result.
	//
	// Parameters:
	//   - i: the sphere index
	//   - fn: the edit
	//
	// Returns:
	//   - error: ErrIndexOutOfRange if i is not a sphere index
	EditSphere(i int, fn func(*shape.HyperSphere)) error

	// RenameSphere replaces the display name of sphere i.
	RenameSphere(i int, name string) error

	// DeleteSphere removes sphere i and its name.
	DeleteSphere(i int) error

	// AddPlane appends a light grey material and a plane through the origin facing +y that uses it.
	//
	// Parameters:
	//   - name: the display name; empty means DefaultPlaneName
	//
	// Returns:
	//   - int: the index of the new plane
	AddPlane(name string) int

	// EditPlane mutates plane i in place and clamps the result.
	//
	// Parameters:
	//   - i: the plane index
	//   - fn: the edit
	//
	// Returns:
	//   - error: ErrIndexOutOfRange if i is not a plane index
	EditPlane(i int, fn func(*shape.HyperPlane)) error

	// RenamePlane replaces the display name of plane i.
	RenamePlane(i int, name string) error

	// DeletePlane removes plane i and its name.
	DeletePlane(i int) error

	// AddMaterial appends a clamped copy of m.
	//
	// Returns:
	//   - int: the index of the new material
	AddMaterial(m material.Material) int

	// EditMaterial mutates material i in place and clamps the result.
	EditMaterial(i int, fn func(*material.Material)) error

	// Snapshot copies the editable contents.
	Snapshot() Snapshot

	// Replace swaps the editable contents for snap, clamping every record. The GPU buffers grow
	// on the next frame if needed and never shrink.
	Replace(snap Snapshot)

	// Attach registers the scene's pipelines with r, allocates the GPU mirrors and builds every
	// bind group.
	//
	// Parameters:
	//   - r: the renderer
	//
	// Returns:
	//   - error: an error if a record layout disagrees with the kernel, or a GPU resource failed
	Attach(r Renderer) error

	// InvalidateOutput marks the bind groups that reference the output texture for rebuild.
	// Call it after the renderer recreates the texture on resize.
	InvalidateOutput()

	// PrepareCompute moves the camera by the held keys, uploads the camera and the three
	// collections, rebuilds any bind group whose buffer was reallocated and dispatches the kernel.
	// Must be called within a BeginComputeFrame/EndComputeFrame block on the renderer.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	//
	// Returns:
	//   - error: ErrNotAttached, or an upload, rebuild or dispatch failure
	PrepareCompute(deltaTime float32) error

	// DrawCalls draws the output texture to the surface.
	// Must be called within a BeginFrame/EndFrame block on the renderer.
	DrawCalls() error

	// Capacities reports the allocated size in bytes of every mirror, keyed by buffer label.
	Capacities() map[string]uint64

	// Release releases the mirrors and bind groups. Pipelines belong to the renderer.
	Release()
}

var _ Scene = &scene{}

// NewScene creates a scene holding DefaultSnapshot, a default camera and a default controller.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new, unattached scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:      &sync.Mutex{},
		kernel:  NewKernelPipeline(),
		present: NewPresentPipeline(),
	}
	s.replace(DefaultSnapshot())
	for _, opt := range options {
		opt(s)
	}
	if s.camera == nil {
		s.camera = camera.NewCamera()
	}
	if s.controller == nil {
		s.controller = camera.NewCameraController()
	}
	return s
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) Controller() camera.CameraController {
	return s.controller
}

func (s *scene) Spheres() ([]shape.HyperSphere, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spheres.Records(), s.spheres.Names()
}

func (s *scene) Planes() ([]shape.HyperPlane, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planes.Records(), s.planes.Names()
}

func (s *scene) Materials() []material.Material {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.materials)
}

func (s *scene) AddSphere(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.addMaterial(material.NewMaterial())
	return s.spheres.Append(common.Coalesce(name, DefaultSphereName), shape.HyperSphere{
		Radius:   1,
		Material: uint32(m),
	})
}

func (s *scene) EditSphere(i int, fn func(*shape.HyperSphere)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, _, err := s.spheres.Get(i)
	if err != nil {
		return fmt.Errorf("edit sphere: %w", err)
	}
	fn(&rec)
	return s.spheres.Set(i, rec.Clamped(len(s.materials)))
}

func (s *scene) RenameSphere(i int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.spheres.Rename(i, name); err != nil {
		return fmt.Errorf("rename sphere: %w", err)
	}
	return nil
}

func (s *scene) DeleteSphere(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.spheres.Delete(i); err != nil {
		return fmt.Errorf("delete sphere: %w", err)
	}
	return nil
}

func (s *scene) AddPlane(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.addMaterial(material.NewMaterial())
	return s.planes.Append(common.Coalesce(name, DefaultPlaneName), shape.HyperPlane{
		Normal:   shape.DefaultNormal,
		Material: uint32(m),
	})
}

func (s *scene) EditPlane(i int, fn func(*shape.HyperPlane)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, _, err := s.planes.Get(i)
	if err != nil {
		return fmt.Errorf("edit plane: %w", err)
	}
	fn(&rec)
	return s.planes.Set(i, rec.Clamped(len(s.materials)))
}

func (s *scene) RenamePlane(i int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.planes.Rename(i, name); err != nil {
		return fmt.Errorf("rename plane: %w", err)
	}
	return nil
}

func (s *scene) DeletePlane(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.planes.Delete(i); err != nil {
		return fmt.Errorf("delete plane: %w", err)
	}
	return nil
}

func (s *scene) AddMaterial(m material.Material) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addMaterial(m)
}

func (s *scene) EditMaterial(i int, fn func(*material.Material)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.materials) {
		return fmt.Errorf("edit material: %w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(s.materials))
	}
	m := s.materials[i]
	fn(&m)
	s.materials[i] = m.Clamped()
	return nil
}

func (s *scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Spheres:     s.spheres.Records(),
		SphereNames: s.spheres.Names(),
		Planes:      s.planes.Records(),
		PlaneNames:  s.planes.Names(),
		Materials:   slices.Clone(s.materials),
	}
}

func (s *scene) Replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(snap)
}

func (s *scene) Attach(r Renderer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := CheckLayouts(s.kernel.Shader(shader.ShaderTypeCompute)); err != nil {
		return err
	}
	if err := r.RegisterPipelines(s.kernel, s.present); err != nil {
		return fmt.Errorf("register scene pipelines: %w", err)
	}
	if err := s.createMirrors(r); err != nil {
		s.releaseMirrors()
		return err
	}

	kernel := s.kernel.Shader(shader.ShaderTypeCompute)
	s.bindings = s.bindings[:0]
	for _, b := range []binding{
		bindMirror(s.cameraMirror, shader.AnnotationArgCamera),
		bindMirror(s.sphereMirror, shader.AnnotationArgHyperSpheres),
		bindMirror(s.planeMirror, shader.AnnotationArgHyperPlanes),
		bindMirror(s.materialMirror, shader.AnnotationArgMaterials),
	} {
		group, index, ok := kernel.GroupOf(b.arg)
		if !ok {
			s.releaseMirrors()
			s.bindings = nil
			return fmt.Errorf("%w: %s", ErrUnboundResource, b.arg)
		}
		b.group, b.index = group, index
		s.bindings = append(s.bindings, b)
	}
	s.renderer = r

	s.kernelGroups = s.kernelGroups[:0]
	for _, g := range sortedGroups(s.kernel.BindGroupLayoutDescriptors()) {
		s.kernelGroups = append(s.kernelGroups, bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Kernel Group %d", g), g))
	}
	s.presentGroups = s.presentGroups[:0]
	for _, g := range sortedGroups(s.present.BindGroupLayoutDescriptors()) {
		s.presentGroups = append(s.presentGroups, bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Present Group %d", g), g))
	}

	all := make(map[int]bool, len(s.kernelGroups))
	for _, p := range s.kernelGroups {
		all[p.Group()] = true
	}
	s.outputDirty = true
	return s.rebuild(all)
}

func (s *scene) InvalidateOutput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputDirty = true
}

func (s *scene) PrepareCompute(deltaTime float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renderer == nil {
		return ErrNotAttached
	}

	s.controller.Update(s.camera, deltaTime)

	if _, err := s.cameraMirror.Sync([]camera.GPUCamera{s.camera.GPUCamera()}); err != nil {
		return err
	}
	if _, err := s.sphereMirror.Sync(s.spheres.view()); err != nil {
		return err
	}
	if _, err := s.planeMirror.Sync(s.planes.view()); err != nil {
		return err
	}
	if _, err := s.materialMirror.Sync(s.materials); err != nil {
		return err
	}

	dirty := make(map[int]bool)
	for _, b := range s.bindings {
		if b.invalidated() {
			dirty[b.group] = true
		}
	}
	if err := s.rebuild(dirty); err != nil {
		return err
	}

	w, h := s.renderer.Size()
	wg := s.kernel.Shader(shader.ShaderTypeCompute).WorkgroupSize()
	counts := [3]uint32{
		common.CeilDiv(uint32(max(w, 0)), wg[0]),
		common.CeilDiv(uint32(max(h, 0)), wg[1]),
		1,
	}
	if counts[0] == 0 || counts[1] == 0 {
		return nil
	}
	return s.renderer.DispatchCompute(KernelPipelineKey, s.kernelGroups, counts)
}

func (s *scene) DrawCalls() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renderer == nil {
		return ErrNotAttached
	}
	return s.renderer.Draw(PresentPipelineKey, 3, s.presentGroups)
}

func (s *scene) Capacities() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renderer == nil {
		return nil
	}
	return map[string]uint64{
		s.cameraMirror.Layout().Label:   s.cameraMirror.Capacity(),
		s.sphereMirror.Layout().Label:   s.sphereMirror.Capacity(),
		s.planeMirror.Layout().Label:    s.planeMirror.Capacity(),
		s.materialMirror.Layout().Label: s.materialMirror.Capacity(),
	}
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range slices.Concat(s.kernelGroups, s.presentGroups) {
		p.Release()
	}
	s.kernelGroups, s.presentGroups, s.bindings = nil, nil, nil
	s.releaseMirrors()
	s.renderer = nil
}

// createMirrors allocates the four GPU mirrors. On failure the mirrors created so far stay set
// and must be released with releaseMirrors. Caller must hold the mutex.
func (s *scene) createMirrors(r Renderer) error {
	var err error
	if s.cameraMirror, err = mirror.NewMirror(r,
		mirror.UniformLayout("Camera Uniform Buffer", camera.GPUCameraSize, putCamera),
		mirror.WithDependent[camera.GPUCamera](func() {
			s.grew(s.cameraMirror.Layout().Label, s.cameraMirror.Capacity(), s.cameraMirror.Grows())
		}),
	); err != nil {
		return err
	}
	if s.sphereMirror, err = mirror.NewMirror(r,
		mirror.ArrayLayout("Hyper Spheres Storage Buffer", shape.GPUHyperSphereStride, shape.PutHyperSphere),
		mirror.WithDependent[shape.HyperSphere](func() {
			s.grew(s.sphereMirror.Layout().Label, s.sphereMirror.Capacity(), s.sphereMirror.Grows())
		}),
	); err != nil {
		return err
	}
	if s.planeMirror, err = mirror.NewMirror(r,
		mirror.ArrayLayout("Hyper Planes Storage Buffer", shape.GPUHyperPlaneStride, shape.PutHyperPlane),
		mirror.WithDependent[shape.HyperPlane](func() {
			s.grew(s.planeMirror.Layout().Label, s.planeMirror.Capacity(), s.planeMirror.Grows())
		}),
	); err != nil {
		return err
	}
	if s.materialMirror, err = mirror.NewMirror(r,
		mirror.ArrayLayout("Materials Storage Buffer", material.GPUMaterialStride, material.PutMaterial),
		mirror.WithDependent[material.Material](func() {
			s.grew(s.materialMirror.Layout().Label, s.materialMirror.Capacity(), s.materialMirror.Grows())
		}),
	); err != nil {
		return err
	}
	return nil
}

// releaseMirrors releases whichever mirrors exist and clears them. Caller must hold the mutex.
func (s *scene) releaseMirrors() {
	if s.cameraMirror != nil {
		s.cameraMirror.Release()
		s.cameraMirror = nil
	}
	if s.sphereMirror != nil {
		s.sphereMirror.Release()
		s.sphereMirror = nil
	}
	if s.planeMirror != nil {
		s.planeMirror.Release()
		s.planeMirror = nil
	}
	if s.materialMirror != nil {
		s.materialMirror.Release()
		s.materialMirror = nil
	}
}

// rebuild points the providers of the given kernel groups at the current buffers and recreates
// their bind groups, then clears the invalidated flag of every mirror bound in them. A pending
// output change adds the output group and every present group. Caller must hold the mutex.
func (s *scene) rebuild(groups map[int]bool) error {
	if s.outputDirty {
		groups[outputGroup] = true
	}
	if len(groups) == 0 {
		return nil
	}

	descriptors := s.kernel.BindGroupLayoutDescriptors()
	for _, p := range s.kernelGroups {
		if !groups[p.Group()] {
			continue
		}
		for _, b := range s.bindings {
			if b.group == p.Group() {
				p.SetBuffer(b.index, b.buffer())
			}
		}
		if p.Group() == outputGroup {
			p.SetTextureView(outputBinding, s.renderer.OutputView())
		}
		if err := s.renderer.InitBindGroup(p, descriptors[p.Group()]); err != nil {
			return fmt.Errorf("rebuild %s: %w", p.Label(), err)
		}
	}

	if s.outputDirty {
		descriptors = s.present.BindGroupLayoutDescriptors()
		for _, p := range s.presentGroups {
			if p.Group() == outputGroup {
				p.SetTextureView(outputBinding, s.renderer.OutputView())
			}
			if err := s.renderer.InitBindGroup(p, descriptors[p.Group()]); err != nil {
				return fmt.Errorf("rebuild %s: %w", p.Label(), err)
			}
		}
		s.outputDirty = false
	}

	for _, b := range s.bindings {
		if groups[b.group] {
			b.markRebuilt()
		}
	}
	return nil
}

// grew runs as a mirror dependent, after the mirror has released its lock.
func (s *scene) grew(label string, capacity uint64, grows int) {
	log.Printf("[Scene] %s grew to %d bytes (%d reallocations)", label, capacity, grows)
	if s.onGrow != nil {
		s.onGrow(label, capacity)
	}
}

// replace installs snap with every record clamped. Caller must hold the mutex.
func (s *scene) replace(snap Snapshot) {
	s.materials = make([]material.Material, len(snap.Materials))
	for i, m := range snap.Materials {
		s.materials[i] = m.Clamped()
	}
	spheres := make([]shape.HyperSphere, len(snap.Spheres))
	for i, sp := range snap.Spheres {
		spheres[i] = sp.Clamped(len(s.materials))
	}
	planes := make([]shape.HyperPlane, len(snap.Planes))
	for i, p := range snap.Planes {
		planes[i] = p.Clamped(len(s.materials))
	}
	s.spheres = NewNamedList(spheres, snap.SphereNames)
	s.planes = NewNamedList(planes, snap.PlaneNames)
}

// addMaterial appends a clamped material. Caller must hold the mutex.
func (s *scene) addMaterial(m material.Material) int {
	s.materials = append(s.materials, m.Clamped())
	return len(s.materials) - 1
}

func putCamera(dst []byte, c camera.GPUCamera) {
	c.MarshalTo(dst)
}

func sortedGroups(descriptors map[int]wgpu.BindGroupLayoutDescriptor) []int {
	groups := make([]int, 0, len(descriptors))
	for g := range descriptors {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return groups
}
