// pre_processor.go implements the WGSL pre-processor. It replaces @hyper: annotations with
// the struct sources owned by the Go GPU types, or with generated binding declarations, and
// collects the declarations so the scene can find where each resource is bound.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/hyperray/engine/camera"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/material"
	"github.com/Carmen-Shannon/hyperray/engine/shape"
)

// registryEntry pairs a WGSL struct source (embedded from a .wgsl asset) with the type name
// emitted in generated binding declarations.
type registryEntry struct {
	Source string
	Type   string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string

	// declarations accumulates group annotations during a Process call.
	declarations []Annotation
}

// PreProcessor processes raw WGSL source containing @hyper: annotations.
type PreProcessor interface {
	// Process replaces include annotations with the registered struct source and group
	// annotations with generated @group/@binding declarations. Each struct is injected at most
	// once, so two includes of the same struct are harmless.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error if an annotation is malformed or references an unknown type
	Process(source string) (string, error)

	// Declarations returns the group annotations collected by the most recent Process call,
	// in source order.
	//
	// Returns:
	//   - []Annotation: the collected declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with every GPU struct type registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera:       {Source: camera.GPUCameraSource, Type: "Camera"},
			AnnotationArgHyperSpheres: {Source: shape.GPUHyperSphereSource, Type: "HyperSpheres"},
			AnnotationArgHyperPlanes:  {Source: shape.GPUHyperPlaneSource, Type: "HyperPlanes"},
			AnnotationArgMaterials:    {Source: material.GPUMaterialSource, Type: "Materials"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgUniform:          "var<uniform>",
			annotationArgStorageRead:      "var<storage, read>",
			annotationArgStorageReadWrite: "var<storage, read_write>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			if included[a.Args[0]] {
				continue
			}
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: no source registered for %q", a.Line, a.Args[0])
			}
			included[a.Args[0]] = true
			out = append(out, strings.TrimRight(entry.Source, "\n"))
		case AnnotationTypeBindingGroup:
			entry, ok := p.structRegistry[a.Args[2]]
			if !ok {
				return "", fmt.Errorf("line %d: no source registered for %q", a.Line, a.Args[2])
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				a.Group, a.Binding, p.addressSpaceRegistry[a.Args[0]], a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
