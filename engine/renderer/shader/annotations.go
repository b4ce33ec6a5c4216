// annotations.go defines the annotations understood by the WGSL pre-processor. An annotation
// is a single-line WGSL comment prefixed with @hyper: that either injects the struct source
// owned by a Go GPU type, or generates a @group/@binding declaration for one of those structs.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a WGSL comment line.
const annotationPrefix = "@hyper:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition at the
	// annotation site. It is consumed entirely during pre-processing.
	//
	// Syntax: //@hyper:include <struct_type>
	//
	// Example: //@hyper:include camera
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding variable declaration for a registered
	// struct and records it in the pre-processor's declarations, so the scene can look up where a
	// resource is bound instead of hard-coding group numbers.
	//
	// Syntax: //@hyper:group <group> <binding> <address_space> <var_name> <struct_type>
	//
	// Example: //@hyper:group 2 0 storage_read spheres hyper_spheres
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// Annotation represents a single parsed @hyper: annotation.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments:
	//   - include: [0] = struct type key
	//   - group:   [0] = address space, [1] = var name, [2] = struct type key
	Args []AnnotationArg

	// Line is the 1-based line number in the original WGSL source.
	Line int

	// Group and Binding are the indices of a group annotation, -1 for include annotations.
	Group   int
	Binding int
}

// AnnotationArg is a typed string used as an argument in annotations.
type AnnotationArg string

// Struct type arguments. Each one maps to a Go GPU type with an embedded .wgsl asset.
const (
	// AnnotationArgCamera identifies the Camera uniform.
	// Source: engine/camera/assets/camera.wgsl
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgHyperSpheres identifies the HyperSpheres storage array and its HyperSphere element.
	// Source: engine/shape/assets/hyper_sphere.wgsl
	AnnotationArgHyperSpheres AnnotationArg = "hyper_spheres"

	// AnnotationArgHyperPlanes identifies the HyperPlanes storage array and its HyperPlane element.
	// Source: engine/shape/assets/hyper_plane.wgsl
	AnnotationArgHyperPlanes AnnotationArg = "hyper_planes"

	// AnnotationArgMaterials identifies the Materials storage array and its Material element.
	// Source: engine/renderer/material/assets/material.wgsl
	AnnotationArgMaterials AnnotationArg = "materials"
)

// Address space arguments, mapped to WGSL var<> declarations.
const (
	annotationArgUniform          AnnotationArg = "uniform"
	annotationArgStorageRead      AnnotationArg = "storage_read"
	annotationArgStorageReadWrite AnnotationArg = "storage_read_write"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgHyperSpheres,
	AnnotationArgHyperPlanes,
	AnnotationArgMaterials,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgUniform,
	annotationArgStorageRead,
	annotationArgStorageReadWrite,
}

// parseAnnotation attempts to parse a single line of WGSL source as a @hyper: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type:    annotationTypeInclude,
			Args:    []AnnotationArg{AnnotationArg(args[1])},
			Line:    lineNum,
			Group:   -1,
			Binding: -1,
		}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: group annotation requires five arguments (group, binding, address space, var name, struct type)", lineNum)
		}
		group, err := strconv.Atoi(args[1])
		if err != nil || group < 0 {
			return nil, fmt.Errorf("line %d: invalid group number %q in group annotation", lineNum, args[1])
		}
		binding, err := strconv.Atoi(args[2])
		if err != nil || binding < 0 {
			return nil, fmt.Errorf("line %d: invalid binding number %q in group annotation", lineNum, args[2])
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in group annotation", lineNum, args[3])
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[5])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in group annotation", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   group,
			Binding: binding,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown annotation type %q", lineNum, args[0])
	}
}
