// Package scenefile reads and writes YAML scene documents: elements with
// literal boxes or solid descriptions, and views with their visibility
// state and filters.
//
// Lengths stay in the file's units; callers convert engine constants into
// Scene.Units.
package scenefile

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/chazu/hangerlink/pkg/geom"
)

// File is the on-disk form of a scene.
type File struct {
	Units    string        `yaml:"units,omitempty"`
	Elements []ElementSpec `yaml:"elements"`
	Views    []ViewSpec    `yaml:"views,omitempty"`
}

// ElementSpec describes one element. Geometry comes from Box when present,
// otherwise from Pipe, otherwise from the union of Parts.
type ElementSpec struct {
	ID       int64          `yaml:"id"`
	Category string         `yaml:"category"`
	Name     string         `yaml:"name,omitempty"`
	Type     string         `yaml:"type,omitempty"`
	Box      *BoxSpec       `yaml:"box,omitempty"`
	ViewBox  *BoxSpec       `yaml:"view_box,omitempty"`
	Axis     *AxisSpec      `yaml:"axis,omitempty"`
	Pipe     *PipeSpec      `yaml:"pipe,omitempty"`
	Parts    []PartSpec     `yaml:"parts,omitempty"`
	Params   map[string]any `yaml:"params,omitempty"`
}

// Point is an [x, y, z] triple.
type Point []float64

func (p Point) vec() geom.Vec3 {
	if len(p) != 3 {
		return geom.Vec3{}
	}
	return geom.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// BoxSpec is a literal axis-aligned box.
type BoxSpec struct {
	Min Point `yaml:"min"`
	Max Point `yaml:"max"`
}

func (b *BoxSpec) aabb() geom.AABB {
	return geom.AABB{Min: b.Min.vec(), Max: b.Max.vec()}
}

// AxisSpec is a curve axis given explicitly.
type AxisSpec struct {
	Start Point `yaml:"start"`
	End   Point `yaml:"end"`
}

// PipeSpec is a straight round pipe. It yields both a box and an axis.
type PipeSpec struct {
	Start    Point   `yaml:"start"`
	End      Point   `yaml:"end"`
	Diameter float64 `yaml:"diameter"`
}

// PartSpec is a box of the given size rotated by Euler angles in degrees
// and then moved so its minimum corner starts at At.
type PartSpec struct {
	Size   Point `yaml:"size"`
	At     Point `yaml:"at,omitempty"`
	Rotate Point `yaml:"rotate,omitempty"`
}

// ViewSpec describes a view.
type ViewSpec struct {
	ID               int64        `yaml:"id"`
	Name             string       `yaml:"name"`
	Members          []int64      `yaml:"members,omitempty"`
	Hidden           []int64      `yaml:"hidden,omitempty"`
	HiddenCategories []string     `yaml:"hidden_categories,omitempty"`
	LockedCategories []string     `yaml:"locked_categories,omitempty"`
	Filters          []FilterSpec `yaml:"filters,omitempty"`
}

// FilterSpec is a rule filter when Rule is set and a selection filter when
// IDs is set.
type FilterSpec struct {
	Name       string   `yaml:"name"`
	Visible    bool     `yaml:"visible"`
	Categories []string `yaml:"categories,omitempty"`
	Rule       string   `yaml:"rule,omitempty"`
	IDs        []int64  `yaml:"ids,omitempty"`
}

// Decode reads a scene document. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return &f, nil
}

// Parse decodes a scene document from memory.
func Parse(data []byte) (*File, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes f as YAML.
func Encode(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}
