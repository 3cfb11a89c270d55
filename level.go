package soundgen

import "fmt"

type (
	// LevelData is the decoded chart of a level: the entities making up the
	// chart and the offset of the background track, in seconds.
	LevelData struct {
		BGMOffset float64  `json:"bgmOffset" yaml:"bgmOffset"`
		Entities  []Entity `json:"entities" yaml:"entities"`
	}

	// Entity is a single object in a chart. Archetype tells what the entity
	// is (a tap note, a slide connector, a tempo change...), Data holds its
	// named fields and Name is the optional name other entities use to
	// reference it. Entities without a name cannot be referenced.
	Entity struct {
		Archetype string       `json:"archetype" yaml:"archetype"`
		Data      []EntityData `json:"data" yaml:"data,flow"`
		Name      string       `json:"name,omitempty" yaml:"name,omitempty"`
	}

	// EntityData is one named field of an Entity. A field carries either a
	// scalar Value or a Ref to the Name of another entity.
	EntityData struct {
		Name  string   `json:"name" yaml:"name"`
		Value *float64 `json:"value,omitempty" yaml:"value,omitempty"`
		Ref   string   `json:"ref,omitempty" yaml:"ref,omitempty"`
	}
)

// Value returns the scalar value of the first field named key. ok is false if
// there is no such field or the field has no scalar value.
func (e Entity) Value(key string) (value float64, ok bool) {
	for _, d := range e.Data {
		if d.Name == key {
			if d.Value == nil {
				return 0, false
			}
			return *d.Value, true
		}
	}
	return 0, false
}

// RefName returns the name of the entity referenced by the first field named
// key.
func (e Entity) RefName(key string) (name string, ok bool) {
	for _, d := range e.Data {
		if d.Name == key {
			return d.Ref, d.Ref != ""
		}
	}
	return "", false
}

// Ref resolves the reference in field key by scanning entities for one with
// a matching name.
func (e Entity) Ref(entities []Entity, key string) (Entity, bool) {
	name, ok := e.RefName(key)
	if !ok {
		return Entity{}, false
	}
	for _, other := range entities {
		if other.Name == name {
			return other, true
		}
	}
	return Entity{}, false
}

// label identifies the entity in error messages.
func (e Entity) label(index int) string {
	if e.Name != "" {
		return fmt.Sprintf("%v %q", e.Archetype, e.Name)
	}
	return fmt.Sprintf("%v #%v", e.Archetype, index)
}
