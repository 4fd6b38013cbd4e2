// Package maps provides named landing scenarios: a terrain polyline plus
// the craft's initial state. Built-in maps are embedded and registered at
// init; more can be loaded from a directory of YAML files.
package maps

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/mars-lander/internal/core"
	"github.com/vovakirdan/mars-lander/internal/lander"
)

// ErrInvalidMap is wrapped by map validation failures.
var ErrInvalidMap = errors.New("invalid map")

// Map is a complete landing scenario.
type Map struct {
	ID       string
	Name     string
	Surface  []core.Point
	Start    lander.Craft
	FilePath string // Empty for built-in maps
}

// yamlMap is the on-disk representation.
type yamlMap struct {
	ID      string    `yaml:"id"`
	Name    string    `yaml:"name"`
	Surface [][2]int  `yaml:"surface"`
	Start   yamlCraft `yaml:"start"`
}

type yamlCraft struct {
	X      int     `yaml:"x"`
	Y      int     `yaml:"y"`
	HSpeed float64 `yaml:"h_speed"`
	VSpeed float64 `yaml:"v_speed"`
	Fuel   int     `yaml:"fuel"`
	Rotate int     `yaml:"rotate"`
	Power  int     `yaml:"power"`
}

// Parse decodes and validates a YAML map.
func Parse(data []byte) (Map, error) {
	var ym yamlMap
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return Map{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	m := Map{
		ID:   ym.ID,
		Name: ym.Name,
		Start: lander.Craft{
			Pos:    core.Pt(ym.Start.X, ym.Start.Y),
			HSpeed: ym.Start.HSpeed,
			VSpeed: ym.Start.VSpeed,
			Fuel:   ym.Start.Fuel,
			Angle:  ym.Start.Rotate,
			Thrust: ym.Start.Power,
		},
	}
	if m.Name == "" {
		m.Name = m.ID
	}
	for _, p := range ym.Surface {
		m.Surface = append(m.Surface, core.Pt(p[0], p[1]))
	}

	if err := m.Validate(); err != nil {
		return Map{}, err
	}
	return m, nil
}

// Validate checks the identifier, the terrain and the initial state.
func (m Map) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidMap)
	}
	if _, err := m.Terrain(); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidMap, m.ID, err)
	}

	s := m.Start
	switch {
	case !lander.InBounds(s.Pos):
		return fmt.Errorf("%w %q: start %v outside the playfield", ErrInvalidMap, m.ID, s.Pos)
	case s.Fuel < 0:
		return fmt.Errorf("%w %q: negative fuel", ErrInvalidMap, m.ID)
	case s.Angle%lander.AngleStep != 0 || s.Angle < -lander.MaxAngle || s.Angle > lander.MaxAngle:
		return fmt.Errorf("%w %q: rotate %d is not a multiple of %d in range", ErrInvalidMap, m.ID, s.Angle, lander.AngleStep)
	case s.Thrust < 0 || s.Thrust > lander.MaxThrust:
		return fmt.Errorf("%w %q: power %d out of range", ErrInvalidMap, m.ID, s.Thrust)
	}
	return nil
}

// Terrain builds the validated terrain for the map.
func (m Map) Terrain() (*lander.Terrain, error) {
	return lander.NewTerrain(m.Surface)
}
