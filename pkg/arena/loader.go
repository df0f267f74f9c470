package arena

import (
	"os"
	"tankai-server/pkg/geom"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoStructures = errors.New("arena: layout has no structures")
	ErrBadSize      = errors.New("arena: structure size must be positive")
	ErrSpawnOutside = errors.New("arena: spawn point outside boundary")
)

type yamlPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type yamlStructure struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type yamlLayout struct {
	Name       string          `yaml:"name"`
	Structures []yamlStructure `yaml:"structures"`
	Boundary   yamlStructure   `yaml:"boundary"`
	Spawns     []yamlPoint     `yaml:"spawns"`
}

// Load читает раскладку арены из YAML-файла.
func Load(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, errors.Wrapf(err, "read arena %s", path)
	}
	layout, err := Parse(data)
	if err != nil {
		return Layout{}, errors.Wrapf(err, "parse arena %s", path)
	}
	return layout, nil
}

// Parse разбирает YAML-описание арены. Стена задаётся отдельным ключом
// boundary и ставится в конец списка построек.
func Parse(data []byte) (Layout, error) {
	var raw yamlLayout
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Layout{}, errors.Wrap(err, "unmarshal")
	}

	layout := Layout{Name: raw.Name}
	for _, s := range raw.Structures {
		layout.Structures = append(layout.Structures, Structure{
			Origin: orb.Point{s.X, s.Y},
			Size:   orb.Point{s.W, s.H},
		})
	}
	layout.Structures = append(layout.Structures, Structure{
		Origin: orb.Point{raw.Boundary.X, raw.Boundary.Y},
		Size:   orb.Point{raw.Boundary.W, raw.Boundary.H},
	})
	for _, p := range raw.Spawns {
		layout.Spawns = append(layout.Spawns, orb.Point{p.X, p.Y})
	}

	if err := layout.Validate(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

// Validate проверяет раскладку на внутреннюю согласованность.
func (l Layout) Validate() error {
	if len(l.Structures) == 0 {
		return ErrNoStructures
	}
	for i, s := range l.Structures {
		if s.Size[0] <= 0 || s.Size[1] <= 0 {
			return errors.Wrapf(ErrBadSize, "structure %d", i)
		}
	}
	boundary := l.Boundary().Bound()
	for i, p := range l.Spawns {
		if !geom.PointInRect(p, boundary) {
			return errors.Wrapf(ErrSpawnOutside, "spawn %d", i)
		}
	}
	return nil
}
