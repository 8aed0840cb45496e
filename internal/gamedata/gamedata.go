package gamedata

import (
	"fmt"
	"os"
	"path/filepath"

	"deepsea/internal/duel"

	"gopkg.in/yaml.v3"
)

const (
	SkillsFile   = "skills.yaml"
	SpeciesFile  = "species.yaml"
	CorridorFile = "corridor.yaml"
)

// Data is the static game content loaded once at startup.
type Data struct {
	Skills   *duel.SkillBook
	Species  *Catalogue
	Corridor *Corridor
}

func LoadAll(dir string) (*Data, error) {
	var sf skillsFile
	if err := loadYAML(filepath.Join(dir, SkillsFile), &sf); err != nil {
		return nil, err
	}
	book, err := BuildSkillBook(sf.Skills)
	if err != nil {
		return nil, err
	}

	var spf speciesFile
	if err := loadYAML(filepath.Join(dir, SpeciesFile), &spf); err != nil {
		return nil, err
	}
	cat, err := NewCatalogue(spf.Species, spf.CatchWeights)
	if err != nil {
		return nil, err
	}

	var cor Corridor
	if err := loadYAML(filepath.Join(dir, CorridorFile), &cor); err != nil {
		return nil, err
	}
	if err := cor.Validate(cat); err != nil {
		return nil, err
	}

	return &Data{Skills: book, Species: cat, Corridor: &cor}, nil
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
