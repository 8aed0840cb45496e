package gamedata

import (
	"errors"
	"fmt"
	"sort"

	"deepsea/internal/duel"
)

type speciesFile struct {
	CatchWeights map[int]int `yaml:"catch_weights"`
	Species      []Species   `yaml:"species"`
}

type Species struct {
	Name      string `yaml:"name"`
	Rarity    int    `yaml:"rarity"`
	MinWeight int    `yaml:"min_weight"`
	MaxWeight int    `yaml:"max_weight"`
	Value     int    `yaml:"value"`
}

// CreatureSpec describes a fresh specimen whose weight is rolled inside the species range.
func (s Species) CreatureSpec() duel.CreatureSpec {
	return duel.CreatureSpec{
		Name:      s.Name,
		Rarity:    s.Rarity,
		MinWeight: s.MinWeight,
		MaxWeight: s.MaxWeight,
		Value:     s.Value,
	}
}

// Catalogue indexes species by name and rarity and rolls catches.
type Catalogue struct {
	list     []Species
	byName   map[string]Species
	byRarity map[int][]Species
	rarities []int
	weights  map[int]int
	total    int
}

var ErrEmptyCatalogue = errors.New("species catalogue is empty")

func NewCatalogue(list []Species, weights map[int]int) (*Catalogue, error) {
	if len(list) == 0 {
		return nil, ErrEmptyCatalogue
	}
	c := &Catalogue{
		list:     list,
		byName:   make(map[string]Species, len(list)),
		byRarity: map[int][]Species{},
		weights:  map[int]int{},
	}
	for _, s := range list {
		switch {
		case s.Name == "":
			return nil, errors.New("species without a name")
		case s.Rarity < 1 || s.Rarity > 5:
			return nil, fmt.Errorf("%s: rarity %d out of 1..5", s.Name, s.Rarity)
		case s.MinWeight < 1 || s.MaxWeight < s.MinWeight:
			return nil, fmt.Errorf("%s: bad weight range %d..%d", s.Name, s.MinWeight, s.MaxWeight)
		case s.Value < 1:
			return nil, fmt.Errorf("%s: value must be positive", s.Name)
		}
		if _, dup := c.byName[s.Name]; dup {
			return nil, fmt.Errorf("species %q listed twice", s.Name)
		}
		c.byName[s.Name] = s
		c.byRarity[s.Rarity] = append(c.byRarity[s.Rarity], s)
	}
	for r, w := range weights {
		if w <= 0 || len(c.byRarity[r]) == 0 {
			continue
		}
		c.weights[r] = w
		c.rarities = append(c.rarities, r)
		c.total += w
	}
	if c.total == 0 {
		return nil, errors.New("no catchable rarity: catch_weights is empty")
	}
	sort.Ints(c.rarities)
	return c, nil
}

func (c *Catalogue) Lookup(name string) (Species, bool) {
	s, ok := c.byName[name]
	return s, ok
}

func (c *Catalogue) OfRarity(r int) []Species {
	return c.byRarity[r]
}

func (c *Catalogue) All() []Species {
	return c.list
}

// Pick rolls a rarity by catch weight, then a species of that rarity uniformly.
func (c *Catalogue) Pick(rng duel.Rand) Species {
	roll := rng.Intn(c.total)
	rarity := c.rarities[len(c.rarities)-1]
	for _, r := range c.rarities {
		if roll < c.weights[r] {
			rarity = r
			break
		}
		roll -= c.weights[r]
	}
	pool := c.byRarity[rarity]
	return pool[rng.Intn(len(pool))]
}
