// Package person is the typed Person model and its repository over the
// document store.
package person

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mangoose/internal/queryir"
	"github.com/roach88/mangoose/internal/store"
)

// Collection is the collection person documents live in.
const Collection = "people"

// Field names as stored.
const (
	FieldName          = "name"
	FieldAge           = "age"
	FieldFavoriteFoods = "favoriteFoods"
)

// Person is the only entity of the demo.
type Person struct {
	ID            string   `json:"_id,omitempty" yaml:"-"`
	Name          string   `json:"name" yaml:"name"`
	Age           *float64 `json:"age,omitempty" yaml:"age,omitempty"`
	FavoriteFoods []string `json:"favoriteFoods" yaml:"favoriteFoods"`
}

// New builds a Person with an age.
func New(name string, age float64, foods ...string) Person {
	return Person{Name: name, Age: &age, FavoriteFoods: foods}
}

// AddFood appends a food, keeping existing entries in order.
func (p *Person) AddFood(food string) {
	p.FavoriteFoods = append(p.FavoriteFoods, food)
}

// NameIs matches people with exactly this name.
func NameIs(name string) queryir.Predicate {
	return queryir.Equals{Field: FieldName, Value: name}
}

// Likes matches people whose favoriteFoods contains food.
func Likes(food string) queryir.Predicate {
	return queryir.Contains{Field: FieldFavoriteFoods, Value: food}
}

// encode returns the stored body: no id, and favoriteFoods always an array.
func encode(p Person) ([]byte, error) {
	p.ID = ""
	if p.FavoriteFoods == nil {
		p.FavoriteFoods = []string{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode person: %w", err)
	}
	return data, nil
}

// decode builds a Person from a stored record.
func decode(rec store.Record) (Person, error) {
	var p Person
	if err := rec.Decode(&p); err != nil {
		return Person{}, err
	}
	p.ID = rec.ID
	if p.FavoriteFoods == nil {
		p.FavoriteFoods = []string{}
	}
	return p, nil
}

//go:embed people.yaml
var seedYAML []byte

// SeedBatch returns the fixed batch of people inserted by the demo.
func SeedBatch() ([]Person, error) {
	return LoadPeople(seedYAML)
}

// LoadPeople parses a YAML list of people. Unknown keys are rejected.
func LoadPeople(data []byte) ([]Person, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var people []Person
	if err := dec.Decode(&people); err != nil {
		return nil, fmt.Errorf("load people: %w", err)
	}
	return people, nil
}
