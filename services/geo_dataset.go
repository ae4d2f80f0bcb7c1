package services

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

//go:embed data/geo.json
var embeddedGeoJSON []byte

// geoFile is the on-disk layout of a geography dataset.
type geoFile struct {
	Countries []geoCountry `json:"countries"`
}

type geoCountry struct {
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	States []geoState `json:"states"`
}

type geoState struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	Cities []string `json:"cities"`
}

// StaticGeoDataset is an immutable, indexed geography dataset. It is fully
// built before it is returned, so readers never observe a partial load.
type StaticGeoDataset struct {
	countries []GeoOption
	states    map[string][]GeoOption // country code
	cities    map[string][]GeoOption // country code + "/" + state code
}

var (
	defaultGeoOnce    sync.Once
	defaultGeoDataset *StaticGeoDataset
	defaultGeoErr     error
)

// DefaultGeoDataset returns the dataset compiled into the binary.
func DefaultGeoDataset() (*StaticGeoDataset, error) {
	defaultGeoOnce.Do(func() {
		defaultGeoDataset, defaultGeoErr = LoadGeoDataset(bytes.NewReader(embeddedGeoJSON))
	})
	return defaultGeoDataset, defaultGeoErr
}

// LoadGeoDatasetFile loads a dataset from a JSON file on disk.
func LoadGeoDatasetFile(path string) (*StaticGeoDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geo dataset: %w", err)
	}
	defer f.Close()
	return LoadGeoDataset(f)
}

// LoadGeoDataset decodes and indexes a JSON geography dataset. Duplicate
// codes or case-insensitively duplicate names within one sibling list are
// rejected.
func LoadGeoDataset(r io.Reader) (*StaticGeoDataset, error) {
	var file geoFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode geo dataset: %w", err)
	}

	ds := &StaticGeoDataset{
		states: make(map[string][]GeoOption, len(file.Countries)),
		cities: make(map[string][]GeoOption),
	}

	countrySeen := newSiblingSet("countries")
	for _, c := range file.Countries {
		code := strings.TrimSpace(c.Code)
		name := strings.TrimSpace(c.Name)
		if err := countrySeen.add(code, name); err != nil {
			return nil, err
		}
		ds.countries = append(ds.countries, GeoOption{Code: code, Name: name})

		stateSeen := newSiblingSet("states of " + code)
		states := make([]GeoOption, 0, len(c.States))
		for _, s := range c.States {
			sCode := strings.TrimSpace(s.Code)
			sName := strings.TrimSpace(s.Name)
			if err := stateSeen.add(sCode, sName); err != nil {
				return nil, err
			}
			states = append(states, GeoOption{Code: sCode, Name: sName})

			citySeen := newSiblingSet("cities of " + code + "/" + sCode)
			cities := make([]GeoOption, 0, len(s.Cities))
			for _, city := range s.Cities {
				city = strings.TrimSpace(city)
				if err := citySeen.add(city, city); err != nil {
					return nil, err
				}
				cities = append(cities, GeoOption{Code: city, Name: city})
			}
			ds.cities[cityKey(code, sCode)] = cities
		}
		ds.states[code] = states
	}

	return ds, nil
}

// Countries returns the countries in file order.
func (d *StaticGeoDataset) Countries() []GeoOption {
	return d.countries
}

// States returns the states for a country code.
func (d *StaticGeoDataset) States(countryCode string) []GeoOption {
	return d.states[strings.TrimSpace(countryCode)]
}

// Cities returns the cities for a state within a country.
func (d *StaticGeoDataset) Cities(countryCode, stateCode string) []GeoOption {
	return d.cities[cityKey(strings.TrimSpace(countryCode), strings.TrimSpace(stateCode))]
}

func cityKey(countryCode, stateCode string) string {
	return countryCode + "/" + stateCode
}

// siblingSet enforces code and name uniqueness within one option list.
type siblingSet struct {
	scope string
	codes map[string]bool
	names map[string]bool
}

func newSiblingSet(scope string) *siblingSet {
	return &siblingSet{scope: scope, codes: map[string]bool{}, names: map[string]bool{}}
}

func (s *siblingSet) add(code, name string) error {
	if code == "" || name == "" {
		return fmt.Errorf("geo dataset: empty code or name in %s", s.scope)
	}
	if s.codes[code] {
		return fmt.Errorf("geo dataset: duplicate code %q in %s", code, s.scope)
	}
	key := foldName(name)
	if s.names[key] {
		return fmt.Errorf("geo dataset: duplicate name %q in %s", name, s.scope)
	}
	s.codes[code] = true
	s.names[key] = true
	return nil
}

// foldName normalises a place name for case-insensitive comparison.
// A Caser is stateful, so one is built per call.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
