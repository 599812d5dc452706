package menu

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// Item is one editable menu entry.
type Item struct {
	Label string `yaml:"label"`
	Value int    `yaml:"value"`
	Min   int    `yaml:"min"`
	Max   int    `yaml:"max"`
	Step  int    `yaml:"step,omitempty"`
}

// Add moves the value by delta steps, clamped to [Min, Max].
func (it Item) Add(delta int) Item {
	step := it.Step
	if step == 0 {
		step = 1
	}
	it.Value += delta * step
	if it.Value > it.Max {
		it.Value = it.Max
	}
	if it.Value < it.Min {
		it.Value = it.Min
	}
	return it
}

// Validate checks the item is usable.
func (it Item) Validate() error {
	if it.Label == "" {
		return fmt.Errorf("item label required")
	}
	if it.Min > it.Max {
		return fmt.Errorf("item %q: min %d > max %d", it.Label, it.Min, it.Max)
	}
	if it.Value < it.Min || it.Value > it.Max {
		return fmt.Errorf("item %q: value %d out of range [%d, %d]", it.Label, it.Value, it.Min, it.Max)
	}
	return nil
}

type itemsFile struct {
	Items []Item `yaml:"items"`
}

// ParseItems decodes a YAML document with an items list.
func ParseItems(data []byte) ([]Item, error) {
	var f itemsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse items: %v", err)
	}
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("no items defined")
	}
	for _, it := range f.Items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Items, nil
}

// LoadItems reads items from a YAML file.
func LoadItems(path string) ([]Item, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseItems(data)
}

// DefaultItems is used when no item file is given.
func DefaultItems() []Item {
	return []Item{
		{Label: "Brightness", Value: 50, Min: 0, Max: 100, Step: 5},
		{Label: "Contrast", Value: 30, Min: 0, Max: 63},
		{Label: "Refresh interval (ms)", Value: 100, Min: 20, Max: 1000, Step: 10},
	}
}
