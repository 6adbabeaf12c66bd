package resolve

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rules is the file-level cascade configuration. Everything is optional;
// missing values fall back to the built-in defaults.
type Rules struct {
	Threshold    float64            `yaml:"threshold"`
	VintageBonus float64            `yaml:"vintage_bonus"`
	BulkQuantity int                `yaml:"bulk_quantity"`
	DefaultSize  float64            `yaml:"default_size"`
	Workers      int                `yaml:"workers"`
	SizeKeywords map[string]float64 `yaml:"size_keywords"`
}

// LoadRules reads cascade rules from a YAML file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: read rules %s", path)
	}

	// The YAML has a top-level "cascade" key.
	var wrapper struct {
		Cascade Rules `yaml:"cascade"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "resolve: parse rules")
	}
	return &wrapper.Cascade, nil
}

// Options converts the rules into cascade options, filling defaults.
func (r *Rules) Options() Options {
	return Options{
		Threshold:    r.Threshold,
		VintageBonus: r.VintageBonus,
		BulkQuantity: r.BulkQuantity,
		DefaultSize:  r.DefaultSize,
		Workers:      r.Workers,
	}.withDefaults()
}
