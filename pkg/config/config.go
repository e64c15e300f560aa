// Package config loads engine settings from TOML.
//
// Lengths in the file are expressed in Units and converted into the units
// of the scene being processed.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chazu/hangerlink/pkg/association"
	"github.com/chazu/hangerlink/pkg/geom"
	"github.com/chazu/hangerlink/pkg/propagate"
	"github.com/chazu/hangerlink/pkg/rules"
	"github.com/chazu/hangerlink/pkg/scene"
)

// Config is the engine configuration.
type Config struct {
	Units            string      `toml:"units"`
	Thickness        float64     `toml:"thickness"`
	Padding          float64     `toml:"padding"`
	HostCategory     string      `toml:"host_category"`
	HangerCategory   string      `toml:"hanger_category"`
	TransactionName  string      `toml:"transaction_name"`
	PredicateTimeout Duration    `toml:"predicate_timeout"`
	Kinds            []KindEntry `toml:"kind"`
}

// KindEntry is one row of the ordered keyword table.
type KindEntry struct {
	Keyword string `toml:"keyword"`
	Kind    string `toml:"kind"`
}

// Duration decodes TOML strings such as "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings: 10 mm interaction thickness,
// 200 mm candidate padding and the stock keyword table.
func Default() *Config {
	c := &Config{
		Units:            string(geom.Millimeters),
		Thickness:        association.DefaultThickness,
		Padding:          propagate.DefaultPadding,
		HostCategory:     string(scene.CategoryPipeCurves),
		HangerCategory:   string(scene.CategoryMechanicalEquipment),
		TransactionName:  propagate.DefaultTransactionName,
		PredicateTimeout: Duration{rules.EvalTimeout},
	}
	for _, r := range association.DefaultKindRules() {
		c.Kinds = append(c.Kinds, KindEntry{Keyword: r.Keyword, Kind: r.Kind.String()})
	}
	return c
}

// Load reads path over the defaults. Keys absent from the file keep their
// default value; a [[kind]] table replaces the default keywords entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	c.Kinds = nil
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: unknown key %q", undecoded[0].String())
	}
	if !md.IsDefined("kind") {
		c.Kinds = Default().Kinds
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks ranges, units and kind names.
func (c *Config) Validate() error {
	var errs []error
	if _, err := geom.ParseUnit(c.Units); err != nil {
		errs = append(errs, err)
	}
	if c.Thickness <= 0 {
		errs = append(errs, fmt.Errorf("thickness must be positive, got %g", c.Thickness))
	}
	if c.Padding <= 0 {
		errs = append(errs, fmt.Errorf("padding must be positive, got %g", c.Padding))
	}
	if c.HostCategory == "" {
		errs = append(errs, errors.New("host_category must be set"))
	}
	if c.HangerCategory == "" {
		errs = append(errs, errors.New("hanger_category must be set"))
	}
	if c.HostCategory != "" && c.HostCategory == c.HangerCategory {
		errs = append(errs, fmt.Errorf("host_category and hanger_category are both %q", c.HostCategory))
	}
	if c.PredicateTimeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("predicate_timeout must not be negative, got %s", c.PredicateTimeout))
	}
	for i, k := range c.Kinds {
		if k.Keyword == "" {
			errs = append(errs, fmt.Errorf("kind[%d]: keyword is empty", i))
		}
		if _, err := association.ParseKind(k.Kind); err != nil {
			errs = append(errs, fmt.Errorf("kind[%d]: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// KindTable builds the keyword table. Call Validate first.
func (c *Config) KindTable() *association.KindTable {
	rules := make([]association.KindRule, 0, len(c.Kinds))
	for _, k := range c.Kinds {
		kind, err := association.ParseKind(k.Kind)
		if err != nil {
			continue
		}
		rules = append(rules, association.KindRule{Keyword: k.Keyword, Kind: kind})
	}
	return association.NewKindTable(scene.Category(c.HangerCategory), rules)
}

// factor converts configured lengths into u.
func (c *Config) factor(u geom.Unit) float64 {
	from, err := geom.ParseUnit(c.Units)
	if err != nil {
		return 1
	}
	return geom.Factor(from, u)
}

// ThicknessIn returns the interaction thickness in u.
func (c *Config) ThicknessIn(u geom.Unit) float64 {
	return c.Thickness * c.factor(u)
}

// PaddingIn returns the candidate padding in u.
func (c *Config) PaddingIn(u geom.Unit) float64 {
	return c.Padding * c.factor(u)
}

// Classifier builds a classifier for scenes measured in u.
func (c *Config) Classifier(u geom.Unit) *association.Classifier {
	return association.NewClassifier(c.KindTable(), c.ThicknessIn(u))
}

// RuleEngine builds the predicate compiler with the configured timeout.
func (c *Config) RuleEngine() *rules.Engine {
	en := rules.NewEngine()
	if c.PredicateTimeout.Duration > 0 {
		en.Timeout = c.PredicateTimeout.Duration
	}
	return en
}

// EngineOptions returns propagation options for scenes measured in u.
func (c *Config) EngineOptions(u geom.Unit) propagate.Options {
	return propagate.Options{
		HostCategory:    scene.Category(c.HostCategory),
		Padding:         c.PaddingIn(u),
		TransactionName: c.TransactionName,
	}
}
