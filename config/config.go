// Package config reads the pipeline configuration from a YAML, JSON or TOML
// file with RWE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/revelaction/rwe/parallel"
	"github.com/spf13/viper"
)

var ErrInvalid = errors.New("invalid configuration")

// Tagger names in the taggers list.
const (
	TaggerSections     = "sections"
	TaggerParent       = "parent_section"
	TaggerDictionary   = "dictionary"
	TaggerNegation     = "negation"
	TaggerLaterality   = "laterality"
	TaggerHypothetical = "hypothetical"
	TaggerFamily       = "family"
	TaggerDocTime      = "doctime"
	TaggerRelations    = "relations"
)

var taggers = map[string]bool{
	TaggerSections: true, TaggerParent: true, TaggerDictionary: true, TaggerNegation: true,
	TaggerLaterality: true, TaggerHypothetical: true, TaggerFamily: true, TaggerDocTime: true,
	TaggerRelations: true,
}

type Config struct {
	NGrams     int    `mapstructure:"ngrams"`
	MinLength  int    `mapstructure:"min_length"`
	IgnoreCase bool   `mapstructure:"ignore_case"`
	SplitOn    string `mapstructure:"split_on"`
	Workers    int    `mapstructure:"workers"`

	// BlockSize is auto, groups or a number of items.
	BlockSize string `mapstructure:"block_size"`

	Stopwords    []string     `mapstructure:"stopwords"`
	Dictionaries []Dictionary `mapstructure:"dictionaries"`

	NegEx        NegEx   `mapstructure:"negex"`
	Sections     Section `mapstructure:"sections"`
	Laterality   Window  `mapstructure:"laterality"`
	Hypothetical Window  `mapstructure:"hypothetical"`
	Family       Family  `mapstructure:"family"`

	Relations []Relation `mapstructure:"relations"`
	Taggers   []string   `mapstructure:"taggers"`

	// LFs is the name of the labeling function set.
	LFs string `mapstructure:"lfs"`

	Log Log `mapstructure:"log"`

	// dir of the config file, relative paths are resolved against it
	dir string
}

type Dictionary struct {
	Name       string   `mapstructure:"name"`
	Path       string   `mapstructure:"path"`
	IgnoreCase bool     `mapstructure:"ignore_case"`
	Terms      []string `mapstructure:"terms"`
}

type NegEx struct {
	Path      string   `mapstructure:"path"`
	Window    int      `mapstructure:"window"`
	Columns   []int    `mapstructure:"columns"`
	Reduction string   `mapstructure:"reduction"`
	Targets   []string `mapstructure:"targets"`
}

type Section struct {
	MaxTokens int      `mapstructure:"max_tokens"`
	Stopwords []string `mapstructure:"stopwords"`
}

// Window configures a context tagger. Empty targets mean every dictionary.
type Window struct {
	Window  int      `mapstructure:"window"`
	Targets []string `mapstructure:"targets"`
}

type Family struct {
	Window    int      `mapstructure:"window"`
	Targets   []string `mapstructure:"targets"`
	Reduction string   `mapstructure:"reduction"`
}

type Relation struct {
	Type string   `mapstructure:"type"`
	Args []string `mapstructure:"args"`
}

type Log struct {
	Level string `mapstructure:"level"`
	Style string `mapstructure:"style"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ngrams", 5)
	v.SetDefault("min_length", 2)
	v.SetDefault("ignore_case", true)
	v.SetDefault("split_on", "")
	v.SetDefault("workers", 0)
	v.SetDefault("block_size", "auto")
	v.SetDefault("stopwords", []string{})
	v.SetDefault("negex.path", "")
	v.SetDefault("negex.window", 6)
	v.SetDefault("negex.columns", []int{0, 30, 32})
	v.SetDefault("negex.reduction", "or")
	v.SetDefault("sections.max_tokens", 6)
	v.SetDefault("laterality.window", 2)
	v.SetDefault("hypothetical.window", 10)
	v.SetDefault("family.window", 6)
	v.SetDefault("family.reduction", "or")
	v.SetDefault("taggers", []string{TaggerSections, TaggerDictionary, TaggerNegation, TaggerRelations})
	v.SetDefault("lfs", "anatomy_pain")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.style", "production")
}

// Load reads the config file path, if not empty, over the defaults and
// applies the RWE_* environment variables (f.ex. RWE_NEGEX_WINDOW).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RWE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if path != "" {
		c.dir = filepath.Dir(path)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if _, err := c.Blocks(); err != nil {
		return err
	}

	if c.NGrams < 1 {
		return fmt.Errorf("%w: ngrams %d", ErrInvalid, c.NGrams)
	}

	if c.SplitOn != "" {
		if _, err := regexp.Compile(c.SplitOn); err != nil {
			return fmt.Errorf("%w: split_on: %v", ErrInvalid, err)
		}
	}

	names := map[string]bool{}
	for i, d := range c.Dictionaries {
		if d.Name == "" {
			return fmt.Errorf("%w: dictionary %d has no name", ErrInvalid, i)
		}
		if names[d.Name] {
			return fmt.Errorf("%w: duplicate dictionary %q", ErrInvalid, d.Name)
		}
		if d.Path == "" && len(d.Terms) == 0 {
			return fmt.Errorf("%w: dictionary %q has no path and no terms", ErrInvalid, d.Name)
		}
		names[d.Name] = true
	}

	for _, r := range c.Relations {
		if r.Type == "" {
			return fmt.Errorf("%w: relation without type", ErrInvalid)
		}
		if len(r.Args) < 2 {
			return fmt.Errorf("%w: relation %q has %d args, want at least 2", ErrInvalid, r.Type, len(r.Args))
		}
	}

	for _, t := range c.Taggers {
		if !taggers[t] {
			return fmt.Errorf("%w: unknown tagger %q", ErrInvalid, t)
		}
	}

	switch c.NegEx.Reduction {
	case "or", "mv":
	default:
		return fmt.Errorf("%w: negex reduction %q", ErrInvalid, c.NegEx.Reduction)
	}

	switch c.Family.Reduction {
	case "or", "mv":
	default:
		return fmt.Errorf("%w: family reduction %q", ErrInvalid, c.Family.Reduction)
	}

	if len(c.NegEx.Columns) != 3 {
		return fmt.Errorf("%w: negex columns %v, want term, category and direction", ErrInvalid, c.NegEx.Columns)
	}

	return nil
}

// Blocks returns the block size as parallel.AutoBlockSize,
// parallel.GroupBlocks or a positive number.
func (c *Config) Blocks() (int, error) {
	switch c.BlockSize {
	case "", "auto":
		return parallel.AutoBlockSize, nil
	case "groups":
		return parallel.GroupBlocks, nil
	}

	n, err := strconv.Atoi(c.BlockSize)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: block_size %q, want auto, groups or a positive number", ErrInvalid, c.BlockSize)
	}
	return n, nil
}

// Resolve returns path relative to the directory of the config file.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

// Has reports whether the tagger name is configured.
func (c *Config) Has(tagger string) bool {
	for _, t := range c.Taggers {
		if t == tagger {
			return true
		}
	}
	return false
}
