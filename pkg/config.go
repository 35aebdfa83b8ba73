package hadronia

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Configuration struct {
	FileIn                  string      `json:"file_in" toml:"file_in"`
	FileOut                 string      `json:"file_out" toml:"file_out"`
	Criteria                string      `json:"criteria" toml:"criteria"`
	Mode                    Mode        `json:"mode" toml:"mode"`
	Acceptance              string      `json:"acceptance" toml:"acceptance"`
	Rules                   RulesConfig `json:"rules" toml:"rules"`
	Cuts                    Cuts        `json:"cuts" toml:"cuts"`
	MaxEvents               int         `json:"max_events" toml:"max_events"`
	Skip                    int         `json:"skip" toml:"skip"`
	Verbosity               int         `json:"verbosity" toml:"verbosity"`
	NumWorkers              int         `json:"num_workers" toml:"num_workers"`
	Parallel                bool        `json:"parallel" toml:"parallel"`
	MaxCombinations         int         `json:"max_combinations" toml:"max_combinations"`
	AllowDiquarkDescendants bool        `json:"allow_diquark_descendants" toml:"allow_diquark_descendants"`
	RecomputeDiquark        bool        `json:"recompute_diquark" toml:"recompute_diquark"`
	CompressionLevel        int         `json:"compression_level" toml:"compression_level"`
	ProgressEvery           int         `json:"progress_every" toml:"progress_every"`
	PrintCandidates         int         `json:"print_candidates" toml:"print_candidates"`
	NoDB                    bool        `json:"no_db" toml:"no_db"`
	Host                    string      `json:"host" toml:"host"`
	User                    string      `json:"user" toml:"user"`
	Passwd                  string      `json:"pass" toml:"pass"`
	DBName                  string      `json:"dbname" toml:"dbname"`
	MetricsAddr             string      `json:"metrics_addr" toml:"metrics_addr"`
}

// ConditionConfig is the file form of a ParticleCondition. Omitted fields
// are wildcards.
type ConditionConfig struct {
	ParentPid      *int `json:"parent_pid,omitempty" toml:"parent_pid,omitempty"`
	GrandParentPid *int `json:"grandparent_pid,omitempty" toml:"grandparent_pid,omitempty"`
}

type RulesConfig struct {
	Conditions    []ConditionConfig `json:"conditions" toml:"conditions"`
	Relationships []Relationship    `json:"relationships" toml:"relationships"`
}

func (r RulesConfig) FilterRules() FilterRules {
	var rules FilterRules
	for _, c := range r.Conditions {
		condition := AnyParticle()
		if c.ParentPid != nil {
			condition.ParentPid = *c.ParentPid
		}
		if c.GrandParentPid != nil {
			condition.GrandParentPid = *c.GrandParentPid
		}
		rules.AddParticleCondition(condition)
	}
	for _, rel := range r.Relationships {
		rules.AddRelationship(rel.First, rel.Second, rel.Types...)
	}
	return rules
}

func DefaultConfiguration() Configuration {
	var config Configuration
	config.FileOut = "hadronia.h5"
	config.Mode = SingleHadron
	config.Acceptance = AcceptanceAll
	config.MaxEvents = 1000000000
	config.Skip = 0
	config.Verbosity = 0
	config.NumWorkers = 1
	config.Parallel = false
	config.MaxCombinations = 100000
	config.CompressionLevel = 4
	config.ProgressEvery = 10000
	config.PrintCandidates = 20
	config.NoDB = true
	config.Host = "localhost"
	config.User = "reader"
	config.Passwd = "readonly"
	config.DBName = "conditions"
	return config
}

// LoadConfiguration reads a JSON or TOML (by extension) configuration on
// top of the defaults.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		err = toml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, fmt.Errorf("error decoding %s: %w", filename, err)
	}
	return config, nil
}

// Validate checks the settings that would otherwise fail on every event.
func (c Configuration) Validate() error {
	if _, err := ParsePattern(c.Criteria); err != nil {
		return err
	}
	if c.Mode != SingleHadron && c.Mode != DiHadron {
		return &ErrUnknownMode{Mode: c.Mode}
	}
	if c.Mode == DiHadron {
		pattern, _ := ParsePattern(c.Criteria)
		if len(pattern.Groups) != 2 {
			return &ErrIncompatibleArity{Want: 2, Got: len(pattern.Groups)}
		}
	}
	if err := c.Cuts.Validate(c.Mode); err != nil {
		return err
	}
	if c.NumWorkers < 1 {
		return fmt.Errorf("num_workers must be positive, got %d", c.NumWorkers)
	}
	return nil
}
