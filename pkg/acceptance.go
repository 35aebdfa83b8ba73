package hadronia

import (
	"fmt"
	"math"
	"strings"
)

// AcceptanceRule restricts a particle type by polar angle (degrees) and
// momentum/energy thresholds (GeV). Zero MaxTheta means no upper bound.
type AcceptanceRule struct {
	MinTheta float64 `json:"min_theta" toml:"min_theta" db:"MinTheta"`
	MaxTheta float64 `json:"max_theta" toml:"max_theta" db:"MaxTheta"`
	MinP     float64 `json:"min_p" toml:"min_p" db:"MinP"`
	MinE     float64 `json:"min_e" toml:"min_e" db:"MinE"`
}

func (r AcceptanceRule) Accepts(p Particle) bool {
	mom := math.Sqrt(p.Px*p.Px + p.Py*p.Py + p.Pz*p.Pz)
	theta := 0.0
	if mom > 0 {
		theta = math.Acos(p.Pz/mom) * 180 / math.Pi
	}
	if theta < r.MinTheta {
		return false
	}
	if r.MaxTheta > 0 && theta > r.MaxTheta {
		return false
	}
	return mom >= r.MinP && p.E >= r.MinE
}

// AcceptanceProfile is a named set of detector-like eligibility rules keyed
// by particle code. Types without a rule fall back to Default; with no
// Default they are rejected. A profile without rules accepts everything.
type AcceptanceProfile struct {
	Name    string
	Rules   map[int]AcceptanceRule
	Default *AcceptanceRule
}

func (a *AcceptanceProfile) Accepts(p Particle) bool {
	if a == nil || (len(a.Rules) == 0 && a.Default == nil) {
		return true
	}
	if rule, ok := a.Rules[p.Pid]; ok {
		return rule.Accepts(p)
	}
	if a.Default != nil {
		return a.Default.Accepts(p)
	}
	return false
}

const (
	AcceptanceAll    = "ALL"
	AcceptanceCLAS12 = "CLAS12"
)

// forward detector of CLAS12: 5-35 degrees
var clas12Charged = AcceptanceRule{MinTheta: 5, MaxTheta: 35, MinP: 0.2}

var builtinProfiles = map[string]AcceptanceProfile{
	AcceptanceAll: {Name: AcceptanceAll},
	AcceptanceCLAS12: {
		Name: AcceptanceCLAS12,
		Rules: map[int]AcceptanceRule{
			11:    {MinTheta: 5, MaxTheta: 35, MinP: 2.0},
			-11:   {MinTheta: 5, MaxTheta: 35, MinP: 2.0},
			211:   clas12Charged,
			-211:  clas12Charged,
			321:   clas12Charged,
			-321:  clas12Charged,
			2212:  clas12Charged,
			-2212: clas12Charged,
			22:    {MinTheta: 5, MaxTheta: 35, MinE: 0.2},
			2112:  {MinTheta: 5, MaxTheta: 35, MinP: 0.2},
		},
	},
}

// BuiltinAcceptance returns one of the predefined profiles. An empty name
// selects ALL.
func BuiltinAcceptance(name string) (*AcceptanceProfile, error) {
	if name == "" {
		name = AcceptanceAll
	}
	profile, ok := builtinProfiles[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("unknown acceptance profile %q", name)
	}
	return &profile, nil
}
