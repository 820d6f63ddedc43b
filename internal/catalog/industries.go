package catalog

import (
	"maps"
	"slices"
)

// IndustryProfile weights stages for an industry and names the network
// that industry prefers.
type IndustryProfile struct {
	Name             string            `json:"name" yaml:"name"`
	LayerWeights     map[Stage]float64 `json:"layer_weights" yaml:"layer_weights"`
	PreferredNetwork NetworkName       `json:"preferred_network" yaml:"preferred_network"`
}

// LayerWeight returns the weight for a stage, 1.0 when unweighted.
func (p IndustryProfile) LayerWeight(s Stage) float64 {
	if w, ok := p.LayerWeights[s]; ok {
		return w
	}
	return 1.0
}

var industryTable = map[string]IndustryProfile{
	"healthcare": {
		Name:             "healthcare",
		LayerWeights:     map[Stage]float64{1: 1.2, 2: 1.5, 3: 1.0, 4: 1.8, 5: 1.3},
		PreferredNetwork: NetworkSecurityFocused,
	},
	"finance": {
		Name:             "finance",
		LayerWeights:     map[Stage]float64{1: 1.1, 2: 1.2, 3: 1.0, 4: 2.0, 5: 1.5},
		PreferredNetwork: NetworkSecurityFocused,
	},
	"education": {
		Name:             "education",
		LayerWeights:     map[Stage]float64{1: 1.5, 2: 1.0, 3: 1.0, 4: 0.8, 5: 1.7},
		PreferredNetwork: NetworkAgile,
	},
	"startup": {
		Name:             "startup",
		LayerWeights:     map[Stage]float64{1: 0.9, 2: 0.8, 3: 1.2, 4: 0.7, 5: 0.7},
		PreferredNetwork: NetworkIterativeDevelopment,
	},
	"government": {
		Name:             "government",
		LayerWeights:     map[Stage]float64{1: 1.8, 2: 1.5, 3: 1.0, 4: 1.3, 5: 1.9},
		PreferredNetwork: NetworkStandard,
	},
	"research": {
		Name:             "research",
		LayerWeights:     map[Stage]float64{1: 1.3, 2: 1.1, 3: 1.0, 4: 1.0, 5: 1.5},
		PreferredNetwork: NetworkResearch,
	},
}

// Industry returns the profile registered for an industry.
func Industry(name string) (IndustryProfile, bool) {
	p, ok := industryTable[name]
	if !ok {
		return IndustryProfile{}, false
	}
	p.LayerWeights = maps.Clone(p.LayerWeights)
	return p, true
}

// Industries lists the registered industry names, sorted.
func Industries() []string {
	return slices.Sorted(maps.Keys(industryTable))
}
