package catalog

import (
	"fmt"
	"slices"
)

// NetworkName identifies a transition network.
type NetworkName string

const (
	NetworkStandard             NetworkName = "standard"
	NetworkAgile                NetworkName = "agile"
	NetworkResearch             NetworkName = "research"
	NetworkSecurityFocused      NetworkName = "security_focused"
	NetworkIterativeDevelopment NetworkName = "iterative_development"
)

// networkOrder fixes the listing order of the registry.
var networkOrder = []NetworkName{
	NetworkStandard,
	NetworkAgile,
	NetworkResearch,
	NetworkSecurityFocused,
	NetworkIterativeDevelopment,
}

// ValidateNetwork returns an error if the network name is not registered.
func ValidateNetwork(n NetworkName) error {
	if _, ok := networkTable[n]; !ok {
		return fmt.Errorf("invalid network %q: must be one of: standard, agile, research, security_focused, iterative_development", n)
	}
	return nil
}

// adjacency maps a stage to its ordered list of reachable stages. The
// first entry is the network's preferred edge.
type adjacency map[Stage][]Stage

// networkTable holds the hand-authored graphs. Forward skips and backward
// loops are intentional.
var networkTable = map[NetworkName]adjacency{
	NetworkStandard: {
		0: {1}, 1: {2}, 2: {3}, 3: {4}, 4: {5}, 5: {6},
		6: {7}, 7: {8}, 8: {9}, 9: {10}, 10: {11}, 11: {},
	},
	NetworkAgile: {
		0:  {1},
		1:  {2, 3},
		2:  {3, 4},
		3:  {4, 5},
		4:  {3, 5, 6},
		5:  {4, 6, 7},
		6:  {5, 7, 8},
		7:  {5, 6, 8, 9},
		8:  {7, 9, 10},
		9:  {10, 7, 8},
		10: {11, 7, 8, 9},
		11: {7, 10},
	},
	NetworkResearch: {
		0:  {1, 2},
		1:  {0, 2, 3, 4},
		2:  {1, 3, 4, 5},
		3:  {1, 2, 4, 5, 6},
		4:  {2, 3, 5, 6, 7},
		5:  {3, 4, 6, 7, 8},
		6:  {4, 5, 7, 8, 9},
		7:  {5, 6, 8, 9, 10},
		8:  {6, 7, 9, 10, 11},
		9:  {7, 8, 10, 11},
		10: {7, 8, 9, 11},
		11: {7, 8, 9, 10},
	},
	NetworkSecurityFocused: {
		0:  {1},
		1:  {2},
		2:  {3},
		3:  {4},
		4:  {5, 6},
		5:  {6, 3, 4},
		6:  {7, 5, 4},
		7:  {8, 6, 5},
		8:  {9, 7, 6},
		9:  {10, 7, 8},
		10: {11, 7},
		11: {7, 10},
	},
	NetworkIterativeDevelopment: {
		0:  {1},
		1:  {2},
		2:  {3},
		3:  {4},
		4:  {5},
		5:  {5, 6},
		6:  {5, 7},
		7:  {5, 6, 8},
		8:  {7, 9},
		9:  {5, 7, 8, 10},
		10: {7, 11},
		11: {5, 7, 10},
	},
}

// Network is a read-only view of a transition network.
type Network struct {
	name  NetworkName
	edges adjacency
}

// LookupNetwork returns the named network.
func LookupNetwork(name NetworkName) (Network, bool) {
	edges, ok := networkTable[name]
	if !ok {
		return Network{}, false
	}
	return Network{name: name, edges: edges}, true
}

// NetworkOrStandard returns the named network, or the standard network
// when the name is not registered.
func NetworkOrStandard(name NetworkName) Network {
	if n, ok := LookupNetwork(name); ok {
		return n
	}
	return Network{name: NetworkStandard, edges: networkTable[NetworkStandard]}
}

// Networks lists the registered network names.
func Networks() []NetworkName {
	return slices.Clone(networkOrder)
}

// Name returns the network's registered name.
func (n Network) Name() NetworkName { return n.name }

// Next returns the ordered successors of s. The slice is a copy; an empty
// result means the network defines no outgoing edge for s.
func (n Network) Next(s Stage) []Stage {
	return slices.Clone(n.edges[s])
}

// Allows reports whether the network has an edge from -> to.
func (n Network) Allows(from, to Stage) bool {
	return slices.Contains(n.edges[from], to)
}

// Adjacency returns a copy of the whole graph keyed by stage.
func (n Network) Adjacency() map[Stage][]Stage {
	out := make(map[Stage][]Stage, len(n.edges))
	for s, next := range n.edges {
		out[s] = slices.Clone(next)
	}
	return out
}
