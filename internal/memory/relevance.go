package memory

import (
	"strings"

	"github.com/IlumCI/HACF/internal/catalog"
)

// Relevance weights.
const (
	layerWeight    = 0.4
	priorityWeight = 0.3
	keywordWeight  = 0.2
	usageWeight    = 0.1

	neutralKeywordScore = 0.5
	usageSaturation     = 5.0
)

// layerRelevance[source][target] is the relevance of a memory created at
// stage source when queried from stage target. Only stages 1..5 are
// tabulated; every other pair scores zero.
var layerRelevance = map[catalog.Stage]map[catalog.Stage]float64{
	1: {1: 1.0, 2: 0.9, 3: 0.7, 4: 0.5, 5: 0.8},
	2: {1: 0.4, 2: 1.0, 3: 0.9, 4: 0.7, 5: 0.7},
	3: {1: 0.2, 2: 0.5, 3: 1.0, 4: 0.9, 5: 0.8},
	4: {1: 0.3, 2: 0.6, 3: 0.8, 4: 1.0, 5: 0.9},
	5: {1: 0.2, 2: 0.3, 3: 0.4, 4: 0.5, 5: 1.0},
}

// LayerRelevance returns the stage affinity term, 0 outside the 1..5 table.
func LayerRelevance(source, target catalog.Stage) float64 {
	return layerRelevance[source][target]
}

// KeywordScore counts keyword hits in the content and in string-valued
// metadata, normalized by twice the keyword count and capped at 1. With
// no keywords the score is neutral (0.5).
func KeywordScore(r Record, keywords []string) float64 {
	if len(keywords) == 0 {
		return neutralKeywordScore
	}
	content := strings.ToLower(r.Content)
	matches := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(content, kw) {
			matches++
		}
		for _, v := range r.Metadata {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), kw) {
				matches++
			}
		}
	}
	return min(1.0, float64(matches)/float64(2*len(keywords)))
}

// UsageFactor saturates at five retrievals.
func UsageFactor(usageCount int) float64 {
	return min(1.0, float64(usageCount)/usageSaturation)
}

// Relevance scores a record for a query from the current stage.
func Relevance(r Record, current catalog.Stage, keywords []string) float64 {
	return layerWeight*LayerRelevance(r.SourceStage, current) +
		priorityWeight*PriorityWeight(r.Priority) +
		keywordWeight*KeywordScore(r, keywords) +
		usageWeight*UsageFactor(r.UsageCount)
}
