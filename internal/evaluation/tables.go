package evaluation

import (
	"fmt"

	"github.com/IlumCI/HACF/internal/catalog"
)

// --- Dimension enum ---

// Dimension is one axis of an evaluation.
type Dimension string

const (
	Completeness    Dimension = "completeness"
	Correctness     Dimension = "correctness"
	Efficiency      Dimension = "efficiency"
	Innovation      Dimension = "innovation"
	Maintainability Dimension = "maintainability"
	Usability       Dimension = "usability"
)

// Dimensions lists the six dimensions in canonical order. Criterion
// mapping tries them in this order.
func Dimensions() []Dimension {
	return []Dimension{Completeness, Correctness, Efficiency, Innovation, Maintainability, Usability}
}

// ValidateDimension returns an error if the dimension is not recognized.
func ValidateDimension(d Dimension) error {
	if _, ok := dimensionInfo[d]; !ok {
		return fmt.Errorf("invalid dimension %q: must be one of: completeness, correctness, efficiency, innovation, maintainability, usability", d)
	}
	return nil
}

type dimensionDef struct {
	description string
	weight      float64
	keywords    []string
	advice      string
}

var dimensionInfo = map[Dimension]dimensionDef{
	Completeness: {
		description: "Measures how fully the output addresses all requirements",
		weight:      0.25,
		keywords:    []string{"completeness", "coverage", "scope", "requirement"},
		advice:      "Work on more comprehensive coverage of all requirements",
	},
	Correctness: {
		description: "Measures the technical accuracy and compliance with standards",
		weight:      0.25,
		keywords:    []string{"correctness", "accuracy", "compliance", "soundness"},
		advice:      "Focus on technical accuracy and standards compliance",
	},
	Efficiency: {
		description: "Measures resource usage, performance, and optimization",
		weight:      0.15,
		keywords:    []string{"efficiency", "performance", "resource", "optimization"},
		advice:      "Improve resource usage and performance optimization",
	},
	Innovation: {
		description: "Measures uniqueness and creative problem-solving",
		weight:      0.10,
		keywords:    []string{"innovation", "creative", "unique"},
		advice:      "Consider more creative or unique approaches",
	},
	Maintainability: {
		description: "Measures code organization, documentation, and future adaptability",
		weight:      0.15,
		keywords:    []string{"maintainability", "documentation", "organization"},
		advice:      "Enhance code organization and documentation",
	},
	Usability: {
		description: "Measures end-user experience and interface quality",
		weight:      0.10,
		keywords:    []string{"usability", "user", "interface", "experience"},
		advice:      "Improve user experience and interface design",
	},
}

// DefaultWeight returns the generic weight of a dimension.
func DefaultWeight(d Dimension) float64 { return dimensionInfo[d].weight }

// Describe returns the one-line description of a dimension.
func Describe(d Dimension) string { return dimensionInfo[d].description }

// Weights maps every dimension to its weight.
type Weights map[Dimension]float64

// Sum adds up all weights.
func (w Weights) Sum() float64 {
	var total float64
	for _, d := range Dimensions() {
		total += w[d]
	}
	return total
}

func (w Weights) clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// StageCriteria is the evaluation table of one stage.
type StageCriteria struct {
	Criteria []string
	Weights  Weights
}

// stageCriteria holds the per-stage tables. Stage 0 fills the four
// dimensions it does not weight explicitly with their generic weights.
var stageCriteria = map[catalog.Stage]StageCriteria{
	catalog.StageRequirementValidation: {
		Criteria: []string{"stakeholder_validation", "requirement_completeness", "feasibility_assessment", "acceptance_criteria_clarity", "constraint_identification"},
		Weights:  Weights{Completeness: 0.30, Correctness: 0.25, Efficiency: 0.10, Innovation: 0.10, Maintainability: 0.15, Usability: 0.10},
	},
	catalog.StageTaskDefinition: {
		Criteria: []string{"requirement_clarity", "scope_definition", "constraint_identification", "user_story_completeness", "feasibility_assessment"},
		Weights:  Weights{Completeness: 0.35, Correctness: 0.20, Efficiency: 0.05, Innovation: 0.20, Maintainability: 0.05, Usability: 0.15},
	},
	catalog.StageAnalysisResearch: {
		Criteria: []string{"market_analysis_depth", "competitor_evaluation", "technology_assessment", "feasibility_validation", "risk_identification"},
		Weights:  Weights{Completeness: 0.25, Correctness: 0.30, Efficiency: 0.10, Innovation: 0.20, Maintainability: 0.05, Usability: 0.10},
	},
	catalog.StageRefinement: {
		Criteria: []string{"architecture_soundness", "technical_feasibility", "scalability_consideration", "dependency_management", "interface_definition"},
		Weights:  Weights{Completeness: 0.20, Correctness: 0.35, Efficiency: 0.15, Innovation: 0.15, Maintainability: 0.10, Usability: 0.05},
	},
	catalog.StagePrototyping: {
		Criteria: []string{"concept_validation", "visual_representation", "implementation_fidelity", "user_feedback_collection", "rapid_iteration"},
		Weights:  Weights{Completeness: 0.15, Correctness: 0.20, Efficiency: 0.10, Innovation: 0.30, Maintainability: 0.05, Usability: 0.20},
	},
	catalog.StageDevelopment: {
		Criteria: []string{"code_functionality", "api_implementation", "error_handling", "coding_standards", "test_coverage"},
		Weights:  Weights{Completeness: 0.25, Correctness: 0.30, Efficiency: 0.15, Innovation: 0.05, Maintainability: 0.20, Usability: 0.05},
	},
	catalog.StageTesting: {
		Criteria: []string{"test_coverage", "edge_case_handling", "integration_validation", "security_testing", "performance_testing"},
		Weights:  Weights{Completeness: 0.25, Correctness: 0.40, Efficiency: 0.15, Innovation: 0.05, Maintainability: 0.10, Usability: 0.05},
	},
	catalog.StageOptimization: {
		Criteria: []string{"performance_improvement", "security_hardening", "resource_usage", "error_reduction", "edge_case_handling"},
		Weights:  Weights{Completeness: 0.15, Correctness: 0.25, Efficiency: 0.30, Innovation: 0.10, Maintainability: 0.15, Usability: 0.05},
	},
	catalog.StageDeploymentPreparation: {
		Criteria: []string{"infrastructure_configuration", "ci_cd_pipeline_setup", "environment_provisioning", "deployment_automation", "rollback_procedures"},
		Weights:  Weights{Completeness: 0.20, Correctness: 0.30, Efficiency: 0.25, Innovation: 0.05, Maintainability: 0.15, Usability: 0.05},
	},
	catalog.StageFinalOutput: {
		Criteria: []string{"documentation_quality", "code_organization", "deployment_readiness", "user_guide_clarity", "overall_cohesion"},
		Weights:  Weights{Completeness: 0.25, Correctness: 0.15, Efficiency: 0.10, Innovation: 0.05, Maintainability: 0.25, Usability: 0.20},
	},
	catalog.StageMonitoring: {
		Criteria: []string{"monitoring_coverage", "analytics_implementation", "feedback_collection_mechanisms", "alerting_system_setup", "dashboard_usability"},
		Weights:  Weights{Completeness: 0.20, Correctness: 0.20, Efficiency: 0.15, Innovation: 0.10, Maintainability: 0.15, Usability: 0.20},
	},
	catalog.StageEvolution: {
		Criteria: []string{"maintenance_planning", "roadmap_development", "technical_debt_management", "scalability_assessment", "long_term_sustainability"},
		Weights:  Weights{Completeness: 0.15, Correctness: 0.15, Efficiency: 0.10, Innovation: 0.15, Maintainability: 0.35, Usability: 0.10},
	},
}

// CriteriaFor returns a copy of a stage's table. Unknown stages get the
// stage 1 table; ok reports whether the stage had its own.
func CriteriaFor(stage catalog.Stage) (sc StageCriteria, ok bool) {
	sc, ok = stageCriteria[stage]
	if !ok {
		sc = stageCriteria[catalog.StageTaskDefinition]
	}
	return StageCriteria{
		Criteria: append([]string(nil), sc.Criteria...),
		Weights:  sc.Weights.clone(),
	}, ok
}

// IndustryAdjustment extends criteria and scales dimension weights for an
// industry.
type IndustryAdjustment struct {
	Criteria    []string
	Multipliers Weights
}

var industryAdjustments = map[string]IndustryAdjustment{
	"healthcare": {
		Criteria:    []string{"hipaa_compliance", "patient_data_security", "clinical_workflow_integration"},
		Multipliers: Weights{Correctness: 1.3, Efficiency: 0.9, Usability: 1.2},
	},
	"finance": {
		Criteria:    []string{"transaction_security", "audit_trail_completeness", "regulatory_compliance"},
		Multipliers: Weights{Correctness: 1.4, Efficiency: 1.1, Innovation: 0.8},
	},
	"education": {
		Criteria:    []string{"accessibility_compliance", "learning_outcome_alignment", "student_engagement"},
		Multipliers: Weights{Usability: 1.4, Completeness: 1.1, Efficiency: 0.9},
	},
}

// AdjustmentFor returns the registered adjustment of an industry.
func AdjustmentFor(industry string) (IndustryAdjustment, bool) {
	adj, ok := industryAdjustments[industry]
	if !ok {
		return IndustryAdjustment{}, false
	}
	return IndustryAdjustment{
		Criteria:    append([]string(nil), adj.Criteria...),
		Multipliers: adj.Multipliers.clone(),
	}, true
}

// Multiplier returns the weight multiplier for a dimension, 1.0 when the
// industry does not scale it.
func (a IndustryAdjustment) Multiplier(d Dimension) float64 {
	if m, ok := a.Multipliers[d]; ok {
		return m
	}
	return 1.0
}

// Apply extends sc with the industry's criteria and returns weights scaled
// by the industry's multipliers and renormalized to sum to 1.
func (a IndustryAdjustment) Apply(sc StageCriteria) StageCriteria {
	out := StageCriteria{
		Criteria: append(append([]string(nil), sc.Criteria...), a.Criteria...),
		Weights:  make(Weights, len(sc.Weights)),
	}
	for _, d := range Dimensions() {
		out.Weights[d] = sc.Weights[d] * a.Multiplier(d)
	}
	if sum := out.Weights.Sum(); sum > 0 {
		for d, w := range out.Weights {
			out.Weights[d] = w / sum
		}
	}
	return out
}
