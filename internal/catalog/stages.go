// Package catalog is the static registry the engine plans against: the
// twelve workflow stages, the five named transition networks and the
// industry profiles that pick a network and weight the stages.
//
// Everything here is compiled in and immutable. Accessors hand out copies
// so callers can never mutate the shared tables.
package catalog

import "fmt"

// Stage identifies one of the twelve workflow stages (0..11).
type Stage int

const (
	StageRequirementValidation Stage = iota
	StageTaskDefinition
	StageAnalysisResearch
	StageRefinement
	StagePrototyping
	StageDevelopment
	StageTesting
	StageOptimization
	StageDeploymentPreparation
	StageFinalOutput
	StageMonitoring
	StageEvolution
)

// FirstStage and LastStage bound the valid stage range.
const (
	FirstStage = StageRequirementValidation
	LastStage  = StageEvolution
)

// Valid reports whether s is one of the twelve catalogued stages.
func (s Stage) Valid() bool {
	return s >= FirstStage && s <= LastStage
}

// Name returns the catalogued stage name, or "Stage N" for unknown stages.
func (s Stage) Name() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage %d", int(s))
	}
	return stageTable[s].Name
}

// ValidateStage returns an error if the stage is outside the catalog.
func ValidateStage(s Stage) error {
	if !s.Valid() {
		return fmt.Errorf("invalid stage %d: must be between %d and %d", int(s), FirstStage, LastStage)
	}
	return nil
}

// StageInfo describes a catalogued stage.
type StageInfo struct {
	ID               Stage    `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Description      string   `json:"description" yaml:"description"`
	Model            string   `json:"model" yaml:"model"`
	Responsibilities []string `json:"responsibilities" yaml:"responsibilities"`
}

const (
	modelLlama     = "meta-llama/Meta-Llama-3.1-405B-Instruct-Turbo"
	modelReasoner  = "deepseek-reasoner"
	modelCodestral = "codestral-latest"
	modelSonnet    = "claude-3-7-sonnet"
	modelGPT4o     = "gpt-4o"
)

var stageTable = [...]StageInfo{
	StageRequirementValidation: {
		ID:          StageRequirementValidation,
		Name:        "Requirement Validation",
		Description: "Validates project requirements, gathers stakeholder feedback, and identifies early constraints",
		Model:       modelLlama,
		Responsibilities: []string{
			"Validate user requirements for clarity and completeness",
			"Gather and incorporate stakeholder feedback",
			"Identify early project constraints and limitations",
			"Perform initial feasibility assessment",
			"Establish acceptance criteria",
		},
	},
	StageTaskDefinition: {
		ID:          StageTaskDefinition,
		Name:        "Task Definition",
		Description: "Defines project goals, detailed requirements, and constraints",
		Model:       modelLlama,
		Responsibilities: []string{
			"Convert user requirements into structured project plans",
			"Define clear project goals and objectives",
			"Outline constraints and limitations",
			"Create initial project scope definition",
			"Structure requirements into actionable tasks",
		},
	},
	StageAnalysisResearch: {
		ID:          StageAnalysisResearch,
		Name:        "Analysis & Research",
		Description: "Conducts market research, competitor analysis, and technology assessment",
		Model:       modelReasoner,
		Responsibilities: []string{
			"Perform market and competitor analysis",
			"Evaluate available technologies and tools",
			"Research similar solutions and best practices",
			"Analyze technical feasibility of requirements",
			"Identify potential challenges and risks",
		},
	},
	StageRefinement: {
		ID:          StageRefinement,
		Name:        "Refinement",
		Description: "Creates system architecture, selects appropriate technologies, and develops a detailed plan",
		Model:       modelReasoner,
		Responsibilities: []string{
			"Define system architecture and components",
			"Select optimal technologies and frameworks",
			"Create detailed implementation plan",
			"Design data models and relationships",
			"Ensure technical consistency across components",
		},
	},
	StagePrototyping: {
		ID:          StagePrototyping,
		Name:        "Prototyping",
		Description: "Builds rapid prototypes, validates concepts, and creates visual representations",
		Model:       modelCodestral,
		Responsibilities: []string{
			"Develop proof-of-concept implementations",
			"Create UI/UX mockups and wireframes",
			"Build functional prototypes for validation",
			"Test critical functionality assumptions",
			"Gather early feedback on design concepts",
		},
	},
	StageDevelopment: {
		ID:          StageDevelopment,
		Name:        "Development",
		Description: "Implements full code solutions based on approved designs and prototypes",
		Model:       modelCodestral,
		Responsibilities: []string{
			"Write production-ready code",
			"Implement frontend and backend components",
			"Develop database schema and interactions",
			"Create APIs and service integrations",
			"Follow coding standards and best practices",
		},
	},
	StageTesting: {
		ID:          StageTesting,
		Name:        "Testing & Quality Assurance",
		Description: "Performs comprehensive testing including unit, integration, and quality assessment",
		Model:       modelSonnet,
		Responsibilities: []string{
			"Develop and execute unit tests",
			"Perform integration and system testing",
			"Conduct user acceptance testing",
			"Ensure code quality and standards compliance",
			"Validate functionality against requirements",
		},
	},
	StageOptimization: {
		ID:          StageOptimization,
		Name:        "Optimization",
		Description: "Debugs code, improves performance, and enhances security measures",
		Model:       modelGPT4o,
		Responsibilities: []string{
			"Identify and fix bugs and issues",
			"Optimize performance and resource usage",
			"Implement security enhancements",
			"Refactor code for readability and maintainability",
			"Conduct code reviews and address feedback",
		},
	},
	StageDeploymentPreparation: {
		ID:          StageDeploymentPreparation,
		Name:        "Deployment Preparation",
		Description: "Sets up infrastructure, configures CI/CD pipelines, and provisions environments",
		Model:       modelGPT4o,
		Responsibilities: []string{
			"Configure deployment environments",
			"Set up continuous integration/deployment pipelines",
			"Prepare infrastructure for production",
			"Configure monitoring and logging solutions",
			"Create deployment and rollback procedures",
		},
	},
	StageFinalOutput: {
		ID:          StageFinalOutput,
		Name:        "Final Output",
		Description: "Creates comprehensive documentation, packages deliverables, and finalizes delivery",
		Model:       modelSonnet,
		Responsibilities: []string{
			"Generate comprehensive documentation",
			"Package code and assets for delivery",
			"Create user guides and instructions",
			"Prepare project handover materials",
			"Ensure all deliverables meet quality standards",
		},
	},
	StageMonitoring: {
		ID:          StageMonitoring,
		Name:        "Monitoring & Feedback",
		Description: "Establishes monitoring systems, collects user feedback, and implements analytics",
		Model:       modelGPT4o,
		Responsibilities: []string{
			"Set up application and performance monitoring",
			"Implement feedback collection mechanisms",
			"Configure analytics and reporting",
			"Create dashboards and visualization tools",
			"Establish alerting and notification systems",
		},
	},
	StageEvolution: {
		ID:          StageEvolution,
		Name:        "Evolution & Maintenance",
		Description: "Plans ongoing maintenance, creates future roadmaps, and manages technical debt",
		Model:       modelLlama,
		Responsibilities: []string{
			"Develop maintenance and support plans",
			"Create feature roadmap for future development",
			"Manage and prioritize technical debt",
			"Plan for scalability and future enhancements",
			"Document long-term sustainability strategies",
		},
	},
}

// StageByID returns the catalog entry for a stage.
func StageByID(s Stage) (StageInfo, bool) {
	if !s.Valid() {
		return StageInfo{}, false
	}
	return cloneStage(stageTable[s]), true
}

// Stages returns every catalogued stage in order.
func Stages() []StageInfo {
	out := make([]StageInfo, len(stageTable))
	for i, info := range stageTable {
		out[i] = cloneStage(info)
	}
	return out
}

func cloneStage(info StageInfo) StageInfo {
	info.Responsibilities = append([]string(nil), info.Responsibilities...)
	return info
}
