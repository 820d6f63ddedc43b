package checkpoint

import "github.com/IlumCI/HACF/internal/catalog"

var stageDefaults = map[catalog.Stage][]Definition{
	catalog.StageRequirementValidation: {
		{TypeGuidance, "Stakeholder Requirement Guidance", "Human stakeholders provide initial guidance on requirements and constraints", []string{"domain_knowledge", "stakeholder_management"}, PositionBefore, false},
		{TypeReview, "Initial Validation Review", "Human reviews AI-validated requirements for completeness and accuracy", []string{"business_analysis", "requirements_engineering"}, PositionAfter, false},
	},
	catalog.StageTaskDefinition: {
		{TypeGuidance, "Initial Project Scope Guidance", "Human provides initial guidance on project scope and key requirements", []string{"business_analysis", "requirements_gathering"}, PositionBefore, false},
		{TypeReview, "Requirements Review", "Human reviews AI-generated requirements and provides feedback", []string{"business_analysis", "domain_knowledge"}, PositionAfter, false},
	},
	catalog.StageAnalysisResearch: {
		{TypeGuidance, "Research Focus Guidance", "Human provides guidance on research focus areas and priorities", []string{"market_research", "competitive_analysis"}, PositionBefore, true},
		{TypeReview, "Research Findings Review", "Human reviews research findings and provides additional context", []string{"domain_expertise", "technology_assessment"}, PositionAfter, false},
	},
	catalog.StageRefinement: {
		{TypeDecision, "Architecture Approach Selection", "Human selects preferred architecture approach from AI-generated alternatives", []string{"system_architecture", "technical_planning"}, PositionDuring, true},
		{TypeCorrection, "Technical Feasibility Assessment", "Human reviews and corrects technical approach for feasibility", []string{"system_architecture", "development_experience"}, PositionAfter, false},
	},
	catalog.StagePrototyping: {
		{TypeGuidance, "Prototype Focus Guidance", "Human provides guidance on prototype focus areas and key features", []string{"product_design", "user_experience"}, PositionBefore, true},
		{TypeReview, "Prototype Evaluation", "Human evaluates prototype functionality and provides feedback", []string{"usability_testing", "product_design"}, PositionAfter, false},
	},
	catalog.StageDevelopment: {
		{TypeGuidance, "Development Approach Guidance", "Human provides guidance on development approach and key implementation details", []string{"software_development", "coding_standards"}, PositionBefore, true},
		{TypeCorrection, "Code Review", "Human reviews AI-generated code and provides corrections", []string{"software_development", "code_review"}, PositionAfter, false},
	},
	catalog.StageTesting: {
		{TypeGuidance, "Test Strategy Guidance", "Human provides guidance on testing strategy and focus areas", []string{"quality_assurance", "test_planning"}, PositionBefore, true},
		{TypeReview, "Test Results Review", "Human reviews test results and identifies gaps in coverage", []string{"quality_assurance", "test_analysis"}, PositionAfter, false},
	},
	catalog.StageOptimization: {
		{TypeGuidance, "Optimization Priority Guidance", "Human sets priorities for optimization efforts", []string{"performance_optimization", "security_expertise"}, PositionBefore, true},
		{TypeReview, "Security Review", "Human reviews security measures and provides feedback", []string{"security_expertise", "risk_assessment"}, PositionAfter, false},
	},
	catalog.StageDeploymentPreparation: {
		{TypeGuidance, "Infrastructure Strategy", "Human provides guidance on infrastructure and deployment approach", []string{"devops", "cloud_architecture"}, PositionBefore, true},
		{TypeReview, "Deployment Readiness Review", "Human reviews deployment configuration and provides feedback", []string{"devops", "infrastructure_management"}, PositionAfter, false},
	},
	catalog.StageFinalOutput: {
		{TypeExtension, "Documentation Enhancement", "Human extends AI-generated documentation with additional insights", []string{"technical_writing", "user_experience"}, PositionDuring, true},
		{TypeReview, "Final Deliverable Review", "Human conducts final review of complete project deliverables", []string{"project_management", "quality_assurance"}, PositionAfter, false},
	},
	catalog.StageMonitoring: {
		{TypeGuidance, "Monitoring Requirements", "Human provides guidance on monitoring requirements and metrics", []string{"system_monitoring", "analytics"}, PositionBefore, true},
		{TypeReview, "Monitoring Setup Review", "Human reviews monitoring configuration and provides feedback", []string{"devops", "system_monitoring"}, PositionAfter, false},
	},
	catalog.StageEvolution: {
		{TypeGuidance, "Maintenance Strategy", "Human provides guidance on maintenance approach and roadmap", []string{"product_management", "technical_planning"}, PositionBefore, true},
		{TypeReview, "Maintenance Plan Review", "Human reviews maintenance plan and provides feedback", []string{"support_management", "technical_debt_management"}, PositionAfter, false},
	},
}

type stageExtra struct {
	stage catalog.Stage
	def   Definition
}

var industryExtras = map[string][]stageExtra{
	"healthcare": {
		{catalog.StageAnalysisResearch, Definition{TypeReview, "HIPAA Compliance Review", "Healthcare compliance expert reviews architecture for HIPAA compliance", []string{"hipaa_expertise", "healthcare_compliance"}, PositionAfter, false}},
		{catalog.StagePrototyping, Definition{TypeReview, "PHI Security Audit", "Security expert audits PHI protection measures", []string{"healthcare_security", "data_protection"}, PositionAfter, false}},
	},
	"finance": {
		{catalog.StageAnalysisResearch, Definition{TypeReview, "Financial Compliance Review", "Financial compliance expert reviews architecture", []string{"financial_regulations", "compliance_expertise"}, PositionAfter, false}},
		{catalog.StageRefinement, Definition{TypeCorrection, "Financial Calculation Verification", "Financial expert verifies calculation implementation", []string{"financial_analysis", "accounting_principles"}, PositionAfter, false}},
	},
}
