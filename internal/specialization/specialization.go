// Package specialization holds the industry verticals a project can be
// specialized for: their key concerns, per-stage prompt modifiers and
// domain evaluation criteria.
package specialization

import (
	"slices"
	"sort"

	"github.com/IlumCI/HACF/internal/catalog"
)

// Domain is one industry vertical.
type Domain struct {
	ID          string                   `json:"id" yaml:"id"`
	Name        string                   `json:"name" yaml:"name"`
	Description string                   `json:"description" yaml:"description"`
	KeyConcerns []string                 `json:"key_concerns" yaml:"key_concerns"`
	Modifiers   map[catalog.Stage]string `json:"prompt_modifiers" yaml:"prompt_modifiers"`
	Criteria    []string                 `json:"evaluation_criteria" yaml:"evaluation_criteria"`
}

func (d Domain) clone() Domain {
	out := d
	out.KeyConcerns = slices.Clone(d.KeyConcerns)
	out.Criteria = slices.Clone(d.Criteria)
	out.Modifiers = make(map[catalog.Stage]string, len(d.Modifiers))
	for k, v := range d.Modifiers {
		out.Modifiers[k] = v
	}
	return out
}

var domains = map[string]Domain{
	"healthcare": {
		Name:        "Healthcare & Life Sciences",
		Description: "Specialized behaviors for healthcare applications, including HIPAA compliance, clinical workflows, and patient data management",
		KeyConcerns: []string{
			"Protected Health Information (PHI) security",
			"HIPAA and regulatory compliance",
			"Clinical workflow integration",
			"Patient experience optimization",
			"Medical terminology accuracy",
		},
		Modifiers: map[catalog.Stage]string{
			1: "Ensure all requirements consider HIPAA compliance and patient data security. Define clear boundaries for PHI handling.",
			2: "Architecture must incorporate secure PHI storage and transmission. Consider audit logging requirements for all data access.",
			3: "Implement all code with strict input validation and output sanitization. Include comprehensive PHI access controls.",
			4: "Thoroughly audit for security vulnerabilities. Ensure all PHI is encrypted at rest and in transit.",
			5: "Document all security measures and compliance features. Include security best practices for operators.",
		},
		Criteria: []string{"phi_security", "hipaa_compliance", "clinical_workflow_compatibility", "medical_terminology_accuracy", "patient_experience_quality"},
	},
	"finance": {
		Name:        "Financial Services",
		Description: "Specialized behaviors for financial applications, focusing on security, regulatory compliance, and transaction integrity",
		KeyConcerns: []string{
			"Transaction security and integrity",
			"Financial regulatory compliance (SOX, PCI-DSS, etc.)",
			"Audit trail and transaction logging",
			"Fraud detection and prevention",
			"Financial calculation accuracy",
		},
		Modifiers: map[catalog.Stage]string{
			1: "Requirements must include comprehensive audit logging and financial regulatory compliance. Define clear transaction boundaries.",
			2: "Design architecture with transaction integrity as a core principle. Include reconciliation and verification mechanisms.",
			3: "Implement with strict transaction atomicity. Include comprehensive input validation for all financial data.",
			4: "Audit for security vulnerabilities with focus on financial fraud vectors. Implement advanced error handling for all calculations.",
			5: "Document all compliance measures and financial security features. Include disaster recovery procedures.",
		},
		Criteria: []string{"transaction_integrity", "financial_compliance", "audit_trail_completeness", "fraud_prevention_measures", "calculation_accuracy"},
	},
	"education": {
		Name:        "Education Technology",
		Description: "Specialized behaviors for educational applications, with focus on accessibility, learning outcomes, and student engagement",
		KeyConcerns: []string{
			"Accessibility compliance (WCAG, Section 508)",
			"Learning outcome measurement",
			"Student privacy (FERPA compliance)",
			"Engagement optimization",
			"Multi-platform support for diverse learning environments",
		},
		Modifiers: map[catalog.Stage]string{
			1: "Requirements must consider accessibility standards and student privacy regulations. Define clear learning objectives.",
			2: "Architecture should support diverse learning modalities and content types. Consider both synchronous and asynchronous education models.",
			3: "Implement with strong accessibility support. Include comprehensive student data privacy protections.",
			4: "Optimize for engagement and usability across different skill levels. Ensure all content is accessible.",
			5: "Document all accessibility features and learning outcome measurements. Include teacher/administrator instructions.",
		},
		Criteria: []string{"accessibility_compliance", "learning_outcome_measurement", "student_engagement", "ferpa_compliance", "multi_platform_support"},
	},
	"government": {
		Name:        "Government & Public Sector",
		Description: "Specialized behaviors for government applications, with focus on compliance, accessibility, and public service delivery",
		KeyConcerns: []string{
			"Regulatory compliance and policy adherence",
			"Accessibility requirements (ADA, Section 508)",
			"Transparent audit trails",
			"Public record management",
			"Cross-department data exchange",
		},
		Modifiers: map[catalog.Stage]string{
			1: "Requirements must address all applicable governmental regulations and policies. Define clear boundaries for public data access.",
			2: "Architecture should incorporate high-availability and disaster recovery. Consider long-term data retention requirements.",
			3: "Implement with comprehensive access controls and audit logging. Support diverse public service workflows.",
			4: "Ensure full accessibility compliance. Implement comprehensive error handling for public-facing interfaces.",
			5: "Document all compliance measures and provide detailed operational procedures. Include public data handling guidelines.",
		},
		Criteria: []string{"regulatory_adherence", "public_accessibility", "audit_transparency", "records_management", "inter_department_compatibility"},
	},
	"retail": {
		Name:        "Retail & E-commerce",
		Description: "Specialized behaviors for retail applications, focusing on customer experience, inventory management, and sales optimization",
		KeyConcerns: []string{
			"Customer journey optimization",
			"Payment processing security",
			"Inventory management",
			"Promotional campaign support",
			"Multi-channel commerce integration",
		},
		Modifiers: map[catalog.Stage]string{
			1: "Requirements should focus on customer experience and conversion optimization. Define clear inventory and order management processes.",
			2: "Architecture should support high-volume transaction processing and seasonal scaling. Consider integrations with payment processors.",
			3: "Implement with focus on shopping cart functionality and checkout optimization. Include comprehensive inventory controls.",
			4: "Optimize for performance under high load. Ensure robust payment processing error handling.",
			5: "Document customer journey touchpoints and provide operational procedures for order management.",
		},
		Criteria: []string{"customer_journey_optimization", "payment_processing_security", "inventory_management", "promotional_flexibility", "multi_channel_integration"},
	},
	"manufacturing": {
		Name:        "Manufacturing & Supply Chain",
		Description: "Specialized behaviors for manufacturing applications, with focus on process optimization, quality control, and supply chain management",
		KeyConcerns: []string{
			"Production process integration",
			"Quality control and compliance",
			"Supply chain visibility",
			"Equipment maintenance scheduling",
			"Regulatory compliance for manufacturing",
		},
		Modifiers: map[catalog.Stage]string{
			1: "Requirements should address production workflow integration and material tracking. Define clear quality control checkpoints.",
			2: "Architecture should support real-time data collection from production equipment. Consider integration with ERP systems.",
			3: "Implement robust error handling for production-critical functions. Include comprehensive logging of all production steps.",
			4: "Optimize for reliability in manufacturing environments. Ensure data integrity for quality control measurements.",
			5: "Document all production-related features and provide detailed integration instructions for manufacturing systems.",
		},
		Criteria: []string{"production_process_integration", "quality_control_support", "supply_chain_visibility", "equipment_integration", "manufacturing_compliance"},
	},
}

// Lookup returns the specialization of a domain.
func Lookup(id string) (Domain, bool) {
	d, ok := domains[id]
	if !ok {
		return Domain{}, false
	}
	d = d.clone()
	d.ID = id
	return d, true
}

// Available lists every specialization sorted by ID.
func Available() []Domain {
	ids := make([]string, 0, len(domains))
	for id := range domains {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Domain, 0, len(ids))
	for _, id := range ids {
		d, _ := Lookup(id)
		out = append(out, d)
	}
	return out
}

// PromptModifier returns the domain's instruction for a stage, or "".
func PromptModifier(domain string, stage catalog.Stage) string {
	return domains[domain].Modifiers[stage]
}

// Apply appends the domain's stage modifier to prompt. Prompts for stages
// or domains without a modifier are returned unchanged.
func Apply(prompt, domain string, stage catalog.Stage) string {
	modifier := PromptModifier(domain, stage)
	if modifier == "" {
		return prompt
	}
	return prompt + "\n\n[DOMAIN SPECIALIZATION: " + modifier + "]"
}

// EvaluationCriteria returns the domain's extra evaluation criteria.
func EvaluationCriteria(domain string) []string {
	return slices.Clone(domains[domain].Criteria)
}
