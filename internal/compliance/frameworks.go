package compliance

// Framework is a named, ordered table of checks for one regulatory
// standard. Order is part of the contract: reports list findings in
// declaration order.
type Framework struct {
	Key    string
	Name   string
	Checks []CheckSpec
}

const DefaultFramework = "insurance_standards"

func buildFrameworks() []Framework {
	return []Framework{
		{
			Key:  "gdpr",
			Name: "General Data Protection Regulation (GDPR)",
			Checks: []CheckSpec{
				presenceCheck(evidenceCheck{
					name:        "Data Protection Officer",
					patterns:    []string{"data protection officer", "DPO", "privacy officer", "data protection lead"},
					passScore:   0.9,
					failScore:   0.1,
					passMessage: "Data Protection Officer role is mentioned in the policy",
					failMessage: "No mention of Data Protection Officer found",
					passAdvice:  "Ensure DPO contact information is clearly provided",
					failAdvice:  "Consider appointing a DPO and documenting their role",
				}),
				keywordCheck("Privacy Notice", []string{
					"personal data", "privacy", "data collection", "data processing",
					"lawful basis", "legitimate interest", "consent", "data subject",
				}, 0.7, 0.4, "privacy notice areas", "Ensure all privacy aspects are clearly documented"),
				presenceCheck(evidenceCheck{
					name:        "Data Retention",
					patterns:    []string{"retention.*period", "data.*retention", "retain.*data", "delete.*after", "destroy.*after"},
					passScore:   0.8,
					failScore:   0.2,
					passMessage: "Data retention policies are specified",
					failMessage: "No clear data retention policies found",
					passAdvice:  "Ensure retention periods are specific and justified",
					failAdvice:  "Define specific data retention periods for different data types",
				}),
				presenceCheck(evidenceCheck{
					name:        "Consent Mechanisms",
					patterns:    []string{"consent.*withdraw", "opt.*out", "unsubscribe", "withdraw.*consent", "consent.*mechanism"},
					passScore:   0.9,
					failScore:   0.1,
					passMessage: "Consent withdrawal mechanisms are described",
					failMessage: "No consent withdrawal mechanisms found",
					passAdvice:  "Ensure consent mechanisms are easily accessible",
					failAdvice:  "Implement clear consent withdrawal procedures",
				}),
				keywordCheck("Data Subject Rights", []string{
					"right to access", "right to rectification", "right to erasure",
					"right to portability", "right to object", "data subject rights",
				}, 0.6, 0.3, "data subject rights mentioned", "Ensure all data subject rights are clearly explained"),
				presenceCheck(evidenceCheck{
					name:        "Data Breach Procedures",
					patterns:    []string{"data breach", "security incident", "breach.*notification", "incident.*response", "breach.*procedure"},
					passScore:   0.8,
					failScore:   0.2,
					passMessage: "Data breach procedures are documented",
					failMessage: "No data breach procedures found",
					passAdvice:  "Ensure breach notification timelines are specified",
					failAdvice:  "Implement comprehensive data breach response procedures",
				}),
			},
		},
		{
			Key:  "ccpa",
			Name: "California Consumer Privacy Act (CCPA)",
			Checks: []CheckSpec{
				keywordCheck("CCPA Consumer Rights", []string{
					"right to know", "right to delete", "right to opt-out",
					"right to non-discrimination", "right to equal service",
				}, 0.6, 0.3, "CCPA rights mentioned", "Ensure all CCPA consumer rights are clearly documented"),
				presenceCheck(evidenceCheck{
					name:        "Opt-Out Mechanisms",
					patterns:    []string{"opt.*out", "do not sell", "do not share", "unsubscribe", "opt.*out.*personal.*information"},
					passScore:   0.9,
					failScore:   0.1,
					passMessage: "Opt-out mechanisms are clearly described",
					failMessage: "No opt-out mechanisms found",
					passAdvice:  "Ensure opt-out mechanisms are easily accessible",
					failAdvice:  "Implement clear opt-out procedures for personal information",
				}),
				keywordCheck("Data Disclosure", []string{
					"personal information", "data collection", "data categories",
					"business purpose", "commercial purpose", "third party",
				}, 0.7, 0.4, "data disclosure areas", "Ensure comprehensive disclosure of data practices"),
				presenceCheck(evidenceCheck{
					name:        "Third-Party Sharing",
					patterns:    []string{"third party", "share.*information", "disclose.*information", "service provider", "business partner"},
					passScore:   0.8,
					failScore:   0.2,
					passMessage: "Third-party sharing practices are disclosed",
					failMessage: "No third-party sharing disclosures found",
					passAdvice:  "Ensure specific third parties and purposes are listed",
					failAdvice:  "Clearly document all third-party data sharing practices",
				}),
			},
		},
		{
			Key:  "hipaa",
			Name: "Health Insurance Portability and Accountability Act (HIPAA)",
			Checks: []CheckSpec{
				keywordCheck("PHI Protection", []string{
					"protected health information", "PHI", "health information",
					"medical record", "patient data", "health data",
				}, 0.6, 0.3, "PHI protection elements", "Ensure comprehensive PHI protection measures are documented"),
				keywordCheck("Administrative Safeguards", []string{
					"administrative safeguards", "workforce training", "security officer",
					"access management", "incident response", "risk assessment",
				}, 0.6, 0.3, "administrative safeguards", "Implement comprehensive administrative safeguards"),
				keywordCheck("Physical Safeguards", []string{
					"physical safeguards", "facility access", "workstation security",
					"device controls", "media controls", "physical security",
				}, 0.6, 0.3, "physical safeguards", "Implement comprehensive physical safeguards"),
				keywordCheck("Technical Safeguards", []string{
					"technical safeguards", "access control", "audit controls",
					"encryption", "authentication", "transmission security",
				}, 0.6, 0.3, "technical safeguards", "Implement comprehensive technical safeguards"),
				presenceCheck(evidenceCheck{
					name:        "Breach Notification",
					patterns:    []string{"breach notification", "security breach", "data breach", "incident notification", "breach response"},
					passScore:   0.8,
					failScore:   0.2,
					passMessage: "Breach notification procedures are documented",
					failMessage: "No breach notification procedures found",
					passAdvice:  "Ensure notification timelines are clearly specified",
					failAdvice:  "Implement comprehensive breach notification procedures",
				}),
			},
		},
		{
			Key:  "sox",
			Name: "Sarbanes-Oxley Act (SOX)",
			Checks: []CheckSpec{
				keywordCheck("Internal Controls", []string{
					"internal controls", "control environment", "risk assessment",
					"control activities", "monitoring", "information and communication",
				}, 0.6, 0.3, "internal control elements", "Ensure comprehensive internal controls framework"),
				keywordCheck("Financial Reporting", []string{
					"financial reporting", "financial statements", "disclosure controls",
					"management assessment", "auditor attestation", "material weakness",
				}, 0.6, 0.3, "financial reporting elements", "Ensure robust financial reporting controls"),
				presenceCheck(evidenceCheck{
					name:        "Audit Committee",
					patterns:    []string{"audit committee", "independent director", "financial expert", "audit oversight"},
					passScore:   0.8,
					failScore:   0.2,
					passMessage: "Audit committee oversight is documented",
					failMessage: "No audit committee oversight found",
					passAdvice:  "Ensure audit committee independence and expertise",
					failAdvice:  "Establish independent audit committee oversight",
				}),
				presenceCheck(evidenceCheck{
					name:        "Whistleblower Protection",
					patterns:    []string{"whistleblower", "hotline", "anonymous reporting", "retaliation protection", "ethics hotline"},
					passScore:   0.9,
					failScore:   0.1,
					passMessage: "Whistleblower protection mechanisms are in place",
					failMessage: "No whistleblower protection mechanisms found",
					passAdvice:  "Ensure whistleblower protection is comprehensive",
					failAdvice:  "Implement whistleblower protection and reporting mechanisms",
				}),
			},
		},
		{
			Key:  "pci_dss",
			Name: "Payment Card Industry Data Security Standard (PCI DSS)",
			Checks: []CheckSpec{
				keywordCheck("Network Security", []string{
					"firewall", "network security", "intrusion detection",
					"network segmentation", "secure network", "network monitoring",
				}, 0.6, 0.3, "network security measures", "Implement comprehensive network security controls"),
				keywordCheck("Data Protection", []string{
					"encryption", "data protection", "cardholder data",
					"sensitive data", "data security", "data classification",
				}, 0.6, 0.3, "data protection measures", "Implement comprehensive data protection controls"),
				keywordCheck("Access Control", []string{
					"access control", "user authentication", "role-based access",
					"privileged access", "access management", "user provisioning",
				}, 0.6, 0.3, "access control measures", "Implement comprehensive access control framework"),
				keywordCheck("Monitoring and Logging", []string{
					"monitoring", "logging", "audit trail", "security monitoring",
					"log management", "event logging", "security events",
				}, 0.6, 0.3, "monitoring measures", "Implement comprehensive monitoring and logging"),
				presenceCheck(evidenceCheck{
					name:        "Incident Response",
					patterns:    []string{"incident response", "security incident", "incident management", "response plan", "incident procedure"},
					passScore:   0.8,
					failScore:   0.2,
					passMessage: "Incident response procedures are documented",
					failMessage: "No incident response procedures found",
					passAdvice:  "Ensure incident response procedures are tested regularly",
					failAdvice:  "Implement comprehensive incident response procedures",
				}),
			},
		},
		{
			Key:  DefaultFramework,
			Name: "General Insurance Standards",
			Checks: []CheckSpec{
				clarityCheck(),
				coverageCheck(),
				presenceCheck(evidenceCheck{
					name:          "Exclusions",
					patterns:      []string{"not covered", "exclusions", "not included", "excluded from coverage", "limitations"},
					passScore:     0.8,
					failScore:     0.2,
					passMessage:   "Exclusions are clearly stated in the policy",
					failMessage:   "No clear exclusions section found",
					passAdvice:    "Ensure exclusions are prominently displayed and clearly explained",
					failAdvice:    "Add a clear exclusions section to the policy",
					perPatternMax: 5,
					totalMax:      10,
				}),
				claimsCheck(),
				presenceCheck(evidenceCheck{
					name:          "Contact Information",
					patterns:      []string{"phone.*number", "email.*address", "contact.*information", "customer service", "claims.*department", "policy.*service"},
					passScore:     0.9,
					failScore:     0.1,
					passMessage:   "Contact information is provided in the policy",
					failMessage:   "No clear contact information found",
					passAdvice:    "Ensure contact information is current and easily accessible",
					failAdvice:    "Add clear contact information for customer service and claims",
					perPatternMax: 3,
					totalMax:      8,
				}),
				keywordCheck("Terms and Conditions", []string{
					"terms and conditions", "policy terms", "conditions", "agreement",
					"policyholder", "insured", "premium", "renewal", "cancellation",
				}, 0.6, 0.3, "terms and conditions elements", "Ensure comprehensive terms and conditions are clearly documented"),
			},
		},
	}
}

// detectionKeywords drive framework auto-selection: plain substring
// hits over the lowercased text, highest count wins.
var detectionKeywords = map[string][]string{
	"gdpr": {
		"personal data", "data protection", "consent", "privacy",
		"data subject", "right to be forgotten", "data processing",
		"european union", "eu", "gdpr", "data controller",
	},
	"hipaa": {
		"health information", "protected health information", "phi",
		"medical records", "healthcare", "patient", "health insurance",
		"hipaa", "healthcare provider", "medical data",
	},
	"ccpa": {
		"california", "consumer privacy", "personal information",
		"opt-out", "data rights", "ccpa", "california consumer",
		"privacy rights", "data sale",
	},
	"sox": {
		"financial", "accounting", "internal controls", "audit",
		"sarbanes-oxley", "sox", "financial reporting", "corporate governance",
	},
	"pci_dss": {
		"payment", "credit card", "cardholder", "payment data",
		"pci", "payment processing", "financial data", "transaction",
	},
}
