package analyzer

import "strings"

const systemPrompt = "You are an expert compliance analyst with deep knowledge of insurance regulations and industry standards. Provide accurate, detailed compliance assessments based on policy content analysis."

// policyMarker separates the instructional preamble from the document
// body; truncation must only ever cut text after it.
const policyMarker = "Policy Document:"

const truncationNote = "\n\n[Policy text truncated due to length]"

var frameworkGuidance = map[string]string{
	"insurance_standards": `Analyze this insurance policy against general insurance industry standards:
1. Policy Clarity: Is the language clear and understandable for consumers?
2. Coverage Details: Are benefits, limits, and coverage clearly specified?
3. Exclusions: Are exclusions clearly stated and understandable?
4. Claims Procedures: Are claims processes clearly explained?
5. Contact Information: Is customer service contact information provided?
6. Terms & Conditions: Are important terms and conditions documented?`,
	"gdpr": `Analyze this policy against GDPR requirements:
1. Data Protection: How does the policy handle personal data?
2. Consent Mechanisms: Are data processing activities clearly explained?
3. Data Subject Rights: Are user rights clearly stated?
4. Data Retention: Are data retention periods specified?
5. Data Breach Procedures: Are breach notification procedures defined?
6. Privacy Notice: Is privacy information comprehensive?`,
	"hipaa": `Analyze this policy against HIPAA requirements:
1. PHI Protection: How is protected health information handled?
2. Administrative Safeguards: Are administrative procedures documented?
3. Physical Safeguards: Are physical security measures mentioned?
4. Technical Safeguards: Are technical security measures described?
5. Breach Notification: Are breach notification procedures clear?
6. Patient Rights: Are patient rights clearly stated?`,
}

func buildPrompt(policyText, framework string) string {
	guidance, ok := frameworkGuidance[framework]
	if !ok {
		guidance = frameworkGuidance["insurance_standards"]
	}
	var b strings.Builder
	b.WriteString("Analyze the following policy document and provide a comprehensive compliance assessment.\n\n")
	b.WriteString(guidance)
	b.WriteString("\n\nIMPORTANT: You MUST respond with ONLY valid JSON in the exact format below. Do not include any explanatory text before or after the JSON.\n\n")
	b.WriteString(`{
  "overall_score": 0.85,
  "overall_level": "compliant",
  "checks": [
    {
      "check_name": "Policy Clarity",
      "level": "compliant",
      "score": 0.9,
      "message": "The policy uses clear, understandable language with good explanations",
      "evidence": ["Clear section headings", "Plain language explanations"],
      "recommendation": "Continue using clear language throughout"
    }
  ]
}`)
	b.WriteString("\n\nGuidelines for scoring:\n")
	b.WriteString("- Score 0.8-1.0: compliant (excellent)\n")
	b.WriteString("- Score 0.5-0.79: partial (good but needs improvement)\n")
	b.WriteString("- Score 0.2-0.49: non_compliant (needs significant work)\n")
	b.WriteString("- Score 0.0-0.19: unknown (insufficient information)\n\n")
	b.WriteString("Be thorough and specific. Provide evidence from the actual policy text to support your assessments.\n\n")
	b.WriteString(policyMarker)
	b.WriteString("\n")
	b.WriteString(policyText)
	return b.String()
}

// truncatePrompt caps the document body at budget characters, leaving
// the preamble intact and appending a visible truncation note. Applied
// before retrying on the smaller model.
func truncatePrompt(prompt string, budget int) string {
	idx := strings.Index(prompt, policyMarker)
	if idx < 0 {
		return prompt
	}
	preamble := prompt[:idx+len(policyMarker)]
	body := prompt[idx+len(policyMarker):]
	if len(body) <= budget {
		return prompt
	}
	return preamble + body[:budget] + truncationNote
}
