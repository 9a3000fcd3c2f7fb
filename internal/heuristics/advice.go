package heuristics

import (
	"fmt"
	"strings"

	"github.com/mikey/phishing-detector/internal/core"
)

// Adviser turns an analysis report into an ordered list of recommendations.
// The order is fixed so identical reports yield identical advice.
type Adviser struct{}

// NewAdviser creates an advice generator.
func NewAdviser() *Adviser {
	return &Adviser{}
}

// Advise returns the recommendations for a report. Phishing verdicts get
// conditional items keyed off individual heuristic fields; safe verdicts get
// general hygiene guidance.
func (a *Adviser) Advise(report *core.AnalysisReport) []string {
	if !report.IsPhishing {
		return []string{
			"This email appears safe based on our analysis. However, always remain vigilant and follow general email security best practices.",
			"Always double-check the sender's email address and look for any inconsistencies.",
			"Be cautious of unexpected attachments or links, even from known senders.",
		}
	}

	advice := []string{
		"This email has been flagged as potentially malicious. Do NOT interact with it.",
	}
	if report.PersonalInfoRequests {
		advice = append(advice, "Never share personal information (passwords, SSN, bank details) via email. Legitimate organizations will not ask for this.")
	}
	if report.SuspiciousURLsCount > 0 {
		advice = append(advice, "Do not click on any links in this email. Hover over links to see the actual URL before clicking, and manually type known website addresses.")
	}
	if report.UrgencyScore > 5 {
		advice = append(advice, "Be wary of urgent or threatening language. Phishers often create a sense of urgency to bypass critical thinking.")
	}
	if report.SpoofingRisk == core.SpoofingHigh {
		advice = append(advice, "The sender's email address or domain appears suspicious. Always verify the sender's authenticity, especially for unexpected emails.")
	}
	if report.GrammarQuality == core.GrammarModerate {
		advice = append(advice, "Poor grammar and spelling are common signs of phishing attempts. Legitimate communications are usually well-written.")
	}
	if len(report.SuspiciousKeywordsList) > 0 {
		advice = append(advice, fmt.Sprintf("Watch out for suspicious keywords like: %s. These are often used in scams.", strings.Join(report.SuspiciousKeywordsList, ", ")))
	}
	if report.DomainReputation == core.DomainUntrusted {
		advice = append(advice, "The sender's domain is untrusted. Be extremely cautious with emails from unknown or unusual domains.")
	}
	advice = append(advice,
		"If you suspect an email is phishing, report it to your IT department or email provider, then delete it.",
		"When in doubt, contact the organization directly using official contact information (not from the email).",
	)
	return advice
}
