package heuristics

import (
	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/textproc"
)

// suspiciousKeywords is the fixed catalogue of phishing-indicative terms
// used for urgency scoring, the lexical suspicious-word feature and report
// explanation. Matching is case-insensitive substring presence.
var suspiciousKeywords = []string{
	"urgent", "winner", "congratulations", "click here", "act now",
	"limited time", "free", "guarantee", "no obligation", "risk free",
	"call now", "don't delay", "order now", "what are you waiting for",
	"take action", "don't hesitate", "apply now", "get started now",
	"exclusive deal", "as seen on", "increase sales", "increase traffic",
	"verify", "account", "password", "ssn", "social security number",
	"bank account", "credit card", "login credentials", "pin",
	"security code", "date of birth", "dob",
	"security", "alert", "invoice", "payment", "update", "confirm",
	"suspicious", "transaction", "unusual", "locked",
	"compromised", "refund", "claim", "cancel", "expire", "restore",
	"kindly", "dear customer", "dear user", "attention", "important",
}

// piiKeywords flag requests for personal or financial information.
var piiKeywords = []string{
	"password", "ssn", "social security number", "bank account",
	"credit card", "login credentials", "pin", "security code",
	"date of birth", "dob",
}

// trustedDomains is the sender-domain allow-list: major mail providers plus
// a handful of large corporate domains. A domain matches on equality or as
// a dot-separated suffix (mail.google.com matches google.com).
var trustedDomains = []string{
	"gmail.com", "outlook.com", "yahoo.com", "hotmail.com", "aol.com",
	"icloud.com", "google.com", "microsoft.com", "amazon.com",
}

// suspiciousDomainMarkers and suspiciousTLDs mark known-bad sender domains
// and URL hosts.
var (
	suspiciousDomainMarkers = []string{"bad", "phish", "scam", "malicious"}
	suspiciousTLDs          = []string{".xyz", ".top", ".click"}
)

// DefaultConfig returns the built-in preprocessor catalogues. A copy of this
// configuration is bundled into every trained artifact.
func DefaultConfig() core.PreprocessorConfig {
	return core.PreprocessorConfig{
		SuspiciousKeywords:      suspiciousKeywords,
		PIIKeywords:             piiKeywords,
		TrustedDomains:          trustedDomains,
		SuspiciousDomainMarkers: suspiciousDomainMarkers,
		SuspiciousTLDs:          suspiciousTLDs,
		StopWords:               textproc.StopWords(),
	}
}
