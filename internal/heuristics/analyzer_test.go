package heuristics

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/textproc"
)

func newTestAnalyzer() *Analyzer {
	normalizer := textproc.NewNormalizer(zap.NewNop())
	return NewAnalyzer(DefaultConfig(), normalizer)
}

func TestAnalyzePhishingEmail(t *testing.T) {
	a := newTestAnalyzer()

	signals := a.Analyze(
		"URGENT: Verify your account",
		"Your account is locked. Click here to verify your password immediately: http://bad-domain.xyz/verify",
		"support@bad-domain.xyz",
	)

	if signals.DomainReputation != core.DomainUntrusted {
		t.Errorf("DomainReputation = %s, want UNTRUSTED", signals.DomainReputation)
	}
	if signals.SpoofingRisk != core.SpoofingHigh {
		t.Errorf("SpoofingRisk = %s, want HIGH", signals.SpoofingRisk)
	}
	if !signals.PersonalInfoRequests {
		t.Error("PersonalInfoRequests = false, want true (password request)")
	}
	if signals.UrgencyScore == 0 {
		t.Error("UrgencyScore = 0, want > 0")
	}
	if signals.TotalURLsFound != 1 {
		t.Errorf("TotalURLsFound = %d, want 1", signals.TotalURLsFound)
	}
	if signals.SuspiciousURLsCount != 1 {
		t.Errorf("SuspiciousURLsCount = %d, want 1", signals.SuspiciousURLsCount)
	}
	if len(signals.SuspiciousKeywordsList) != signals.SuspiciousKeywordsCount {
		t.Errorf("SuspiciousKeywordsCount = %d, list has %d entries",
			signals.SuspiciousKeywordsCount, len(signals.SuspiciousKeywordsList))
	}
}

func TestAnalyzeLegitimateEmail(t *testing.T) {
	a := newTestAnalyzer()

	signals := a.Analyze(
		"Meeting tomorrow",
		"Hi, see you at the office at ten. Bring the agenda.",
		"alice@gmail.com",
	)

	if signals.DomainReputation != core.DomainTrusted {
		t.Errorf("DomainReputation = %s, want TRUSTED", signals.DomainReputation)
	}
	if signals.SpoofingRisk != core.SpoofingLow {
		t.Errorf("SpoofingRisk = %s, want LOW", signals.SpoofingRisk)
	}
	if signals.UrgencyScore != 0 {
		t.Errorf("UrgencyScore = %d, want 0", signals.UrgencyScore)
	}
	if signals.PersonalInfoRequests {
		t.Error("PersonalInfoRequests = true, want false")
	}
	if signals.GrammarQuality != core.GrammarHigh {
		t.Errorf("GrammarQuality = %s, want HIGH", signals.GrammarQuality)
	}
	if signals.TotalURLsFound != 0 {
		t.Errorf("TotalURLsFound = %d, want 0", signals.TotalURLsFound)
	}
}

func TestAnalyzeSupportSenderFromUnknownDomain(t *testing.T) {
	a := newTestAnalyzer()

	signals := a.Analyze("Hello", "Checking in about your order.", "support@randomcorp.net")

	if signals.SpoofingRisk != core.SpoofingHigh {
		t.Errorf("SpoofingRisk = %s, want HIGH", signals.SpoofingRisk)
	}
	if signals.DomainReputation != core.DomainUnusualUnknown {
		t.Errorf("DomainReputation = %s, want UNUSUAL_UNKNOWN", signals.DomainReputation)
	}
}

func TestAnalyzeEmptyEmail(t *testing.T) {
	a := newTestAnalyzer()

	signals := a.Analyze("", "", "")

	if signals.UrgencyScore != 0 {
		t.Errorf("UrgencyScore = %d, want 0", signals.UrgencyScore)
	}
	if signals.GrammarQuality != core.GrammarModerate {
		t.Errorf("GrammarQuality = %s, want MODERATE", signals.GrammarQuality)
	}
	if signals.TotalURLsFound != 0 || len(signals.ExtractedURLs) != 0 {
		t.Errorf("expected no URLs, got %d (%v)", signals.TotalURLsFound, signals.ExtractedURLs)
	}
	if signals.ExtractedURLs == nil {
		t.Error("ExtractedURLs is nil, want empty slice")
	}
	if signals.DomainReputation != core.DomainUntrusted {
		t.Errorf("DomainReputation = %s, want UNTRUSTED for missing sender", signals.DomainReputation)
	}
	if signals.SpoofingRisk != core.SpoofingMedium {
		t.Errorf("SpoofingRisk = %s, want MEDIUM for empty local part", signals.SpoofingRisk)
	}
}

func TestUrgencyScoreIsCapped(t *testing.T) {
	a := newTestAnalyzer()

	body := "urgent winner congratulations click here act now limited time free " +
		"guarantee verify account password alert invoice payment confirm"
	signals := a.Analyze("", body, "x@example.org")

	if signals.UrgencyScore != maxUrgencyScore {
		t.Errorf("UrgencyScore = %d, want cap %d", signals.UrgencyScore, maxUrgencyScore)
	}
	if signals.SuspiciousKeywordsCount <= maxUrgencyScore {
		t.Errorf("SuspiciousKeywordsCount = %d, want uncapped count above %d",
			signals.SuspiciousKeywordsCount, maxUrgencyScore)
	}
}

func TestUrgencyScoreMonotonic(t *testing.T) {
	a := newTestAnalyzer()

	low := a.Analyze("", "please verify", "x@example.org")
	high := a.Analyze("", "please verify your account password urgently", "x@example.org")
	if high.UrgencyScore < low.UrgencyScore {
		t.Errorf("adding keywords decreased urgency: %d -> %d", low.UrgencyScore, high.UrgencyScore)
	}
}

func TestDomainReputationRuleOrder(t *testing.T) {
	a := newTestAnalyzer()

	tests := []struct {
		domain string
		want   core.DomainReputation
	}{
		{"", core.DomainUntrusted},
		{"gmail.com", core.DomainTrusted},
		{"mail.google.com", core.DomainTrusted},
		// Allow-list outranks the suspicious-marker rule.
		{"bad.gmail.com", core.DomainTrusted},
		{"bad-domain.xyz", core.DomainUntrusted},
		{"phish-site.com", core.DomainUntrusted},
		{"example.top", core.DomainUntrusted},
		{"randomcorp.net", core.DomainUnusualUnknown},
	}
	for _, tt := range tests {
		sender := "alice@" + tt.domain
		if tt.domain == "" {
			sender = ""
		}
		got := a.Analyze("subject", "body", sender).DomainReputation
		if got != tt.want {
			t.Errorf("domain %q: reputation = %s, want %s", tt.domain, got, tt.want)
		}
	}
}

func TestSpoofingRiskRuleOrder(t *testing.T) {
	a := newTestAnalyzer()

	tests := []struct {
		sender string
		want   core.SpoofingRisk
	}{
		{"support@randomcorp.net", core.SpoofingHigh},
		{"admin-team@randomcorp.net", core.SpoofingHigh},
		// Allow-listed domain neutralizes the support/admin rule.
		{"support@gmail.com", core.SpoofingLow},
		{"ab@randomcorp.net", core.SpoofingMedium},
		{"alice@randomcorp.net", core.SpoofingLow},
	}
	for _, tt := range tests {
		got := a.Analyze("subject", "body", tt.sender).SpoofingRisk
		if got != tt.want {
			t.Errorf("sender %q: spoofing risk = %s, want %s", tt.sender, got, tt.want)
		}
	}
}

func TestExtractedKeywordsLimitAndOrder(t *testing.T) {
	a := newTestAnalyzer()

	body := "alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo lima"
	signals := a.Analyze("", body, "x@example.org")

	if len(signals.ExtractedKeywords) != 10 {
		t.Fatalf("ExtractedKeywords has %d entries, want 10", len(signals.ExtractedKeywords))
	}
	if signals.ExtractedKeywords[0] != "alpha" {
		t.Errorf("first keyword = %q, want first-appearance order", signals.ExtractedKeywords[0])
	}
	seen := make(map[string]bool)
	for _, kw := range signals.ExtractedKeywords {
		if seen[kw] {
			t.Errorf("duplicate keyword %q", kw)
		}
		seen[kw] = true
	}
}

func TestSuspiciousKeywordsListFollowsCatalogueOrder(t *testing.T) {
	a := newTestAnalyzer()

	signals := a.Analyze("", "free stuff, urgent reply needed", "x@example.org")

	// "urgent" precedes "free" in the catalogue regardless of text order.
	wantFirst := "urgent"
	if len(signals.SuspiciousKeywordsList) < 2 || signals.SuspiciousKeywordsList[0] != wantFirst {
		t.Errorf("SuspiciousKeywordsList = %v, want %q first", signals.SuspiciousKeywordsList, wantFirst)
	}
}

func TestSuspiciousURLDetection(t *testing.T) {
	a := newTestAnalyzer()

	tests := []struct {
		url  string
		want bool
	}{
		{"http://bad-domain.xyz/welcome", true},
		{"http://example.org/verify", true},
		{"http://example.org/login-step", true},
		{"http://example.org/news", false},
	}
	for _, tt := range tests {
		signals := a.Analyze("", "see "+tt.url, "x@example.org")
		got := signals.SuspiciousURLsCount > 0
		if got != tt.want {
			t.Errorf("url %q: suspicious = %t, want %t", tt.url, got, tt.want)
		}
	}
}

func TestAdviseForPhishingReport(t *testing.T) {
	adviser := NewAdviser()

	report := &core.AnalysisReport{
		IsPhishing: true,
		HeuristicSignals: core.HeuristicSignals{
			UrgencyScore:           8,
			GrammarQuality:         core.GrammarModerate,
			PersonalInfoRequests:   true,
			SuspiciousKeywordsList: []string{"urgent", "verify"},
			SuspiciousURLsCount:    2,
			DomainReputation:       core.DomainUntrusted,
			SpoofingRisk:           core.SpoofingHigh,
		},
	}
	advice := adviser.Advise(report)

	if len(advice) != 10 {
		t.Fatalf("advice has %d items, want 10 with every trigger set", len(advice))
	}
	if !strings.Contains(advice[0], "flagged as potentially malicious") {
		t.Errorf("first item = %q, want the malicious-email warning", advice[0])
	}
	if !strings.Contains(advice[len(advice)-1], "contact the organization directly") {
		t.Errorf("last item = %q, want the contact-directly closer", advice[len(advice)-1])
	}

	joined := strings.Join(advice, "\n")
	if !strings.Contains(joined, "urgent, verify") {
		t.Error("advice should list the suspicious keywords")
	}
	if !strings.Contains(joined, "Never share personal information") {
		t.Error("advice should warn about personal information")
	}
}

func TestAdviseForSafeReport(t *testing.T) {
	adviser := NewAdviser()

	advice := adviser.Advise(&core.AnalysisReport{IsPhishing: false})
	if len(advice) != 3 {
		t.Fatalf("advice has %d items, want 3 general items", len(advice))
	}
	if !strings.Contains(advice[0], "appears safe") {
		t.Errorf("first item = %q, want the appears-safe note", advice[0])
	}
}
