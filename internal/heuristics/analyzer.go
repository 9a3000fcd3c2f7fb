package heuristics

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/mikey/phishing-detector/internal/core"
)

const maxUrgencyScore = 10

var (
	urlPattern     = regexp.MustCompile(`http\S+|www\S+|https\S+`)
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
)

// reputationRule pairs a predicate with its verdict. Rules are evaluated
// top to bottom and the first match wins; the order is a documented,
// testable contract.
type reputationRule struct {
	matches func(domain string) bool
	result  core.DomainReputation
}

// spoofingRule mirrors reputationRule for the spoofing-risk tiers.
type spoofingRule struct {
	matches func(localPart, domain string) bool
	result  core.SpoofingRisk
}

// Analyzer produces the rule-based report fields. Every sub-computation is
// a pure function of the inputs and the catalogues fixed at construction.
type Analyzer struct {
	cfg             core.PreprocessorConfig
	normalizer      core.Normalizer
	reputationRules []reputationRule
	spoofingRules   []spoofingRule
}

// NewAnalyzer creates an analyzer over the given preprocessor catalogues.
func NewAnalyzer(cfg core.PreprocessorConfig, normalizer core.Normalizer) *Analyzer {
	a := &Analyzer{cfg: cfg, normalizer: normalizer}

	a.reputationRules = []reputationRule{
		{func(d string) bool { return d == "" }, core.DomainUntrusted},
		{a.isTrustedDomain, core.DomainTrusted},
		{a.isSuspiciousDomain, core.DomainUntrusted},
		{func(d string) bool { return true }, core.DomainUnusualUnknown},
	}
	a.spoofingRules = []spoofingRule{
		{
			func(local, domain string) bool {
				return (strings.Contains(local, "support") || strings.Contains(local, "admin")) &&
					!a.isTrustedDomain(domain)
			},
			core.SpoofingHigh,
		},
		{func(local, domain string) bool { return len(local) < 3 }, core.SpoofingMedium},
		{func(local, domain string) bool { return true }, core.SpoofingLow},
	}
	return a
}

// Analyze computes the heuristic report fields for one email.
func (a *Analyzer) Analyze(subject, body, sender string) core.HeuristicSignals {
	raw := subject + " " + body
	rawLower := strings.ToLower(raw)
	cleaned := a.normalizer.Clean(raw)

	found := make([]string, 0, 4)
	for _, kw := range a.cfg.SuspiciousKeywords {
		if strings.Contains(rawLower, kw) {
			found = append(found, kw)
		}
	}
	urgency := len(found)
	if urgency > maxUrgencyScore {
		urgency = maxUrgencyScore
	}

	grammar := core.GrammarModerate
	if len(cleaned) > 20 && len(nonWordPattern.FindAllString(raw, -1)) < 5 {
		grammar = core.GrammarHigh
	}

	pii := false
	for _, kw := range a.cfg.PIIKeywords {
		if strings.Contains(rawLower, kw) {
			pii = true
			break
		}
	}

	urls := urlPattern.FindAllString(raw, -1)
	if urls == nil {
		urls = []string{}
	}
	suspiciousURLs := 0
	for _, u := range urls {
		if a.isSuspiciousURL(u) {
			suspiciousURLs++
		}
	}

	local, domain := splitSender(sender)

	return core.HeuristicSignals{
		UrgencyScore:            urgency,
		GrammarQuality:          grammar,
		PersonalInfoRequests:    pii,
		SuspiciousKeywordsCount: len(found),
		ExtractedKeywords:       a.extractKeywords(cleaned),
		SuspiciousKeywordsList:  found,
		TotalURLsFound:          len(urls),
		ExtractedURLs:           urls,
		SuspiciousURLsCount:     suspiciousURLs,
		DomainReputation:        a.domainReputation(domain),
		SpoofingRisk:            a.spoofingRisk(local, domain),
	}
}

// extractKeywords returns up to 10 unique alphabetic tokens from the
// normalized, stemmed text, in first-appearance order.
func (a *Analyzer) extractKeywords(cleaned string) []string {
	keywords := make([]string, 0, 10)
	seen := make(map[string]bool)
	for _, token := range strings.Fields(a.normalizer.TokenizeAndStem(cleaned)) {
		if !isAlphabetic(token) || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
		if len(keywords) == 10 {
			break
		}
	}
	return keywords
}

// isSuspiciousURL flags URLs whose host carries a known-bad marker or whose
// path contains "verify" or "login". Scheme-less tokens (www.example.com/x)
// parse with an empty host, so their text lands in the path check, matching
// how the analysis treats bare www links.
func (a *Analyzer) isSuspiciousURL(raw string) bool {
	host, path := raw, raw
	if parsed, err := url.Parse(raw); err == nil {
		host = strings.ToLower(parsed.Hostname())
		path = strings.ToLower(parsed.Path)
		if host == "" {
			path = strings.ToLower(parsed.String())
		}
	}
	for _, marker := range a.cfg.SuspiciousDomainMarkers {
		if host != "" && strings.Contains(host, marker) {
			return true
		}
	}
	return strings.Contains(path, "verify") || strings.Contains(path, "login")
}

func (a *Analyzer) domainReputation(domain string) core.DomainReputation {
	for _, rule := range a.reputationRules {
		if rule.matches(domain) {
			return rule.result
		}
	}
	return core.DomainUntrusted
}

func (a *Analyzer) spoofingRisk(local, domain string) core.SpoofingRisk {
	for _, rule := range a.spoofingRules {
		if rule.matches(local, domain) {
			return rule.result
		}
	}
	return core.SpoofingLow
}

func (a *Analyzer) isTrustedDomain(domain string) bool {
	for _, trusted := range a.cfg.TrustedDomains {
		if domain == trusted || strings.HasSuffix(domain, "."+trusted) {
			return true
		}
	}
	return false
}

func (a *Analyzer) isSuspiciousDomain(domain string) bool {
	for _, marker := range a.cfg.SuspiciousDomainMarkers {
		if strings.Contains(domain, marker) {
			return true
		}
	}
	for _, tld := range a.cfg.SuspiciousTLDs {
		if strings.HasSuffix(domain, tld) {
			return true
		}
	}
	return false
}

// splitSender returns the lower-cased local part and domain of a sender
// address. Without an "@" the whole sender is the local part and the domain
// is empty.
func splitSender(sender string) (string, string) {
	sender = strings.ToLower(strings.TrimSpace(sender))
	parts := strings.SplitN(sender, "@", 2)
	if len(parts) < 2 {
		return sender, ""
	}
	return parts[0], parts[1]
}

func isAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Factory builds analyzers from artifact-supplied catalogues. Implements
// core.AnalyzerFactory.
type Factory struct {
	normalizer core.Normalizer
}

// NewFactory creates an analyzer factory sharing one normalizer.
func NewFactory(normalizer core.Normalizer) *Factory {
	return &Factory{normalizer: normalizer}
}

// NewAnalyzer builds an analyzer over the given catalogues.
func (f *Factory) NewAnalyzer(cfg core.PreprocessorConfig) core.HeuristicAnalyzer {
	return NewAnalyzer(cfg, f.normalizer)
}
