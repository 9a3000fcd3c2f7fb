package core

// Email represents a single email message to classify. Sender may be empty.
type Email struct {
	Subject string
	Body    string
	Sender  string
}

// LabeledEmail is a training record. Label is 1 for phishing, 0 for legitimate.
type LabeledEmail struct {
	Subject string
	Body    string
	Label   int
}

// GrammarQuality is the coarse two-level grammar proxy.
type GrammarQuality string

const (
	GrammarHigh     GrammarQuality = "HIGH"
	GrammarModerate GrammarQuality = "MODERATE"
)

// DomainReputation classifies the sender's domain against fixed catalogues.
type DomainReputation string

const (
	DomainTrusted        DomainReputation = "TRUSTED"
	DomainUntrusted      DomainReputation = "UNTRUSTED"
	DomainUnusualUnknown DomainReputation = "UNUSUAL_UNKNOWN"
)

// SpoofingRisk estimates how likely the sender identity is forged.
type SpoofingRisk string

const (
	SpoofingLow    SpoofingRisk = "LOW"
	SpoofingMedium SpoofingRisk = "MEDIUM"
	SpoofingHigh   SpoofingRisk = "HIGH"
)

// LexicalFeatures holds the fixed numeric signals derived from a text.
type LexicalFeatures struct {
	Length              int
	WordCount           int
	CharCount           int
	SuspiciousWordCount int
	URLCount            int
	EmailCount          int
	ExclamationCount    int
	CapitalRatio        float64
}

// NumLexicalFeatures is the width contributed by LexicalFeatures to a
// combined feature vector.
const NumLexicalFeatures = 8

// Slice returns the features in their stable, documented order:
// length, word_count, char_count, suspicious_word_count, url_count,
// email_count, exclamation_count, capital_ratio. Training and inference
// both rely on this ordering.
func (f LexicalFeatures) Slice() [NumLexicalFeatures]float64 {
	return [NumLexicalFeatures]float64{
		float64(f.Length),
		float64(f.WordCount),
		float64(f.CharCount),
		float64(f.SuspiciousWordCount),
		float64(f.URLCount),
		float64(f.EmailCount),
		float64(f.ExclamationCount),
		f.CapitalRatio,
	}
}

// HeuristicSignals are the rule-based fields of an analysis report,
// computed independently of the statistical classifier.
type HeuristicSignals struct {
	UrgencyScore            int              `json:"urgency_score"`
	GrammarQuality          GrammarQuality   `json:"grammar_quality"`
	PersonalInfoRequests    bool             `json:"personal_info_requests"`
	SuspiciousKeywordsCount int              `json:"suspicious_keywords_count"`
	ExtractedKeywords       []string         `json:"extracted_keywords"`
	SuspiciousKeywordsList  []string         `json:"suspicious_keywords_list"`
	TotalURLsFound          int              `json:"total_urls_found"`
	ExtractedURLs           []string         `json:"extracted_urls"`
	SuspiciousURLsCount     int              `json:"suspicious_urls_count"`
	DomainReputation        DomainReputation `json:"domain_reputation"`
	SpoofingRisk            SpoofingRisk     `json:"spoofing_risk"`
}

// AnalysisReport is the complete result of analyzing one email. Classifier
// fields and heuristic fields occupy disjoint keys so no merge can collide.
// Reports carry no timestamps or random identifiers: two predictions on
// identical input against the same artifact serialize byte-identically.
type AnalysisReport struct {
	IsPhishing          bool    `json:"is_phishing"`
	Confidence          float64 `json:"confidence"`
	PhishingProbability float64 `json:"phishing_probability"`
	ModelUsed           string  `json:"model_used"`
	HeuristicSignals
}

// PreprocessorConfig carries the fixed catalogues the heuristic analyzer and
// feature extractor were configured with at training time. It is bundled into
// the artifact so inference always runs against the same catalogues.
type PreprocessorConfig struct {
	SuspiciousKeywords      []string `json:"suspicious_keywords"`
	PIIKeywords             []string `json:"pii_keywords"`
	TrustedDomains          []string `json:"trusted_domains"`
	SuspiciousDomainMarkers []string `json:"suspicious_domain_markers"`
	SuspiciousTLDs          []string `json:"suspicious_tlds"`
	StopWords               []string `json:"stop_words"`
}

// TrainedArtifact bundles everything needed for inference: the selected
// classifier, the fitted vectorizer and the preprocessor catalogues. It is
// immutable once installed; retraining replaces the whole reference.
type TrainedArtifact struct {
	ModelName    string
	Classifier   Classifier
	Vectorizer   Vectorizer
	Preprocessor PreprocessorConfig
}

// TrainingSummary reports the outcome of one training run.
type TrainingSummary struct {
	RunID        string
	BestModel    string
	BestAccuracy float64
	Accuracies   map[string]float64
	SampleCount  int
	FeatureWidth int
}
