package textproc

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
	"go.uber.org/zap"
)

var (
	urlPattern   = regexp.MustCompile(`http\S+|www\S+|https\S+`)
	emailPattern = regexp.MustCompile(`\S+@\S+`)
	htmlPattern  = regexp.MustCompile(`<.*?>`)
	digitPattern = regexp.MustCompile(`\d+`)
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalizer performs deterministic text cleanup and tokenization with
// stemming. Construction probes the stemmer once; when it is unavailable the
// normalizer runs in a declared degraded mode that tokenizes without
// stemming instead of failing at call time.
type Normalizer struct {
	logger   *zap.Logger
	stemming bool
}

// NewNormalizer creates a normalizer and checks stemmer availability.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	n := &Normalizer{logger: logger}
	if _, err := snowball.Stem("running", "english", true); err != nil {
		logger.Warn("Stemmer unavailable, tokenizing without stemming", zap.Error(err))
	} else {
		n.stemming = true
	}
	return n
}

// Clean normalizes raw email text. The substitution order is fixed:
// lower-case, strip URLs, strip email addresses, strip HTML-like tags,
// strip punctuation, strip digit runs, collapse whitespace. The result is
// idempotent under Clean and never an error; empty input yields "".
func (n *Normalizer) Clean(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	text = htmlPattern.ReplaceAllString(text, "")
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, text)
	text = digitPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// TokenizeAndStem splits text on whitespace, drops stop-words and stems each
// remaining token, rejoining with single spaces. Tokens that fail to stem
// pass through unchanged.
func (n *Normalizer) TokenizeAndStem(text string) string {
	tokens := strings.Fields(text)
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if IsStopWord(strings.ToLower(token)) {
			continue
		}
		if n.stemming {
			if stemmed, err := snowball.Stem(token, "english", true); err == nil {
				token = stemmed
			}
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}
