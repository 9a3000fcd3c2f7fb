package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/ml"
	"github.com/mikey/phishing-detector/internal/textproc"
)

const bundleVersion = 1

// bundle is the on-disk artifact format. Classifier and vectorizer state are
// nested raw JSON so each component owns its own serialization.
type bundle struct {
	Version         int                     `json:"version"`
	ModelName       string                  `json:"model_name"`
	ModelState      json.RawMessage         `json:"model_state"`
	VectorizerState json.RawMessage         `json:"vectorizer_state"`
	Preprocessor    core.PreprocessorConfig `json:"preprocessor"`
}

// FileStore persists trained artifacts as a single JSON file. Saves write to
// a temp file in the same directory and rename it over the target, so readers
// only ever observe a complete bundle. Implements core.ArtifactStore.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a store rooted at the given artifact path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Save serializes the artifact and atomically replaces the file at the
// store's path.
func (s *FileStore) Save(artifact *core.TrainedArtifact) error {
	modelState, err := artifact.Classifier.MarshalState()
	if err != nil {
		return fmt.Errorf("failed to serialize model state: %w", err)
	}
	vectorizerState, err := artifact.Vectorizer.MarshalState()
	if err != nil {
		return fmt.Errorf("failed to serialize vectorizer state: %w", err)
	}

	data, err := json.Marshal(bundle{
		Version:         bundleVersion,
		ModelName:       artifact.ModelName,
		ModelState:      modelState,
		VectorizerState: vectorizerState,
		Preprocessor:    artifact.Preprocessor,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize artifact bundle: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close artifact file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace artifact file: %w", err)
	}

	s.logger.Info("saved trained artifact",
		zap.String("path", s.path),
		zap.String("model", artifact.ModelName),
		zap.Int("bytes", len(data)))
	return nil
}

// Load reads and validates the bundle at the store's path. A missing or
// malformed file is a hard error; callers decide whether training can
// substitute.
func (s *FileStore) Load() (*core.TrainedArtifact, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact file: %w", err)
	}

	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse artifact file: %w", err)
	}
	if b.Version != bundleVersion {
		return nil, fmt.Errorf("unsupported artifact version %d", b.Version)
	}

	classifier, err := ml.Restore(b.ModelName, b.ModelState)
	if err != nil {
		return nil, fmt.Errorf("failed to restore classifier: %w", err)
	}
	vectorizer, err := textproc.RestoreVectorizer(b.VectorizerState, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to restore vectorizer: %w", err)
	}

	s.logger.Info("loaded trained artifact",
		zap.String("path", s.path),
		zap.String("model", b.ModelName))
	return &core.TrainedArtifact{
		ModelName:    b.ModelName,
		Classifier:   classifier,
		Vectorizer:   vectorizer,
		Preprocessor: b.Preprocessor,
	}, nil
}
