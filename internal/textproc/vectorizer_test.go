package textproc

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
)

func TestTransformBeforeFit(t *testing.T) {
	v := NewTfidfVectorizer(10, zap.NewNop())

	if _, err := v.Transform("anything"); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Transform before Fit returned %v, want ErrNotFitted", err)
	}
	if _, err := v.MarshalState(); !errors.Is(err, ErrNotFitted) {
		t.Errorf("MarshalState before Fit returned %v, want ErrNotFitted", err)
	}
}

func TestFitAndTransform(t *testing.T) {
	v := NewTfidfVectorizer(10, zap.NewNop())

	corpus := []string{
		"verify account password",
		"meeting agenda attached",
		"verify payment account",
	}
	if err := v.Fit(corpus); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	vec, err := v.Transform("verify account")
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if len(vec) != v.Width() {
		t.Fatalf("vector width = %d, want %d", len(vec), v.Width())
	}

	var sumSq float64
	nonZero := 0
	for _, x := range vec {
		sumSq += x * x
		if x != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Fatal("expected non-zero vector for in-vocabulary text")
	}
	if math.Abs(sumSq-1) > 1e-9 {
		t.Errorf("vector not L2-normalized: squared norm = %f", sumSq)
	}
}

func TestFitIsDeterministic(t *testing.T) {
	corpus := []string{
		"verify account password urgent",
		"meeting agenda attached report",
		"verify payment account urgent",
	}

	a := NewTfidfVectorizer(5, zap.NewNop())
	b := NewTfidfVectorizer(5, zap.NewNop())
	if err := a.Fit(corpus); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if err := b.Fit(corpus); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	text := "verify account report"
	va, _ := a.Transform(text)
	vb, _ := b.Transform(text)
	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("transforms differ at index %d: %f vs %f", i, va[i], vb[i])
		}
	}
}

func TestDegenerateCorpusYieldsZeroVectors(t *testing.T) {
	v := NewTfidfVectorizer(10, zap.NewNop())

	// All stop-words and single characters: nothing survives tokenization.
	if err := v.Fit([]string{"the and of", "a i"}); err != nil {
		t.Fatalf("Fit on degenerate corpus failed: %v", err)
	}

	vec, err := v.Transform("verify account")
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	for i, x := range vec {
		if x != 0 {
			t.Fatalf("expected zero vector, got %f at index %d", x, i)
		}
	}
}

func TestVectorizerStateRoundTrip(t *testing.T) {
	v := NewTfidfVectorizer(10, zap.NewNop())
	corpus := []string{
		"verify account password",
		"meeting agenda attached",
	}
	if err := v.Fit(corpus); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	state, err := v.MarshalState()
	if err != nil {
		t.Fatalf("MarshalState failed: %v", err)
	}
	restored, err := RestoreVectorizer(state, zap.NewNop())
	if err != nil {
		t.Fatalf("RestoreVectorizer failed: %v", err)
	}
	if restored.Width() != v.Width() {
		t.Fatalf("restored width = %d, want %d", restored.Width(), v.Width())
	}

	text := "verify meeting password"
	want, _ := v.Transform(text)
	got, err := restored.Transform(text)
	if err != nil {
		t.Fatalf("restored Transform failed: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("restored transform differs at index %d: %f vs %f", i, got[i], want[i])
		}
	}
}

func TestRestoreVectorizerRejectsBadState(t *testing.T) {
	if _, err := RestoreVectorizer([]byte("not json"), zap.NewNop()); err == nil {
		t.Error("expected error for malformed state")
	}
	if _, err := RestoreVectorizer([]byte(`{"width":0}`), zap.NewNop()); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := RestoreVectorizer([]byte(`{"width":2,"vocabulary":{"x":5},"idf":[1,1]}`), zap.NewNop()); err == nil {
		t.Error("expected error for out-of-range vocabulary index")
	}
}
