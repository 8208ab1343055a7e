package tensorhub

import (
	"errors"
	"math"
	"testing"

	"github.com/unixpickle/anyvec/anyvec32"
)

func testSavedModel(t *testing.T) *SavedModel {
	c := anyvec32.CurrentCreator()
	corpus := []string{"buy now", "breaking news today"}
	vocab := NewVocabulary(corpus, ModeWord)
	classes := NewClassIndex([]string{"POLITICS", "WELLNESS"})
	model, err := NewClassifier(c, ModelConfig{
		VocabSize:     vocab.NumIndices(),
		MaxLength:     3,
		EmbeddingSize: 4,
		HiddenSize:    6,
		NumClasses:    classes.NumClasses(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return &SavedModel{Vocab: vocab, Classes: classes, Model: model}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	saved := testSavedModel(t)
	dir := t.TempDir()

	if err := SaveVersion(dir, 1, saved); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadVersion(dir, 1)
	if err != nil {
		t.Fatal(err)
	}

	text := "breaking news now"
	origLabel, origProbs, err := saved.Predict(text)
	if err != nil {
		t.Fatal(err)
	}
	loadedLabel, loadedProbs, err := loaded.Predict(text)
	if err != nil {
		t.Fatal(err)
	}
	if origLabel != loadedLabel {
		t.Errorf("expected label %q but got %q", origLabel, loadedLabel)
	}
	orig := vectorData(origProbs)
	reloaded := vectorData(loadedProbs)
	if len(orig) != len(reloaded) {
		t.Fatalf("distribution lengths differ: %d vs %d", len(orig), len(reloaded))
	}
	for i, x := range orig {
		if math.Abs(x-reloaded[i]) > 1e-4 {
			t.Errorf("component %d: expected %f but got %f", i, x, reloaded[i])
		}
	}
}

func TestSaveVersionExisting(t *testing.T) {
	saved := testSavedModel(t)
	dir := t.TempDir()

	if err := SaveVersion(dir, 1, saved); err != nil {
		t.Fatal(err)
	}
	if err := SaveVersion(dir, 1, saved); err == nil {
		t.Fatal("expected error for existing version")
	}
}

func TestNextVersion(t *testing.T) {
	saved := testSavedModel(t)
	dir := t.TempDir()

	if v, err := NextVersion(dir); err != nil || v != 1 {
		t.Fatalf("expected version 1 but got %d (%v)", v, err)
	}
	if err := SaveVersion(dir, 1, saved); err != nil {
		t.Fatal(err)
	}
	if v, err := NextVersion(dir); err != nil || v != 2 {
		t.Fatalf("expected version 2 but got %d (%v)", v, err)
	}
	if err := SaveVersion(dir, 2, saved); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadLatest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Model.MaxLength != saved.Model.MaxLength {
		t.Error("loaded model differs")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadVersion(dir, 1); err == nil {
		t.Error("expected error for missing version")
	}
	if _, err := LoadLatest(dir); err == nil {
		t.Error("expected error for empty root")
	}
}

func TestSignatureShape(t *testing.T) {
	saved := testSavedModel(t)

	names := saved.SignatureNames()
	if len(names) != 1 || names[0] != ServingDefault {
		t.Fatalf("unexpected signatures: %v", names)
	}
	if _, err := saved.Signature("bogus"); err == nil {
		t.Error("expected error for unknown signature")
	}

	sig, err := saved.Signature(ServingDefault)
	if err != nil {
		t.Fatal(err)
	}
	if sig.InputLength != 3 || sig.NumClasses != 2 {
		t.Errorf("unexpected shapes: in=%d out=%d", sig.InputLength, sig.NumClasses)
	}

	_, err = sig.Call(anyvec32.MakeVectorData([]float32{1, 2}))
	if err == nil {
		t.Fatal("expected error for short input")
	}
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected *ShapeError but got %T", err)
	}
	if shapeErr.Expected != 3 || shapeErr.Actual != 2 {
		t.Errorf("unexpected shape error: %v", shapeErr)
	}

	out, err := sig.Call(anyvec32.MakeVectorData([]float32{1, 2, 0}))
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 2 {
		t.Fatalf("expected 2 outputs but got %d", out.Len())
	}
	var sum float64
	for _, x := range vectorData(out) {
		if x < 0 {
			t.Errorf("negative probability: %f", x)
		}
		sum += x
	}
	if math.Abs(sum-1) > 1e-3 {
		t.Errorf("probabilities sum to %f", sum)
	}
}
