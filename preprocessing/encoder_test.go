package preprocessing

import (
	"testing"

	"github.com/DeepanshuK43/cropml/pkg/errors"
)

func TestLabelEncoder_RoundTrip(t *testing.T) {
	labels := []string{"rice", "maize", "rice", "chickpea", "maize"}

	enc := NewLabelEncoder()
	if err := enc.Fit(labels); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// Codes are assigned by ascending lexical order of the distinct labels.
	wantClasses := []string{"chickpea", "maize", "rice"}
	if len(enc.Classes) != len(wantClasses) {
		t.Fatalf("expected %d classes, got %d", len(wantClasses), len(enc.Classes))
	}
	for i, want := range wantClasses {
		if enc.Classes[i] != want {
			t.Errorf("Classes[%d]: expected %q, got %q", i, want, enc.Classes[i])
		}
	}

	for _, label := range labels {
		code, err := enc.Encode(label)
		if err != nil {
			t.Fatalf("Encode(%q) failed: %v", label, err)
		}
		back, err := enc.Decode(code)
		if err != nil {
			t.Fatalf("Decode(%d) failed: %v", code, err)
		}
		if back != label {
			t.Errorf("round trip: expected %q, got %q", label, back)
		}
	}
}

func TestLabelEncoder_Deterministic(t *testing.T) {
	// Two fits over the same label set in different orders must agree.
	a := NewLabelEncoder()
	b := NewLabelEncoder()

	if err := a.Fit([]string{"rice", "maize", "cotton"}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if err := b.Fit([]string{"cotton", "cotton", "maize", "rice"}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	for _, label := range []string{"cotton", "maize", "rice"} {
		codeA, _ := a.Encode(label)
		codeB, _ := b.Encode(label)
		if codeA != codeB {
			t.Errorf("%q: codes diverge: %d vs %d", label, codeA, codeB)
		}
	}
}

func TestLabelEncoder_UnknownLabel(t *testing.T) {
	enc := NewLabelEncoder()
	if err := enc.Fit([]string{"rice", "maize"}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := enc.Encode("wheat")
	if err == nil {
		t.Fatal("expected error for unseen label")
	}
	var unknownErr *errors.UnknownLabelError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownLabelError, got %T: %v", err, err)
	}
	if unknownErr.Label != "wheat" {
		t.Errorf("expected label \"wheat\" in error, got %q", unknownErr.Label)
	}
}

func TestLabelEncoder_InvalidCode(t *testing.T) {
	enc := NewLabelEncoder()
	if err := enc.Fit([]string{"rice", "maize"}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	tests := []int{-1, 2, 99}
	for _, code := range tests {
		if _, err := enc.Decode(code); err == nil {
			t.Errorf("Decode(%d): expected error", code)
		} else {
			var invalidErr *errors.InvalidCodeError
			if !errors.As(err, &invalidErr) {
				t.Errorf("Decode(%d): expected InvalidCodeError, got %T", code, err)
			}
		}
	}
}

func TestLabelEncoder_NotFitted(t *testing.T) {
	enc := NewLabelEncoder()

	if _, err := enc.Encode("rice"); err == nil {
		t.Error("Encode before Fit: expected NotFittedError")
	}
	if _, err := enc.Decode(0); err == nil {
		t.Error("Decode before Fit: expected NotFittedError")
	}

	var notFitted *errors.NotFittedError
	_, err := enc.Transform([]string{"rice"})
	if !errors.As(err, &notFitted) {
		t.Errorf("Transform before Fit: expected NotFittedError, got %v", err)
	}
}

func TestLabelEncoder_EmptyFit(t *testing.T) {
	enc := NewLabelEncoder()
	if err := enc.Fit(nil); err == nil {
		t.Fatal("expected error fitting on empty labels")
	}
}
