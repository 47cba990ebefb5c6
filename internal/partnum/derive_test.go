package partnum

import (
	"errors"
	"reflect"
	"testing"

	"celinker/internal/services"
)

func values(keys []SearchKey) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, key.Value)
	}
	return out
}

func TestDeriveLogicFamily(t *testing.T) {
	d := NewDeriver(nil)
	keys := d.Derive("SN74HC595")
	want := []string{"SN74HC595", "74HC595"}
	if !reflect.DeepEqual(values(keys), want) {
		t.Fatalf("keys = %v, want %v", values(keys), want)
	}
	if keys[0].Origin != OriginDirect || keys[1].Origin != OriginFamilyCore {
		t.Fatalf("unexpected origins: %+v", keys)
	}
}

func TestDeriveTapeReelSuffix(t *testing.T) {
	d := NewDeriver(nil)
	keys := d.Derive("ABC-123-TR")
	want := []string{"ABC-123-TR", "ABC-123"}
	if !reflect.DeepEqual(values(keys), want) {
		t.Fatalf("keys = %v, want %v", values(keys), want)
	}
	if keys[1].Origin != OriginPrimaryCore {
		t.Fatalf("expected primary core origin, got %s", keys[1].Origin)
	}
}

func TestDeriveFusedReelAndCompliance(t *testing.T) {
	d := NewDeriver(nil)
	// DR2G = D package + R2 reel count + G compliance.
	keys := d.Derive("LM358DR2G")
	want := []string{"LM358DR2G", "LM358"}
	if !reflect.DeepEqual(values(keys), want) {
		t.Fatalf("keys = %v, want %v", values(keys), want)
	}
}

func TestDerivePreservesGradeLetter(t *testing.T) {
	d := NewDeriver(nil)
	keys := d.Derive("TL072-A-PW")
	// The PW package code is stripped; peeling stops at the electrical
	// grade A instead of continuing into the base number.
	want := []string{"TL072-A-PW", "TL072-A"}
	if !reflect.DeepEqual(values(keys), want) {
		t.Fatalf("keys = %v, want %v", values(keys), want)
	}
}

func TestDeriveRegulatorFamily(t *testing.T) {
	d := NewDeriver(nil)
	keys := d.Derive("MC7805CT")
	// CT is one unrecognized token (fused to the base), so nothing is
	// peeled; MC is still a whitelisted regulator prefix for 78xx parts.
	want := []string{"MC7805CT", "7805CT"}
	if !reflect.DeepEqual(values(keys), want) {
		t.Fatalf("keys = %v, want %v", values(keys), want)
	}
	if keys[1].Origin != OriginFamilyCore {
		t.Fatalf("expected family core origin, got %s", keys[1].Origin)
	}
}

func TestDeriveUnknownCodesRetained(t *testing.T) {
	d := NewDeriver(nil)
	keys := d.Derive("XYZ999QQ")
	// QQ matches no rule; nothing is stripped and no extra keys appear.
	if len(keys) != 1 || keys[0].Value != "XYZ999QQ" {
		t.Fatalf("unrecognized tail must be retained: %v", values(keys))
	}
}

func TestDeriveIdempotent(t *testing.T) {
	d := NewDeriver(nil)
	for _, pn := range []string{"SN74HC595N", "LM358DR2G", "ABC-123-TR", "MAX232ACPE", "NE555P"} {
		first := d.Derive(pn)
		second := d.Derive(pn)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("derivation not idempotent for %s: %v vs %v", pn, first, second)
		}
	}
}

func TestDeriveKeysAreUnique(t *testing.T) {
	d := NewDeriver(nil)
	for _, pn := range []string{"74HC595", "SN74HC595", "LM358", "TL072CP"} {
		seen := map[string]bool{}
		for _, key := range d.Derive(pn) {
			if seen[key.Value] {
				t.Fatalf("duplicate key %q for %s", key.Value, pn)
			}
			seen[key.Value] = true
		}
	}
}

func TestDerivePackageAndFamilyChain(t *testing.T) {
	d := NewDeriver(nil)
	keys := d.Derive("SN74HC595N")
	want := []string{"SN74HC595N", "SN74HC595", "74HC595"}
	if !reflect.DeepEqual(values(keys), want) {
		t.Fatalf("keys = %v, want %v", values(keys), want)
	}
	origins := []Origin{keys[0].Origin, keys[1].Origin, keys[2].Origin}
	wantOrigins := []Origin{OriginDirect, OriginPrimaryCore, OriginFamilyCore}
	if !reflect.DeepEqual(origins, wantOrigins) {
		t.Fatalf("origins = %v, want %v", origins, wantOrigins)
	}
}

func TestValidateRejectsWildcardOnly(t *testing.T) {
	for _, raw := range []string{"", "   ", "***", "-?-", "_/+."} {
		if _, err := Validate(raw); err == nil {
			t.Fatalf("expected input error for %q", raw)
		} else if !errors.Is(err, services.ErrInput) {
			t.Fatalf("expected ErrInput for %q, got %v", raw, err)
		}
	}
}

func TestValidateTrimsOnly(t *testing.T) {
	got, err := Validate("  LM358DR2G ")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got != "LM358DR2G" {
		t.Fatalf("expected trimmed PN, got %q", got)
	}
}
