package grammar

import "testing"

func TestParseLocationRoleWithAmps(t *testing.T) {
	lr, err := ParseLocationRole(`SW_PUSH_SPST|(10,0,0)S40`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lr.Footprint != "SW_PUSH_SPST" {
		t.Errorf("footprint = %q, want SW_PUSH_SPST", lr.Footprint)
	}
	if lr.FS != 10 || lr.WL != 0 || lr.BL != 0 {
		t.Errorf("location = (%v,%v,%v), want (10,0,0)", lr.FS, lr.WL, lr.BL)
	}
	if lr.Role != "S" {
		t.Errorf("role = %q, want S", lr.Role)
	}
	if !lr.HasAmps || lr.Amps != 40 {
		t.Errorf("amps = %v (has=%v), want 40", lr.Amps, lr.HasAmps)
	}
}

func TestParseLocationRoleGroundNoAmps(t *testing.T) {
	lr, err := ParseLocationRole(`|(-9,-9,-9)G`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lr.Role != "G" {
		t.Errorf("role = %q, want G", lr.Role)
	}
	if lr.HasAmps {
		t.Errorf("expected no amps for ground field")
	}
	if lr.FS != -9 || lr.WL != -9 || lr.BL != -9 {
		t.Errorf("location = (%v,%v,%v), want (-9,-9,-9)", lr.FS, lr.WL, lr.BL)
	}
}

func TestParseLocationRoleMissingSeparator(t *testing.T) {
	if _, err := ParseLocationRole(`no separator here`); err == nil {
		t.Fatal("expected error for missing '|' separator")
	}
}

func TestParseWireLabelPlain(t *testing.T) {
	p, err := ParseWireLabel("P1A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.System != "P" || p.Circuit != "1" || p.Segment != "A" {
		t.Errorf("got %+v", p)
	}
	if p.Canonical() != "P1A" {
		t.Errorf("Canonical() = %q, want P1A", p.Canonical())
	}
}

func TestParseWireLabelWithDashes(t *testing.T) {
	p, err := ParseWireLabel("G-12-B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.System != "G" || p.Circuit != "12" || p.Segment != "B" {
		t.Errorf("got %+v", p)
	}
	if p.CircuitKey() != "G12" {
		t.Errorf("CircuitKey() = %q, want G12", p.CircuitKey())
	}
}

func TestParseWireLabelNoSegment(t *testing.T) {
	p, err := ParseWireLabel("A007")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.System != "A" || p.Circuit != "007" || p.Segment != "" {
		t.Errorf("got %+v", p)
	}
}

func TestParseWireLabelInvalid(t *testing.T) {
	if _, err := ParseWireLabel("12A"); err == nil {
		t.Fatal("expected error: label must start with a letter")
	}
}
