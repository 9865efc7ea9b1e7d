package catalogue

import "testing"

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"% lacunaire", "% lacunaire"},
		{"  % lacunaire\n", "% lacunaire"},
		{"matériau\r\nsimplifié", "matériau simplifié"},
		{"pictures\nfilenames", "pictures filenames"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.input); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRowLookup_DirtyHeaderRoundTrip(t *testing.T) {
	clean := NewHeader([]string{"inventaire", "% lacunaire", "Ente conservatore"})
	dirty := NewHeader([]string{" inventaire", "%\r\nlacunaire ", "Ente \n conservatore"})
	values := []string{"MNC 1", "<10", "MIC"}

	cr := NewRow(clean, 2, values)
	dr := NewRow(dirty, 2, values)

	for _, name := range []string{"inventaire", "% lacunaire", "Ente conservatore", "ENTE CONSERVATORE", "%lacunaire"} {
		if cr.Get(name) != dr.Get(name) {
			t.Errorf("Get(%q): clean %q != dirty %q", name, cr.Get(name), dr.Get(name))
		}
		if dr.Get(name) == "" {
			t.Errorf("Get(%q) on dirty header is empty", name)
		}
	}
}

func TestRowLookup_Absent(t *testing.T) {
	r := NewRow(NewHeader([]string{"a", "b"}), 2, []string{"1"})

	if v, ok := r.Lookup("c"); ok || v != "" {
		t.Errorf("Lookup(c) = %q, %v, want \"\", false", v, ok)
	}
	// Present column with a missing trailing cell.
	if v, ok := r.Lookup("b"); !ok || v != "" {
		t.Errorf("Lookup(b) = %q, %v, want \"\", true", v, ok)
	}
	var zero Row
	if zero.Get("a") != "" {
		t.Error("zero Row should read as empty")
	}
}

func TestRowLookup_FirstMatchWins(t *testing.T) {
	r := NewRow(NewHeader([]string{"provenance", "Provenance "}), 2, []string{"first", "second"})
	if got := r.Get("provenance"); got != "first" {
		t.Errorf("Get = %q, want first", got)
	}
	m := r.Map()
	if len(m) != 2 {
		t.Fatalf("Map len = %d, want 2", len(m))
	}
	if m["provenance"] != "first" || m["Provenance"] != "second" {
		t.Errorf("Map = %v", m)
	}
}
