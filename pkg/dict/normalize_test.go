package dict

import "testing"

func TestNormalizeLowercaseASCII(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"FAÏENCE", "faience"},
		{"Grés", "gres"},
		{"  Métal ", "metal"},
		{"Terre Cuite", "terre cuite"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeLowercaseASCII(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeLowercaseASCII(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeLowercaseUTF8(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Faïence", "faïence"},
		{"  terre cuite\n", "terre cuite"},
		{"GRÉS", "grés"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeLowercaseUTF8(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeLowercaseUTF8(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeCompact(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"% lacunaire", "%lacunaire"},
		{"%\r\nLACUNAIRE ", "%lacunaire"},
		{"Ente\tconservatore", "enteconservatore"},
		{"provenance (country code)", "provenance(countrycode)"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeCompact(tt.input)
		if got != tt.want {
			t.Errorf("NormalizeCompact(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeNone(t *testing.T) {
	for _, input := range []string{"Faïence", " grés ", ""} {
		got := NormalizeNone(input)
		if got != input {
			t.Errorf("NormalizeNone(%q) = %q, want unchanged", input, got)
		}
	}
}

func TestGetNormalizer(t *testing.T) {
	tests := []struct {
		mode  string
		input string
		want  string
	}{
		{"lowercase_ascii", "Grés", "gres"},
		{"lowercase_utf8", "Grés", "grés"},
		{"compact", "Terre Cuite", "terrecuite"},
		{"none", "Grés", "Grés"},
		{"", "Grés ", "grés"},             // default = lowercase_utf8
		{"unknown_mode", "Grés", "grés"}, // fallback = lowercase_utf8
	}
	for _, tt := range tests {
		fn := GetNormalizer(tt.mode)
		got := fn(tt.input)
		if got != tt.want {
			t.Errorf("GetNormalizer(%q)(%q) = %q, want %q", tt.mode, tt.input, got, tt.want)
		}
	}
}
