package contacts

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name      string
		inName    string
		inFirst   string
		inLast    string
		wantName  string
		wantFirst string
		wantLast  string
	}{
		{
			name:      "explicit parts joined first then last",
			inFirst:   "John",
			inLast:    "Smith",
			wantName:  "John Smith",
			wantFirst: "John",
			wantLast:  "Smith",
		},
		{
			name:      "explicit parts trimmed",
			inFirst:   "  John ",
			inLast:    " Smith  ",
			wantName:  "John Smith",
			wantFirst: "John",
			wantLast:  "Smith",
		},
		{
			name:      "explicit parts win over display name",
			inName:    "王五",
			inFirst:   "John",
			inLast:    "Smith",
			wantName:  "John Smith",
			wantFirst: "John",
			wantLast:  "Smith",
		},
		{
			name:      "only first supplied",
			inFirst:   "Madonna",
			wantName:  "Madonna",
			wantFirst: "Madonna",
			wantLast:  "",
		},
		{
			name:      "spaced display name splits on last token",
			inName:    "John Smith",
			wantName:  "John Smith",
			wantFirst: "John",
			wantLast:  "Smith",
		},
		{
			name:      "multiword given name",
			inName:    "Anna Maria Rossi",
			wantName:  "Anna Maria Rossi",
			wantFirst: "Anna Maria",
			wantLast:  "Rossi",
		},
		{
			name:      "unspaced name takes first rune as surname",
			inName:    "李四",
			wantName:  "李四",
			wantFirst: "四",
			wantLast:  "李",
		},
		{
			name:      "three character unspaced name",
			inName:    "欧阳锋",
			wantName:  "欧阳锋",
			wantFirst: "阳锋",
			wantLast:  "欧",
		},
		{
			name:      "single rune name",
			inName:    "李",
			wantName:  "李",
			wantFirst: "",
			wantLast:  "李",
		},
		{
			name:     "all blank",
			wantName: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName, gotFirst, gotLast := NormalizeName(tt.inName, tt.inFirst, tt.inLast)
			if gotName != tt.wantName || gotFirst != tt.wantFirst || gotLast != tt.wantLast {
				t.Errorf("NormalizeName(%q, %q, %q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.inName, tt.inFirst, tt.inLast,
					gotName, gotFirst, gotLast,
					tt.wantName, tt.wantFirst, tt.wantLast)
			}
		})
	}
}
