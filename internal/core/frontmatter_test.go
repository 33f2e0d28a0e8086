package core

import "testing"

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantMeta map[string]string
		wantBody string
	}{
		{
			name:     "yaml header",
			raw:      "---\nname: PDF Tools\ndescription: Work with PDFs\n---\n\n# Usage\nRun it.",
			wantMeta: map[string]string{"name": "PDF Tools", "description": "Work with PDFs"},
			wantBody: "# Usage\nRun it.",
		},
		{
			name:     "non-string values are stringified",
			raw:      "---\nversion: 2\ntags: [a, b]\nenabled: true\n---\nbody",
			wantMeta: map[string]string{"version": "2", "tags": "a, b", "enabled": "true"},
			wantBody: "body",
		},
		{
			name:     "invalid yaml falls back to key value lines",
			raw:      "---\nname: deploy\ndescription: use it: carefully\n  bad: [\n---\nbody",
			wantMeta: map[string]string{"name": "deploy", "description": "use it: carefully", "bad": "["},
			wantBody: "body",
		},
		{
			name:     "no header",
			raw:      "# Title\ntext",
			wantMeta: map[string]string{},
			wantBody: "# Title\ntext",
		},
		{
			name:     "unterminated header",
			raw:      "---\nname: x\nbody",
			wantMeta: map[string]string{},
			wantBody: "---\nname: x\nbody",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body := parseFrontmatter(tt.raw)
			if len(meta) != len(tt.wantMeta) {
				t.Fatalf("meta = %v, want %v", meta, tt.wantMeta)
			}
			for k, v := range tt.wantMeta {
				if meta[k] != v {
					t.Errorf("meta[%q] = %q, want %q", k, meta[k], v)
				}
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestExtractDescription(t *testing.T) {
	tests := map[string]string{
		"# Title\n\nFirst line.\nSecond.": "First line.",
		"\n\n  indented  \n":              "indented",
		"# Only\n## Headings":             "",
		"":                                "",
	}
	for body, want := range tests {
		if got := extractDescription(body); got != want {
			t.Errorf("extractDescription(%q) = %q, want %q", body, got, want)
		}
	}
}
