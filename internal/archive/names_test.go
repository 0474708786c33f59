package archive

import "testing"

func TestBaseName(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"simple", "report.pdf", "report"},
		{"no extension", "report", "report"},
		{"spaces become underscores", "my report.docx", "my_report"},
		{"unsafe characters removed", "we!rd (name).pdf", "werd_name"},
		{"path stripped", "some/dir/report.pdf", "report"},
		{"nothing left", "???.pdf", "converted"},
		{"empty", "", "converted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseName(tt.source); got != tt.want {
				t.Errorf("BaseName(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	if got := OutputName("report.pdf", ".md"); got != "report.md" {
		t.Errorf("OutputName = %q, want report.md", got)
	}
	if got := OutputName("report.pdf", ".txt"); got != "report.txt" {
		t.Errorf("OutputName = %q, want report.txt", got)
	}
}
