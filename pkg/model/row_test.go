package model

import "testing"

func TestRowValidate(t *testing.T) {
	tests := []struct {
		name    string
		row     Row
		wantErr bool
	}{
		{"valid", Row{ID: "a", Title: "Alpha"}, false},
		{"missing id", Row{Title: "Alpha"}, true},
		{"blank id", Row{ID: "  ", Title: "Alpha"}, true},
		{"missing title", Row{ID: "a"}, true},
		{"empty tag", Row{ID: "a", Title: "Alpha", Tags: []string{"ok", " "}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.row.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRowNormalize(t *testing.T) {
	r := Row{ID: " a ", Title: " Alpha\t", Body: "text\n\n", Tags: []string{" UI ", "", "Core"}}
	r.Normalize()
	if r.ID != "a" || r.Title != "Alpha" {
		t.Errorf("unexpected trimmed fields %q %q", r.ID, r.Title)
	}
	if r.Body != "text" {
		t.Errorf("expected trailing newlines trimmed, got %q", r.Body)
	}
	if len(r.Tags) != 2 || r.Tags[0] != "ui" || r.Tags[1] != "core" {
		t.Errorf("unexpected tags %v", r.Tags)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("normalized row should validate: %v", err)
	}
}

func TestRowEqual(t *testing.T) {
	a := Row{ID: "a", Title: "Alpha", Tags: []string{"x"}}
	b := a
	b.Tags = []string{"x"}
	if !a.Equal(b) {
		t.Error("expected equal rows")
	}
	b.Tags = []string{"y"}
	if a.Equal(b) {
		t.Error("different tags should not be equal")
	}
	if (&Row{Body: " \n"}).HasDetail() {
		t.Error("blank body has no detail")
	}
}
