package article

import (
	"testing"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		title   string
		wantErr bool
	}{
		{name: "valid", slug: "ai", title: "AI", wantErr: false},
		{name: "missing slug", slug: "", title: "AI", wantErr: true},
		{name: "missing title", slug: "ai", title: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.slug, tt.title, Metadata{})
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_CopiesTags(t *testing.T) {
	tags := []string{"AI", "ML"}
	a, err := New("ai", "AI", Metadata{Tags: tags})
	if err != nil {
		t.Fatal(err)
	}

	tags[0] = "mutated"
	if a.Tags()[0] != "AI" {
		t.Error("article must not share the caller's tag slice")
	}
}

func TestHasTag_ExactMatch(t *testing.T) {
	a, err := New("ai", "AI", Metadata{Tags: []string{"machine-learning"}})
	if err != nil {
		t.Fatal(err)
	}

	if !a.HasTag("machine-learning") {
		t.Error("expected exact tag to match")
	}
	if a.HasTag("Machine-Learning") {
		t.Error("tag matching must be case-sensitive")
	}
	if a.HasTag("machine") {
		t.Error("tag matching must not be substring-based")
	}
}

func TestReconstruct(t *testing.T) {
	a := Reconstruct("ai", "AI", "desc", "Technology", "jane", "2024-01-01", "ai.png", []string{"AI"}, "body")
	if a.Slug() != "ai" || a.Title() != "AI" || a.Category() != "Technology" {
		t.Errorf("fields not carried: %+v", a)
	}
	if a.Body() != "body" || a.Author() != "jane" || a.Image() != "ai.png" {
		t.Errorf("fields not carried: %+v", a)
	}
}
