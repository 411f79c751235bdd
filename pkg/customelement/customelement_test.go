package customelement

import "testing"

func TestIsCustomElement(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"tag-name", true},
		{"x-greet", true},
		{"my-element.v2", true},
		{"a-", true},
		{"tag-😬", true},
		{"math-α", true},
		{"Tag-Name", false},
		{"tag-Name", false},
		{"-tag-name", false},
		{"1tag-name", false},
		{"tagname", false},
		{"", false},
		{"div", false},
		{"tag name-x", false},
		{"font-face", false},
		{"annotation-xml", false},
		{"missing-glyph", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCustomElement(tt.name); got != tt.want {
				t.Errorf("IsCustomElement(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
