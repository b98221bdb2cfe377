package model

import (
	"reflect"
	"testing"
)

func TestCitation_QuotedSpans(t *testing.T) {
	tests := []struct {
		name     string
		fullText string
		want     []string
	}{
		{
			name:     "curled quotes",
			fullText: "Smith v. Jones, 1 U.S. 2 (1999) (“the rule controls”)",
			want:     []string{"the rule controls"},
		},
		{
			name:     "straight quotes",
			fullText: `Smith v. Jones ("the rule controls")`,
			want:     []string{"the rule controls"},
		},
		{
			name:     "multiple quotes in order",
			fullText: "(“first passage”) and (“second passage”)",
			want:     []string{"first passage", "second passage"},
		},
		{
			name:     "no quotes",
			fullText: "42 U.S.C. § 1983 (2018).",
			want:     nil,
		},
		{
			name:     "unclosed quote dropped",
			fullText: "Smith v. Jones (“dangling",
			want:     nil,
		},
		{
			name:     "empty quote dropped",
			fullText: `before "" after`,
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Citation{FullText: tt.fullText}
			got := c.QuotedSpans()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
