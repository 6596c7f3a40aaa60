package main

import (
	"reflect"
	"testing"
)

const sampleID = "0b54a4e8-6f3c-4a2e-9a51-8ab84f6c9d21"

func TestRewriteDirectProjectLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"inkwell"},
			want: []string{"inkwell"},
		},
		{
			name: "direct project id first token",
			in:   []string{"inkwell", sampleID},
			want: []string{"inkwell", "projects", "show", sampleID},
		},
		{
			name: "direct project id after value flag",
			in:   []string{"inkwell", "--api", "http://127.0.0.1:8000", sampleID},
			want: []string{"inkwell", "--api", "http://127.0.0.1:8000", "projects", "show", sampleID},
		},
		{
			name: "direct project id after equals flag",
			in:   []string{"inkwell", "--api=http://127.0.0.1:8000", sampleID},
			want: []string{"inkwell", "--api=http://127.0.0.1:8000", "projects", "show", sampleID},
		},
		{
			name: "direct project id after bool flag",
			in:   []string{"inkwell", "--pretty", sampleID},
			want: []string{"inkwell", "--pretty", "projects", "show", sampleID},
		},
		{
			name: "direct project id after double dash",
			in:   []string{"inkwell", "--api", "http://127.0.0.1:8000", "--", sampleID},
			want: []string{"inkwell", "--api", "http://127.0.0.1:8000", "--", "projects", "show", sampleID},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"inkwell", "projects", "show", sampleID},
			want: []string{"inkwell", "projects", "show", sampleID},
		},
		{
			name: "short token not rewritten",
			in:   []string{"inkwell", "doctor"},
			want: []string{"inkwell", "doctor"},
		},
		{
			name: "uuid-length garbage not rewritten",
			in:   []string{"inkwell", "0b54a4e8-6f3c-4a2e-9a51-8ab84f6c9dzz"},
			want: []string{"inkwell", "0b54a4e8-6f3c-4a2e-9a51-8ab84f6c9dzz"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectProjectLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectProjectLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}

func TestIsProjectID(t *testing.T) {
	t.Parallel()
	if !isProjectID(sampleID) {
		t.Fatal("canonical uuid rejected")
	}
	for _, s := range []string{"", "p1", "projects", "0b54a4e8-6f3c-4a2e-9a51", sampleID + "x"} {
		if isProjectID(s) {
			t.Fatalf("accepted %q", s)
		}
	}
}
