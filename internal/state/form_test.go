package state

import (
	"reflect"
	"testing"
)

func TestSplitTaboos(t *testing.T) {
	t.Parallel()
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{" , ,, ", nil},
		{"no resurrections", []string{"no resurrections"}},
		{" no resurrections , no dream endings ", []string{"no resurrections", "no dream endings"}},
		{"不写穿越，不写重生, keep pets alive", []string{"不写穿越", "不写重生", "keep pets alive"}},
	}
	for _, tc := range cases {
		got := SplitTaboos(tc.raw)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitTaboos(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestFormValidation(t *testing.T) {
	t.Parallel()
	ok := CreateProjectForm{Name: "Night Ferry", Genre: "mystery", Style: "noir"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	missing := CreateProjectForm{Genre: "mystery", Style: "noir"}
	if err := missing.Validate(); err == nil {
		t.Fatal("missing name accepted")
	}

	long := ok
	for len(long.Name) <= 120 {
		long.Name += "x"
	}
	if err := long.Validate(); err == nil {
		t.Fatal("overlong name accepted")
	}

	negative := ok
	negative.TargetLength = -1
	if err := negative.Validate(); err == nil {
		t.Fatal("negative target length accepted")
	}
}

func TestFormInputDefaults(t *testing.T) {
	t.Parallel()
	base := CreateProjectForm{Name: " Night Ferry ", Genre: "mystery", Style: "noir"}

	in, err := base.Input()
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if in.Name != "Night Ferry" {
		t.Fatalf("name not trimmed: %q", in.Name)
	}
	if in.TargetLength != DefaultTargetLength {
		t.Fatalf("target length = %d, want default", in.TargetLength)
	}
	if in.TemplateID != nil {
		t.Fatalf("template id = %v, want nil", in.TemplateID)
	}
	if in.TabooConstraints == nil {
		t.Fatal("taboo list must encode as an empty list, not null")
	}

	withTemplate := base
	withTemplate.TemplateID = " three-act "
	in, err = withTemplate.Input()
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if in.TemplateID == nil || *in.TemplateID != "three-act" {
		t.Fatalf("template id = %v", in.TemplateID)
	}
	if in.TargetLength != 0 {
		t.Fatalf("target length = %d, want 0 so the template recommendation applies", in.TargetLength)
	}

	explicit := base
	explicit.TargetLength = 120000
	in, err = explicit.Input()
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if in.TargetLength != 120000 {
		t.Fatalf("explicit target length overridden: %d", in.TargetLength)
	}
}
