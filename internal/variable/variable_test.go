package variable

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindAll(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Ref
	}{
		{
			"plain scalar",
			"${var}",
			[]Ref{{Start: 0, End: 6, Sigil: '$', Name: "var"}},
		},
		{
			"embedded in text",
			"tag with ${variable}",
			[]Ref{{Start: 9, End: 20, Sigil: '$', Name: "variable"}},
		},
		{
			"two references",
			"${a} and @{b}",
			[]Ref{
				{Start: 0, End: 4, Sigil: '$', Name: "a"},
				{Start: 9, End: 13, Sigil: '@', Name: "b"},
			},
		},
		{
			"nested stays inside name",
			"${outer_${inner}}",
			[]Ref{{Start: 0, End: 17, Sigil: '$', Name: "outer_${inner}"}},
		},
		{
			"item access excluded",
			"${dict}[key]",
			[]Ref{{Start: 0, End: 7, Sigil: '$', Name: "dict"}},
		},
		{
			"environment sigil",
			"%{PATH}",
			[]Ref{{Start: 0, End: 7, Sigil: '%', Name: "PATH"}},
		},
		{"escaped sigil", `\${not}`, nil},
		{
			"double backslash is literal",
			`\\${var}`,
			[]Ref{{Start: 2, End: 8, Sigil: '$', Name: "var"}},
		},
		{"unclosed brace", "${oops", nil},
		{"no references", "plain text", nil},
		{
			"inline eval",
			"${{ 1 + 2 }}",
			[]Ref{{Start: 0, End: 12, Sigil: '$', Name: "{ 1 + 2 }"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindAll(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindAll(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestIsRef(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"${var}", true},
		{"@{list}", true},
		{"&{dict}", true},
		{"${var} ", false},
		{"x${var}", false},
		{"${dict}[key]", false},
		{"plain", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsRef(tt.text); got != tt.want {
			t.Errorf("IsRef(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestTrimAssignSign(t *testing.T) {
	tests := []struct {
		text     string
		wantRef  string
		wantSign string
	}{
		{"${x}", "${x}", ""},
		{"${x} =", "${x}", " ="},
		{"${x}=", "${x}", "="},
		{"${x}  =", "${x}", "  ="},
		{"${x} = ", "${x}", " = "},
	}
	for _, tt := range tests {
		ref, sign := TrimAssignSign(tt.text)
		if ref != tt.wantRef || sign != tt.wantSign {
			t.Errorf("TrimAssignSign(%q) = (%q, %q), want (%q, %q)",
				tt.text, ref, sign, tt.wantRef, tt.wantSign)
		}
	}
}

func TestParseAssignTarget(t *testing.T) {
	tests := []struct {
		text      string
		wantSigil byte
		wantName  string
		wantOK    bool
	}{
		{"${x}", '$', "x", true},
		{"@{items} =", '@', "items", true},
		{"&{d}=", '&', "d", true},
		{"${d}[key]", 0, "", false},
		{"${a}${b}", 0, "", false},
		{"name", 0, "", false},
	}
	for _, tt := range tests {
		ref, ok := ParseAssignTarget(tt.text)
		if ok != tt.wantOK {
			t.Fatalf("ParseAssignTarget(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
		}
		if ok && (ref.Sigil != tt.wantSigil || ref.Name != tt.wantName) {
			t.Errorf("ParseAssignTarget(%q) = (%c, %q), want (%c, %q)",
				tt.text, ref.Sigil, ref.Name, tt.wantSigil, tt.wantName)
		}
	}
}

func TestWithSigil(t *testing.T) {
	tests := []struct {
		text  string
		sigil byte
		want  string
	}{
		{"${x}", '@', "@{x}"},
		{"${x}", '$', "${x}"},
		{"@{x}", '&', "&{x}"},
		{"plain", '@', "plain"},
	}
	for _, tt := range tests {
		if got := WithSigil(tt.text, tt.sigil); got != tt.want {
			t.Errorf("WithSigil(%q, %c) = %q, want %q", tt.text, tt.sigil, got, tt.want)
		}
	}
}

func TestIsNumber(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"42", true},
		{"0xFF", true},
		{"0b101", true},
		{"1.5", true},
		{"1e3", true},
		{" 7 ", true},
		{"var", false},
		{"", false},
		{"1x", false},
	}
	for _, tt := range tests {
		if got := IsNumber(tt.name); got != tt.want {
			t.Errorf("IsNumber(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
