package bind

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize_Classification(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want Token
	}{
		{
			name: "plain word",
			arg:  "alpha",
			want: Token{Kind: TokenPositional, Raw: "alpha"},
		},
		{
			name: "long option bare",
			arg:  "--user",
			want: Token{Kind: TokenLong, Raw: "--user", Name: "user"},
		},
		{
			name: "long option inline value",
			arg:  "--user=joe",
			want: Token{Kind: TokenLong, Raw: "--user=joe", Name: "user", Value: "joe", HasValue: true},
		},
		{
			name: "long option empty inline value",
			arg:  "--user=",
			want: Token{Kind: TokenLong, Raw: "--user=", Name: "user", HasValue: true},
		},
		{
			name: "inline value splits on first equals only",
			arg:  "--expr=a=b",
			want: Token{Kind: TokenLong, Raw: "--expr=a=b", Name: "expr", Value: "a=b", HasValue: true},
		},
		{
			name: "bare double dash is an empty long option",
			arg:  "--",
			want: Token{Kind: TokenLong, Raw: "--", Name: ""},
		},
		{
			name: "short option",
			arg:  "-f",
			want: Token{Kind: TokenShort, Raw: "-f", Letter: 'f'},
		},
		{
			name: "short option inline value",
			arg:  "-n=5",
			want: Token{Kind: TokenShort, Raw: "-n=5", Letter: 'n', Value: "5", HasValue: true},
		},
		{
			name: "short option empty inline value",
			arg:  "-n=",
			want: Token{Kind: TokenShort, Raw: "-n=", Letter: 'n', HasValue: true},
		},
		{
			name: "combined short flags are positional",
			arg:  "-ab",
			want: Token{Kind: TokenPositional, Raw: "-ab"},
		},
		{
			name: "dash digit is positional",
			arg:  "-9",
			want: Token{Kind: TokenPositional, Raw: "-9"},
		},
		{
			name: "lone dash is positional",
			arg:  "-",
			want: Token{Kind: TokenPositional, Raw: "-"},
		},
		{
			name: "comma list is positional",
			arg:  "1,2,3,4,5",
			want: Token{Kind: TokenPositional, Raw: "1,2,3,4,5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize([]string{tt.arg})
			if len(got) != 1 {
				t.Fatalf("Tokenize produced %d tokens, want 1", len(got))
			}
			if diff := cmp.Diff(tt.want, got[0]); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenize_PreservesOrder(t *testing.T) {
	got := Tokenize([]string{"a@b.com", "--user=joe", "pw", "-f"})

	wantKinds := []TokenKind{TokenPositional, TokenLong, TokenPositional, TokenShort}
	if len(got) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d", len(got), len(wantKinds))
	}
	for i, k := range wantKinds {
		if got[i].Kind != k {
			t.Errorf("token %d: kind = %v, want %v", i, got[i].Kind, k)
		}
	}
}

func TestTokenize_Empty(t *testing.T) {
	if got := Tokenize(nil); len(got) != 0 {
		t.Errorf("Tokenize(nil) = %v, want empty", got)
	}
}

func TestToken_Display(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"--user=joe", "--user"},
		{"-f", "-f"},
		{"-n=5", "-n"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := classify(tt.arg); got.Display() != tt.want {
			t.Errorf("Display(%q) = %q, want %q", tt.arg, got.Display(), tt.want)
		}
	}
}
