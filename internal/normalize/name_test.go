package normalize

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lower", in: "alice", want: "alice"},
		{name: "upper", in: "ALICE", want: "alice"},
		{name: "spaces", in: "  Bob ", want: "bob"},
		{name: "cyrillic", in: "Вася", want: "вася"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.in); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlank(t *testing.T) {
	for _, in := range []string{"", " ", "\t\n"} {
		if !Blank(in) {
			t.Errorf("Blank(%q) = false", in)
		}
	}
	if Blank(" x ") {
		t.Error("Blank(\" x \") = true")
	}
}
