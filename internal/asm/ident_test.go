package asm

import "testing"

func TestCanonicalIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// Mangled names keep a single underscore.
		{"__Zfoo", "_Zfoo"},
		{"__ZN3foo3barEv", "_ZN3foo3barEv"},
		{"_Zfoo", "_Zfoo"},

		// Mach-O C decoration.
		{"_foo", "foo"},
		{"_main", "main"},
		{"_a", "a"},
		{"_L_str", "L_str"},
		{"_L", "L"},

		// Stripping would leave a local label shape.
		{"_Lookup", "_Lookup"},
		{"_LoadConfig", "_LoadConfig"},
		{"_L1", "_L1"},

		// Left alone.
		{"foo", "foo"},
		{"__foo", "__foo"},
		{"___Zfoo", "___Zfoo"},
		{"_", "_"},
		{"_1x", "_1x"},
		{"8abc", "8abc"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := CanonicalIdentifier(tc.input)
			if got != tc.want {
				t.Errorf("CanonicalIdentifier(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestCanonicalizeIdentifiers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		count int
	}{
		{"mangled call", "\tcallq\t__ZN3foo3barEv", "\tcallq\t_ZN3foo3barEv", 1},
		{"decorated operand", "\tmovq\t_global_var(%rip), %rax", "\tmovq\tglobal_var(%rip), %rax", 1},
		{"function label", "_main:", "main:", 1},
		{"L function label kept", "_Lookup:", "_Lookup:", 0},
		{"L function call kept", "\tcallq\t_Lookup", "\tcallq\t_Lookup", 0},
		{"string label untouched", "\tleaq\tL_.str(%rip), %rdi", "\tleaq\tL_.str(%rip), %rdi", 0},
		{"numbers untouched", "\taddq\t$0x10, %rsp", "\taddq\t$0x10, %rsp", 0},
		{"several tokens", "\t.quad\t_a+_b-__Zc", "\t.quad\ta+b-_Zc", 3},
		{"empty", "", "", 0},
		{"punctuation only", ", ()", ", ()", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, n := canonicalizeLine(tc.input)
			if got != tc.want {
				t.Errorf("canonicalizeLine(%q) = %q, want %q", tc.input, got, tc.want)
			}
			if n != tc.count {
				t.Errorf("canonicalizeLine(%q) rewrote %d identifiers, want %d", tc.input, n, tc.count)
			}
			if pub := CanonicalizeIdentifiers(tc.input); pub != got {
				t.Errorf("CanonicalizeIdentifiers(%q) = %q, want %q", tc.input, pub, got)
			}
		})
	}
}
