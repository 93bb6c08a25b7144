package analysis

import (
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a\nb\r\nc", []string{"a", "b", "c"}},
		{"", []string{}},
		{"\n\n  uno  \r\r dos \n", []string{"uno", "dos"}},
		{"sin saltos. con punto.", []string{"sin saltos. con punto."}},
	}

	for _, tt := range tests {
		if got := SplitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hello. World.", []string{"Hello", "World"}},
		{"..Hola.  . Mundo", []string{"Hola", "Mundo"}},
		{"", []string{}},
		// known limitation: decimals are split
		{"Costó 3.5 euros", []string{"Costó 3", "5 euros"}},
		{"Eh, este es un ejemplo. Por lo tanto, sirve de prueba.", []string{"Eh, este es un ejemplo", "Por lo tanto, sirve de prueba"}},
	}

	for _, tt := range tests {
		if got := SplitSentences(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitSentences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
