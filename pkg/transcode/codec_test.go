package transcode

import (
	"strconv"
	"strings"
	"testing"
)

func TestEncodePrimitives(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "hello", "hello"},
		{"empty string", "", ""},
		{"token-like string", "__b_7", "__b_7"},
		{"int", 42, "42"},
		{"negative int64", int64(-3), "-3"},
		{"uint8", uint8(9), "9"},
		{"int8", int8(-128), "-128"},
		{"int16", int16(-300), "-300"},
		{"int32", int32(70000), "70000"},
		{"uint", uint(7), "7"},
		{"uint16", uint16(65535), "65535"},
		{"uint32", uint32(4294967295), "4294967295"},
		{"max uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"uintptr", uintptr(12), "12"},
		{"float", 1.5, "1.5"},
		{"whole float", 2.0, "2"},
		{"float32", float32(0.25), "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCodec()
			got := c.Encode(tt.value)
			if got != tt.want {
				t.Errorf("Encode(%v) = %q, want %q", tt.value, got, tt.want)
			}
			if c.Len() != 0 {
				t.Errorf("Encode(%v) stored %d values, want 0", tt.value, c.Len())
			}
		})
	}
}

func TestDecodeRoundTripsPrimitives(t *testing.T) {
	c := NewCodec()
	if got := c.Decode(c.Encode("plain")); got != "plain" {
		t.Errorf("Decode(Encode(string)) = %v, want %q", got, "plain")
	}
	if got := c.Decode(c.Encode(12)); got != "12" {
		t.Errorf("Decode(Encode(12)) = %v, want %q", got, "12")
	}
}

func TestEncodeNonPrimitiveIssuesFreshTokens(t *testing.T) {
	c := NewCodec()
	items := []int{1, 2, 3}
	cfg := map[string]any{"a": 1}

	first := c.Encode(items)
	second := c.Encode(items)
	third := c.Encode(cfg)

	if first == second {
		t.Fatalf("expected fresh token per call, got %q twice", first)
	}

	seq := func(tok string) int {
		t.Helper()
		n, err := strconv.Atoi(strings.TrimPrefix(tok, TokenPrefix))
		if err != nil {
			t.Fatalf("token %q has no sequence: %v", tok, err)
		}
		return n
	}
	if !(seq(first) < seq(second) && seq(second) < seq(third)) {
		t.Errorf("sequence not increasing: %q %q %q", first, second, third)
	}

	got, ok := c.Decode(first).([]int)
	if !ok {
		t.Fatalf("Decode(%q) type = %T, want []int", first, c.Decode(first))
	}
	if &got[0] != &items[0] {
		t.Error("Decode should return the original slice, not a copy")
	}
	if m, ok := c.Decode(third).(map[string]any); !ok || m["a"] != 1 {
		t.Errorf("Decode(%q) = %v, want original map", third, c.Decode(third))
	}
}

func TestEncodeBoolAndNilUseTokens(t *testing.T) {
	c := NewCodec()
	for _, v := range []any{true, nil, struct{}{}} {
		tok := c.Encode(v)
		if !IsToken(tok) {
			t.Errorf("Encode(%v) = %q, want a token", v, tok)
		}
		if c.Decode(tok) != v {
			t.Errorf("Decode(%q) = %v, want %v", tok, c.Decode(tok), v)
		}
	}
}

func TestDecodeUnknownInput(t *testing.T) {
	c := NewCodec()
	tests := []string{"", "hello", "__b_", "__b_x", "__b_99", "x__b_1"}
	for _, in := range tests {
		if got := c.Decode(in); got != in {
			t.Errorf("Decode(%q) = %v, want input unchanged", in, got)
		}
	}
}

func TestIsToken(t *testing.T) {
	tests := map[string]bool{
		"__b_0":    true,
		"__b_123":  true,
		"__b_":     false,
		"__b_1a":   false,
		"b_1":      false,
		" __b_1":   false,
		"__b_1 ":   false,
	}
	for in, want := range tests {
		if got := IsToken(in); got != want {
			t.Errorf("IsToken(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStrip(t *testing.T) {
	in := `<div data-x="__b_12">a__b_3b __b_</div>`
	want := `<div data-x="">ab __b_</div>`
	if got := Strip(in); got != want {
		t.Errorf("Strip() = %q, want %q", got, want)
	}
}

func TestCodecsAreIsolated(t *testing.T) {
	a, b := NewCodec(), NewCodec()
	tok := a.Encode([]string{"x"})
	if b.Decode(tok) != tok {
		t.Error("a token from one codec must not resolve in another")
	}
}

func TestMarkupJoin(t *testing.T) {
	c := NewCodec()
	m := c.Markup()
	items := []string{"a", "b"}

	got := m.Join([]string{`<my-list title="`, `" items="`, `"></my-list>`}, "Todo", items)
	want := `<my-list title="Todo" items="__b_0"></my-list>`
	if got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}

	if m.Join(nil) != "" {
		t.Error("Join(nil) should be empty")
	}
	if got := m.Join([]string{"only"}); got != "only" {
		t.Errorf("Join(single) = %q, want %q", got, "only")
	}
	if got := m.Value(7); got != "7" {
		t.Errorf("Value(7) = %q, want %q", got, "7")
	}
}
