package utils

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestCoerceDealValue(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"nil", nil, 0},
		{"float", float64(1500.5), 1500.5},
		{"int", 42, 42},
		{"numeric string", "25000", 25000},
		{"string with spaces", " 99.5 ", 99.5},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"negative float", float64(-100), 0},
		{"negative string", "-50", 0},
		{"json number", json.Number("777"), 777},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"bool", true, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CoerceDealValue(tc.in)
			if got != tc.want {
				t.Errorf("CoerceDealValue(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"trims whitespace", " hot , enterprise ", []string{"hot", "enterprise"}},
		{"drops empties", "a,,b,", []string{"a", "b"}},
		{"dedupes keeping first", "vip,hot,vip", []string{"vip", "hot"}},
		{"empty input", "", nil},
		{"only commas", ",,,", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTags(tc.in)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual([]string(got), tc.want) {
				t.Errorf("ParseTags(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken()
	if err != nil {
		t.Fatalf("GenerateSecureToken: %v", err)
	}
	b, err := GenerateSecureToken()
	if err != nil {
		t.Fatalf("GenerateSecureToken: %v", err)
	}
	if len(a) != 64 {
		t.Errorf("token length = %d, want 64", len(a))
	}
	if a == b {
		t.Error("two tokens should not collide")
	}
}
