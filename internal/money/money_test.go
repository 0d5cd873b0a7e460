package money

import "testing"

func TestParsePositive(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "whole amount", input: "10", want: 1000},
		{name: "two decimals", input: "12.34", want: 1234},
		{name: "one decimal", input: "5.5", want: 550},
		{name: "leading dot", input: ".75", want: 75},
		{name: "trailing dot", input: "3.", want: 300},
		{name: "third decimal rounds up", input: "1.005", want: 101},
		{name: "third decimal rounds down", input: "1.004", want: 100},
		{name: "whitespace trimmed", input: " 2.50 ", want: 250},
		{name: "zero rejected", input: "0", wantErr: true},
		{name: "zero with decimals rejected", input: "0.00", wantErr: true},
		{name: "negative rejected", input: "-10", wantErr: true},
		{name: "plus sign rejected", input: "+10", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "letters rejected", input: "abc", wantErr: true},
		{name: "mixed rejected", input: "12a.50", wantErr: true},
		{name: "two dots rejected", input: "1.2.3", wantErr: true},
		{name: "comma separator rejected", input: "1,50", wantErr: true},
		{name: "overflow rejected", input: "92233720368547759", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePositive(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePositive(%q) = %d, expected error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePositive(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePositive(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "positive", input: "100.25", want: 10025},
		{name: "negative", input: "-100.25", want: -10025},
		{name: "explicit plus", input: "+3", want: 300},
		{name: "zero", input: "0", want: 0},
		{name: "negative zero", input: "-0", want: 0},
		{name: "double sign rejected", input: "--5", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "bare sign rejected", input: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %d, expected error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{-1250, "-12.50"},
		{100000, "1000.00"},
	}

	for _, tt := range tests {
		if got := Format(tt.cents); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12345, -12345} {
		parsed, err := Parse(Format(cents))
		if err != nil {
			t.Fatalf("Parse(Format(%d)) unexpected error: %v", cents, err)
		}
		if parsed != cents {
			t.Errorf("Parse(Format(%d)) = %d", cents, parsed)
		}
	}
}
