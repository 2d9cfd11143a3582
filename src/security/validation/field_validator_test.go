package validation

import (
	"errors"
	"testing"
	"time"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "Groceries"},
		{name: "minimum length", input: "abc"},
		{name: "too short", input: "ab", wantErr: true},
		{name: "too long", input: "this title is way too long to be accepted by the validator", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTitle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidationFailed) {
				t.Errorf("error should wrap ErrValidationFailed, got %v", err)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{name: "valid", input: 42.50},
		{name: "zero", input: 0, wantErr: true},
		{name: "negative", input: -10, wantErr: true},
		{name: "at cap", input: MaxAmount},
		{name: "above cap", input: MaxAmount + 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateAmount(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateAmount(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDateString(t *testing.T) {
	date, err := ValidateDateString("2024-03-15", "Date")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local)
	if !date.Equal(want) {
		t.Errorf("parsed date = %v, want %v", date, want)
	}

	for _, bad := range []string{"", "15-03-2024", "2024-13-01", "2024-02-30", "yesterday"} {
		if _, err := ValidateDateString(bad, "Date"); err == nil {
			t.Errorf("ValidateDateString(%q) should fail", bad)
		}
	}
}

func TestValidateCategoryKey(t *testing.T) {
	valid := []string{"food", "my_category", "cat2"}
	for _, key := range valid {
		if err := ValidateCategoryKey(key); err != nil {
			t.Errorf("ValidateCategoryKey(%q) unexpected error: %v", key, err)
		}
	}

	invalid := []string{"", "Food", "2cat", "my-category", "_leading", "key with spaces"}
	for _, key := range invalid {
		if err := ValidateCategoryKey(key); err == nil {
			t.Errorf("ValidateCategoryKey(%q) should fail", key)
		}
	}
}

func TestValidateHexColor(t *testing.T) {
	valid := []string{"#FF6961", "#8884ff", ""}
	for _, color := range valid {
		if err := ValidateHexColor(color); err != nil {
			t.Errorf("ValidateHexColor(%q) unexpected error: %v", color, err)
		}
	}

	invalid := []string{"FF6961", "#FFF", "#GGGGGG", "#FF6961AA"}
	for _, color := range invalid {
		if err := ValidateHexColor(color); err == nil {
			t.Errorf("ValidateHexColor(%q) should fail", color)
		}
	}
}

func TestValidateEthAddress(t *testing.T) {
	valid := []string{
		"0x00000000219ab540356cBB839Cbe05303d7705Fa",
		"0xdac17f958d2ee523a2206206994597c13d831ec7",
	}
	for _, addr := range valid {
		if err := ValidateEthAddress(addr); err != nil {
			t.Errorf("ValidateEthAddress(%q) unexpected error: %v", addr, err)
		}
	}

	invalid := []string{
		"",
		"0x1234",
		"00000000219ab540356cBB839Cbe05303d7705Fa",
		"0xZZZ00000219ab540356cBB839Cbe05303d7705Fa",
	}
	for _, addr := range invalid {
		if err := ValidateEthAddress(addr); err == nil {
			t.Errorf("ValidateEthAddress(%q) should fail", addr)
		}
	}
}

func TestSanitizeForFormulaInjection(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "=SUM(A1)", want: "'=SUM(A1)"},
		{input: "+1234", want: "'+1234"},
		{input: "@cmd", want: "'@cmd"},
		{input: "-42", want: "'-42"},
		{input: "plain text", want: "plain text"},
		{input: "", want: ""},
	}
	for _, tt := range tests {
		if got := SanitizeForFormulaInjection(tt.input); got != tt.want {
			t.Errorf("SanitizeForFormulaInjection(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	if got := SanitizeText(`<script>alert("x")</script>hello`); got != "hello" {
		t.Errorf("SanitizeText did not strip markup: %q", got)
	}
	if got := SanitizeText("plain"); got != "plain" {
		t.Errorf("SanitizeText altered plain text: %q", got)
	}
}
