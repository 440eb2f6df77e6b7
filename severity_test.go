package xfault

import (
	"log/slog"
	"testing"
)

func TestSeverityOrdering(t *testing.T) {
	if !(SeverityLow < SeverityMedium && SeverityMedium < SeverityHigh && SeverityHigh < SeverityCritical) {
		t.Error("severities are not totally ordered")
	}
}

func TestSeverityLevel(t *testing.T) {
	tests := []struct {
		severity Severity
		expect   slog.Level
	}{
		{SeverityLow, slog.LevelDebug},
		{SeverityMedium, slog.LevelWarn},
		{SeverityHigh, slog.LevelError},
		{SeverityCritical, LevelCritical},
	}

	for _, tt := range tests {
		if got := tt.severity.Level(); got != tt.expect {
			t.Errorf("%s.Level() = %v, want %v", tt.severity, got, tt.expect)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		expect  Severity
		wantErr bool
	}{
		{"low", SeverityLow, false},
		{"MEDIUM", SeverityMedium, false},
		{" High ", SeverityHigh, false},
		{"critical", SeverityCritical, false},
		{"fatal", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSeverity(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSeverity(%q) succeeded, want error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSeverity(%q) returned error: %s", tt.input, err.Error())
			continue
		}
		if got != tt.expect {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.input, got, tt.expect)
		}
	}
}
