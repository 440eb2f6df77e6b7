package xfault

import "testing"

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		code   Code
		expect Category
		ok     bool
	}{
		{NetworkTimeout, CategoryNetwork, true},
		{1000, CategoryNetwork, true},
		{1999, CategoryNetwork, true},
		{IntegrationALookupFailed, CategoryIntegrationA, true},
		{2999, CategoryIntegrationA, true},
		{IntegrationBNotFound, CategoryIntegrationB, true},
		{3000, CategoryIntegrationB, true},
		{ValidationInvalidInput, CategoryValidation, true},
		{4999, CategoryValidation, true},
		{BusinessCalculationFailed, CategoryBusinessLogic, true},
		{5999, CategoryBusinessLogic, true},
		{SystemUnknownError, CategorySystem, true},
		{9000, CategorySystem, true},
		{0, 0, false},
		{999, 0, false},
		{6000, 0, false},
		{8999, 0, false},
		{10000, 0, false},
		{-1001, 0, false},
	}

	for _, tt := range tests {
		got, ok := CategoryOf(tt.code)
		if ok != tt.ok || got != tt.expect {
			t.Errorf("CategoryOf(%d) = (%v, %v), want (%v, %v)", tt.code, got, ok, tt.expect, tt.ok)
		}
	}
}

func TestValidCode(t *testing.T) {
	if !ValidCode(APIRateLimited) {
		t.Errorf("ValidCode(%d) = false, want true", APIRateLimited)
	}
	if ValidCode(7500) {
		t.Error("ValidCode(7500) = true, want false")
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		expect   string
	}{
		{CategoryNetwork, "network"},
		{CategoryIntegrationA, "integration_a"},
		{CategoryIntegrationB, "integration_b"},
		{CategoryValidation, "validation"},
		{CategoryBusinessLogic, "business_logic"},
		{CategorySystem, "system"},
		{Category(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.category.String(); got != tt.expect {
			t.Errorf("Category(%d).String() = %q, want %q", tt.category, got, tt.expect)
		}
	}
}
