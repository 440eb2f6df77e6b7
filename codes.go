package xfault

// Code is a stable numeric error code.
//
// Codes are partitioned into closed numeric bands, one per [Category]. A code belongs to exactly one band, bands
// never overlap, and codes are never reused across categories. The band boundaries are an external contract and
// must not change between releases.
type Code int

const (
	// Network/API error codes (1000-1999).

	// NetworkTimeout indicates a request exceeded its deadline before a response arrived.
	NetworkTimeout Code = 1001

	// NetworkConnectionFailed indicates a connection could not be established or was dropped mid-flight.
	NetworkConnectionFailed Code = 1002

	// APIRateLimited indicates the remote API rejected the request due to rate limiting.
	APIRateLimited Code = 1003

	// APIAuthenticationFailed indicates the remote API rejected the caller's credentials.
	APIAuthenticationFailed Code = 1004

	// APINotFound indicates the requested remote resource does not exist.
	APINotFound Code = 1005

	// APIServerError indicates the remote API failed internally (eg: a 5xx response).
	APIServerError Code = 1006
)

const (
	// Integration-A error codes (2000-2999).

	// IntegrationALookupFailed indicates the primary integration could not resolve the requested entity.
	IntegrationALookupFailed Code = 2001

	// IntegrationAAccessDenied indicates the primary integration refused access to the requested entity.
	IntegrationAAccessDenied Code = 2002

	// IntegrationAParseFailed indicates a response from the primary integration could not be parsed.
	IntegrationAParseFailed Code = 2003

	// IntegrationAFetchFailed indicates content could not be retrieved from the primary integration.
	IntegrationAFetchFailed Code = 2004
)

const (
	// Integration-B error codes (3000-3999).

	// IntegrationBRequestFailed indicates a general request failure against the secondary integration.
	IntegrationBRequestFailed Code = 3001

	// IntegrationBNotFound indicates the secondary integration has no record of the requested entity.
	IntegrationBNotFound Code = 3002

	// IntegrationBFetchFailed indicates content could not be retrieved from the secondary integration.
	IntegrationBFetchFailed Code = 3003
)

const (
	// Validation error codes (4000-4999).

	// ValidationInvalidIdentifier indicates an identifier failed format validation.
	ValidationInvalidIdentifier Code = 4001

	// ValidationInvalidInput indicates input data failed validation.
	ValidationInvalidInput Code = 4002

	// ValidationMissingField indicates a required field was absent.
	ValidationMissingField Code = 4003

	// ValidationTypeMismatch indicates a field held a value of the wrong type.
	ValidationTypeMismatch Code = 4004
)

const (
	// Business-logic error codes (5000-5999).

	// BusinessCalculationFailed indicates a domain calculation could not be completed.
	BusinessCalculationFailed Code = 5001

	// BusinessInsufficientData indicates a domain operation lacked the data it required.
	BusinessInsufficientData Code = 5002

	// BusinessInvalidState indicates a domain operation was attempted in an invalid state.
	BusinessInvalidState Code = 5003
)

const (
	// System error codes (9000-9999).

	// SystemConfigurationError indicates the process configuration is unusable.
	SystemConfigurationError Code = 9001

	// SystemFileOperationError indicates a file could not be read, written or rotated.
	SystemFileOperationError Code = 9002

	// SystemLoggingError indicates the logging subsystem itself failed.
	SystemLoggingError Code = 9003

	// SystemUnknownError indicates a failure that could not be classified.
	SystemUnknownError Code = 9999
)

// Category identifies the band an error code belongs to.
type Category int

const (
	// CategoryNetwork covers network and remote API failures (codes 1000-1999).
	CategoryNetwork Category = iota + 1

	// CategoryIntegrationA covers failures of the primary external integration (codes 2000-2999).
	CategoryIntegrationA

	// CategoryIntegrationB covers failures of the secondary external integration (codes 3000-3999).
	CategoryIntegrationB

	// CategoryValidation covers data validation failures (codes 4000-4999).
	CategoryValidation

	// CategoryBusinessLogic covers domain calculation and state failures (codes 5000-5999).
	CategoryBusinessLogic

	// CategorySystem covers unrecoverable process-level failures (codes 9000-9999).
	CategorySystem
)

// String returns the category's name.
func (c Category) String() string {
	switch c {
	case CategoryNetwork:
		return "network"
	case CategoryIntegrationA:
		return "integration_a"
	case CategoryIntegrationB:
		return "integration_b"
	case CategoryValidation:
		return "validation"
	case CategoryBusinessLogic:
		return "business_logic"
	case CategorySystem:
		return "system"
	}
	return "unknown"
}

// defaultSeverity returns the severity assigned to errors of this category when the caller does not supply one.
func (c Category) defaultSeverity() Severity {
	switch c {
	case CategoryBusinessLogic:
		return SeverityHigh
	case CategorySystem:
		return SeverityCritical
	}
	return SeverityMedium
}

// CategoryOf returns the category whose band contains the given code.
//
// The second return value is false if the code falls outside every defined band.
func CategoryOf(code Code) (Category, bool) {
	switch {
	case code >= 1000 && code <= 1999:
		return CategoryNetwork, true
	case code >= 2000 && code <= 2999:
		return CategoryIntegrationA, true
	case code >= 3000 && code <= 3999:
		return CategoryIntegrationB, true
	case code >= 4000 && code <= 4999:
		return CategoryValidation, true
	case code >= 5000 && code <= 5999:
		return CategoryBusinessLogic, true
	case code >= 9000 && code <= 9999:
		return CategorySystem, true
	}
	return 0, false
}

// ValidCode returns true if the code belongs to a defined band.
func ValidCode(code Code) bool {
	_, ok := CategoryOf(code)
	return ok
}
