package common

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// AnalysisError represents a violation of an analyzer's calling contract.
// Data-quality problems never produce one.
type AnalysisError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// Is matches any AnalysisError carrying the same code
func (e *AnalysisError) Is(target error) bool {
	t, ok := target.(*AnalysisError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Common error codes
const (
	ErrCodeInvalidSampleRate   = "INVALID_SAMPLE_RATE"
	ErrCodeMissingPhaseChannel = "MISSING_PHASE_CHANNEL"
	ErrCodeEmptyWaveform       = "EMPTY_WAVEFORM"
	ErrCodeUnknownChannel      = "UNKNOWN_CHANNEL"
	ErrCodeInvalidWindow       = "INVALID_WINDOW"
	ErrCodeInvalidRange        = "INVALID_RANGE"
)

// Sentinels for errors.Is
var (
	ErrInvalidSampleRate   = &AnalysisError{Code: ErrCodeInvalidSampleRate, Message: "sample rate must be positive"}
	ErrMissingPhaseChannel = &AnalysisError{Code: ErrCodeMissingPhaseChannel, Message: "phase channel not selected"}
	ErrEmptyWaveform       = &AnalysisError{Code: ErrCodeEmptyWaveform, Message: "waveform is empty"}
	ErrUnknownChannel      = &AnalysisError{Code: ErrCodeUnknownChannel, Message: "unknown channel"}
	ErrInvalidWindow       = &AnalysisError{Code: ErrCodeInvalidWindow, Message: "invalid window"}
	ErrInvalidRange        = &AnalysisError{Code: ErrCodeInvalidRange, Message: "invalid range"}
)

// NewAnalysisError creates a new analysis error
func NewAnalysisError(code, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
