package server

type CaptureRequest struct {
	Timeout      *int   `json:"timeout"`
	Quality      *int   `json:"quality"`
	IncludeImage bool   `json:"includeImage"`
	ImageFormat  string `json:"imageFormat"`
}

type VerifyRequest struct {
	CapturedTemplate string `json:"capturedTemplate"`
	// StoredTemplates holds template strings or {templateData, fingerIndex} objects.
	StoredTemplates []any `json:"storedTemplates"`
	SecurityLevel   *int  `json:"securityLevel"`
}

type VerifyResponse struct {
	Success     bool `json:"success"`
	Matched     bool `json:"matched"`
	FingerIndex any  `json:"fingerIndex,omitempty"`
}

type MatchRequest struct {
	Template1     string `json:"template1"`
	Template2     string `json:"template2"`
	SecurityLevel *int   `json:"securityLevel"`
}

type MatchResponse struct {
	Success bool `json:"success"`
	Matched bool `json:"matched"`
}

type HealthResponse struct {
	Status           string `json:"status"`
	SecugenAvailable bool   `json:"secugen_available"`
	MockMode         bool   `json:"mock_mode"`
}

type StatusResponse struct {
	Connected        bool `json:"connected"`
	SecugenAvailable bool `json:"secugen_available"`
	MockMode         bool `json:"mock_mode"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
