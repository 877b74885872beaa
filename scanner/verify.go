package scanner

import "fmt"

// StoredTemplate is one caller-supplied verification candidate.
type StoredTemplate struct {
	Template    string
	FingerIndex any
	// usable is false when the entry carried no string payload.
	usable bool
}

// Candidate builds a StoredTemplate from an already extracted payload.
func Candidate(template string, fingerIndex any) StoredTemplate {
	return StoredTemplate{Template: template, FingerIndex: fingerIndex, usable: true}
}

// StoredTemplatesFrom normalises decoded request entries. An entry is either a
// bare template string, compared as is even when empty, or an object with
// templateData and fingerIndex. Objects whose templateData is missing, empty
// or not a string are kept but never compared.
func StoredTemplatesFrom(entries []any) []StoredTemplate {
	out := make([]StoredTemplate, 0, len(entries))
	for _, e := range entries {
		switch v := e.(type) {
		case string:
			out = append(out, Candidate(v, nil))
		case map[string]any:
			data, ok := v["templateData"].(string)
			if !ok || data == "" {
				out = append(out, StoredTemplate{FingerIndex: v["fingerIndex"]})
				continue
			}
			out = append(out, Candidate(data, v["fingerIndex"]))
		default:
			out = append(out, StoredTemplate{})
		}
	}
	return out
}

type VerifyResult struct {
	Matched     bool
	FingerIndex any
	// Compared counts the candidates handed to the matcher.
	Compared int
}

// Verify scans stored in order and stops at the first match. Callers should
// order candidates by likelihood.
func Verify(s Scanner, capturedTemplate string, stored []StoredTemplate, securityLevel int) (*VerifyResult, error) {
	if capturedTemplate == "" {
		return nil, ErrNoCapturedTemplate
	}
	if len(stored) == 0 {
		return nil, ErrNoStoredTemplates
	}

	result := &VerifyResult{}
	for i, candidate := range stored {
		if !candidate.usable {
			continue
		}
		result.Compared++
		matched, err := s.Match(capturedTemplate, candidate.Template, securityLevel)
		if err != nil {
			return nil, fmt.Errorf("stored template %d: %w", i, err)
		}
		if matched {
			result.Matched = true
			result.FingerIndex = candidate.FingerIndex
			return result, nil
		}
	}
	return result, nil
}
