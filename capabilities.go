package teamkit

import "strings"

// Capability codes are flat human-readable keys like "edit-post" or
// "invite-user". Matching is always exact; there are no wildcards.

// ValidateCapabilityCode checks if a capability code is well-formed.
// A valid code is a non-empty string of lowercase letters, digits,
// hyphens, underscores, and dots, not starting or ending with a
// separator.
func ValidateCapabilityCode(code string) error {
	if code == "" {
		return NewError(ErrInvalidCapability, "capability code cannot be empty")
	}
	if isSeparator(rune(code[0])) || isSeparator(rune(code[len(code)-1])) {
		return NewError(ErrInvalidCapability, "capability code cannot start or end with a separator")
	}
	for _, c := range code {
		if !isValidCapabilityChar(c) {
			return NewError(ErrInvalidCapability, "capability code contains invalid character")
		}
	}
	return nil
}

func isValidCapabilityChar(c rune) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		isSeparator(c)
}

func isSeparator(c rune) bool {
	return c == '-' || c == '_' || c == '.'
}

// NormalizeCapabilityCodes trims whitespace, drops empty entries, and
// deduplicates codes preserving first-seen order.
func NormalizeCapabilityCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	result := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		result = append(result, code)
	}
	return result
}

// validateCapabilityCodes normalizes and validates a code list, failing
// on the first malformed code.
func validateCapabilityCodes(codes []string) ([]string, error) {
	normalized := NormalizeCapabilityCodes(codes)
	for _, code := range normalized {
		if err := ValidateCapabilityCode(code); err != nil {
			return nil, err
		}
	}
	return normalized, nil
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
