// pkg/interaction/secret.go

package interaction

import (
	"crypto/subtle"
)

const redactedSecret = "[REDACTED]"

// Secret holds one operator-supplied credential in memory.
// It formats as [REDACTED] so it cannot leak through logs or reports.
type Secret struct {
	label string
	value []byte
}

// NewSecret wraps a value. Used by non-interactive callers and tests.
func NewSecret(label, value string) *Secret {
	return &Secret{label: label, value: []byte(value)}
}

// Label names the credential, e.g. "MariaDB root password".
func (s *Secret) Label() string {
	if s == nil {
		return ""
	}
	return s.label
}

// Reveal returns the plaintext. Call it only at the point of handing the
// value to a single external invocation.
func (s *Secret) Reveal() string {
	if s == nil {
		return ""
	}
	return string(s.value)
}

// IsEmpty reports whether no value is held.
func (s *Secret) IsEmpty() bool {
	return s == nil || len(s.value) == 0
}

// Equal compares in constant time.
func (s *Secret) Equal(other *Secret) bool {
	if s == nil || other == nil {
		return s == other
	}
	return subtle.ConstantTimeCompare(s.value, other.value) == 1
}

// Clear zeroes the held bytes.
func (s *Secret) Clear() {
	if s == nil {
		return
	}
	for i := range s.value {
		s.value[i] = 0
	}
	s.value = nil
}

func (s *Secret) String() string {
	return redactedSecret
}

func (s *Secret) GoString() string {
	return redactedSecret
}

// MarshalYAML keeps secrets out of run reports.
func (s *Secret) MarshalYAML() (interface{}, error) {
	return redactedSecret, nil
}

// MarshalText keeps secrets out of JSON logs.
func (s *Secret) MarshalText() ([]byte, error) {
	return []byte(redactedSecret), nil
}
