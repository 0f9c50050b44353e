package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSiteName(t *testing.T) {
	t.Parallel()

	valid := []string{"site1.local", "erp.example.com", "localhost", "a"}
	invalid := []string{"", "-bad.local", "bad-.local", "has space", "semi;colon", "dot..dot", "under_score.local"}

	for _, v := range valid {
		assert.NoError(t, ValidateSiteName(v), v)
	}
	for _, v := range invalid {
		assert.Error(t, ValidateSiteName(v), v)
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("ops@example.com"))
	assert.Error(t, ValidateEmail("notanemail"))
	assert.Error(t, ValidateEmail("Ops <ops@example.com>"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateUsername("frappe"))
	assert.NoError(t, ValidateUsername("_svc-1"))
	assert.Error(t, ValidateUsername("Frappe"))
	assert.Error(t, ValidateUsername("1user"))
	assert.Error(t, ValidateUsername(""))
}

func FuzzNormalizeYesNoInput(f *testing.F) {
	f.Add("yes")
	f.Add("no")
	f.Add("  yEs ")
	f.Add("not-a-valid-answer")

	f.Fuzz(func(t *testing.T, input string) {
		answer, ok := NormalizeYesNoInput(input)
		if !ok && answer {
			t.Fatalf("unrecognised input %q produced a true answer", input)
		}
	})
}
