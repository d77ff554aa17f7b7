package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) (string, error)
		in    string
		want  string
		ok    bool
	}{
		{"execution empty", wrap(ParseExecutionType), "", "", true},
		{"execution rt", wrap(ParseExecutionType), "REAL_TIME", "REAL_TIME", true},
		{"execution bad", wrap(ParseExecutionType), "real_time", "", false},
		{"alignment default", wrap(ParseAlignment), "", "LEFT", true},
		{"alignment right", wrap(ParseAlignment), "RIGHT", "RIGHT", true},
		{"averaging default", wrap(ParseAveragingMode), "", "CYCLIC", true},
		{"averaging single shot", wrap(ParseAveragingMode), "SINGLE_SHOT", "SINGLE_SHOT", true},
		{"acquisition default", wrap(ParseAcquisitionType), "", "INTEGRATION", true},
		{"acquisition bad", wrap(ParseAcquisitionType), "FOO", "INTEGRATION", false},
		{"repetition constant", wrap(ParseRepetitionMode), "CONSTANT", "CONSTANT", true},
		{"routing default", wrap(ParseFeedbackRouting), "", "AUTO", true},
		{"routing global", wrap(ParseFeedbackRouting), "GLOBAL", "GLOBAL", true},
		{"modulation hardware", wrap(ParseModulationType), "HARDWARE", "HARDWARE", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parse(tt.in)
			if !tt.ok {
				require.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func wrap[T ~string](f func(string) (T, error)) func(string) (string, error) {
	return func(s string) (string, error) {
		v, err := f(s)
		return string(v), err
	}
}

func TestExecutionTypeString(t *testing.T) {
	assert.Equal(t, "UNSET", ExecutionTypeUnset.String())
	assert.Equal(t, "NEAR_TIME", NearTime.String())
}
