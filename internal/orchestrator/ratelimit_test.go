package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimits(t *testing.T) {
	cases := []struct {
		model string
		want  int64
	}{
		{model: "gpt-4o-mini", want: 15_000_000_000},
		{model: "gpt-5", want: 5_000_000_000},
		{model: "some-unlisted-model", want: defaultMaxTokensPerDay},
	}
	for _, tc := range cases {
		t.Run(tc.model, func(t *testing.T) {
			got := RateLimits(tc.model)
			assert.Equal(t, tc.want, got.MaxTokensPerDay)
		})
	}
}
