package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := map[string]string{
		"React":               "react",
		"  Machine Learning ": "machine-learning",
		"Node.js & Deno":      "nodejs-deno",
		"C++":                 "c",
		"UI / UX Design":      "ui-ux-design",
		"snake_case stays":    "snake_case-stays",
		"!!!":                 "",
	}

	for in, want := range tests {
		assert.Equal(t, want, Make(in), "input %q", in)
	}
}

func TestWithSuffix(t *testing.T) {
	got := WithSuffix("react")

	assert.True(t, strings.HasPrefix(got, "react-"))
	assert.Len(t, got, len("react-")+8)
	assert.NotEqual(t, got, WithSuffix("react"))
}
