package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		args []string
		want []string
	}{
		"plain": {
			args: []string{"version", "--plain"},
			want: []string{
				"tracecheck dev\n",
				"commit: unknown\n",
				"go: " + runtime.Version() + "\n",
				"platform: " + runtime.GOOS + "/" + runtime.GOARCH + "\n",
			},
		},
		"pretty": {
			args: []string{"version"},
			want: []string{"tracecheck\n", "Version", "dev (development build)", SourceURL},
		},
		"alias": {
			args: []string{"v", "--plain"},
			want: []string{"tracecheck dev\n"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, code := execute(t, tt.args...)
			assert.Equal(t, ExitSuccess, code, stderr)
			for _, want := range tt.want {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestTruncateCommit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", truncateCommit("abc"))
	assert.Equal(t, "0123abcd", truncateCommit("0123abcdef987654"))
}
