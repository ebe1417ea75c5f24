package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupResultBytes(t *testing.T) {
	g := GroupResult{Sections: []Section{{Path: "a.js", Size: 10}, {Path: "b.json", Size: 5}}}
	assert.Equal(t, 15, g.Bytes())
	assert.False(t, g.HasWarnings())

	g.Skipped = []string{"missing"}
	assert.True(t, g.HasWarnings())
}

func TestRunResultTotals(t *testing.T) {
	r := RunResult{
		Groups: []GroupResult{
			{Name: "backend", Sections: []Section{{Path: "a.js"}, {Path: "b.js"}}, Skipped: []string{"backend/config"}},
			{Name: "frontend", Sections: []Section{{Path: "c.jsx"}}, Skipped: []string{"frontend/src"}},
		},
	}

	assert.Equal(t, 3, r.TotalFiles())
	assert.Equal(t, []string{"backend/config", "frontend/src"}, r.SkippedPaths())
}

func TestRunResultFinalize(t *testing.T) {
	tests := []struct {
		name   string
		result RunResult
		want   string
	}{
		{
			name:   "clean run",
			result: RunResult{Groups: []GroupResult{{Name: "backend"}}},
			want:   StatusCompleted,
		},
		{
			name:   "missing path",
			result: RunResult{Groups: []GroupResult{{Name: "backend", Skipped: []string{"x"}}}},
			want:   StatusCompletedWithWarnings,
		},
		{
			name: "unreadable file",
			result: RunResult{Groups: []GroupResult{{
				Name:       "backend",
				Unreadable: []UnreadableFile{{Path: "x.js", Error: "permission denied"}},
			}}},
			want: StatusCompletedWithWarnings,
		},
		{
			name:   "fatal error wins",
			result: RunResult{Groups: []GroupResult{{Name: "backend", Skipped: []string{"x"}}}, Error: errors.New("boom")},
			want:   StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.result.Finalize()
			assert.Equal(t, tt.want, tt.result.Status)
		})
	}
}
