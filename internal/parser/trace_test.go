package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whmcsguru/ExceptionParser/internal/model"
)

const tracedLine = "[t] [web] ERROR: Exception: boom in /a/x.php:10 Stack trace: " +
	"#0 /b/y.php(5): Foo->bar() in /c/z.php:20 " +
	"#1 /d/w.php(7): main() in /e/v.php:30\n"

func TestExtractFrames(t *testing.T) {
	frames := ExtractFrames(tracedLine)

	require.Len(t, frames, 3)
	assert.Equal(t, model.StackFrame{File: "/a/x.php", Line: 10}, frames[0])
	assert.Equal(t, model.StackFrame{File: "/c/z.php", Line: 20}, frames[1])
	assert.Equal(t, model.StackFrame{File: "/e/v.php", Line: 30}, frames[2])
}

func TestExtractFramesNone(t *testing.T) {
	assert.Empty(t, ExtractFrames("nothing to see here"))
	assert.Empty(t, ExtractFrames("in /a/b.php:xyz"))
}

func TestExtractFramesSkipsOverflow(t *testing.T) {
	frames := ExtractFrames("in /a/b.php:99999999999999999999999999 in /c/d.php:4")
	require.Len(t, frames, 1)
	assert.Equal(t, model.StackFrame{File: "/c/d.php", Line: 4}, frames[0])
}

func TestResolveOrigin(t *testing.T) {
	reported := model.StructuredEntry{ReportedFile: "/a/x.php", ReportedLine: 10}

	tests := []struct {
		name     string
		raw      string
		expected model.Origin
	}{
		{
			name:     "last numbered frame wins",
			raw:      tracedLine,
			expected: model.Origin{File: "/e/v.php", Line: 30},
		},
		{
			name:     "last plain reference when no numbered frames",
			raw:      "boom in /a/x.php:10 rethrown in /f/g.php:77 and in /h/i.php:88",
			expected: model.Origin{File: "/h/i.php", Line: 88},
		},
		{
			name:     "only the primary reference",
			raw:      "boom in /a/x.php:10",
			expected: model.Origin{File: "/a/x.php", Line: 10},
		},
		{
			name:     "no references at all",
			raw:      "boom",
			expected: model.Origin{File: "/a/x.php", Line: 10},
		},
		{
			name:     "numbered frame file may contain spaces",
			raw:      "boom in /a/x.php:10 #0 /b/y.php(5): run() in /my app/z.php:3",
			expected: model.Origin{File: "/my app/z.php", Line: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveOrigin(reported, tt.raw))
		})
	}
}

func TestOriginAndFramesMayDisagree(t *testing.T) {
	reported := model.StructuredEntry{ReportedFile: "/a/x.php", ReportedLine: 10}

	origin := ResolveOrigin(reported, tracedLine)
	frames := ExtractFrames(tracedLine)

	require.NotEmpty(t, frames)
	assert.Equal(t, frames[len(frames)-1].File, origin.File)
	assert.NotEqual(t, frames[0].File, origin.File)
}
