package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderUnifiedDiff_LineChange(t *testing.T) {
	out := RenderUnifiedDiff("f.txt", "patch", "a\nb\nc\n", "a\nB\nc\n")
	assert.Equal(t, "--- f.txt (current)\n"+
		"+++ f.txt (patch)\n"+
		"@@ -2,1 +2,1 @@\n"+
		" a\n"+
		"-b\n"+
		"+B\n"+
		" c\n", out)
}

func TestRenderUnifiedDiff_Append(t *testing.T) {
	out := RenderUnifiedDiff("f.txt", "patch", "a\n", "a\nb\n")
	assert.Contains(t, out, "@@ -2,0 +2,1 @@\n")
	assert.Contains(t, out, "+b\n")
	assert.NotContains(t, out, "\n-", "pure addition has no removed lines")
}

func TestRenderUnifiedDiff_Creation(t *testing.T) {
	out := RenderUnifiedDiff("new.txt", "create", "", "hello\n")
	assert.Contains(t, out, "+++ new.txt (create)\n")
	assert.Contains(t, out, "+hello\n")
}

func TestRenderUnifiedDiff_Deletion(t *testing.T) {
	out := RenderUnifiedDiff("gone.txt", "delete", "x\ny\n", "")
	assert.Contains(t, out, "-x\n")
	assert.Contains(t, out, "-y\n")
}

func TestRenderUnifiedDiff_NoChange(t *testing.T) {
	out := RenderUnifiedDiff("f.txt", "patch", "same\n", "same\n")
	assert.Contains(t, out, "(no content change)")
}

func TestRenderUnifiedDiff_ContextIsCapped(t *testing.T) {
	before := "1\n2\n3\n4\n5\n6\n7\n8\n9\n"
	after := "1\n2\n3\n4\n5x\n6\n7\n8\n9\n"
	out := RenderUnifiedDiff("f.txt", "patch", before, after)
	assert.NotContains(t, out, " 1\n", "context stops three lines out")
	assert.Contains(t, out, " 2\n")
	assert.Contains(t, out, "-5\n")
	assert.Contains(t, out, "+5x\n")
	assert.Contains(t, out, " 8\n")
	assert.NotContains(t, out, " 9\n")
}
