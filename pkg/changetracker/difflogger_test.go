package changetracker

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const before = `class A {
    int one() { return 1; }
    int two() {
        return 1+1;
    }
}
`

const after = `class A {
    int one() { return 1; }
    int two() {
        return 2;
    }
}
`

func TestComputeStats(t *testing.T) {
	s := ComputeStats(before, after)
	assert.Equal(t, DiffStats{Additions: 1, Deletions: 1}, s)

	assert.Equal(t, DiffStats{}, ComputeStats(before, before))
	assert.Equal(t, DiffStats{Additions: 2}, ComputeStats("a\n", "a\nb\nc\n"))
}

func TestGetDiffStats(t *testing.T) {
	assert.Equal(t, "A.java +1 -1\n", GetDiffStats("A.java", before, after, false))

	colored := GetDiffStats("A.java", before, after, true)
	assert.Contains(t, colored, GreenColor+"+1"+ResetColor)
	assert.Contains(t, colored, RedColor+"-1"+ResetColor)
}

func TestGetDiff(t *testing.T) {
	diff := GetDiff("A.java", before, after, false)

	assert.True(t, strings.HasPrefix(diff, "A.java +1 -1\n"))
	assert.Contains(t, diff, "-         return 1+1;\n")
	assert.Contains(t, diff, "+         return 2;\n")
	assert.Contains(t, diff, "      int two() {\n")
	assert.NotContains(t, diff, "\x1b[")
}

func TestGetDiff_ElidesDistantContext(t *testing.T) {
	var a, b strings.Builder
	for i := 0; i < 20; i++ {
		line := strings.Repeat("x", i+1) + "\n"
		a.WriteString(line)
		if i == 0 || i == 19 {
			b.WriteString("changed\n")
		} else {
			b.WriteString(line)
		}
	}

	diff := GetDiff("B.java", a.String(), b.String(), false)
	assert.Contains(t, diff, "...\n")
	assert.NotContains(t, diff, "  "+strings.Repeat("x", 10)+"\n")
}

func TestGetDiff_NoChanges(t *testing.T) {
	assert.Empty(t, GetDiff("A.java", before, before, true))
}

func TestPrintDiff_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintDiff(&buf, "A.java", before, before)
	assert.Equal(t, "A.java: no changes detected.\n", buf.String())

	buf.Reset()
	PrintDiff(&buf, "A.java", before, after)
	assert.NotContains(t, buf.String(), "\x1b[")
}
