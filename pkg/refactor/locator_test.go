package refactor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const calcSource = `package calc;

import java.util.List;

@Service
public class Calc {
    private final int seed;

    public Calc(int seed) {
        this.seed = seed;
    }

    @Override
    public int add(int a, int b) {
        if (a > 0) {
            return a + b;
        }
        for (int i = 0; i < b; i++) {
            a++;
        }
        return b;
    }

    private static <T> List<T> wrap(T item) throws IOException, IllegalStateException {
        return List.of(item);
    }

    public Format format(Locale locale) {
        return null;
    }

    String[] names(
            int count,
            String prefix) {
        return new String[count];
    }
}
`

func TestLocateMethods(t *testing.T) {
	got := LocateMethods(calcSource)

	want := []int{
		strings.Index(calcSource, "public Calc(int seed)"),
		strings.Index(calcSource, "public int add"),
		strings.Index(calcSource, "private static <T>"),
		strings.Index(calcSource, "public Format format"),
		strings.Index(calcSource, "String[] names("),
	}
	assert.Equal(t, want, got)
}

func TestLocateMethods_IgnoresControlFlow(t *testing.T) {
	tests := []string{
		"if (x) {\n}",
		"    if (x) {\n    }",
		"else if (ready) {\n  go();\n}",
		"    } else if (ready) {",
		"while (true) {",
		"for (String s : list) {",
		"switch (kind) {",
		"catch (IOException e) {",
		"    return new Runnable() {",
		"    new Thread(task) {",
		"    case FOO(x) {",
	}
	for _, text := range tests {
		assert.Empty(t, LocateMethods(text), "text %q must not be a method", text)
	}
}

func TestLocateMethods_NoMethods(t *testing.T) {
	text := "package a;\n\ninterface Shape {\n    double area();\n}\n"
	assert.Empty(t, LocateMethods(text))
}

func TestLocateMethods_AfterCommentMarker(t *testing.T) {
	placeholder, _ := ExtractComments("class A {\n    /** Doc. */\n    void run() { }\n}\n")
	got := LocateMethods(placeholder)
	assert.Equal(t, []int{strings.Index(placeholder, "void run()")}, got)
}
