package inline

import (
	"reflect"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

func decodeParagraph(t *testing.T, md string) (Text, []string) {
	t.Helper()
	source := []byte(md)
	parser := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()
	doc := parser.Parse(text.NewReader(source))
	if doc.FirstChild() == nil {
		t.Fatalf("no block parsed from %q", md)
	}
	return Decode(doc.FirstChild(), source)
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    Text
		expected string
	}{
		{
			name:     "plain text",
			input:    Text{Plain("hello world")},
			expected: "hello world",
		},
		{
			name:     "escapes asterisk",
			input:    Text{Plain("2 * 3")},
			expected: `2 \* 3`,
		},
		{
			name:     "escapes underscore and backslash",
			input:    Text{Plain(`snake_case C:\dir`)},
			expected: `snake\_case C:\\dir`,
		},
		{
			name:     "bold",
			input:    Text{Plain("This is a "), Bold(Plain("test")), Plain(".")},
			expected: "This is a **test**.",
		},
		{
			name:     "italic",
			input:    Text{Italic(Plain("soft"))},
			expected: "*soft*",
		},
		{
			name:     "link",
			input:    Text{Link("https://example.com", Plain("site"))},
			expected: "[site](https://example.com)",
		},
		{
			name:     "link with spaces in destination",
			input:    Text{Link("my file.md", Plain("doc"))},
			expected: "[doc](<my file.md>)",
		},
		{
			name:     "brackets inside link label",
			input:    Text{Link("https://example.com", Plain("[1]"))},
			expected: `[\[1\]](https://example.com)`,
		},
		{
			name:     "italic nested in bold",
			input:    Text{Bold(Plain("a "), Italic(Plain("b")))},
			expected: "**a *b***",
		},
		{
			name:     "escaped text inside bold",
			input:    Text{Bold(Plain("a*b"))},
			expected: `**a\*b**`,
		},
		{
			name:     "whitespace moved outside delimiters",
			input:    Text{Plain("x"), Bold(Plain(" y ")), Plain("z")},
			expected: "x **y** z",
		},
		{
			name:     "empty bold dropped",
			input:    Text{Plain("a"), Bold(), Plain("b")},
			expected: "ab",
		},
		{
			name:     "escapes link brackets code spans and html",
			input:    Text{Plain("[a](b) `x` <b> & ~~s~~ a|b")},
			expected: "\\[a\\](b) \\`x\\` \\<b> \\& \\~\\~s\\~\\~ a\\|b",
		},
		{
			name:     "escapes block markers at line start",
			input:    Text{Plain("# h\n- a\n+ b\n> q\n===\n12. n\n3) m")},
			expected: "\\# h\n\\- a\n\\+ b\n\\> q\n\\===\n12\\. n\n3\\) m",
		},
		{
			name:     "leaves block markers inside a line",
			input:    Text{Plain("a # b - c 1. d")},
			expected: "a # b - c 1. d",
		},
		{
			name:     "escapes block marker at start of bold line",
			input:    Text{Plain("x\n"), Bold(Plain("- y"))},
			expected: "x\n**- y**",
		},
		{
			name:     "italic inside italic",
			input:    Text{Italic(Italic(Plain("x")))},
			expected: "*x*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := Encode(tt.input)
			if actual != tt.expected {
				t.Errorf("Encode(%v) = %q, want %q", tt.input, actual, tt.expected)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Text
	}{
		{
			name:     "plain",
			input:    "hello world",
			expected: Text{Plain("hello world")},
		},
		{
			name:     "bold",
			input:    "This is a **test**.",
			expected: Text{Plain("This is a "), Bold(Plain("test")), Plain(".")},
		},
		{
			name:     "italic with underscores",
			input:    "_soft_ words",
			expected: Text{Italic(Plain("soft")), Plain(" words")},
		},
		{
			name:     "link with formatted label",
			input:    "see [the **docs**](https://example.com)",
			expected: Text{Plain("see "), Link("https://example.com", Plain("the "), Bold(Plain("docs")))},
		},
		{
			name:     "escaped asterisk",
			input:    `2 \* 3`,
			expected: Text{Plain("2 * 3")},
		},
		{
			name:     "entity reference",
			input:    "fish &amp; chips",
			expected: Text{Plain("fish & chips")},
		},
		{
			name:     "escaped entity reference",
			input:    `a \&amp; b`,
			expected: Text{Plain("a &amp; b")},
		},
		{
			name:     "escaped brackets",
			input:    `\[a\](b)`,
			expected: Text{Plain("[a](b)")},
		},
		{
			name:     "nested italic collapses",
			input:    "*_x_*",
			expected: Text{Italic(Plain("x"))},
		},
		{
			name:     "nested bold collapses",
			input:    "**__x__** y",
			expected: Text{Bold(Plain("x")), Plain(" y")},
		},
		{
			name:     "soft line break",
			input:    "line one\nline two",
			expected: Text{Plain("line one\nline two")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, skipped := decodeParagraph(t, tt.input)
			if len(skipped) != 0 {
				t.Errorf("unexpected skipped kinds: %v", skipped)
			}
			if !reflect.DeepEqual(actual, tt.expected) {
				t.Errorf("Decode(%q) = %#v, want %#v", tt.input, actual, tt.expected)
			}
		})
	}
}

func TestDecodeSkipsUnsupportedInline(t *testing.T) {
	actual, skipped := decodeParagraph(t, "run `make` now")

	expected := Text{Plain("run  now")}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("Decode = %#v, want %#v", actual, expected)
	}
	if len(skipped) != 1 || skipped[0] != "CodeSpan" {
		t.Errorf("skipped = %v, want [CodeSpan]", skipped)
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	inputs := []Text{
		{Plain("literal * and _ and \\ characters")},
		{Plain("mixed "), Bold(Plain("bold")), Plain(" and "), Italic(Plain("italic")), Plain(" text")},
		{Link("https://example.com/a_b", Plain("under_score"))},
		{Bold(Plain("a "), Italic(Plain("b")), Plain(" c"))},
		{Plain("[a](b) `x` <b> &amp; ~~s~~ a|b")},
		{Plain("# h\n- a\n1. n\n===")},
		{Italic(Plain("a "), Italic(Plain("b")))},
	}

	for _, input := range inputs {
		encoded := Encode(input)
		decoded, _ := decodeParagraph(t, encoded)
		if !reflect.DeepEqual(decoded, Normalize(input)) {
			t.Errorf("roundtrip of %#v via %q = %#v", input, encoded, decoded)
		}
	}
}

func TestParseTagged(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Text
	}{
		{
			name:     "bold",
			input:    "This is a <b>test</b>.",
			expected: Text{Plain("This is a "), Bold(Plain("test")), Plain(".")},
		},
		{
			name:     "strong and em aliases",
			input:    "<strong>a</strong><em>b</em>",
			expected: Text{Bold(Plain("a")), Italic(Plain("b"))},
		},
		{
			name:     "link",
			input:    `<a href="https://example.com?a=1&amp;b=2">site</a>`,
			expected: Text{Link("https://example.com?a=1&b=2", Plain("site"))},
		},
		{
			name:     "entities",
			input:    "fish &amp; chips &lt;3",
			expected: Text{Plain("fish & chips <3")},
		},
		{
			name:     "line break",
			input:    "one<br>two",
			expected: Text{Plain("one\ntwo")},
		},
		{
			name:     "unknown tag keeps text",
			input:    `<mark class="x">hi</mark> there`,
			expected: Text{Plain("hi there")},
		},
		{
			name:     "unclosed tag",
			input:    "<b>open",
			expected: Text{Bold(Plain("open"))},
		},
		{
			name:     "nested",
			input:    "<b>a <i>b</i></b>",
			expected: Text{Bold(Plain("a "), Italic(Plain("b")))},
		},
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := ParseTagged(tt.input)
			if !reflect.DeepEqual(actual, tt.expected) {
				t.Errorf("ParseTagged(%q) = %#v, want %#v", tt.input, actual, tt.expected)
			}
		})
	}
}

func TestTagged(t *testing.T) {
	input := Text{Plain("a < b\nc "), Bold(Plain("d")), Link("https://x.io", Italic(Plain("e")))}
	expected := `a &lt; b<br>c <b>d</b><a href="https://x.io"><i>e</i></a>`

	actual := input.Tagged()
	if actual != expected {
		t.Errorf("Tagged() = %q, want %q", actual, expected)
	}

	if back := ParseTagged(actual); !reflect.DeepEqual(back, Normalize(input)) {
		t.Errorf("ParseTagged(Tagged()) = %#v, want %#v", back, input)
	}
}

func TestNormalize(t *testing.T) {
	input := Text{Plain("a"), Plain(""), Plain("b"), Italic(Plain("")), Link("u")}
	expected := Text{Plain("ab"), Link("u")}

	actual := Normalize(input)
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("Normalize = %#v, want %#v", actual, expected)
	}
	if Normalize(Text{Plain("")}) != nil {
		t.Error("Normalize of empty text should be nil")
	}
}

func TestNormalizeCollapsesNesting(t *testing.T) {
	tests := []struct {
		name     string
		input    Text
		expected Text
	}{
		{
			name:     "italic in italic",
			input:    Text{Italic(Italic(Plain("x")))},
			expected: Text{Italic(Plain("x"))},
		},
		{
			name:     "bold in bold with siblings",
			input:    Text{Bold(Plain("a "), Bold(Plain("b")), Plain(" c"))},
			expected: Text{Bold(Plain("a b c"))},
		},
		{
			name:     "italic in bold kept",
			input:    Text{Bold(Italic(Plain("x")))},
			expected: Text{Bold(Italic(Plain("x")))},
		},
		{
			name:     "deeply nested",
			input:    Text{Italic(Italic(Italic(Plain("x"))))},
			expected: Text{Italic(Plain("x"))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if actual := Normalize(tt.input); !reflect.DeepEqual(actual, tt.expected) {
				t.Errorf("Normalize = %#v, want %#v", actual, tt.expected)
			}
		})
	}
}

func TestSingleLine(t *testing.T) {
	input := Text{Plain("a\nb "), Bold(Plain("c\nd"))}
	expected := Text{Plain("a b "), Bold(Plain("c d"))}

	if actual := SingleLine(input); !reflect.DeepEqual(actual, expected) {
		t.Errorf("SingleLine = %#v, want %#v", actual, expected)
	}
}

func TestString(t *testing.T) {
	input := Text{Plain("a "), Bold(Plain("b "), Italic(Plain("c"))), Link("u", Plain(" d"))}
	if got := input.String(); got != "a b c d" {
		t.Errorf("String() = %q, want %q", got, "a b c d")
	}
}
