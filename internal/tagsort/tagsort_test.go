package tagsort

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"docsniff/internal/diag"
	"docsniff/internal/docblock"
	"docsniff/internal/fix"
	"docsniff/internal/lexer"
	"docsniff/internal/source"
	"docsniff/internal/token"

	"github.com/google/go-cmp/cmp"
)

func parse(t *testing.T, src string) *docblock.Block {
	t.Helper()
	fs := source.NewFileSet()
	s := lexer.Tokenize(fs.Get(fs.AddVirtual("test.php", []byte(src))), lexer.Options{})
	anchor, ok := s.FindNext(token.Kinds(token.KwFunction), 0)
	if !ok {
		t.Fatal("no function")
	}
	b, ok := docblock.Locate(s, anchor)
	if !ok {
		t.Fatal("no block")
	}
	return b
}

func apply(t *testing.T, b *docblock.Block, v diag.Violation) string {
	t.Helper()
	if !v.Fixable {
		t.Fatalf("violation %s is not fixable", v.Code.Name())
	}
	f := fix.NewFixer(b.Stream())
	if err := f.Apply(v.Fix()); err != nil {
		t.Fatalf("apply: %v", err)
	}
	return f.Contents()
}

func doc(lines ...string) string {
	return "<?php\n/**\n" + strings.Join(lines, "\n") + "\n */\nfunction f() {}\n"
}

func keys(tags []docblock.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, tg := range tags {
		out = append(out, tg.Key())
	}
	return out
}

func TestScenarioParamReturnParam(t *testing.T) {
	b := parse(t, doc(
		" * Summary.",
		" *",
		" * @param int $a The a.",
		" * @return void",
		" * @param int $b The b.",
	))
	if diff := cmp.Diff([]string{"param", "param", "return"}, keys(Sorted(b.Tags))); diff != "" {
		t.Fatalf("sorted mismatch (-want +got):\n%s", diff)
	}

	vs := CheckOrder(b)
	if len(vs) != 1 {
		t.Fatalf("violations = %v", vs)
	}
	if vs[0].Code != diag.SrtWrongPosition || vs[0].Pos != b.Tags[0].Pos {
		t.Errorf("violation = %+v, want WrongPosition at first @param", vs[0])
	}

	want := doc(
		" * Summary.",
		" *",
		" * @param int $a The a.",
		" * @param int $b The b.",
		" *",
		" * @return void",
	)
	if got := apply(t, b, vs[0]); got != want {
		t.Errorf("fixed text mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestGroupsAndSeparators(t *testing.T) {
	b := parse(t, doc(
		" * @throws \\LogicException One.",
		" * @param int $b The b.",
		" * @see other()",
		" * @return int The sum.",
		" * @throws \\RuntimeException Two.",
		" * @author Jane <jane@example.com>",
		" * @param int $a The a.",
		" * @throws \\Exception Three.",
	))
	want := doc(
		" * @author Jane <jane@example.com>",
		" * @see other()",
		" *",
		" * @param int $b The b.",
		" * @param int $a The a.",
		" *",
		" * @throws \\LogicException One.",
		" * @throws \\RuntimeException Two.",
		" * @throws \\Exception Three.",
		" *",
		" * @return int The sum.",
	)
	vs := CheckOrder(b)
	if len(vs) != 1 {
		t.Fatalf("violations = %v", vs)
	}
	if got := apply(t, b, vs[0]); got != want {
		t.Errorf("fixed text mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestContinuationAlignment(t *testing.T) {
	b := parse(t, doc(
		" * @return int The",
		" *   count.",
		" * @param int $a The a,",
		" *       spanning lines.",
	))
	want := doc(
		" * @param int $a The a,",
		" *        spanning lines.",
		" *",
		" * @return int The",
		" *         count.",
	)
	vs := CheckOrder(b)
	if len(vs) != 1 {
		t.Fatalf("violations = %v", vs)
	}
	if got := apply(t, b, vs[0]); got != want {
		t.Errorf("fixed text mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestDeeperContinuationKeepsColumn(t *testing.T) {
	b := parse(t, doc(
		" * @return int The count.",
		" * @param int $a The a,",
		" *               spanning.",
	))
	want := doc(
		" * @param int $a The a,",
		" *               spanning.",
		" *",
		" * @return int The count.",
	)
	vs := CheckOrder(b)
	if len(vs) != 1 {
		t.Fatalf("violations = %v", vs)
	}
	if got := apply(t, b, vs[0]); got != want {
		t.Errorf("fixed text mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestNoFirstLineContentKeepsIndentation(t *testing.T) {
	b := parse(t, doc(
		"     * @var string[]",
		"     * @Assert\\All({",
		"     *     @Assert\\NotBlank()",
		"     * })",
	))
	want := doc(
		"     * @Assert\\All({",
		"     *     @Assert\\NotBlank()",
		"     * })",
		"     * @var string[]",
	)
	vs := CheckOrder(b)
	if len(vs) != 1 {
		t.Fatalf("violations = %v", vs)
	}
	if got := apply(t, b, vs[0]); got != want {
		t.Errorf("fixed text mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestParameterSuffixNormalised(t *testing.T) {
	b := parse(t, doc(
		" * @ORM\\Column(type=\"string\")",
		" * @ORM\\Column(length=10)",
		" * @Assert\\NotNull",
	))
	got := Sorted(b.Tags)
	if diff := cmp.Diff([]string{"assert\\notnull", "orm\\column", "orm\\column"}, keys(got)); diff != "" {
		t.Errorf("sorted mismatch (-want +got):\n%s", diff)
	}
	if got[1].Name != "@ORM\\Column(type=\"string\")" {
		t.Errorf("literal tag text must be kept, got %q", got[1].Name)
	}
}

func TestRoundTripOnSortedInput(t *testing.T) {
	lines := []string{
		" * Summary.",
		" *",
		" * @author Jane <jane@example.com>",
		" * @version 1.0.0",
		" *",
		" * @param int $a The a,",
		" *                spanning.",
		" * @param int $b The b.",
		" *",
		" * @return void",
	}
	src := doc(lines...)
	b := parse(t, src)
	if !IsSorted(b.Tags) {
		t.Fatal("input should be sorted")
	}
	if vs := CheckOrder(b); len(vs) != 0 {
		t.Errorf("CheckOrder = %v", vs)
	}
	if vs := CheckSpacing(b); len(vs) != 0 {
		t.Errorf("CheckSpacing = %v", vs)
	}
	text, err := Synthesize(b, b.Tags)
	if err != nil {
		t.Fatal(err)
	}
	if want := strings.Join(lines[2:], "\n") + "\n"; text != want {
		t.Errorf("synthesize mismatch (-want +got):\n%s", cmp.Diff(want, text))
	}
}

func TestFixIsIdempotent(t *testing.T) {
	src := doc(
		" * @return void",
		" * @see a()",
		" * @param int $a A.",
		" * @uses b()",
		" * @param int $b B.",
	)
	b := parse(t, src)
	first := apply(t, b, CheckOrder(b)[0])

	again := parse(t, first)
	if vs := CheckOrder(again); len(vs) != 0 {
		t.Fatalf("second pass still reports %v", vs)
	}
	if vs := CheckSpacing(again); len(vs) != 0 {
		t.Fatalf("sorted output has spacing problems: %v", vs)
	}
	text1, _ := Synthesize(again, Sorted(again.Tags))
	text2, _ := Synthesize(again, Sorted(Sorted(again.Tags)))
	if text1 != text2 {
		t.Errorf("synthesize is not idempotent:\n%s", cmp.Diff(text1, text2))
	}
}

func TestOnlyReturnTag(t *testing.T) {
	b := parse(t, doc(
		" * Summary.",
		" *",
		" * @return void",
	))
	if vs := CheckOrder(b); len(vs) != 0 {
		t.Errorf("CheckOrder = %v", vs)
	}
	if vs := CheckSpacing(b); len(vs) != 0 {
		t.Errorf("CheckSpacing = %v", vs)
	}
	text, err := Synthesize(b, b.Tags)
	if err != nil || text != " * @return void\n" {
		t.Errorf("Synthesize = %q, %v", text, err)
	}
}

func TestInlineTagsAreNotFixable(t *testing.T) {
	b := parse(t, "<?php\n/** @return void\n * @param int $a A. */\nfunction f() {}\n")
	vs := CheckOrder(b)
	if len(vs) != 1 || vs[0].Fixable {
		t.Fatalf("violations = %+v, want one non-fixable", vs)
	}
	if _, err := Synthesize(b, b.Tags); !errors.Is(err, ErrInline) {
		t.Errorf("Synthesize error = %v, want ErrInline", err)
	}
}

func TestCheckSpacing(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		code  diag.Code
		want  []string
	}{
		{
			name:  "missing before return",
			lines: []string{" * @param int $a A.", " * @return void"},
			code:  diag.SrtMissingNewlineBetweenTags,
			want:  []string{" * @param int $a A.", " *", " * @return void"},
		},
		{
			name:  "missing before group",
			lines: []string{" * @see a()", " * @param int $a A.", " * @param int $b B."},
			code:  diag.SrtMissingNewlineBetweenTags,
			want:  []string{" * @see a()", " *", " * @param int $a A.", " * @param int $b B."},
		},
		{
			name:  "surplus between singles",
			lines: []string{" * @author Jane <jane@example.com>", " *", " * @see a()"},
			code:  diag.SrtSurplusNewlineBetweenTags,
			want:  []string{" * @author Jane <jane@example.com>", " * @see a()"},
		},
		{
			name:  "surplus inside group",
			lines: []string{" * @param int $a A.", " *", " * @param int $b B."},
			code:  diag.SrtSurplusNewlineBetweenTags,
			want:  []string{" * @param int $a A.", " * @param int $b B."},
		},
		{
			name:  "two blank lines before return",
			lines: []string{" * @see a()", " *", " *", " * @return void"},
			code:  diag.SrtSurplusNewlineBetweenTags,
			want:  []string{" * @see a()", " *", " * @return void"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := parse(t, doc(tt.lines...))
			vs := CheckSpacing(b)
			if len(vs) != 1 || vs[0].Code != tt.code {
				t.Fatalf("violations = %v, want one %s", vs, tt.code.Name())
			}
			if got, want := apply(t, b, vs[0]), doc(tt.want...); got != want {
				t.Errorf("fixed text mismatch (-want +got):\n%s", cmp.Diff(want, got))
			}
		})
	}
}

// свойства порядка на случайных последовательностях тегов
func TestSortProperties(t *testing.T) {
	names := []string{"@param", "@return", "@see", "@throws", "@author", "@Param", "@uses"}
	rng := rand.New(rand.NewPCG(1, 2))

	for iter := 0; iter < 500; iter++ {
		n := rng.IntN(9)
		tags := make([]docblock.Tag, n)
		for i := range tags {
			tags[i] = docblock.Tag{Name: names[rng.IntN(len(names))], Pos: i}
		}
		sorted := Sorted(tags)
		counts := docblock.CountTags(tags)

		if !IsSorted(sorted) {
			t.Fatalf("Sorted output not sorted: %v", keys(sorted))
		}
		if diff := cmp.Diff(keys(sorted), keys(Sorted(sorted))); diff != "" {
			t.Fatalf("sorting is not idempotent:\n%s", diff)
		}

		seenReturn := false
		seenMulti := false
		lastPos := map[string]int{}
		for _, tg := range sorted {
			if isReturn(tg) {
				seenReturn = true
			} else if seenReturn {
				t.Fatalf("non-return tag after return: %v", keys(sorted))
			}
			if !isReturn(tg) {
				if counts[tg.Key()] > 1 {
					seenMulti = true
				} else if seenMulti {
					t.Fatalf("singleton after multi group: %v", keys(sorted))
				}
			}
			if p, ok := lastPos[tg.Key()]; ok && p > tg.Pos {
				t.Fatalf("same-named tags reordered: %v", keys(sorted))
			}
			lastPos[tg.Key()] = tg.Pos
		}
	}
}
