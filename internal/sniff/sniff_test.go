package sniff

import (
	"testing"

	"docsniff/internal/diag"
	"docsniff/internal/fix"
	"docsniff/internal/lexer"
	"docsniff/internal/source"
	"docsniff/internal/tagcheck"
	"docsniff/internal/token"

	"github.com/google/go-cmp/cmp"
)

func tokenize(content []byte) *token.Stream {
	fs := source.NewFileSet()
	return lexer.Tokenize(fs.Get(fs.AddVirtual("test.php", content)), lexer.Options{})
}

func names(vs []diag.Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Code.Name())
	}
	return out
}

func run(src string, settings *Settings, sniffs ...Sniff) []diag.Violation {
	return NewRunner(settings, sniffs...).Run(tokenize([]byte(src)))
}

// fixAll runs the fix loop to a fixed point and returns the final text.
func fixAll(t *testing.T, src string, settings *Settings, sniffs ...Sniff) string {
	t.Helper()
	r := NewRunner(settings, sniffs...)
	res, err := fix.Loop([]byte(src), tokenize, r.Pass(nil), fix.LoopOptions{})
	if err != nil {
		t.Fatalf("fix loop: %v", err)
	}
	return string(res.Content)
}

const cleanFile = `<?php

namespace App\Model;

/**
 * User model.
 *
 * @author Jane Doe <jane@example.com>
 * @package App\Model
 * @version 1.0.0
 */
final class User
{
    /**
     * The user name.
     *
     * @var string
     */
    private string $name;

    /**
     * Max length.
     *
     * @var int
     */
    public const MAX = 10;

    /**
     * Renames the user.
     *
     * @param string $name The new name.
     * @param int $max The limit.
     *
     * @return bool True on success.
     */
    public function rename(string $name, int $max = 10): bool
    {
        return true;
    }
}
`

func TestCleanFile(t *testing.T) {
	settings := DefaultSettings()
	settings.RequireDoc = map[Target]bool{TargetClass: true, TargetFunction: true, TargetProperty: true, TargetConstant: true}
	if vs := run(cleanFile, settings, All()...); len(vs) != 0 {
		t.Fatalf("unexpected violations: %v", vs)
	}
}

func TestClassify(t *testing.T) {
	src := `<?php
use function strlen;
abstract class A
{
    public ?int $typed = null;
    protected static $plain;
    public function __construct(private int $promoted, $arg) {}
    public function f()
    {
        static $local = 1;
        $closure = function () {};
        return new class {};
    }
}
`
	s := tokenize([]byte(src))
	got := map[string]Target{}
	for i := 0; i < s.Len(); i++ {
		target, _ := classify(s, i)
		if target == TargetNone {
			continue
		}
		key := s.At(i).Text
		if _, dup := got[key]; dup {
			key += "#2"
		}
		got[key] = target
	}
	want := map[string]Target{
		"<?php":      TargetFile,
		"class":      TargetClass,
		"$typed":     TargetProperty,
		"$plain":     TargetProperty,
		"function":   TargetFunction,
		"function#2": TargetFunction,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("classification mismatch (-want +got):\n%s", diff)
	}
}

func TestDocSummary(t *testing.T) {
	src := "<?php\n/**\n * does things.\n */\nfunction f() {}\n"
	vs := run(src, nil, DocSummary{})
	if diff := cmp.Diff([]string{"DocSummary.SummaryUcFirst"}, names(vs)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	want := "<?php\n/**\n * Does things.\n */\nfunction f() {}\n"
	if got := fixAll(t, src, nil, DocSummary{}); got != want {
		t.Errorf("fixed = %q", got)
	}

	vs = run("<?php\n/**\n * @return void\n */\nfunction f(): void {}\n", nil, DocSummary{})
	if diff := cmp.Diff([]string{"DocSummary.NoSummary"}, names(vs)); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestDocSpacing(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
		want string
	}{
		{
			name: "missing",
			src:  "<?php\n/**\n * Summary.\n * @return void\n */\nfunction f() {}\n",
			code: "DocSpacing.NoLineAfterDescription",
			want: "<?php\n/**\n * Summary.\n *\n * @return void\n */\nfunction f() {}\n",
		},
		{
			name: "surplus after description",
			src:  "<?php\n/**\n * Summary.\n *\n * More text.\n *\n *\n *\n * @return void\n */\nfunction f() {}\n",
			code: "DocSpacing.MuchLinesAfterDescription",
			want: "<?php\n/**\n * Summary.\n *\n * More text.\n *\n * @return void\n */\nfunction f() {}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := run(tt.src, nil, DocSpacing{})
			if diff := cmp.Diff([]string{tt.code}, names(vs)); diff != "" {
				t.Fatalf("codes mismatch (-want +got):\n%s", diff)
			}
			if got := fixAll(t, tt.src, nil, DocSpacing{}); got != tt.want {
				t.Errorf("fixed mismatch (-want +got):\n%s", cmp.Diff(tt.want, got))
			}
		})
	}
}

func TestTagCountFollowsRuleOrder(t *testing.T) {
	src := "<?php\nnamespace App;\n\n/**\n * Thing.\n */\nclass Thing {}\n"
	vs := run(src, nil, TagCount{})
	want := []string{"TagCount.TagOccurrenceMin", "TagCount.TagOccurrenceMin", "TagCount.TagOccurrenceMin"}
	if diff := cmp.Diff(want, names(vs)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	for i, tag := range []string{"@author", "@package", "@version"} {
		if got := vs[i].Text(); got != "Tag "+tag+" must occur at least 1 time(s), found 0" {
			t.Errorf("violation %d = %q", i, got)
		}
	}

	// без namespace @package не требуется
	vs = run("<?php\n/**\n * Thing.\n */\nclass Thing {}\n", nil, TagCount{})
	if len(vs) != 2 {
		t.Errorf("without namespace: %v", vs)
	}
}

func TestTagContent(t *testing.T) {
	src := `<?php
/**
 * Summary.
 *
 * @author John Doe <not-an-email>
 * @param mixed $a Something.
 * @throws \Exception
 *
 * @return void
 */
function f($a) {}
`
	vs := run(src, nil, TagContent{})
	want := []string{
		"TagContent.TagFormatContentInvalid",
		"TagContent.TagMixedType",
		"TagContent.MissingDescription",
	}
	if diff := cmp.Diff(want, names(vs)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if vs[0].Severity != diag.SevError || vs[1].Severity != diag.SevWarning || vs[2].Severity != diag.SevWarning {
		t.Errorf("severities = %v %v %v", vs[0].Severity, vs[1].Severity, vs[2].Severity)
	}
	if got := vs[0].Text(); got != "Invalid @author content (invalid author format), expected format: name <your.email@example.com>" {
		t.Errorf("author message = %q", got)
	}
}

func TestParamTag(t *testing.T) {
	src := `<?php
/**
 * Adds.
 *
 * @param int $b The b.
 */
function add($a, $b = [1, 2]) {}

/**
 * Nothing.
 *
 * @param int $x The x.
 */
function none() {}
`
	vs := run(src, nil, ParamTag{})
	want := []string{"ParamTag.MismatchingParam", "ParamTag.MissingParamTag", "ParamTag.NoArgumentFound"}
	if diff := cmp.Diff(want, names(vs)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if got := vs[1].Text(); got != "Argument $b has no @param tag" {
		t.Errorf("missing message = %q", got)
	}
}

func TestArguments(t *testing.T) {
	s := tokenize([]byte("<?php function f(#[A(1)] int $a, array $b = [1, 2], ?Closure $c = null, string ...$rest) {}"))
	fn, _ := s.FindNext(token.Kinds(token.KwFunction), 0)
	var got []string
	for _, i := range Arguments(s, fn) {
		got = append(got, s.At(i).Text)
	}
	if diff := cmp.Diff([]string{"$a", "$b", "$c", "$rest"}, got); diff != "" {
		t.Errorf("arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestPackageTagFix(t *testing.T) {
	src := "<?php\nnamespace Acme\\Billing;\n\n/**\n * Invoice.\n *\n * @package Acme\\Wrong\n */\nclass Invoice {}\n"
	vs := run(src, nil, PackageTag{})
	if len(vs) != 1 || vs[0].Code != diag.TagWrongPackage || !vs[0].Fixable {
		t.Fatalf("violations = %v", vs)
	}
	want := "<?php\nnamespace Acme\\Billing;\n\n/**\n * Invoice.\n *\n * @package Acme\\Billing\n */\nclass Invoice {}\n"
	if got := fixAll(t, src, nil, PackageTag{}); got != want {
		t.Errorf("fixed mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestDisallowedTag(t *testing.T) {
	settings := DefaultSettings()
	settings.Disallowed = []string{"since"}
	src := "<?php\n/**\n * Summary.\n *\n * @since 1.0\n * @see other()\n */\nfunction f() {}\n"
	vs := run(src, settings, DisallowedTag{})
	if diff := cmp.Diff([]string{"DisallowedTag.TagNotAllowed"}, names(vs)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	want := "<?php\n/**\n * Summary.\n *\n * @see other()\n */\nfunction f() {}\n"
	if got := fixAll(t, src, settings, DisallowedTag{}); got != want {
		t.Errorf("fixed mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}

	inline := run("<?php\n/** @since 1.0 */\nfunction f() {}\n", settings, DisallowedTag{})
	if len(inline) != 1 || inline[0].Fixable {
		t.Errorf("inline tag should be reported without fix: %v", inline)
	}
}

func TestRequiredDocIsOptIn(t *testing.T) {
	src := "<?php\nuse function strlen;\nfunction f() {}\n$g = function () {};\n"
	if vs := run(src, nil, RequiredDoc{}); len(vs) != 0 {
		t.Fatalf("default settings must not require docs: %v", vs)
	}
	settings := DefaultSettings()
	settings.RequireDoc[TargetFunction] = true
	vs := run(src, settings, RequiredDoc{})
	if diff := cmp.Diff([]string{"RequiredDoc.NoDocBlock"}, names(vs)); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestDisabledSniffIsSkipped(t *testing.T) {
	settings := DefaultSettings()
	settings.Disabled["DocSummary"] = true
	r := NewRunner(settings, All()...)
	for _, sn := range r.Sniffs() {
		if sn.Name() == "DocSummary" {
			t.Fatal("disabled sniff registered")
		}
	}
}

func TestFixLoopConverges(t *testing.T) {
	src := `<?php
/**
 * does things.
 * @return int The count.
 * @param int $a The a.
 * @param int $b The b.
 */
function f(int $a, int $b): int
{
    return $a + $b;
}
`
	want := `<?php
/**
 * Does things.
 *
 * @param int $a The a.
 * @param int $b The b.
 *
 * @return int The count.
 */
function f(int $a, int $b): int
{
    return $a + $b;
}
`
	got := fixAll(t, src, nil, All()...)
	if got != want {
		t.Fatalf("fixed mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
	if vs := run(got, nil, All()...); len(vs) != 0 {
		t.Errorf("fixed file still reports %v", vs)
	}
}

func TestApplyFixRejectsPlainViolation(t *testing.T) {
	s := tokenize([]byte("<?php\n"))
	v := diag.Errorf(diag.DocNoSummary, s.At(0), "x")
	if err := ApplyFix(v, fix.NewFixer(s)); err == nil {
		t.Fatal("expected ErrNotFixable")
	}
}

func TestReportDispatches(t *testing.T) {
	src := "<?php\n/**\n * does things.\n */\nfunction f() {}\n"
	s := tokenize([]byte(src))
	bag := diag.NewBag(10)
	n := Default(nil).Report(s, &diag.BagReporter{Bag: bag, Stream: s})
	if n != 1 || bag.Len() != 1 || !bag.Items()[0].Fixable {
		t.Errorf("n=%d items=%v", n, bag.Items())
	}
}

func TestPassConsultsReporter(t *testing.T) {
	src := "<?php\n/**\n * does things.\n */\nfunction f() {}\n"
	r := Default(DefaultSettings())

	for _, apply := range []bool{false, true} {
		s := tokenize([]byte(src))
		f := fix.NewFixer(s)
		bag := diag.NewBag(0)
		if err := r.Pass(&diag.BagReporter{Bag: bag, Stream: s, Fix: apply})(s, f); err != nil {
			t.Fatalf("pass: %v", err)
		}
		if bag.Len() != 1 || bag.Items()[0].Code != diag.DocSummaryUcFirst {
			t.Fatalf("apply=%v: reported %d diagnostics", apply, bag.Len())
		}
		// репортер решает, применять ли исправление, и получает отметку о коммите
		if got := f.Applied() == 1; got != apply {
			t.Errorf("apply=%v: Applied = %d", apply, f.Applied())
		}
		if bag.Items()[0].Fixed != apply || bag.Fixed() != f.Applied() {
			t.Errorf("apply=%v: Fixed = %v", apply, bag.Items()[0].Fixed)
		}
	}
}

func TestVarSpacingAfterTagName(t *testing.T) {
	src := "<?php\nclass A {\n    /**\n     * @var   int\n     */\n    public $x;\n}\n"
	// отступ после имени тега - отдельный токен и в содержимое не попадает
	if vs := run(src, nil, TagContent{}); len(vs) != 0 {
		t.Errorf("violations = %v", names(vs))
	}
	if tagcheck.Var.Validate("   int").OK {
		t.Error("raw content with leading whitespace must stay invalid")
	}
}
