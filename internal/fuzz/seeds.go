package fuzztests

import "testing"

const maxSeedBytes = 64 << 10 // 64 KiB

var builtinSeeds = []string{
	"",
	"<?php\n",
	"<?php\n/**\n * Summary.\n *\n * @author Jane <jane@example.com>\n * @version 1.0.0\n */\nclass A {}\n",
	"<?php\n/**\n * does things.\n * @return int\n * @param int $a\n * @throws E\n * @throws F\n */\nfunction f(int $a) {}\n",
	"<?php\nclass B {\n    /** @var mixed */\n    private ?int $x = null;\n    /** @var int */\n    const C = 1;\n}\n",
	"<?php\nnamespace App;\n/**\n * @package Other\n */\ninterface I {}\n",
	"<?php /** {@inheritdoc} @see x @see y */ function g(): void {}",
	"<?php /** unterminated",
	"<?php #[Attr( /** x */ function h() { [ ( }",
	"html <?= 1 ?> more <?php /***/",
	"<?php\r\n/**\r\n * Windows.\r\n * @return\r\n */\r\nfunction w() {}\r\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		return append([]byte(nil), src[:maxSeedBytes]...)
	}
	return src
}
