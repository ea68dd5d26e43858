package lexer

// ===== Классификаторы =====

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b >= 0x80
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

// имена с пространством имён: Foo\Bar, \Foo
func isNameByte(b byte) bool {
	return isIdentContinueByte(b) || b == '\\'
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isNumberByte(b byte) bool {
	return isDec(b) || b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isInlineSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v'
}

func isSpace(b byte) bool {
	return isInlineSpace(b) || b == '\n'
}

func lowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
