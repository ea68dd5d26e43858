package tagcheck

import (
	"net/mail"
	"regexp"
	"strings"
)

// Author: "name <email>"
var authorPattern = regexp.MustCompile(`^(?P<name>[^<>]*[^<>\s])\s*<(?P<email>[^<>\s]+)>$`)

var Author = Func{
	Check:    checkAuthor,
	Expected: "name <your.email@example.com>",
	Message:  "invalid author format",
}

func checkAuthor(content string) (map[string]string, bool) {
	m := authorPattern.FindStringSubmatch(strings.TrimSpace(content))
	if m == nil {
		return nil, false
	}
	parts := map[string]string{"name": m[1], "email": m[2]}
	addr, err := mail.ParseAddress(m[2])
	if err != nil || addr.Address != m[2] {
		return parts, false
	}
	return parts, true
}

// Param: "<type> $<name> <description>"
var Param = Func{
	Check:    checkParam,
	Expected: "type $name description",
	Message:  "invalid param format",
	TypeKey:  "type",
}

func checkParam(content string) (map[string]string, bool) {
	fields := strings.Fields(content)
	parts := map[string]string{}
	if len(fields) > 0 {
		parts["type"] = fields[0]
	}
	if len(fields) > 1 {
		parts["var"] = fields[1]
	}
	if len(fields) < 3 || !strings.HasPrefix(fields[1], "$") {
		return parts, false
	}
	parts["description"] = strings.Join(fields[2:], " ")
	return parts, true
}

// Return: "void" или "<type> <description>"
var Return = Func{
	Check:    checkReturn,
	Expected: "void or type description",
	Message:  "invalid return format",
	TypeKey:  "type",
}

func checkReturn(content string) (map[string]string, bool) {
	content = strings.TrimSpace(content)
	if content == "void" {
		return map[string]string{"type": "void"}, true
	}
	i := strings.IndexFunc(content, isSpace)
	if i < 0 {
		return map[string]string{"type": content}, false
	}
	return map[string]string{
		"type":        content[:i],
		"description": strings.TrimSpace(content[i:]),
	}, true
}

// Var: "type[|type...] [$name] [description]"; ведущий пробел недопустим.
// Через сниффы содержимое приходит уже без отступа: пробел после имени тега -
// отдельный DocWhitespace, а Tag.Lines обрезает строки. Правило действует для прямых вызовов.
var varPattern = regexp.MustCompile(`(?s)^(?P<type>[^\s|]+(?:\|[^\s|]+)*)(?:\s+(?P<var>\$\w+))?(?:\s+(?P<description>.*))?$`)

var Var = Func{
	Check:    checkVar,
	Expected: "type[|type] [$name]",
	Message:  "invalid var format",
	TypeKey:  "type",
}

func checkVar(content string) (map[string]string, bool) {
	m := varPattern.FindStringSubmatch(content)
	if m == nil {
		return nil, false
	}
	return map[string]string{"type": m[1], "var": m[2], "description": m[3]}, true
}

// Version: минимум три числовые группы через точку
var versionPattern = regexp.MustCompile(`^(?P<major>\d+)\.(?P<minor>\d+)\.(?P<patch>\d+)`)

var Version = Func{
	Check:    checkVersion,
	Expected: "major.minor.patch",
	Message:  "invalid version format",
}

func checkVersion(content string) (map[string]string, bool) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(content))
	if m == nil {
		return nil, false
	}
	return map[string]string{"major": m[1], "minor": m[2], "patch": m[3]}, true
}

// Deprecated: "since <version>" и "to be removed in <version>", в любом порядке
var (
	sincePattern   = regexp.MustCompile(`(?i)\bsince\s+(?:version\s+)?(v?\d+(?:\.\d+)*\S*)`)
	removedPattern = regexp.MustCompile(`(?i)\bto\s+be\s+removed\s+in\s+(?:version\s+)?(v?\d+(?:\.\d+)*\S*)`)
)

var Deprecated = Func{
	Check:    checkDeprecated,
	Expected: "since <version>, to be removed in <version>",
	Message:  "invalid deprecated format",
}

func checkDeprecated(content string) (map[string]string, bool) {
	parts := map[string]string{}
	since := sincePattern.FindStringSubmatch(content)
	if since != nil {
		parts["since"] = strings.TrimRight(since[1], ".,;")
	}
	removed := removedPattern.FindStringSubmatch(content)
	if removed != nil {
		parts["removed"] = strings.TrimRight(removed[1], ".,;")
	}
	return parts, since != nil && removed != nil
}

// Throws: "<Type>[|<Type>] [description]"
var throwsPattern = regexp.MustCompile(`(?s)^(?P<type>[\\\w]+(?:\|[\\\w]+)*)(?:\s+(?P<description>.+))?$`)

var Throws = Func{
	Check:    checkThrows,
	Expected: "ExceptionType description",
	Message:  "invalid throws format",
}

func checkThrows(content string) (map[string]string, bool) {
	m := throwsPattern.FindStringSubmatch(strings.TrimSpace(content))
	if m == nil {
		return nil, false
	}
	return map[string]string{"type": m[1], "description": strings.TrimSpace(m[2])}, true
}

// Package: Vendor\Name
var packagePattern = regexp.MustCompile(`^\\?[A-Za-z_]\w*(?:\\[A-Za-z_]\w*)*$`)

var Package = Func{
	Check:    checkPackage,
	Expected: "Vendor\\Package",
	Message:  "invalid package format",
}

func checkPackage(content string) (map[string]string, bool) {
	content = strings.TrimSpace(content)
	if !packagePattern.MatchString(content) {
		return nil, false
	}
	return map[string]string{"package": strings.TrimPrefix(content, "\\")}, true
}

// Generic: любое непустое содержимое (see, link, since, uses)
var Generic = Func{
	Check:    checkGeneric,
	Expected: "non-empty content",
	Message:  "tag content is empty",
}

func checkGeneric(content string) (map[string]string, bool) {
	content = strings.TrimSpace(content)
	return map[string]string{"value": content}, content != ""
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}
