package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexInfo                  Code = 1000
	LexUnknownChar           Code = 1001
	LexUnterminatedString    Code = 1002
	LexUnterminatedComment   Code = 1003
	LexUnterminatedDocBlock  Code = 1004
	LexUnbalancedDelimiter   Code = 1005
	LexUnterminatedAttribute Code = 1006

	// Блок документации
	DocInfo                      Code = 2000
	DocNoDocBlock                Code = 2001
	DocNoSummary                 Code = 2002
	DocSummaryUcFirst            Code = 2003
	DocNoLineAfterDescription    Code = 2004
	DocMuchLinesAfterDescription Code = 2005

	// Содержимое тегов
	TagInfo                 Code = 3000
	TagFormatContentInvalid Code = 3001
	TagMixedType            Code = 3002
	TagMissingDescription   Code = 3003
	TagNoArgumentFound      Code = 3004
	TagMismatchingParam     Code = 3005
	TagMissingParamTag      Code = 3006
	TagWrongPackage         Code = 3007
	TagNotAllowed           Code = 3008

	// Количество тегов
	OccInfo             Code = 4000
	OccTagOccurrenceMin Code = 4001
	OccTagOccurrenceMax Code = 4002

	// Порядок и группировка
	SrtInfo                      Code = 5000
	SrtWrongPosition             Code = 5001
	SrtMissingNewlineBetweenTags Code = 5002
	SrtSurplusNewlineBetweenTags Code = 5003

	// Ввод/вывод и конфигурация
	IOLoadFileError  Code = 6001
	IOWriteFileError Code = 6002
	CfgInvalidRule   Code = 6101

	// Исправления
	FixInfo         Code = 7000
	FixConflict     Code = 7001
	FixPassLimit    Code = 7002
	FixOscillation  Code = 7003
	FixNotSupported Code = 7004

	// Наблюдаемость
	ObsInfo    Code = 8000
	ObsTimings Code = 8001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                  "Unknown error",
		LexInfo:                      "Lexical information",
		LexUnknownChar:               "Unknown character",
		LexUnterminatedString:        "Unterminated string literal",
		LexUnterminatedComment:       "Unterminated block comment",
		LexUnterminatedDocBlock:      "Unterminated doc comment",
		LexUnbalancedDelimiter:       "Unbalanced delimiter",
		LexUnterminatedAttribute:     "Unterminated attribute group",
		DocInfo:                      "Doc comment information",
		DocNoDocBlock:                "Declaration has no doc comment",
		DocNoSummary:                 "Doc comment has no summary",
		DocSummaryUcFirst:            "Summary must start with a capital letter",
		DocNoLineAfterDescription:    "Missing blank line after description",
		DocMuchLinesAfterDescription: "Too many blank lines after description",
		TagInfo:                      "Tag information",
		TagFormatContentInvalid:      "Invalid tag content",
		TagMixedType:                 "Mixed type used",
		TagMissingDescription:        "Tag has no description",
		TagNoArgumentFound:           "No argument found for tag",
		TagMismatchingParam:          "Param tag does not match argument",
		TagMissingParamTag:           "Argument has no param tag",
		TagWrongPackage:              "Package tag does not match namespace",
		TagNotAllowed:                "Tag is not allowed",
		OccInfo:                      "Tag occurrence information",
		OccTagOccurrenceMin:          "Tag occurs too few times",
		OccTagOccurrenceMax:          "Tag occurs too many times",
		SrtInfo:                      "Tag order information",
		SrtWrongPosition:             "Tags are not in canonical order",
		SrtMissingNewlineBetweenTags: "Missing blank line between tag groups",
		SrtSurplusNewlineBetweenTags: "Unexpected blank line between tags",
		IOLoadFileError:              "I/O load file error",
		IOWriteFileError:             "I/O write file error",
		CfgInvalidRule:               "Invalid rule configuration",
		FixInfo:                      "Fix information",
		FixConflict:                  "Fix not applied: conflicting edits",
		FixPassLimit:                 "Fix loop reached the pass limit",
		FixOscillation:               "Fix loop oscillates",
		FixNotSupported:              "Fix not supported for this layout",
		ObsInfo:                      "Observability information",
		ObsTimings:                   "Pipeline timings",
	}

	// имена в стиле "Sniff.Problem", стабильные для конфигурации и вывода
	codeName = map[Code]string{
		LexUnknownChar:               "Lexer.UnknownChar",
		LexUnterminatedString:        "Lexer.UnterminatedString",
		LexUnterminatedComment:       "Lexer.UnterminatedComment",
		LexUnterminatedDocBlock:      "Lexer.UnterminatedDocBlock",
		LexUnbalancedDelimiter:       "Lexer.UnbalancedDelimiter",
		LexUnterminatedAttribute:     "Lexer.UnterminatedAttribute",
		DocNoDocBlock:                "RequiredDoc.NoDocBlock",
		DocNoSummary:                 "DocSummary.NoSummary",
		DocSummaryUcFirst:            "DocSummary.SummaryUcFirst",
		DocNoLineAfterDescription:    "DocSpacing.NoLineAfterDescription",
		DocMuchLinesAfterDescription: "DocSpacing.MuchLinesAfterDescription",
		TagFormatContentInvalid:      "TagContent.TagFormatContentInvalid",
		TagMixedType:                 "TagContent.TagMixedType",
		TagMissingDescription:        "TagContent.MissingDescription",
		TagNoArgumentFound:           "ParamTag.NoArgumentFound",
		TagMismatchingParam:          "ParamTag.MismatchingParam",
		TagMissingParamTag:           "ParamTag.MissingParamTag",
		TagWrongPackage:              "PackageTag.WrongPackage",
		TagNotAllowed:                "DisallowedTag.TagNotAllowed",
		OccTagOccurrenceMin:          "TagCount.TagOccurrenceMin",
		OccTagOccurrenceMax:          "TagCount.TagOccurrenceMax",
		SrtWrongPosition:             "TagSorting.WrongPosition",
		SrtMissingNewlineBetweenTags: "TagSorting.MissingNewlineBetweenTags",
		SrtSurplusNewlineBetweenTags: "TagSorting.SurplusNewlineBetweenTags",
		IOLoadFileError:              "IO.LoadFile",
		IOWriteFileError:             "IO.WriteFile",
		CfgInvalidRule:               "Config.InvalidRule",
		FixConflict:                  "Fix.Conflict",
		FixPassLimit:                 "Fix.PassLimit",
		FixOscillation:               "Fix.Oscillation",
		FixNotSupported:              "Fix.NotSupported",
		ObsTimings:                   "Observ.Timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DOC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TAG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("OCC%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("SRT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("FIX%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return "Unknown error"
	}
	return desc
}

// Name returns the dotted "Sniff.Problem" form used in rulesets and output.
func (c Code) Name() string {
	if n, ok := codeName[c]; ok {
		return n
	}
	return c.ID()
}

func (c Code) String() string {
	return c.ID()
}

// LookupName resolves a dotted code name back to its Code.
func LookupName(name string) (Code, bool) {
	for c, n := range codeName {
		if n == name {
			return c, true
		}
	}
	return UnknownCode, false
}
