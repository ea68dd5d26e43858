// Package fuzztests houses Go fuzz harnesses for the check pipeline
// (source -> lexer -> sniffs -> fix loop). The goal is to guard against panics,
// broken stream invariants and fix loops that never settle on arbitrary input.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер, сниффы и фиксер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
