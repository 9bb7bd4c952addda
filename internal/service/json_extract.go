package service

import "strings"

// extractFirstJSONObject devuelve el primer objeto {...} balanceado, respetando strings.
// Si una llave de apertura no cierra, prueba con la siguiente.
func extractFirstJSONObject(input string) string {
	offset := 0
	for {
		rel := strings.IndexByte(input[offset:], '{')
		if rel == -1 {
			return ""
		}
		start := offset + rel
		if end := matchBrace(input, start); end != -1 {
			return input[start : end+1]
		}
		offset = start + 1
	}
}

// matchBrace devuelve el índice de la llave que cierra la abierta en start, o -1.
func matchBrace(input string, start int) int {
	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
