package service

import (
	"regexp"
	"strings"
)

// Los fences pueden venir en cualquier parte de la respuesta, no sólo en los bordes.
var fenceRe = regexp.MustCompile("(?i)```(?:json)?")

// CleanLLMJSONResponse quita BOM y todo marcador ``` / ```json del texto del modelo.
func CleanLLMJSONResponse(raw string) string {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "\uFEFF")
	return strings.TrimSpace(fenceRe.ReplaceAllString(s, ""))
}
