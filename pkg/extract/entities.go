package extract

import "regexp"

var entityPattern = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)

// htmlEntities are the only entities decoded. Anything else is left as is,
// so "&copy;" survives untouched.
var htmlEntities = map[string]string{
	"&lt;":   "<",
	"&gt;":   ">",
	"&amp;":  "&",
	"&quot;": `"`,
	"&#39;":  "'",
	"&apos;": "'",
	"&nbsp;": " ",
}

// DecodeEntities replaces the common HTML entities in s in a single pass.
// "&amp;lt;" decodes to "&lt;", not "<".
func DecodeEntities(s string) string {
	return entityPattern.ReplaceAllStringFunc(s, func(entity string) string {
		if v, ok := htmlEntities[entity]; ok {
			return v
		}
		return entity
	})
}
