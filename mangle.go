package py2hy

import (
	"fmt"
	"strings"
)

const tempPrefix = "_py2hy_"

// reserved holds the special forms and core macros of Hy 0.18 that are
// spelled like Python identifiers once Hy mangles them. A program name equal
// to one of them would be read as the form when it heads an expression.
var reserved = map[string]bool{
	"assoc":             true,
	"comment":           true,
	"cond":              true,
	"cut":               true,
	"defclass":          true,
	"defmacro":          true,
	"defmain":           true,
	"defn":              true,
	"deftag":            true,
	"dfor":              true,
	"do":                true,
	"doc":               true,
	"doto":              true,
	"eval_and_compile":  true,
	"eval_when_compile": true,
	"fn":                true,
	"get":               true,
	"gfor":              true,
	"if_not":            true,
	"is_not":            true,
	"let":               true,
	"lfor":              true,
	"lif":               true,
	"lif_not":           true,
	"macro_error":       true,
	"not_in":            true,
	"of":                true,
	"quasiquote":        true,
	"quote":             true,
	"require":           true,
	"setv":              true,
	"sfor":              true,
	"unless":            true,
	"unpack_iterable":   true,
	"unpack_mapping":    true,
	"unquote":           true,
	"unquote_splice":    true,
	"when":              true,
	"with_decorator":    true,
	"with_gensyms":      true,
	"yield_from":        true,
}

// numeric names are read by Hy as float literals.
var numeric = map[string]bool{
	"inf":      true,
	"infinity": true,
	"nan":      true,
}

// Mangle maps a Python identifier to the Hy symbol that stands for it.
// Names that would collide with a Hy form, a number or a generated temporary
// get one more trailing underscore. Any other name is returned unchanged, so
// the mapping is injective.
func Mangle(name string) string {
	if needsRename(name) {
		return name + "_"
	}
	return name
}

func needsRename(name string) bool {
	if strings.HasPrefix(name, tempPrefix) {
		return true
	}
	base := strings.TrimRight(name, "_")
	if reserved[base] {
		return true
	}
	return readsAsNumber(base)
}

func readsAsNumber(name string) bool {
	return numeric[strings.TrimRight(strings.ToLower(name), "jJ")]
}

// IsTemp reports whether sym was generated by the translator.
func IsTemp(sym string) bool {
	return strings.HasPrefix(sym, tempPrefix) && !strings.HasSuffix(sym, "_")
}

func tempName(purpose string, n int) string {
	return fmt.Sprintf("%s%s_%d", tempPrefix, purpose, n)
}
