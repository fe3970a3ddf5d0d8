package runner

import (
	"reflect"
	"runtime"
	"strings"
	"unicode"

	"github.com/huandu/xstrings"
)

// DisplayName turns a test method name into the name printed in reports:
// underscores become spaces and a leading "it" word is dropped.
func DisplayName(name string) string {
	display := strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if rest, ok := strings.CutPrefix(display, "it "); ok {
		display = strings.TrimSpace(rest)
	}
	return display
}

// Humanize converts an identifier such as "haveYieldContext" or
// "logged_in" into lower-case words separated by spaces.
func Humanize(ident string) string {
	return strings.Join(strings.FieldsFunc(xstrings.ToSnakeCase(ident), isWordSeparator), " ")
}

func isWordSeparator(r rune) bool {
	return r == '_' || unicode.IsSpace(r)
}

// FuncName returns the humanized name of a named Go function, or an empty
// string for anonymous functions.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	full := f.Name()
	// Method values carry a "-fm" suffix.
	full = strings.TrimSuffix(full, "-fm")
	full = strings.ReplaceAll(full, "[...]", "")
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	parts := strings.Split(full, ".")
	name := parts[len(parts)-1]
	if isClosureName(name) {
		return ""
	}
	return Humanize(name)
}

// isClosureName matches the compiler's names for anonymous functions
// ("func1", "func2.3" splits into "3").
func isClosureName(name string) bool {
	if name == "" {
		return true
	}
	if strings.HasPrefix(name, "func") {
		name = name[len("func"):]
	}
	for _, r := range name {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
