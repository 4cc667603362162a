// Package transform applies named output transforms (case changes and the like)
// to mapped words. Unknown names fall back to the identity transform.
package transform

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/iancoleman/strcase"
)

// Identity is the name of the fallback transform.
const Identity = "identity"

// Func transforms a single output string.
type Func func(string) string

// Registry maps transform names to functions.
type Registry struct {
	funcs map[string]Func
	mu    sync.RWMutex
}

// NewRegistry returns a registry holding the builtin transforms.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}

	r.funcs[Identity] = func(s string) string { return s }
	r.funcs["upper"] = strings.ToUpper
	r.funcs["lower"] = strings.ToLower
	r.funcs["capitalize"] = Capitalize
	r.funcs["title"] = Title
	r.funcs["snake"] = strcase.ToSnake
	r.funcs["kebab"] = strcase.ToKebab
	r.funcs["camel"] = strcase.ToLowerCamel
	r.funcs["pascal"] = strcase.ToCamel

	return r
}

// Register adds or replaces a transform.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.funcs[name] = fn
}

// Lookup returns the transform registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.funcs[name]
	return fn, ok
}

// Apply runs the named transform on s, using identity for unknown names.
func (r *Registry) Apply(name, s string) string {
	if name == "" {
		return s
	}

	fn, ok := r.Lookup(name)
	if !ok {
		log.Debugf("Unknown transform %q, using %s", name, Identity)
		return s
	}
	return fn(s)
}

// Names returns the sorted transform names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Title capitalizes every space separated word of s.
func Title(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		words[i] = Capitalize(word)
	}
	return strings.Join(words, " ")
}
