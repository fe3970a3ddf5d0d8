package runner

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"flowp/pkg/logging"
)

// DefaultSourcePattern selects spec sources when none is configured.
const DefaultSourcePattern = "spec_*.go"

// DiscoveryError is raised when a spec source fails to load.
type DiscoveryError struct {
	Source string
	Value  any
	Trace  string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Source, e.Value)
}

// Discovery is the result of loading every selected spec source.
type Discovery struct {
	Sources []string
	Classes []*Class
	Errors  []*DiscoveryError
}

// Discover runs the loaders of every registered source whose base name
// matches one of patterns. Sources are visited sorted by name. A panicking
// loader discards the source's behaviors and records a DiscoveryError.
func Discover(registry *Registry, patterns []string, formatter *TraceFormatter) (*Discovery, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultSourcePattern}
	}
	if formatter == nil {
		formatter = NewTraceFormatter(NewColorStream(io.Discard, false))
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid source pattern %q", p)
		}
	}

	d := &Discovery{}
	for _, source := range registry.Sources() {
		if !matchesAny(patterns, source) {
			logging.Debug("Discovery", "Skipping source %s: no pattern matches", source)
			continue
		}
		d.Sources = append(d.Sources, source)

		classes, derr := loadSource(source, registry.loadersFor(source), formatter)
		if derr != nil {
			logging.Debug("Discovery", "Source %s failed to load: %v", source, derr.Value)
			d.Errors = append(d.Errors, derr)
			continue
		}
		for _, cls := range classes {
			link(cls, nil, source)
		}
		logging.Debug("Discovery", "Loaded %d behaviors from %s", len(classes), source)
		d.Classes = append(d.Classes, classes...)
	}
	return d, nil
}

func loadSource(source string, loaders []Loader, formatter *TraceFormatter) ([]*Class, *DiscoveryError) {
	var classes []*Class
	for _, load := range loaders {
		var loaded []*Class
		if p := protect(func() { loaded = load() }); p != nil {
			return nil, &DiscoveryError{Source: source, Value: p.Value, Trace: formatter.Format(p)}
		}
		classes = append(classes, loaded...)
	}
	return classes, nil
}

func matchesAny(patterns []string, source string) bool {
	base := filepath.Base(source)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

// link sets parent pointers and sources throughout a class tree.
func link(cls, parent *Class, source string) {
	cls.Parent = parent
	if cls.Source == "" {
		cls.Source = source
	}
	for _, child := range cls.Children {
		link(child, cls, source)
	}
}

// TestCases flattens the discovered classes. Tests of each root behavior are
// ordered by their context tree, so execution order matches the report.
// Every discovery error becomes a pseudo-test named after its source.
func (d *Discovery) TestCases() []*TestCase {
	var out []*TestCase
	for _, root := range d.Classes {
		var tests []*TestCase
		collect(root, &tests)
		out = append(out, BuildTree(tests).FlatOrder()...)
	}
	for _, derr := range d.Errors {
		cls := &Class{Name: derr.Source, Source: derr.Source}
		m := &Method{Name: derr.Source}
		cls.Methods = []*Method{m}
		out = append(out, &TestCase{Class: cls, Method: m, Err: derr})
	}
	return out
}

func collect(cls *Class, out *[]*TestCase) {
	for _, m := range cls.Methods {
		*out = append(*out, &TestCase{Class: cls, Method: m})
	}
	for _, child := range cls.Children {
		collect(child, out)
	}
}
