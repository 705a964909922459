package tmplx

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

var (
	ErrRenderTemplate = errors.New("tmplx: render error")
	ErrParseTemplate  = errors.New("tmplx: parse error")
)

type Template struct {
	tmpl *template.Template
}

type Options struct {
	validate ValidateFunc
	testData any
	funcs    template.FuncMap
}

type Option func(*Options) error

type ValidateFunc func(*bytes.Buffer) error

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"quote":     quoteFunc,
		"default":   defaultFunc,
		"json":      jsonFunc,
		"trim":      trimFunc,
		"hasSuffix": hasSuffix,
		"hasPrefix": hasPrefix,
	}
}

// WithTemplateFunc adds a single custom template function
func WithTemplateFunc(name string, fn any) Option {
	return func(t *Options) error {
		t.funcs[name] = fn
		return nil
	}
}

// WithValidate renders the template against test data at parse time and
// runs the given check on the output.
func WithValidate(testData any, validateFn ValidateFunc) Option {
	return func(t *Options) error {
		t.validate = validateFn
		t.testData = testData
		return nil
	}
}

func MustParse(name string, text string, opts ...Option) *Template {
	t, err := Parse(name, text, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse creates a new Template with the given name and text, applying any options
func Parse(name string, text string, args ...Option) (*Template, error) {
	opts := &Options{
		funcs: defaultFuncs(),
	}
	for _, arg := range args {
		if err := arg(opts); err != nil {
			return nil, err
		}
	}

	tmpl, err := template.New(name).
		Option("missingkey=zero").
		Funcs(opts.funcs).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseTemplate, err)
	}

	t := &Template{
		tmpl: tmpl,
	}
	if opts.validate != nil {
		if err := t.validate(opts.testData, opts.validate); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Template) validate(testData any, fn ValidateFunc) error {
	buf, err := t.Render(testData)
	if err != nil {
		return err
	}
	return fn(buf)
}

func (t *Template) Render(data any) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderTemplate, err)
	}
	return buf, nil
}

func quoteFunc(s string) (string, error) {
	return jsonFunc(s)
}

func defaultFunc(def any, value any) any {
	if value != nil && value != "" {
		return value
	}
	return def
}

func jsonFunc(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func trimFunc(value any) string {
	return strings.TrimSpace(cast.ToString(value))
}

func hasSuffix(a, b any) bool {
	return strings.HasSuffix(cast.ToString(a), cast.ToString(b))
}

func hasPrefix(a, b any) bool {
	return strings.HasPrefix(cast.ToString(a), cast.ToString(b))
}
