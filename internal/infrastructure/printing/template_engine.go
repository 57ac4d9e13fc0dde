package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine parses and executes document templates with the
// formatting helpers of French business documents.
type TemplateEngine struct {
	funcMap template.FuncMap
}

// NewTemplateEngine creates a template engine
func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{
		funcMap: template.FuncMap{
			"formatMoney":   formatMoney,
			"formatDate":    formatDate,
			"formatPercent": formatPercent,
			"yesNo":         yesNo,
			"upper":         strings.ToUpper,
			"title":         titleCase,
			"default":       defaultString,
		},
	}
}

// Parse compiles a named template with the engine functions
func (e *TemplateEngine) Parse(name, source string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(source)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse template "+name, err)
	}
	return tmpl, nil
}

// Execute runs a template against data and returns the HTML
func (e *TemplateEngine) Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute template "+tmpl.Name(), err)
	}
	return buf.String(), nil
}

// formatMoney formats an amount the French way
// Example: 1234.5 -> "1 234,50 €"
func formatMoney(v any) string {
	d, ok := toDecimal(v)
	if !ok {
		return ""
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")

	var grouped strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteRune(' ')
		}
		grouped.WriteRune(c)
	}
	return sign + grouped.String() + "," + decPart + " €"
}

// formatDate formats a date as DD/MM/YYYY
func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDate(*t)
	}
	return ""
}

// formatPercent formats a percentage value
// Example: 12.5 -> "12,5 %"
func formatPercent(v any) string {
	d, ok := toDecimal(v)
	if !ok {
		return ""
	}
	return strings.Replace(d.String(), ".", ",", 1) + " %"
}

func yesNo(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

func titleCase(s string) string {
	return cases.Title(language.French).String(s)
}

func defaultString(fallback string, v any) string {
	switch s := v.(type) {
	case string:
		if s != "" {
			return s
		}
	case *string:
		if s != nil && *s != "" {
			return *s
		}
	case nil:
	default:
		if str := fmt.Sprint(v); str != "" {
			return str
		}
	}
	return fallback
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Zero, false
}
