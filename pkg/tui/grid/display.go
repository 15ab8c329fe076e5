package grid

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// DisplayValue renders a cell's raw value for the resolved variant. It is
// pure formatting: no styling, no width handling.
func DisplayValue(opts CellOpts, raw any) string {
	switch opts.Variant {
	case VariantCheckbox:
		if truthy(raw) {
			return "[x]"
		}
		return "[ ]"
	case VariantSelect, VariantCombobox:
		if raw == nil || raw == "" {
			return ""
		}
		if label, ok := optionLabel(opts.Options, raw); ok {
			return label
		}
		return fmt.Sprint(raw)
	case VariantMultiSelect:
		values := currentValues(raw)
		if len(values) == 0 {
			return ""
		}
		labels := make([]string, 0, len(values))
		for _, v := range values {
			if label, ok := optionLabel(opts.Options, v); ok {
				labels = append(labels, label)
			} else {
				labels = append(labels, fmt.Sprint(v))
			}
		}
		return strings.Join(labels, ", ")
	case VariantLongText:
		text := renderString(raw)
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			return text[:i] + "…"
		}
		return text
	case VariantURL:
		text := strings.TrimSpace(renderString(raw))
		if text == "" {
			return ""
		}
		u, err := url.Parse(text)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return text + " ⚠"
		}
		return text
	case VariantDate:
		if t, ok := raw.(time.Time); ok {
			return t.Format(dateLayout)
		}
		return renderString(raw)
	default:
		return renderString(raw)
	}
}

func renderString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case string:
		return val == "true" || val == "1"
	default:
		return false
	}
}

// fitCell truncates or pads text to an exact column width.
func fitCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	out := truncate.StringWithTail(text, uint(width), "…")
	if pad := width - ansi.PrintableRuneWidth(out); pad > 0 {
		out += strings.Repeat(" ", pad)
	}
	return out
}
