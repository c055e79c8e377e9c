package timex

import (
	"encoding/xml"
	"sort"
	"strings"
)

// SortedKeys returns the attribute names of m in writing order: the TIMEX3
// attributes in their usual order, then any others alphabetically.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	known := make(map[string]bool, len(attrOrder))
	for _, k := range attrOrder {
		known[k] = true
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range m {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// Element renders a TIMEX3 element around text.
func Element(attrs map[string]string, text string) string {
	var b strings.Builder
	b.WriteString("<TIMEX3")
	for _, k := range SortedKeys(attrs) {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		escape(&b, attrs[k])
		b.WriteByte('"')
	}
	b.WriteByte('>')
	escape(&b, text)
	b.WriteString("</TIMEX3>")
	return b.String()
}

func escape(b *strings.Builder, s string) {
	// strings.Builder never fails to write
	_ = xml.EscapeText(b, []byte(s))
}
