// Package normalize maps free-text vendor names onto canonical ones so that
// "STARBUCKS", "starbucks coffee" and "스타벅스 강남점" classify the same way.
package normalize

import (
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

type vendorPattern struct {
	re   *regexp.Regexp
	name string
}

// loadPatterns reads the ordered pattern list from config. Order is priority:
// the first matching pattern wins, which is why the config holds a list and
// not a map.
func loadPatterns() []vendorPattern {
	raw, ok := viper.Get("normalize.vendors").([]interface{})
	if !ok {
		return nil
	}

	var patterns []vendorPattern
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		pat, _ := m["pattern"].(string)
		name, _ := m["name"].(string)
		if pat == "" || name == "" {
			continue
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			continue
		}
		patterns = append(patterns, vendorPattern{re: re, name: name})
	}
	return patterns
}

// Vendor returns the canonical name for a vendor string. Matching runs
// against a lower-cased copy; when nothing matches the trimmed original is
// returned unchanged. Empty input yields empty text.
func Vendor(text string) string {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(raw)
	for _, p := range loadPatterns() {
		if p.re.MatchString(lowered) {
			return p.name
		}
	}
	return raw
}
