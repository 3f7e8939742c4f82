package loadlevel

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// FormatChain renders a guard chain, innermost first, one record per line.
// Columns are aligned on display width so sites with wide runes stay
// readable.
func FormatChain(chain []Record) string {
	if len(chain) == 0 {
		return "(no live guards)"
	}

	labels := make([]string, len(chain))
	maxLabel := 0
	for i, r := range chain {
		labels[i] = fmt.Sprintf("%s<=%s", r.Mode, r.MaxLevel)
		if w := runewidth.StringWidth(labels[i]); w > maxLabel {
			maxLabel = w
		}
	}

	var sb strings.Builder
	for i, r := range chain {
		sb.WriteString(fmt.Sprintf("  #%-3d %s  %s\n",
			i, runewidth.FillRight(labels[i], maxLabel), r.Site))
	}
	return sb.String()
}
