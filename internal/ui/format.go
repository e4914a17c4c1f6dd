package ui

import (
	"fmt"
	"time"

	"github.com/idilsaglam/snaptodo/internal/model"
)

// EmptyPlaceholder replaces the list when there are no to-do items.
const EmptyPlaceholder = "No items yet"

// TimestampLayout is 24h time with a meridiem marker, then day/month.
const TimestampLayout = "15:04 PM, 02/01"

func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// Truncate shortens s to max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// TodoLines renders one line per item for `todo ls`, or the placeholder.
func TodoLines(items []model.TodoItem) []string {
	t := Current()
	if len(items) == 0 {
		return []string{C(t.Muted, EmptyPlaceholder)}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		out = append(out,
			C(dim, padID(it.ID))+" "+
				C(t.Muted, FormatTimestamp(it.CreatedAt))+"  "+
				C(t.RowTint(i), t.SymItem+" "+Truncate(it.Title, 80)))
	}
	return out
}

func padID(id int64) string {
	return fmt.Sprintf("%5s", fmt.Sprintf("#%d", id))
}
