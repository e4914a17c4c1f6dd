package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error string
	// Even and Odd tint alternating to-do rows.
	Even, Odd                              string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	SymItem, SymImage                      string
}

var current Theme

func init() { SetTheme("classic") }

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed,
			Even: "\033[94m", Odd: "\033[92m",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymItem: "◆", SymImage: "▣",
		}
	case "mono":
		disableColor = true
		current = Theme{
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymItem: "-", SymImage: "#",
		}
	default: // classic
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgYellow,
			Success: fgGreen, Error: fgRed,
			Even: fgBlue, Odd: fgGreen,
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymItem: "•", SymImage: "▪",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }

// RowTint picks the tint for the row at index i.
func (t Theme) RowTint(i int) string {
	if i%2 == 0 {
		return t.Even
	}
	return t.Odd
}
