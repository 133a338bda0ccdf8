package ui

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/five82/debugview/internal/jsontree"
	"github.com/five82/debugview/internal/logstore"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and command bar
	SurfaceAlt string // Unfocused panes
	FocusBg    string // Focused pane

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// JSONPalette colors the parts of a rendered JSON tree.
type JSONPalette struct {
	Key      string
	Bool     string // also null
	Number   string
	String   string
	Brackets []string // cycled by depth
}

func hsv(h, s, v float64) string {
	return colorful.Hsv(h, s, v).Hex()
}

func rgb(r, g, b float64) string {
	return colorful.Color{R: r, G: g, B: b}.Clamped().Hex()
}

var defaultJSONPalette = JSONPalette{
	Key:    hsv(234, 0.62, 0.99),
	Bool:   hsv(334, 0.62, 0.99),
	Number: hsv(50, 0.49, 0.81),
	String: hsv(5, 0.63, 0.99),
	Brackets: []string{
		hsv(120, 0.70, 0.80), // green
		hsv(211, 0.80, 0.98), // blue
		hsv(280, 0.55, 0.85), // purple
		hsv(33, 0.90, 0.99),  // orange
		hsv(3, 0.75, 0.99),   // red
	},
}

// tagColors holds the fixed colors of the predefined tags.
var tagColors = map[string]string{
	logstore.TagDebug:     hsv(120, 0.60, 0.80),
	logstore.TagInfo:      rgb(0.239, 0.675, 0.969),
	logstore.TagNotice:    hsv(33, 0.90, 0.99),
	logstore.TagWarning:   hsv(55, 0.85, 0.98),
	logstore.TagError:     rgb(0.808, 0.027, 0.210),
	logstore.TagCritical:  rgb(0.439, 0.012, 0.192),
	logstore.TagAlert:     hsv(280, 0.55, 0.85),
	logstore.TagEmergency: rgb(0.220, 0.008, 0.855),
}

// JSON returns the palette for JSON trees.
func (t Theme) JSON() JSONPalette {
	return defaultJSONPalette
}

// JSONColor returns the foreground for a scalar of kind k.
func (p JSONPalette) JSONColor(k jsontree.Kind) string {
	switch k {
	case jsontree.Number:
		return p.Number
	case jsontree.String:
		return p.String
	default:
		return p.Bool
	}
}

// Bracket returns the bracket color for depth.
func (p JSONPalette) Bracket(depth int) string {
	if len(p.Brackets) == 0 {
		return ""
	}
	return p.Brackets[depth%len(p.Brackets)]
}

// TagColor returns the chip color for tag. Tags outside the predefined set
// get a stable hue derived from their name.
func (t Theme) TagColor(tag string) string {
	if c, ok := tagColors[tag]; ok {
		return c
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	return hsv(float64(h.Sum32()%360), 0.45, 0.85)
}

// Tint blends color toward the theme background. amount 0 keeps the
// background, 1 keeps color.
func (t Theme) Tint(color string, amount float64) string {
	c, err := colorful.Hex(color)
	if err != nil {
		return t.Background
	}
	bg, err := colorful.Hex(t.Background)
	if err != nil {
		return color
	}
	return bg.BlendLab(c, amount).Clamped().Hex()
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
}

// WithBackground returns a copy of Styles with every style painted on bgColor.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	return Styles{
		Text:        s.Text.Background(bg),
		MutedText:   s.MutedText.Background(bg),
		FaintText:   s.FaintText.Background(bg),
		AccentText:  s.AccentText.Background(bg),
		SuccessText: s.SuccessText.Background(bg),
		WarningText: s.WarningText.Background(bg),
		DangerText:  s.DangerText.Background(bg),
		InfoText:    s.InfoText.Background(bg),
		Header:      s.Header.Background(bg),
		Logo:        s.Logo.Background(bg),
		Selected:    s.Selected,
	}
}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name, falling back to Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name:          "Nightfox",
		Background:    "#131a24",
		Surface:       "#192330",
		SurfaceAlt:    "#212e3f",
		FocusBg:       "#29394f",
		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Border:        "#39506d",
		BorderFocus:   "#719cd6",
		Text:          "#cdcecf",
		Muted:         "#738091",
		Faint:         "#71839b",
		Accent:        "#719cd6",
		Success:       "#81b29a",
		Warning:       "#dbc074",
		Danger:        "#c94f6d",
		Info:          "#63cdcf",
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name:          "Kanagawa",
		Background:    "#16161D",
		Surface:       "#1F1F28",
		SurfaceAlt:    "#2A2A37",
		FocusBg:       "#2A2A37",
		SelectionBg:   "#2D4F67",
		SelectionText: "#DCD7BA",
		Border:        "#54546D",
		BorderFocus:   "#7E9CD8",
		Text:          "#DCD7BA",
		Muted:         "#C8C093",
		Faint:         "#727169",
		Accent:        "#7E9CD8",
		Success:       "#98BB6C",
		Warning:       "#E6C384",
		Danger:        "#E46876",
		Info:          "#7FB4CA",
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name:          "Slate",
		Background:    "#020617",
		Surface:       "#0f172a",
		SurfaceAlt:    "#1e293b",
		FocusBg:       "#283548",
		SelectionBg:   "#0284c7",
		SelectionText: "#f8fafc",
		Border:        "#334155",
		BorderFocus:   "#38bdf8",
		Text:          "#f1f5f9",
		Muted:         "#94a3b8",
		Faint:         "#64748b",
		Accent:        "#38bdf8",
		Success:       "#22c55e",
		Warning:       "#f59e0b",
		Danger:        "#ef4444",
		Info:          "#06b6d4",
	}
}
