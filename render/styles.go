package render

// textStyle is one entry in the fixed typography table. Styles are applied
// uniformly; there is no per-document theming.
type textStyle struct {
	family string
	weight string
	size   float64
	r      int
	g      int
	b      int
}

var (
	styleTitle    = textStyle{"Helvetica", "B", 28, 17, 24, 39}
	styleSubtitle = textStyle{"Helvetica", "", 14, 90, 98, 112}
	styleH1       = textStyle{"Helvetica", "B", 20, 17, 24, 39}
	styleH2       = textStyle{"Helvetica", "B", 14, 17, 24, 39}
	styleBody     = textStyle{"Helvetica", "", 11, 51, 51, 51}
	styleSmall    = textStyle{"Helvetica", "", 9, 120, 126, 138}
	styleChip     = textStyle{"Helvetica", "B", 10, 255, 255, 255}
	styleFooter   = textStyle{"Helvetica", "", 9, 150, 150, 150}
)

// accent is the single brand color used for rules, chips and bullets.
var accent = struct{ r, g, b int }{16, 150, 130}
