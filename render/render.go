// Package render lays structured workout and nutrition data out into a
// paginated PDF: cover, table of contents, flowed content pages and a
// "Page i of N" footer stamped once the total page count is known.
package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"

	"fitplan"
	"fitplan/render/assets"
)

// maxRenderedWeeks caps the workout section. The parser hands over whatever
// it found; the cut happens here.
const maxRenderedWeeks = 6

const (
	pageMarginLeft   = 18.0
	pageMarginTop    = 20.0
	pageMarginRight  = 18.0
	pageMarginBottom = 22.0
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Renderer produces paginated plan documents. Safe for concurrent use: all
// mutable drawing state lives in the per-call layout.
type Renderer struct {
	logo     assets.Source
	compress bool
}

type Option func(*Renderer)

// WithLogo supplies an optional cover logo source. A load failure is logged
// and the document renders without it.
func WithLogo(src assets.Source) Option {
	return func(r *Renderer) { r.logo = src }
}

// WithoutCompression disables PDF stream compression, which keeps drawn text
// byte-searchable. Used by tests.
func WithoutCompression() Option {
	return func(r *Renderer) { r.compress = false }
}

func New(opts ...Option) *Renderer {
	r := &Renderer{compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is a finished document.
type Result struct {
	Bytes []byte
	Pages int
}

// Filename returns the delivery filename for a subject: "<Subject>-Plan.pdf"
// with whitespace collapsed to single dashes.
func Filename(subject string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "Fitness"
	}
	return whitespaceRe.ReplaceAllString(subject, "-") + "-Plan.pdf"
}

// Render draws the document. Content pages are buffered first; the footer's
// total page count is substituted when the document is closed, so every page
// carries the final "Page i of N".
func (r *Renderer) Render(ctx context.Context, doc fitplan.Document) (*Result, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(strings.TrimSuffix(Filename(doc.Subject), ".pdf"), true)
	pdf.SetMargins(pageMarginLeft, pageMarginTop, pageMarginRight)
	pdf.SetAutoPageBreak(false, pageMarginBottom)
	pdf.SetCompression(r.compress)
	pdf.AliasNbPages("")

	l := &layout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFooterFunc(func() {
		l.apply(styleFooter)
		pdf.SetY(-14)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	l.coverPage(doc, r.loadLogo(ctx))

	weeks := doc.Workout
	if len(weeks) > maxRenderedWeeks {
		weeks = weeks[:maxRenderedWeeks]
	}
	if len(weeks) > 0 {
		l.tocPage(weeks)
		l.tipsPage()
		for _, week := range weeks {
			l.weekPage(week)
		}
	}

	if doc.Nutrition != nil {
		l.nutritionCoverPage(doc.Nutrition)
		for _, day := range doc.Nutrition.DayPlans {
			l.dayPlanPage(day)
		}
		l.groceryPage(doc.Nutrition.GroceryList)
		l.batchPrepPage(doc.Nutrition.BatchPrep)
	}

	l.closingPage(doc)

	pages := pdf.PageCount()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return &Result{Bytes: buf.Bytes(), Pages: pages}, nil
}

// loadLogo fetches logo bytes, degrading to nil on any failure: a missing
// asset must never abort the document.
func (r *Renderer) loadLogo(ctx context.Context) []byte {
	if r.logo == nil {
		return nil
	}
	data, err := r.logo.Load(ctx)
	if err != nil {
		slog.Warn("RENDER: Logo unavailable, rendering without it", "error", err)
		return nil
	}
	return data
}

// layout is the per-render drawing cursor over buffered pages.
type layout struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (l *layout) apply(s textStyle) {
	l.pdf.SetFont(s.family, s.weight, s.size)
	l.pdf.SetTextColor(s.r, s.g, s.b)
}

// ensureRoom starts a new page when the next atomic block of height h would
// cross the bottom margin. Evaluated before every block, never mid-block.
func (l *layout) ensureRoom(h float64) {
	_, pageH := l.pdf.GetPageSize()
	if l.pdf.GetY()+h > pageH-pageMarginBottom {
		l.pdf.AddPage()
	}
}

func (l *layout) rule() {
	l.ensureRoom(6)
	x := pageMarginLeft
	w, _ := l.pdf.GetPageSize()
	y := l.pdf.GetY() + 2
	l.pdf.SetDrawColor(accent.r, accent.g, accent.b)
	l.pdf.SetLineWidth(0.4)
	l.pdf.Line(x, y, w-pageMarginRight, y)
	l.pdf.SetY(y + 3)
}

func (l *layout) heading(s textStyle, text string) {
	h := s.size * 0.6
	l.ensureRoom(h + 4)
	l.apply(s)
	l.pdf.MultiCell(0, h, l.tr(text), "", "L", false)
	l.pdf.Ln(2)
}

func (l *layout) bodyLine(text string) {
	l.ensureRoom(6)
	l.apply(styleBody)
	l.pdf.MultiCell(0, 5.5, l.tr(text), "", "L", false)
}

func (l *layout) bullet(text string, indent float64) {
	l.ensureRoom(6)
	l.apply(styleBody)
	l.pdf.SetX(pageMarginLeft + indent)
	l.pdf.SetTextColor(accent.r, accent.g, accent.b)
	l.pdf.CellFormat(5, 5.5, "-", "", 0, "L", false, 0, "")
	l.apply(styleBody)
	l.pdf.MultiCell(0, 5.5, l.tr(text), "", "L", false)
}

func (l *layout) smallLine(text string, indent float64) {
	l.ensureRoom(5)
	l.apply(styleSmall)
	l.pdf.SetX(pageMarginLeft + indent)
	l.pdf.MultiCell(0, 4.5, l.tr(text), "", "L", false)
}

func (l *layout) chip(label string) {
	w := l.pdf.GetStringWidth(label) + 8
	l.apply(styleChip)
	l.pdf.SetFillColor(accent.r, accent.g, accent.b)
	l.pdf.CellFormat(w, 8, l.tr(label), "", 0, "C", true, 0, "")
	l.pdf.CellFormat(3, 8, "", "", 0, "L", false, 0, "")
}

func (l *layout) coverPage(doc fitplan.Document, logo []byte) {
	l.pdf.AddPage()

	if img := sniffImageType(logo); img != "" {
		l.pdf.RegisterImageOptionsReader("logo", fpdf.ImageOptions{ImageType: img}, bytes.NewReader(logo))
		if l.pdf.Ok() {
			w, _ := l.pdf.GetPageSize()
			l.pdf.ImageOptions("logo", w/2-15, 30, 30, 0, false, fpdf.ImageOptions{ImageType: img}, 0, "")
		} else {
			// A corrupt asset degrades to no logo, never to a failed render.
			slog.Warn("RENDER: Logo could not be embedded, rendering without it", "error", l.pdf.Error())
			l.pdf.ClearError()
		}
	}

	l.pdf.SetY(90)
	l.apply(styleTitle)
	l.pdf.MultiCell(0, 12, l.tr("Your Personal Plan"), "", "C", false)

	subject := doc.Subject
	if subject == "" {
		subject = "-"
	}
	l.apply(styleSubtitle)
	l.pdf.MultiCell(0, 8, l.tr("Prepared for "+subject), "", "C", false)
	if doc.Goal != "" {
		l.pdf.Ln(2)
		l.pdf.MultiCell(0, 8, l.tr("Goal: "+doc.Goal), "", "C", false)
	}
}

func (l *layout) tocPage(weeks []fitplan.WorkoutWeek) {
	l.pdf.AddPage()
	l.heading(styleH1, "What's Inside")
	l.rule()
	for _, w := range weeks {
		days := "days"
		if len(w.Days) == 1 {
			days = "day"
		}
		l.bullet(fmt.Sprintf("Week %d - %d training %s", w.Number, len(w.Days), days), 0)
	}
}

func (l *layout) tipsPage() {
	l.pdf.AddPage()
	l.heading(styleH1, "Before You Start")
	l.rule()
	for _, tip := range []string{
		"Warm up for 5-10 minutes before every session.",
		"Leave one or two reps in reserve on working sets; form beats load.",
		"Progress the weight only when every prescribed rep is clean.",
		"Sleep and protein drive recovery; the plan assumes both.",
		"Deload or rest if sharp pain shows up. Soreness is fine, pain is not.",
	} {
		l.bullet(tip, 0)
	}
}

func (l *layout) weekPage(week fitplan.WorkoutWeek) {
	// Every week starts on its own page.
	l.pdf.AddPage()
	l.heading(styleH1, fmt.Sprintf("Week %d", week.Number))
	for _, day := range week.Days {
		l.rule()
		l.heading(styleH2, day.Name)
		for _, ex := range day.Exercises {
			l.bullet(ex, 2)
		}
	}
}

func (l *layout) nutritionCoverPage(plan *fitplan.NutritionPlan) {
	l.pdf.AddPage()
	l.heading(styleH1, "Nutrition Plan")
	l.rule()

	s := plan.Summary
	l.pdf.Ln(2)
	for _, c := range []string{
		fmt.Sprintf("%d kcal", s.Kcal),
		fmt.Sprintf("P %dg", s.ProteinG),
		fmt.Sprintf("C %dg", s.CarbsG),
		fmt.Sprintf("F %dg", s.FatG),
		fmt.Sprintf("Fiber %dg", s.FiberG),
		fmt.Sprintf("Na <%dmg", s.SodiumMGCap),
	} {
		l.chip(c)
	}
	l.pdf.Ln(12)

	if s.MealsPerDay > 0 {
		l.bodyLine(fmt.Sprintf("%d meals per day, 7 days.", s.MealsPerDay))
		l.pdf.Ln(2)
	}

	if len(plan.Guidelines) > 0 {
		l.heading(styleH2, "Guidelines")
		for _, g := range plan.Guidelines {
			l.bullet(g, 0)
		}
	}
}

func (l *layout) dayPlanPage(day fitplan.DayPlan) {
	l.pdf.AddPage()
	title := fmt.Sprintf("Day %d", day.Day)
	if day.TotalKcal > 0 {
		title = fmt.Sprintf("Day %d - %d kcal", day.Day, day.TotalKcal)
	}
	l.heading(styleH1, title)

	for _, meal := range day.Meals {
		l.rule()
		name := meal.Name
		if name == "" {
			name = "-"
		}
		l.heading(styleH2, name)
		l.smallLine(macrosLine(meal.Macros), 0)
		if meal.Recipe != "" {
			l.bodyLine(meal.Recipe)
		}
		for _, ing := range meal.Ingredients {
			l.bullet(ingredientLine(ing), 2)
		}
		l.pdf.Ln(1)
	}
}

func (l *layout) groceryPage(list fitplan.GroceryList) {
	l.pdf.AddPage()
	l.heading(styleH1, "Grocery List")
	l.rule()
	if len(list.Items) == 0 {
		l.bodyLine("-")
		return
	}
	for _, item := range list.Items {
		l.bullet(ingredientLine(item), 0)
	}
}

func (l *layout) batchPrepPage(days []fitplan.BatchPrepDay) {
	l.pdf.AddPage()
	l.heading(styleH1, "Batch Prep")
	for _, d := range days {
		l.rule()
		l.heading(styleH2, d.Day)
		for i, step := range d.Steps {
			l.bullet(fmt.Sprintf("%d. %s", i+1, step), 2)
		}
	}
}

func (l *layout) closingPage(doc fitplan.Document) {
	l.pdf.AddPage()
	l.pdf.SetY(100)
	l.apply(styleH1)
	l.pdf.MultiCell(0, 10, l.tr("You've got this."), "", "C", false)
	l.apply(styleSubtitle)
	l.pdf.MultiCell(0, 8, l.tr("Consistency over perfection. See you in week one."), "", "C", false)
}

// macrosLine renders a meal's macro summary, with dashes for missing values.
func macrosLine(m fitplan.MealMacros) string {
	part := func(v int, unit string) string {
		if v <= 0 {
			return "-"
		}
		return fmt.Sprintf("%d%s", v, unit)
	}
	return fmt.Sprintf("%s kcal | P %s | C %s | F %s",
		part(m.Kcal, ""), part(m.ProteinG, "g"), part(m.CarbsG, "g"), part(m.FatG, "g"))
}

func ingredientLine(ing fitplan.Ingredient) string {
	item := ing.Item
	if item == "" {
		item = "-"
	}
	switch ing.Quantity.Unit {
	case fitplan.UnitGrams:
		return fmt.Sprintf("%s (%.0f g)", item, ing.Quantity.Amount)
	case fitplan.UnitKilograms:
		return fmt.Sprintf("%s (%.1f kg)", item, ing.Quantity.Amount)
	case fitplan.UnitMilliliters:
		return fmt.Sprintf("%s (%.0f ml)", item, ing.Quantity.Amount)
	case fitplan.UnitCount:
		return fmt.Sprintf("%s (x%.0f)", item, ing.Quantity.Amount)
	default:
		return item
	}
}

// sniffImageType recognizes the formats fpdf can embed; anything else is
// skipped so a bad asset cannot poison the document.
func sniffImageType(data []byte) string {
	switch {
	case len(data) > 8 && bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}):
		return "PNG"
	case len(data) > 3 && bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "JPG"
	case len(data) > 6 && bytes.HasPrefix(data, []byte("GIF8")):
		return "GIF"
	default:
		return ""
	}
}
