package project

// timeless segment from the segmentation oracle, in reading order
type NarrativeSegment struct {
	Text string `json:"text"`
}

// narrative segment with recovered timing
type AlignedSegment struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
	FirstWord  int     `json:"first_word"`
	LastWord   int     `json:"last_word"`
}

// visual asset category; the set is closed
type Category string

const (
	CategoryBRoll          Category = "broll"
	CategoryCGI3D          Category = "cgi_3d"
	CategoryMotionGraphics Category = "motion_graphics"
	CategoryTextOverlay    Category = "text_overlay"
	CategoryInfographic    Category = "infographic"
	CategoryTransition     Category = "transition"
)

// Categories lists the closed category set in rendering order.
var Categories = []Category{
	CategoryBRoll,
	CategoryCGI3D,
	CategoryMotionGraphics,
	CategoryTextOverlay,
	CategoryInfographic,
	CategoryTransition,
}

var categoryAliases = map[string]Category{
	"broll":           CategoryBRoll,
	"b_roll":          CategoryBRoll,
	"b-roll":          CategoryBRoll,
	"footage":         CategoryBRoll,
	"cgi_3d":          CategoryCGI3D,
	"cgi":             CategoryCGI3D,
	"3d":              CategoryCGI3D,
	"motion_graphics": CategoryMotionGraphics,
	"motion":          CategoryMotionGraphics,
	"text_overlay":    CategoryTextOverlay,
	"text":            CategoryTextOverlay,
	"texts":           CategoryTextOverlay,
	"textos":          CategoryTextOverlay,
	"lower_thirds":    CategoryTextOverlay,
	"infographic":     CategoryInfographic,
	"infographics":    CategoryInfographic,
	"infografias":     CategoryInfographic,
	"transition":      CategoryTransition,
	"transitions":     CategoryTransition,
	"transiciones":    CategoryTransition,
}

// ParseCategory maps a category name (or a known alias) to the closed set.
func ParseCategory(name string) (Category, bool) {
	c, ok := categoryAliases[name]
	return c, ok
}

// VisualCategories holds the non-empty categories of a segment.
type VisualCategories map[Category][]string

// Add appends items to a category, ignoring blank items. Categories that end
// up empty are never stored.
func (v VisualCategories) Add(c Category, items ...string) {
	for _, item := range items {
		if item == "" {
			continue
		}
		v[c] = append(v[c], item)
	}
}

// Empty reports whether no category has content.
func (v VisualCategories) Empty() bool {
	for _, items := range v {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

// enrichment oracle output for one segment
type Enrichment struct {
	Description      string           `json:"description"`
	StoryboardLine   string           `json:"storyboard_line"`
	VisualCategories VisualCategories `json:"visual_categories,omitempty"`
	Keywords         []string         `json:"keywords,omitempty"`
}

// IsEmpty reports whether the enrichment carries no content.
func (e Enrichment) IsEmpty() bool {
	return e.Description == "" &&
		e.StoryboardLine == "" &&
		e.VisualCategories.Empty() &&
		len(e.Keywords) == 0
}

type EnrichedSegment struct {
	AlignedSegment
	Enrichment
}
