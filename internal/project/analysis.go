package project

// ScriptAnalysis is the full-script breakdown computed once before
// segmentation and handed verbatim to every enrichment batch.
type ScriptAnalysis struct {
	MainTheme         string            `json:"main_theme"`
	Tone              string            `json:"tone"`
	Structure         string            `json:"structure"`
	KeyMessage        string            `json:"key_message"`
	TargetAudience    string            `json:"target_audience"`
	VisualStyle       VisualStyle       `json:"visual_style"`
	KeyMoments        []KeyMoment       `json:"key_moments"`
	ShotList          []Shot            `json:"shot_list"`
	VisualReferences  []VisualReference `json:"visual_references"`
	TechnicalElements TechnicalElements `json:"technical_elements"`
}

type VisualStyle struct {
	Description  string   `json:"description"`
	ColorPalette []string `json:"color_palette"`
	Atmosphere   string   `json:"atmosphere"`
}

type KeyMoment struct {
	Description     string `json:"description"`
	Impact          string `json:"impact"`
	VisualTreatment string `json:"visual_treatment"`
}

type Shot struct {
	ShotType    string `json:"shot_type"`
	Movement    string `json:"movement"`
	Composition string `json:"composition"`
	Purpose     string `json:"purpose"`
}

type VisualReference struct {
	Kind      string `json:"kind"`
	Reference string `json:"reference"`
	Aspect    string `json:"aspect"`
}

type TechnicalElements struct {
	VisualEffects      []string `json:"visual_effects"`
	GraphicsAnimations []string `json:"graphics_animations"`
	PostProduction     []string `json:"post_production"`
}
