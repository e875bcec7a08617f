package facet

// Option is one selectable value of a facet. BestFor is guidance for
// pickers only; composition never branches on it.
type Option struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Instruction string   `json:"instruction"`
	BestFor     []string `json:"bestFor,omitempty"`
}

// AngleOption is an Angle facet value; Degrees drives lens and aperture
// derivation.
type AngleOption struct {
	Option
	Degrees int `json:"degrees"`
}

// Default option IDs.
const (
	DefaultLens     = "macro-100"
	DefaultAperture = "f4"
	DefaultAngle    = "hero-45"
	DefaultLighting = "natural-window"
	DefaultColor    = "balanced-warm-5000k"
	DefaultStyle    = "contemporary"
	DefaultRealism  = "subtle-grain"
)

var lenses = []Option{
	{ID: "wide-24", Label: "24mm wide", Instruction: "24mm wide-angle lens, whole spread in frame with minimal distortion at the edges", BestFor: []string{"flat-lay", "table spreads"}},
	{ID: "standard-50", Label: "50mm standard", Instruction: "50mm standard lens, natural perspective close to the human eye", BestFor: []string{"casual scenes", "context shots"}},
	{ID: "portrait-85", Label: "85mm portrait", Instruction: "85mm lens, flattering compression that separates the dish from its surroundings", BestFor: []string{"eye-level", "stacked food", "drinks"}},
	{ID: "macro-100", Label: "100mm macro", Instruction: "100mm macro lens, crisp close-up detail on textures", BestFor: []string{"hero shots", "desserts", "texture detail"}},
}

var apertures = []Option{
	{ID: "f2-8", Label: "f/2.8 shallow", Instruction: "f/2.8, shallow depth of field, the surroundings dissolve into smooth blur", BestFor: []string{"eye-level", "single subject"}},
	{ID: "f4", Label: "f/4 balanced", Instruction: "f/4, balanced depth of field, the dish sharp front to back with a gentle fall-off", BestFor: []string{"hero shots"}},
	{ID: "f5-6", Label: "f/5.6 moderate", Instruction: "f/5.6, moderate depth of field keeping several plates readable", BestFor: []string{"group dishes"}},
	{ID: "f8", Label: "f/8 deep", Instruction: "f/8, deep depth of field, everything on the table sharp edge to edge", BestFor: []string{"flat-lay", "table spreads"}},
}

var angles = []AngleOption{
	{Option: Option{ID: "overhead-90", Label: "90° overhead", Instruction: "camera at 90 degrees, looking straight down at the table", BestFor: []string{"bowls", "pizza", "spreads"}}, Degrees: 90},
	{Option: Option{ID: "high-60", Label: "60° high angle", Instruction: "camera at 60 degrees, mostly from above with a hint of depth", BestFor: []string{"platters", "salads"}}, Degrees: 60},
	{Option: Option{ID: "hero-45", Label: "45° hero", Instruction: "camera at 45 degrees, the classic diner's-eye hero angle", BestFor: []string{"most dishes"}}, Degrees: 45},
	{Option: Option{ID: "low-25", Label: "25° low angle", Instruction: "camera at 25 degrees, low and close to emphasise height", BestFor: []string{"burgers", "layer cakes"}}, Degrees: 25},
	{Option: Option{ID: "eye-level-0", Label: "0° eye level", Instruction: "camera at table height, looking straight across at the food", BestFor: []string{"drinks", "stacks", "ambiance"}}, Degrees: 0},
}

var lightings = []Option{
	{ID: "natural-window", Label: "Natural window light", Instruction: "soft natural window light from the side, gentle falloff and open shadows", BestFor: []string{"cafes", "brunch"}},
	{ID: "golden-hour", Label: "Golden hour", Instruction: "warm low-angle golden hour sunlight with long soft shadows", BestFor: []string{"outdoor", "drinks"}},
	{ID: "moody-low-key", Label: "Moody low key", Instruction: "low-key directional light, deep shadows and glowing highlights", BestFor: []string{"fine dining", "bars"}},
	{ID: "bright-high-key", Label: "Bright high key", Instruction: "bright even high-key light, minimal shadows, clean commercial look", BestFor: []string{"fast food", "desserts"}},
	{ID: "backlit", Label: "Backlit", Instruction: "backlight behind the dish making steam, liquids and edges glow", BestFor: []string{"soups", "drinks"}},
	{ID: "ambient-venue", Label: "Venue ambient", Instruction: "the venue's own ambient light, mixed practical sources, authentic atmosphere", BestFor: []string{"hawker", "street food"}},
}

var colors = []Option{
	{ID: "balanced-warm-5000k", Label: "Balanced warm 5000K", Instruction: "balanced slightly warm white balance around 5000K, true-to-life food colours", BestFor: []string{"most dishes"}},
	{ID: "warm-3200k", Label: "Warm 3200K", Instruction: "warm tungsten white balance around 3200K, cosy amber tones", BestFor: []string{"evening", "comfort food"}},
	{ID: "neutral-5600k", Label: "Neutral daylight 5600K", Instruction: "neutral daylight white balance around 5600K, clean whites", BestFor: []string{"catalogue", "menus"}},
	{ID: "cool-6500k", Label: "Cool 6500K", Instruction: "cool white balance around 6500K, crisp fresh feel", BestFor: []string{"seafood", "iced drinks"}},
}

var visualStyles = []Option{
	{ID: "contemporary", Label: "Contemporary", Instruction: "contemporary editorial food photography, clean and modern", BestFor: []string{"most venues"}},
	{ID: "rustic", Label: "Rustic", Instruction: "rustic styling, natural textures, imperfect handmade feel", BestFor: []string{"bakeries", "home cooking"}},
	{ID: "minimal", Label: "Minimal", Instruction: "minimalist styling, generous negative space, few props", BestFor: []string{"fine dining", "desserts"}},
	{ID: "vibrant-pop", Label: "Vibrant pop", Instruction: "vibrant pop styling, saturated colours and bold contrast", BestFor: []string{"fast food", "street food"}},
	{ID: "vintage", Label: "Vintage", Instruction: "vintage styling, slightly faded film tones and heritage props", BestFor: []string{"kopitiam", "heritage"}},
}

var realisms = []Option{
	{ID: "clean-digital", Label: "Clean digital", Instruction: "clean digital finish, no visible grain", BestFor: []string{"commercial", "menus"}},
	{ID: "subtle-grain", Label: "Subtle grain", Instruction: "subtle natural grain and micro-imperfections so the photo reads as real, not rendered", BestFor: []string{"social media"}},
	{ID: "film-grain", Label: "Film grain", Instruction: "visible analogue film grain and gentle halation", BestFor: []string{"vintage", "editorial"}},
	{ID: "documentary", Label: "Documentary", Instruction: "documentary realism, candid imperfections left intact", BestFor: []string{"street food", "hawker"}},
}

// foodCues are authenticity details keyed by an exact food-state tag.
var foodCues = map[string]string{
	"hot-food":   "visible wisps of steam rising from the hot food, catching the light",
	"iced-drink": "fine condensation droplets on the glass, ice cubes with clear edges",
	"cheese":     "cheese melting and stretching with glossy, slightly browned edges",
	"grilled":    "authentic grill char marks and caramelised edges with a light sheen of fat",
	"fried":      "crisp golden crust with visible crunchy texture and no greasy sogginess",
	"soup":       "glossy broth surface with small droplets of oil and gentle ripples",
}
