package style

// moodFit groups moods by how well they suit a business type.
type moodFit struct {
	Recommended    []string
	Compatible     []string
	NotRecommended []string
}

// seasonalFit groups seasonal themes by how natural they are for a business type.
type seasonalFit struct {
	Perfect []string
	Good    []string
	Unusual []string
}

// Moods, seasonal themes and formats offered by the picker.
var (
	Moods    = []string{"cozy", "elegant", "vibrant", "minimal", "rustic", "playful", "moody", "fresh", "nostalgic", "energetic"}
	Seasonal = []string{"chinese-new-year", "hari-raya", "deepavali", "christmas", "valentines", "mid-autumn", "national-day", "summer", "halloween"}
	Formats  = []string{"feed-post", "story", "reel-cover", "menu", "banner"}
)

var moodCompat = map[string]moodFit{
	"cafe": {
		Recommended:    []string{"cozy", "fresh", "minimal"},
		Compatible:     []string{"rustic", "playful", "nostalgic", "vibrant"},
		NotRecommended: []string{"moody", "energetic", "elegant"},
	},
	"restaurant": {
		Recommended:    []string{"cozy", "vibrant", "rustic"},
		Compatible:     []string{"elegant", "fresh", "nostalgic", "moody", "energetic"},
		NotRecommended: []string{"playful", "minimal"},
	},
	"fine-dining": {
		Recommended:    []string{"elegant", "moody", "minimal"},
		Compatible:     []string{"cozy", "fresh"},
		NotRecommended: []string{"playful", "energetic", "vibrant", "rustic", "nostalgic"},
	},
	"hawker": {
		Recommended:    []string{"vibrant", "nostalgic", "energetic"},
		Compatible:     []string{"rustic", "fresh", "cozy", "playful"},
		NotRecommended: []string{"elegant", "minimal", "moody"},
	},
	"bakery": {
		Recommended:    []string{"rustic", "cozy", "fresh"},
		Compatible:     []string{"minimal", "nostalgic", "playful", "elegant"},
		NotRecommended: []string{"moody", "energetic", "vibrant"},
	},
	"dessert": {
		Recommended:    []string{"playful", "fresh", "vibrant"},
		Compatible:     []string{"cozy", "elegant", "minimal", "nostalgic"},
		NotRecommended: []string{"moody", "rustic", "energetic"},
	},
	"bar": {
		Recommended:    []string{"moody", "elegant", "energetic"},
		Compatible:     []string{"vibrant", "cozy", "rustic", "nostalgic"},
		NotRecommended: []string{"fresh", "playful", "minimal"},
	},
	"fast-food": {
		Recommended:    []string{"vibrant", "energetic", "playful"},
		Compatible:     []string{"fresh", "minimal"},
		NotRecommended: []string{"elegant", "moody", "rustic", "nostalgic", "cozy"},
	},
}

var seasonalCompat = map[string]seasonalFit{
	"cafe": {
		Perfect: []string{"christmas", "valentines", "mid-autumn"},
		Good:    []string{"chinese-new-year", "summer", "national-day", "halloween"},
		Unusual: []string{"hari-raya", "deepavali"},
	},
	"restaurant": {
		Perfect: []string{"chinese-new-year", "christmas", "valentines"},
		Good:    []string{"hari-raya", "deepavali", "mid-autumn", "national-day"},
		Unusual: []string{"halloween", "summer"},
	},
	"fine-dining": {
		Perfect: []string{"valentines", "christmas", "chinese-new-year"},
		Good:    []string{"mid-autumn", "national-day"},
		Unusual: []string{"halloween", "summer", "hari-raya", "deepavali"},
	},
	"hawker": {
		Perfect: []string{"chinese-new-year", "hari-raya", "deepavali", "national-day"},
		Good:    []string{"mid-autumn", "summer"},
		Unusual: []string{"valentines", "halloween", "christmas"},
	},
	"bakery": {
		Perfect: []string{"mid-autumn", "christmas", "chinese-new-year", "hari-raya"},
		Good:    []string{"valentines", "deepavali", "national-day"},
		Unusual: []string{"summer", "halloween"},
	},
	"dessert": {
		Perfect: []string{"summer", "valentines", "halloween"},
		Good:    []string{"christmas", "mid-autumn", "chinese-new-year", "national-day"},
		Unusual: []string{"hari-raya", "deepavali"},
	},
	"bar": {
		Perfect: []string{"halloween", "christmas", "summer"},
		Good:    []string{"valentines", "national-day"},
		Unusual: []string{"hari-raya", "deepavali", "mid-autumn", "chinese-new-year"},
	},
	"fast-food": {
		Perfect: []string{"summer", "national-day", "halloween"},
		Good:    []string{"christmas", "chinese-new-year"},
		Unusual: []string{"valentines", "mid-autumn", "hari-raya", "deepavali"},
	},
}

// BusinessTypes returns the business types with compatibility data.
func BusinessTypes() []string {
	return []string{"cafe", "restaurant", "fine-dining", "hawker", "bakery", "dessert", "bar", "fast-food"}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
