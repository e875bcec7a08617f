package venue

import (
	"sort"
	"strings"

	"github.com/fpang/venue-enhance/internal/angle"
)

// Style is a venue archetype with one enhancement prompt per angle bucket.
type Style struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Prompts     map[angle.Bucket]string `json:"prompts"`
}

// Prompt returns the style's prompt for b, falling back to the hero prompt
// for Unknown or an absent slot.
func (s Style) Prompt(b angle.Bucket) string {
	if p, ok := s.Prompts[b]; ok && p != "" {
		return p
	}
	return s.Prompts[angle.Hero]
}

// GenericInstruction is used for venues the library does not know.
const GenericInstruction = "Enhance this food photo professionally. Improve lighting, colour balance and sharpness so the food looks fresh and appetising. " +
	"Preserve the original composition, camera angle, plating and every element already in the frame; do not add or remove objects."

var styles = map[string]Style{
	"hawker": {
		ID:          "hawker",
		Name:        "Hawker Centre",
		Description: "Bustling open-air food centre with shared tables and vivid, generous plates.",
		Prompts: map[angle.Bucket]string{
			angle.Overhead: "Style this as a Singapore hawker centre meal photographed from directly above. " +
				"Place the plate or bowl on a worn laminate or marble-effect table surface with faint scratches and water rings. " +
				"Arrange authentic table props around the dish: a small saucer of sambal or cut chilli in soy sauce, a calamansi half, " +
				"plastic chopsticks or a metal spoon resting on the rim, a packet of tissue paper. " +
				"Keep colours vivid and slightly saturated with crisp shadows falling across the tabletop. " +
				"The food stays the hero: glossy sauces, visible wok hei char on noodles, fresh herb garnish.",
			angle.Hero: "Photograph this hawker dish at a 45-degree angle on a hawker centre table. " +
				"Keep the dish tack sharp while the background softly dissolves into the warm blur of a busy food court: " +
				"hints of stall lights, stacked bowls and steam, none of it legible. " +
				"Add realistic hawker details at the plate's edge such as a plastic tray, a saucer of chilli, or a cup of iced kopi. " +
				"Colours should be lively and appetising with gentle highlights on sauces and oil.",
			angle.EyeLevel: "Shoot at table height across the hawker table so the dish sits in front of the hawker stall itself. " +
				"Behind the food, show a recognisable stall front: a lit signboard with dish names, stacked bowls, " +
				"a steaming wok station and the stall owner at work, softly out of focus. " +
				"Fellow diners and the bustle of the food court can appear in the distance. " +
				"Emphasise the height and layers of the dish, glossy noodles, piled toppings and rising steam, " +
				"lit by bright, slightly cool fluorescent light balanced with warm food tones.",
		},
	},
	"fine-dining": {
		ID:          "fine-dining",
		Name:        "Fine Dining",
		Description: "Precise plating, restrained palette and intimate evening lighting.",
		Prompts: map[angle.Bucket]string{
			angle.Overhead: "Present this dish as a fine-dining plate photographed from directly above on a refined table surface: " +
				"crisp white linen, dark slate or polished stone. " +
				"Use deliberate negative space around the plate, with a single piece of polished cutlery and the round base of a wine glass at the edge. " +
				"Plating should look precise: tweezered microgreens, sauce dots and swooshes, edible flowers. " +
				"Lighting is soft and directional, creating a gentle gradient across the tablecloth and subtle shadows under each component. " +
				"Muted, elegant colour grading.",
			angle.Hero: "Capture this fine-dining plate at a 45-degree angle with elegant, shallow depth of field. " +
				"The plate is sharp and immaculately styled while the background melts into a dark, moody blur of candlelight and glassware. " +
				"Add refined table details at the plate's edge: polished cutlery, a linen napkin, the base of a wine glass. " +
				"Lighting is low and directional with soft highlights on sauces and glazes. " +
				"Rich but restrained colour with deep shadows.",
			angle.EyeLevel: "Shoot at table height so the plate sits in front of a softly blurred restaurant ambiance background: " +
				"warm pendant lights, candlelit tables, wine glasses catching highlights, dark wood or velvet seating, " +
				"and a glimpse of the open kitchen. " +
				"Show the height and architecture of the plating: stacked components, delicate garnish, sauce pooled at the base. " +
				"Light it like an intimate evening service, warm and low with a gentle rim light on the food.",
		},
	},
	"cafe": {
		ID:          "cafe",
		Name:        "Cafe",
		Description: "Bright specialty cafe with natural light, pastries and latte art.",
		Prompts: map[angle.Bucket]string{
			angle.Overhead: "Style this as a specialty cafe flat-lay on a light wooden or white marble table surface. " +
				"Arrange cafe props around the food: a latte with latte art seen from above, a ceramic saucer, a linen napkin, " +
				"a small vase of dried flowers, an open notebook or a phone face-down. " +
				"Keep the palette soft, airy and bright with natural daylight and gentle shadows. " +
				"The composition should feel curated but relaxed.",
			angle.Hero: "Photograph this cafe item at a 45-degree angle on a wooden cafe table with natural daylight falling from the side. " +
				"Keep the food sharp while the background fades into a soft, creamy blur of cafe interior: plants, pastel tones, a coffee machine glint. " +
				"Add a latte or a pour-over at the edge of frame. " +
				"Bright, airy, slightly warm colour grading with lifted shadows.",
			angle.EyeLevel: "Shoot at table height in a cosy cafe. " +
				"Behind the food, show the cafe interior softly out of focus: a window with daylight streaming in, shelves of coffee beans and plants, " +
				"the espresso bar and a barista at work, other customers chatting in the distance. " +
				"Emphasise the profile of the food: layers of a cake slice, the rise of a croissant, foam on a cappuccino. " +
				"Warm, inviting natural light.",
		},
	},
	"street-food": {
		ID:          "street-food",
		Name:        "Street Food",
		Description: "Night markets, grills and food eaten on the go.",
		Prompts: map[angle.Bucket]string{
			angle.Overhead: "Style this street food from directly above on a rough, textured surface: a metal tray, a paper-lined basket, " +
				"banana leaf or newspaper wrapping on a weathered wooden table. " +
				"Scatter authentic details around it: wooden skewers, a pot of peanut sauce, sliced cucumber and onion, crumpled napkins, a few coins. " +
				"Punchy, high-contrast colours with hard shadows falling across the table. " +
				"Make it look grabbed on the go and delicious.",
			angle.Hero: "Photograph this street food at a 45-degree angle on a roadside table, the food sharp and glistening. " +
				"Let the background fall into a warm blur of night market lights and smoke from the grills. " +
				"Add authentic touches at the edge of frame: paper wrapping, skewers, a plastic bag of iced drink. " +
				"Saturated, energetic colour with warm highlights.",
			angle.EyeLevel: "Shoot at table height in front of a bustling street food scene. " +
				"Behind the food, show the vendor's cart or grill with flames and smoke, hand-painted signage, string lights " +
				"and a crowd of people queueing, all softly out of focus. " +
				"Show the food's height and texture: stacked skewers, dripping sauce, a crisp golden crust. " +
				"Gritty, vibrant, documentary-style light and colour.",
		},
	},
	"fast-food": {
		ID:          "fast-food",
		Name:        "Fast Food",
		Description: "Bold, commercial, high-key advertising look.",
		Prompts: map[angle.Bucket]string{
			angle.Overhead: "Style this fast food meal from directly above on a clean tray or a bright laminated table surface. " +
				"Arrange the full meal graphically: the main item in the centre, fries spilling from their carton, a dipping sauce cup, " +
				"a drink cup with its lid and straw, branded wrapper paper. " +
				"Bold, punchy, high-saturation colours with even lighting, like a modern advertising flat-lay.",
			angle.Hero: "Photograph this fast food item at a 45-degree angle like a commercial advertisement. " +
				"Make it look fresh and generous: glossy bun, melted cheese edges, crisp lettuce, fries with visible salt. " +
				"The background becomes a clean, bright blur of the restaurant's brand colours. " +
				"Add a drink cup with condensation at the edge of frame. " +
				"Bright, high-key lighting with crisp specular highlights.",
			angle.EyeLevel: "Shoot at table height so the burger or main item stands tall in front of a softly blurred fast food restaurant: " +
				"menu boards glowing behind the counter, bright brand colours and customers in the distance. " +
				"Show the full stacked profile: every layer of bun, patty, cheese and sauce. " +
				"Clean, bright commercial lighting with a hint of rim light separating the food from the background.",
		},
	},
	"kopitiam": {
		ID:          "kopitiam",
		Name:        "Heritage Coffee Shop",
		Description: "Traditional kopitiam with marble tables, kaya toast and kopi.",
		Prompts: map[angle.Bucket]string{
			angle.Overhead: "Style this as a traditional kopitiam breakfast photographed from directly above on a round marble table surface " +
				"with its classic grey veining and slight wear. " +
				"Arrange heritage props around the food: kaya toast on a floral-patterned plate, two soft-boiled eggs in a small saucer " +
				"with soy sauce and white pepper, a cup of kopi or teh on a matching saucer, an old-school ceramic spoon. " +
				"Warm, nostalgic colour grading with soft morning light and gentle shadows.",
			angle.Hero: "Photograph this kopitiam dish at a 45-degree angle on a marble-topped table. " +
				"Keep the food sharp while the background melts into a warm, nostalgic blur of an old coffee shop: " +
				"wooden chairs, mosaic floor tiles and glass cabinets of snacks. " +
				"Add heritage touches at the edge of frame: a floral saucer, a kopi cup, a little jar of kaya. " +
				"Warm, slightly faded, vintage colour grading.",
			angle.EyeLevel: "Shoot at table height inside a heritage kopitiam. " +
				"Behind the food, show the coffee shop's character softly out of focus: the drinks stall with its cloth coffee sock and kettle, " +
				"wall tiles in pastel colours, vintage signage, ceiling fans and regulars reading newspapers. " +
				"Emphasise the height of the food and the pour of kopi into the cup. " +
				"Warm, nostalgic light with a gentle film-like quality.",
		},
	},
	"casual-dining": {
		ID:          "casual-dining",
		Name:        "Casual Dining",
		Description: "Friendly neighbourhood restaurant with generous shared plates.",
		Prompts: map[angle.Bucket]string{
			angle.Overhead: "Style this casual dining meal from directly above as a shared spread on a warm wooden table surface. " +
				"Arrange several plates and sides around the main dish, with sharing cutlery, small bowls of sauces, " +
				"drinks with ice and a folded napkin. " +
				"Include hands reaching in from the edges to suggest a friendly meal. " +
				"Warm, natural colours with soft, even light and gentle shadows.",
			angle.Hero: "Photograph this casual dining dish at a 45-degree angle on a wooden table. " +
				"Keep the food sharp while the background blurs into a lively, warmly lit restaurant: table lamps, exposed brick, " +
				"other tables with diners. " +
				"Add relaxed details at the edge of frame: a pint glass, a side of fries, shared cutlery. " +
				"Friendly, warm colour grading with natural contrast.",
			angle.EyeLevel: "Shoot at table height in a lively neighbourhood restaurant. " +
				"Behind the food, show the restaurant interior softly out of focus: a bar with bottles, pendant lights, " +
				"brick or painted walls, and friends chatting around other tables. " +
				"Show the height and generous portion of the dish. " +
				"Warm, welcoming light with a comfortable, everyday feel.",
		},
	},
	"dessert": {
		ID:          "dessert",
		Name:        "Dessert Parlour",
		Description: "Pastel, playful dessert shop with indulgent textures.",
		Prompts: map[angle.Bucket]string{
			angle.Overhead: "Style this dessert from directly above on a pastel or marble table surface. " +
				"Arrange sweet props around it: a dusting of icing sugar, scattered berries or crushed nuts, a small fork, " +
				"a cup of tea or coffee, a linen napkin in a soft colour. " +
				"Keep the palette soft and dreamy with bright, diffused light and delicate shadows. " +
				"Make textures visible: glossy glaze, crumbly edges, creamy swirls.",
			angle.Hero: "Photograph this dessert at a 45-degree angle with the focus on its most indulgent detail: " +
				"a drip of sauce, a cut slice or the melting edge of a scoop. " +
				"Let the background dissolve into a soft, pastel blur of a dessert parlour. " +
				"Add a spoon or fork at the edge of frame and a few crumbs on the plate. " +
				"Bright, airy, slightly warm colour grading.",
			angle.EyeLevel: "Shoot at table height so the dessert's full profile is visible: layers of sponge and cream, " +
				"the height of a parfait, a tall shaved ice. " +
				"Behind it, show a softly blurred dessert cafe: display cases of cakes, pastel walls, neon signage " +
				"and guests enjoying their treats. " +
				"Bright, playful light with gentle highlights on glazes.",
		},
	},
}

var aliases = map[string]string{
	"hawker-centre":        "hawker",
	"hawker-center":        "hawker",
	"food-court":           "hawker",
	"finedining":           "fine-dining",
	"restaurant":           "casual-dining",
	"casual":               "casual-dining",
	"coffee-shop":          "kopitiam",
	"heritage-coffee-shop": "kopitiam",
	"street":               "street-food",
	"night-market":         "street-food",
	"fastfood":             "fast-food",
	"qsr":                  "fast-food",
	"desserts":             "dessert",
	"dessert-parlour":      "dessert",
	"coffee":               "cafe",
	"café":                 "cafe",
}

func normalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.NewReplacer("_", "-", " ", "-").Replace(id)
	if canonical, ok := aliases[id]; ok {
		return canonical
	}
	return id
}

// Lookup returns the style for id. IDs are case-insensitive and a few
// common aliases ("hawker-centre", "coffee-shop") are accepted.
func Lookup(id string) (Style, bool) {
	s, ok := styles[normalizeID(id)]
	return s, ok
}

// IDs returns every canonical venue ID, sorted.
func IDs() []string {
	ids := make([]string, 0, len(styles))
	for id := range styles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every style ordered by ID.
func All() []Style {
	out := make([]Style, 0, len(styles))
	for _, id := range IDs() {
		out = append(out, styles[id])
	}
	return out
}
