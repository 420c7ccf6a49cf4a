package models

// Garment is a single clothing item usable as a top or bottom in an outfit.
// Image is a base64-encoded PNG, optionally with a data-URI prefix.
type Garment struct {
	ID    string `json:"id"`
	Image string `json:"image"`
	Name  string `json:"name,omitempty"`
}

// OutfitCandidate is a proposed top+bottom pairing with AI-authored
// narrative metadata. TopIndex/BottomIndex are positional references into
// the caller-supplied garment lists, not stable identifiers.
type OutfitCandidate struct {
	TopIndex    int      `json:"topIndex"`
	BottomIndex int      `json:"bottomIndex"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Personality string   `json:"personality"`
	Locations   []string `json:"locations"`
}

// OutfitResponse is the structured payload expected back from the model.
type OutfitResponse struct {
	Outfits []OutfitCandidate `json:"outfits"`
}

// LocationRec is a single recommended place in a travel plan.
type LocationRec struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Description   string `json:"description"`
	SpecialtyFood string `json:"specialtyFood"`
	FoodAddress   string `json:"foodAddress"`
}

// TransportRec is a recommended way of getting around.
type TransportRec struct {
	Service     string `json:"service"`
	Description string `json:"description"`
	ContactInfo string `json:"contactInfo"`
}

// TravelPlan is an AI-generated itinerary for a city.
type TravelPlan struct {
	Luxury         []LocationRec  `json:"luxury"`
	Local          []LocationRec  `json:"local"`
	Transportation []TransportRec `json:"transportation"`
	CulturalNote   string         `json:"culturalNote"`
}

// TravelSource is a grounding citation attached to a web-grounded plan.
type TravelSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// TravelPlanResult bundles a plan with the citations that grounded it.
// Sources is empty when the plan came from the ungrounded fallback attempt.
type TravelPlanResult struct {
	Plan    TravelPlan     `json:"plan"`
	Sources []TravelSource `json:"sources"`
}
