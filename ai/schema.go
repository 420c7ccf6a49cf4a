package ai

import "google.golang.org/genai"

// outfitResponseSchema returns the structured-output schema for outfit
// matching. Indices refer to the positions of the garments in the request.
func outfitResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"outfits": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"topIndex":    {Type: genai.TypeInteger},
						"bottomIndex": {Type: genai.TypeInteger},
						"name":        {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
						"personality": {Type: genai.TypeString},
						"locations": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
					},
					Required: []string{"topIndex", "bottomIndex", "name", "description", "personality", "locations"},
				},
			},
		},
		Required: []string{"outfits"},
	}
}
