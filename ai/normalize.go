package ai

import (
	"encoding/json"
	"fmt"

	"github.com/luckydream/luckydream-backend/models"
)

// ExtractJSON pulls a JSON object out of a model response. The model
// sometimes wraps the payload in ```json fences or explanatory prose, so a
// failed direct parse falls back to the first balanced {...} span in the
// text. Returns nil when no parseable object is found.
func ExtractJSON(text string) []byte {
	if json.Valid([]byte(text)) {
		return []byte(text)
	}

	span := firstBalancedObject(text)
	if span == "" {
		return nil
	}
	if !json.Valid([]byte(span)) {
		return nil
	}
	return []byte(span)
}

// firstBalancedObject returns the first balanced top-level {...} span,
// respecting string literals and escapes.
func firstBalancedObject(text string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if start == -1 {
			if r == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if escaped {
			escaped = false
			continue
		}

		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}

// NormalizeOutfits parses a raw model response and keeps only candidates
// whose indices are in range for the supplied garment lists. Returns nil
// when nothing usable survives; the caller applies the fallback then.
func NormalizeOutfits(raw string, tops, bottoms []models.Garment) []models.OutfitCandidate {
	data := ExtractJSON(raw)
	if data == nil {
		return nil
	}

	var resp models.OutfitResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil
	}

	var safe []models.OutfitCandidate
	for _, o := range resp.Outfits {
		if o.TopIndex >= 0 && o.TopIndex < len(tops) &&
			o.BottomIndex >= 0 && o.BottomIndex < len(bottoms) {
			safe = append(safe, o)
		}
	}
	return safe
}

// FallbackOutfits deterministically pairs tops[i] with bottoms[i] for up to
// 3 outfits, using the garments' own names to build templated narrative.
// Never fails; returns an empty result only when either input is empty.
func FallbackOutfits(tops, bottoms []models.Garment) []models.OutfitCandidate {
	count := 3
	if len(tops) < count {
		count = len(tops)
	}
	if len(bottoms) < count {
		count = len(bottoms)
	}

	outfits := make([]models.OutfitCandidate, 0, count)
	for i := 0; i < count; i++ {
		topName := tops[i].Name
		if topName == "" {
			topName = "Áo thời thượng"
		}
		bottomName := bottoms[i].Name
		if bottomName == "" {
			bottomName = "Quần đẳng cấp"
		}

		outfits = append(outfits, models.OutfitCandidate{
			TopIndex:    i,
			BottomIndex: i,
			Name:        fmt.Sprintf("Mix & Match: %s", topName),
			Description: fmt.Sprintf("Sự kết hợp tinh tế giữa %s và %s. Đây là lựa chọn hoàn hảo để tôn vinh vẻ đẹp sang trọng và phong cách cá nhân của bạn trong mọi hoàn cảnh.", topName, bottomName),
			Personality: "Thanh lịch, hiện đại và tràn đầy năng lượng thành công.",
			Locations:   []string{"Buổi tiệc tối", "Hẹn hò sang trọng", "Gặp gỡ đối tác", "Sự kiện thời trang"},
		})
	}
	return outfits
}

// ParseTravelPlan extracts a travel plan from a raw model response. Absent
// array fields are normalized to empty slices here, at the boundary, so no
// downstream consumer has to guard against nil.
func ParseTravelPlan(raw string) (*models.TravelPlan, bool) {
	data := ExtractJSON(raw)
	if data == nil {
		return nil, false
	}

	var plan models.TravelPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, false
	}

	if plan.Luxury == nil {
		plan.Luxury = []models.LocationRec{}
	}
	if plan.Local == nil {
		plan.Local = []models.LocationRec{}
	}
	if plan.Transportation == nil {
		plan.Transportation = []models.TransportRec{}
	}
	return &plan, true
}
