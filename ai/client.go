package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/luckydream/luckydream-backend/config"
	"github.com/luckydream/luckydream-backend/models"
	"github.com/luckydream/luckydream-backend/utils"
)

// Client wraps the Gemini API for outfit matching and travel planning.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient creates a Gemini client using the configured API key.
func NewClient(ctx context.Context) (*Client, error) {
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{genai: client, model: config.GeminiModel}, nil
}

// cleanBase64 strips a data-URI prefix if present.
func cleanBase64(image string) string {
	if idx := strings.Index(image, ","); idx >= 0 {
		return image[idx+1:]
	}
	return image
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// GenerateOutfits asks the model to pick the best top+bottom pairings from
// the supplied garment images. The caller never observes a failure here:
// any error, quota exhaustion or unusable response falls back to a
// deterministic local pairing. Empty input lists yield an empty result.
func (c *Client) GenerateOutfits(ctx context.Context, tops, bottoms []models.Garment) ([]models.OutfitCandidate, error) {
	if len(tops) == 0 || len(bottoms) == 0 {
		return []models.OutfitCandidate{}, nil
	}

	parts, err := c.buildOutfitParts(tops, bottoms)
	if err == nil {
		cfg := &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   outfitResponseSchema(),
		}
		contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

		resp, genErr := c.genai.Models.GenerateContent(ctx, c.model, contents, cfg)
		if genErr == nil {
			if outfits := NormalizeOutfits(responseText(resp), tops, bottoms); len(outfits) > 0 {
				return outfits, nil
			}
			log.Println("Gemini returned no valid outfit candidates, using fallback pairing")
		} else {
			log.Printf("Gemini outfit generation failed, using fallback pairing: %v", genErr)
		}
	} else {
		log.Printf("Failed to build outfit request, using fallback pairing: %v", err)
	}

	return FallbackOutfits(tops, bottoms), nil
}

func (c *Client) buildOutfitParts(tops, bottoms []models.Garment) ([]*genai.Part, error) {
	var parts []*genai.Part

	for i, g := range tops {
		data, err := base64.StdEncoding.DecodeString(cleanBase64(g.Image))
		if err != nil {
			return nil, fmt.Errorf("invalid top image at index %d: %w", i, err)
		}
		parts = append(parts,
			genai.NewPartFromText(fmt.Sprintf("Áo số %d:", i)),
			genai.NewPartFromBytes(data, "image/png"),
		)
	}
	for i, g := range bottoms {
		data, err := base64.StdEncoding.DecodeString(cleanBase64(g.Image))
		if err != nil {
			return nil, fmt.Errorf("invalid bottom image at index %d: %w", i, err)
		}
		parts = append(parts,
			genai.NewPartFromText(fmt.Sprintf("Quần/Váy số %d:", i)),
			genai.NewPartFromBytes(data, "image/png"),
		)
	}

	prompt := `Bạn là một chuyên gia thời trang cao cấp người Việt Nam.
Nhiệm vụ: Phân tích danh sách áo và quần/váy tôi đã gửi.
Hãy chọn ra 3 bộ phối đồ (outfits) ĐẸP NHẤT và HỢP THỜI TRANG NHẤT.
Trả về JSON chính xác theo cấu trúc yêu cầu.`
	parts = append(parts, genai.NewPartFromText(prompt))

	return parts, nil
}

func travelPrompt(city, outfitDescription, vibe string) string {
	return fmt.Sprintf(`Tôi đang ở thành phố "%s" tại Việt Nam. Tôi đang mặc một bộ đồ: "%s" với vibe "%s".
Hãy đề xuất hành trình du lịch THỰC TẾ tại %s bao gồm địa điểm sang trọng, địa điểm địa phương và phương tiện di chuyển.

YÊU CẦU TRẢ VỀ CHỈ DUY NHẤT KHỐI JSON theo cấu trúc:
{
  "luxury": [{"name": "Tên", "address": "Địa chỉ", "description": "Lý do chọn", "specialtyFood": "Món nên thử", "foodAddress": "Nơi ăn"}],
  "local": [{"name": "Tên", "address": "Địa chỉ", "description": "Tại sao nổi tiếng", "specialtyFood": "Món ngon", "foodAddress": "Địa chỉ quán"}],
  "transportation": [{"service": "Tên dịch vụ", "description": "Ưu điểm", "contactInfo": "Thông tin liên hệ/app"}],
  "culturalNote": "Lưu ý văn hóa ngắn gọn"
}`, city, outfitDescription, vibe, city)
}

// GenerateTravelPlan builds an itinerary for a city. Attempt 1 grounds the
// request with Google Search and cites its sources; on any failure it falls
// through to an ungrounded attempt with an explicit note that search is
// unavailable. When neither attempt yields parseable JSON the result is
// (nil, nil): no plan, not an error, so the caller can offer a retry.
func (c *Client) GenerateTravelPlan(ctx context.Context, city, outfitDescription, vibe string) (*models.TravelPlanResult, error) {
	prompt := travelPrompt(city, outfitDescription, vibe)

	// Attempt 1: web-grounded. Grounding tools cannot be combined with a
	// response schema, so JSON structure comes from the prompt alone.
	groundedCfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), groundedCfg)
	if err == nil {
		if plan, ok := ParseTravelPlan(responseText(resp)); ok {
			return &models.TravelPlanResult{
				Plan:    *plan,
				Sources: groundingSources(resp),
			}, nil
		}
	} else {
		log.Printf("Grounded travel plan attempt failed: %v", err)
		if !utils.IsQuotaError(err) {
			log.Printf("Error detail: %+v", err)
		}
	}

	// Attempt 2: no search, rely on the model's own knowledge.
	fallbackPrompt := prompt + "\n(Lưu ý: Hãy sử dụng kiến thức của bạn về thành phố này để trả lời vì dịch vụ tìm kiếm đang tạm bảo trì)."
	fallbackCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err = c.genai.Models.GenerateContent(ctx, c.model, genai.Text(fallbackPrompt), fallbackCfg)
	if err != nil {
		log.Printf("Ungrounded travel plan attempt failed: %v", err)
		return nil, nil
	}

	plan, ok := ParseTravelPlan(responseText(resp))
	if !ok {
		return nil, nil
	}
	return &models.TravelPlanResult{
		Plan:    *plan,
		Sources: []models.TravelSource{},
	}, nil
}

// groundingSources collects grounding citations from a grounded response.
// An empty list is valid: grounding may succeed without citing chunks.
func groundingSources(resp *genai.GenerateContentResponse) []models.TravelSource {
	sources := []models.TravelSource{}
	if resp == nil || len(resp.Candidates) == 0 {
		return sources
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return sources
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk.Web != nil {
			sources = append(sources, models.TravelSource{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}
	return sources
}
