package ai

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckydream/luckydream-backend/models"
)

func garments(n int) []models.Garment {
	out := make([]models.Garment, n)
	for i := range out {
		out[i] = models.Garment{ID: fmt.Sprintf("g%d", i), Name: fmt.Sprintf("Item %d", i)}
	}
	return out
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain object",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "markdown fence",
			in:   "Here you go:\n```json\n{\"culturalNote\":\"x\"}\n```\nHope that helps!",
			want: `{"culturalNote":"x"}`,
		},
		{
			name: "prose around object",
			in:   `Sure! The plan is {"luxury":[],"local":[]} as requested.`,
			want: `{"luxury":[],"local":[]}`,
		},
		{
			name: "braces inside strings",
			in:   `prefix {"note":"uses { and } inside"} suffix`,
			want: `{"note":"uses { and } inside"}`,
		},
		{
			name: "escaped quote inside string",
			in:   `{"note":"she said \"hi\" {"}`,
			want: `{"note":"she said \"hi\" {"}`,
		},
		{
			name: "no object at all",
			in:   "sorry, I cannot help with that",
			want: "",
		},
		{
			name: "unbalanced braces",
			in:   `{"a": {"b": 1}`,
			want: "",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractJSON(tt.in)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNormalizeOutfits(t *testing.T) {
	t.Parallel()

	tops := garments(2)
	bottoms := garments(3)

	t.Run("keeps only in-range candidates", func(t *testing.T) {
		t.Parallel()
		raw := `{"outfits":[
			{"topIndex":0,"bottomIndex":2,"name":"ok"},
			{"topIndex":5,"bottomIndex":0,"name":"top out of range"},
			{"topIndex":1,"bottomIndex":-1,"name":"negative bottom"},
			{"topIndex":1,"bottomIndex":1,"name":"also ok"}
		]}`
		got := NormalizeOutfits(raw, tops, bottoms)
		require.Len(t, got, 2)
		assert.Equal(t, "ok", got[0].Name)
		assert.Equal(t, "also ok", got[1].Name)
	})

	t.Run("garbage response yields nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, NormalizeOutfits("not json at all", tops, bottoms))
	})

	t.Run("valid json but all out of range yields nil", func(t *testing.T) {
		t.Parallel()
		raw := `{"outfits":[{"topIndex":9,"bottomIndex":9}]}`
		assert.Nil(t, NormalizeOutfits(raw, tops, bottoms))
	})
}

func TestFallbackOutfits(t *testing.T) {
	t.Parallel()

	t.Run("pairs up to three", func(t *testing.T) {
		t.Parallel()
		got := FallbackOutfits(garments(5), garments(5))
		require.Len(t, got, 3)
		for i, o := range got {
			assert.Equal(t, i, o.TopIndex)
			assert.Equal(t, i, o.BottomIndex)
			assert.NotEmpty(t, o.Name)
			assert.NotEmpty(t, o.Description)
			assert.NotEmpty(t, o.Personality)
			assert.NotEmpty(t, o.Locations)
		}
	})

	t.Run("limited by shorter list", func(t *testing.T) {
		t.Parallel()
		got := FallbackOutfits(garments(3), garments(1))
		require.Len(t, got, 1)
		assert.Equal(t, 0, got[0].TopIndex)
		assert.Equal(t, 0, got[0].BottomIndex)
	})

	t.Run("empty input yields empty, never panics", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, FallbackOutfits(nil, garments(2)))
		assert.Empty(t, FallbackOutfits(garments(2), nil))
		assert.Empty(t, FallbackOutfits(nil, nil))
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		a := FallbackOutfits(garments(4), garments(4))
		b := FallbackOutfits(garments(4), garments(4))
		assert.Equal(t, a, b)
	})

	t.Run("unnamed garments get defaults", func(t *testing.T) {
		t.Parallel()
		got := FallbackOutfits([]models.Garment{{ID: "t"}}, []models.Garment{{ID: "b"}})
		require.Len(t, got, 1)
		assert.Equal(t, "Mix & Match: Áo thời thượng", got[0].Name)
		assert.Contains(t, got[0].Description, "Quần đẳng cấp")
	})
}

func TestParseTravelPlan(t *testing.T) {
	t.Parallel()

	t.Run("fenced response with missing arrays", func(t *testing.T) {
		t.Parallel()
		raw := "```json\n{\"culturalNote\":\"x\"}\n```"
		plan, ok := ParseTravelPlan(raw)
		require.True(t, ok)
		assert.Equal(t, "x", plan.CulturalNote)
		assert.NotNil(t, plan.Luxury)
		assert.NotNil(t, plan.Local)
		assert.NotNil(t, plan.Transportation)
		assert.Empty(t, plan.Luxury)
	})

	t.Run("full plan", func(t *testing.T) {
		t.Parallel()
		raw := `{"luxury":[{"name":"Roof Bar","address":"1 Lê Lợi","description":"view","specialtyFood":"cocktail","foodAddress":"tầng 25"}],
			"local":[{"name":"Bún chả Hàng Mành","address":"Hàng Mành","description":"street food"}],
			"transportation":[{"service":"Taxi","description":"use the meter","contactInfo":"028 38 27 27 27"}],
			"culturalNote":"dress modestly at temples"}`
		plan, ok := ParseTravelPlan(raw)
		require.True(t, ok)
		require.Len(t, plan.Luxury, 1)
		assert.Equal(t, "Roof Bar", plan.Luxury[0].Name)
		require.Len(t, plan.Transportation, 1)
		assert.Equal(t, "Taxi", plan.Transportation[0].Service)
	})

	t.Run("unparseable", func(t *testing.T) {
		t.Parallel()
		plan, ok := ParseTravelPlan("the service is down")
		assert.False(t, ok)
		assert.Nil(t, plan)
	})
}
