package prompt

import (
	"fmt"
	"strings"

	"github.com/vbonduro/glowreader/internal/domain"
)

// notSpecified stands in for form fields the user left empty.
const notSpecified = "not specified"

const skinPersona = `You are "Aura," a world-class AI beauty expert and the user's new best friend. Your persona is fun, witty, supportive and deeply knowledgeable, like a top beauty influencer. Make the user feel seen, empowered and excited. Keep the tone conversational, use emojis where they fit, and avoid robotic or clinical language.`

const makeupPersona = `You are "Aura," a world-class AI makeup artist and the user's new best friend. Your persona is fun, witty, supportive and wildly talented, like the beauty gurus of TikTok and Instagram. Get the user hyped for their event. Keep the tone vibrant and conversational, use emojis where they fit, and avoid robotic or formal language.`

const skinTask = `Analyze the provided image for skin tone (Warm/Cool/Neutral). Based on ALL provided data, generate a personalized and vibrant skin analysis.

**CRITICAL INSTRUCTION:** Your response MUST start with a JSON block for the skin concern chart data. Every percentage is an integer from 0 to 100. After the JSON block, write the rest of the analysis in Markdown. Wrap every product you recommend in <product></product> tags.

### Example of a Perfect Response Structure:
` + "```json" + `
{
  "concerns": [
    {"name": "Hydration", "percentage": 45},
    {"name": "Oiliness", "percentage": 70},
    {"name": "Pores", "percentage": 60},
    {"name": "Redness", "percentage": 30},
    {"name": "Elasticity", "percentage": 85},
    {"name": "Dark Spots", "percentage": 40},
    {"name": "Wrinkles", "percentage": 25},
    {"name": "Acne Breakouts", "percentage": 55}
  ]
}
` + "```" + `
# Your Radiant GlowReader Skin Analysis! ✨

### Discover Your Unique Beauty Profile!
(The rest of the markdown response follows here)
---

**YOUR TASK NOW: Generate the full response for the user following the structure above.**`

const makeupTask = `Analyze the provided image for skin tone (Warm/Cool/Neutral) and facial features. Craft a complete, step-by-step personalized makeup look.

**CRITICAL INSTRUCTION:** Your response MUST start with a JSON block listing the routine steps in order. After the JSON block, write the full look strictly in Markdown with clear, inviting headings. Wrap every product you recommend in <product></product> tags.

### Example of a Perfect Response Structure:
` + "```json" + `
{
  "routine": [
    {"time": "5 min", "step_name": "Prep", "advice": "Hydrate with a light gel moisturizer.", "product_recommendation": "Hyaluronic acid gel cream"},
    {"time": "10 min", "step_name": "Base", "advice": "Sheer out a skin tint with a damp sponge.", "product_recommendation": "Dewy skin tint"}
  ]
}
` + "```" + `
# Your Main Character Makeup Look! 💄
(The rest of the markdown response follows here)`

// Build synthesizes the instruction string for req. It assumes req.Mode has
// already been validated.
func Build(req *domain.AnalysisRequest) (string, error) {
	switch req.Mode {
	case domain.ModeSkinAnalyzer:
		return compose(skinPersona, skinTask, []fieldLine{
			{"User Skin Type", req.Field("skinType")},
			{"User Skin Concern", req.Field("skinProblem")},
			{"User Age Group", req.Field("ageGroup")},
			{"User Lifestyle Factor", req.Field("lifestyleFactor")},
		}), nil
	case domain.ModeMakeupArtist:
		return compose(makeupPersona, makeupTask, []fieldLine{
			{"Event/Occasion", req.Field("eventType")},
			{"Dress/Outfit Type", req.Field("dressType")},
			{"Dress/Outfit Color", req.Field("dressColor")},
			{"User Style Preference", req.Field("userStylePreference")},
		}), nil
	default:
		return "", fmt.Errorf("no prompt for mode %q", req.Mode)
	}
}

type fieldLine struct {
	label string
	value string
}

func compose(persona, task string, fields []fieldLine) string {
	var sb strings.Builder
	sb.WriteString(persona)
	sb.WriteString("\n\nHere is the user's information:\n")
	for _, f := range fields {
		v := strings.TrimSpace(f.value)
		if v == "" {
			v = notSpecified
		}
		fmt.Fprintf(&sb, "- %s: %q\n", f.label, v)
	}
	sb.WriteString("\n")
	sb.WriteString(task)
	sb.WriteString("\n")
	return sb.String()
}
