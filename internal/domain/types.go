package domain

import (
	"encoding/json"
	"math"
)

// Mode selects which persona and form fields an analysis uses.
type Mode string

const (
	ModeSkinAnalyzer Mode = "skin-analyzer"
	ModeMakeupArtist Mode = "makeup-artist"
)

// Valid reports whether m is one of the recognized modes.
func (m Mode) Valid() bool {
	return m == ModeSkinAnalyzer || m == ModeMakeupArtist
}

// Fields returns the form field names read for the mode, in prompt order.
func (m Mode) Fields() []string {
	switch m {
	case ModeSkinAnalyzer:
		return []string{"skinType", "skinProblem", "ageGroup", "lifestyleFactor"}
	case ModeMakeupArtist:
		return []string{"eventType", "dressType", "dressColor", "userStylePreference"}
	default:
		return nil
	}
}

// Title is the human-facing name of the mode.
func (m Mode) Title() string {
	switch m {
	case ModeSkinAnalyzer:
		return "Skin Analysis"
	case ModeMakeupArtist:
		return "Makeup Look"
	default:
		return string(m)
	}
}

// AnalysisRequest is one form submission. It lives only for the duration of
// the relay call.
type AnalysisRequest struct {
	Mode     Mode
	Image    []byte
	MIMEType string
	Fields   map[string]string
}

// Field returns the named form value or "" when absent.
func (r *AnalysisRequest) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

type AnalysisResponse struct {
	Markdown string `json:"markdown"`
}

type Concern struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// UnmarshalJSON accepts fractional percentages and rounds them to the nearest
// integer. Out-of-range values are kept as given.
func (c *Concern) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       string  `json:"name"`
		Percentage float64 `json:"percentage"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Name = raw.Name
	c.Percentage = int(math.Round(raw.Percentage))
	return nil
}

type RoutineStep struct {
	Time                  string `json:"time"`
	StepName              string `json:"step_name"`
	Advice                string `json:"advice"`
	ProductRecommendation string `json:"product_recommendation"`
}

// HistoryEntry is a stored past response. ID is the creation time in Unix
// milliseconds.
type HistoryEntry struct {
	ID      int64  `json:"id"`
	Type    string `json:"type"`
	Date    string `json:"date"`
	Content string `json:"content"`
}
