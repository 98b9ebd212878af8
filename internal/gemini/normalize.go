package gemini

const (
	unknownValue  = "unknown"
	noSuggestions = "No suggestions available"
)

// Analysis is the canonical six-field assessment. Every field is always
// populated; AlternativeSuggestions keeps a user-presentable default.
type Analysis struct {
	ProductName            string `json:"product_name"`
	MaterialType           string `json:"material_type"`
	Recyclability          string `json:"recyclability"`
	CarbonFootprint        string `json:"carbon_footprint"`
	DisposalMethod         string `json:"disposal_method"`
	AlternativeSuggestions string `json:"alternative_suggestions"`
}

// Normalize maps a recovered object onto the canonical schema. For each
// field the canonical key is checked first, then its synonyms; missing or
// empty values get the sentinel default. Pure, cannot fail.
func Normalize(obj map[string]any) Analysis {
	return Analysis{
		ProductName:            pick(obj, unknownValue, "product_name", "product"),
		MaterialType:           pick(obj, unknownValue, "material_type", "material"),
		Recyclability:          pick(obj, unknownValue, "recyclability"),
		CarbonFootprint:        pick(obj, unknownValue, "carbon_footprint", "carbon"),
		DisposalMethod:         pick(obj, unknownValue, "disposal_method", "disposal"),
		AlternativeSuggestions: pick(obj, noSuggestions, "alternative_suggestions", "alternatives"),
	}
}

func pick(obj map[string]any, fallback string, keys ...string) string {
	for _, key := range keys {
		if value := stringify(obj[key]); value != "" {
			return value
		}
	}
	return fallback
}
