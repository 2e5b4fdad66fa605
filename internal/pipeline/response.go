package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/supermango/mangoscan/internal/common"
	"github.com/supermango/mangoscan/internal/model"
)

// parseResponse distinguishes the three response shapes the backend can
// return:
//
//   - a bare JSON string: the backend could not classify the photos as
//     mango leaves. This is an expected outcome with its own display path,
//     not a generic error.
//   - an object missing overall_label or recommendation: malformed.
//   - a well-formed object: success.
//
// The raw recommendation JSON is returned alongside the parsed result so
// the handoff can carry it byte-for-byte.
func parseResponse(raw []byte) (*model.AnalysisResult, json.RawMessage, error) {
	var reject string
	if err := json.Unmarshal(raw, &reject); err == nil {
		return nil, nil, common.NewUserError(
			"One or more photos were not recognized as mango leaves",
			fmt.Errorf("%w: backend said %q", common.ErrUnclassifiablePhotos, reject))
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, nil, common.NewUserError("Something went wrong. Please try again.",
			fmt.Errorf("%w: %v", common.ErrResponseMalformed, err))
	}

	rawRecommendation, hasRec := probe["recommendation"]
	if _, hasLabel := probe["overall_label"]; !hasLabel || !hasRec {
		return nil, nil, common.NewUserError("Something went wrong. Please try again.",
			fmt.Errorf("%w: response missing required keys", common.ErrResponseMalformed))
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, nil, common.NewUserError("Something went wrong. Please try again.",
			fmt.Errorf("%w: %v", common.ErrResponseMalformed, err))
	}

	return &result, rawRecommendation, nil
}

// buildRouteParams serializes the result for the display layer exactly as
// the screens receive it: numbers cast to strings, the recommendation as
// its original JSON text.
func buildRouteParams(result *model.AnalysisResult, rawRecommendation json.RawMessage) model.RouteParams {
	return model.RouteParams{
		PSI:            formatNumber(result.PercentSeverityIndex),
		OverallLabel:   string(result.OverallLabel),
		Humidity:       formatNumber(result.Weather.Humidity),
		Temperature:    formatNumber(result.Weather.Temperature),
		Wetness:        formatNumber(result.Weather.Wetness),
		Recommendation: string(rawRecommendation),
	}
}
