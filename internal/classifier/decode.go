package classifier

import (
	"encoding/json/v2"
	"fmt"
	"strings"
)

// The service's API is nominally fixed, but several response shapes have been
// observed in practice:
//
//  1. flat:    {"scene": "battle", "confidence": 0.8, "reason": "..."}
//  2. wrapped: {"result": {"scene": "battle", ...}}
//  3. nested:  {"scene": {"name": "battle", "confidence": 0.8, "comment": "..."}}
//     (also nested inside "result")
//
// Each shape gets its own structural parser; decodePrediction tries them in
// order and the first success wins.
type shapeParser func(raw []byte) (ScenePrediction, bool)

var shapeParsers = []shapeParser{
	parseFlat,
	parseWrapped,
	parseNested,
	parseWrappedNested,
}

func decodePrediction(raw []byte) (ScenePrediction, error) {
	for _, parse := range shapeParsers {
		if p, ok := parse(raw); ok {
			return p, nil
		}
	}
	return ScenePrediction{}, fmt.Errorf("%w: response contains no scene", ErrPrediction)
}

// flatShape covers a scene name directly at some level, with the alternate
// confidence/reason spellings seen in older responses.
type flatShape struct {
	Scene       string   `json:"scene"`
	Confidence  *float64 `json:"confidence"`
	Score       *float64 `json:"score"`
	Reason      string   `json:"reason"`
	Comment     string   `json:"comment"`
	Explanation string   `json:"explanation"`
}

func (s flatShape) prediction() (ScenePrediction, bool) {
	scene := strings.TrimSpace(s.Scene)
	if scene == "" {
		return ScenePrediction{}, false
	}
	return ScenePrediction{
		Scene:      scene,
		Confidence: coalesceFloat(s.Confidence, s.Score),
		Reason:     coalesceString(s.Reason, s.Comment, s.Explanation),
	}, true
}

// sceneBlock covers a scene wrapped in its own object, with the alternate
// name keys seen in older responses.
type sceneBlock struct {
	Name        string   `json:"name"`
	Value       string   `json:"value"`
	Slug        string   `json:"slug"`
	Scene       string   `json:"scene"`
	Confidence  *float64 `json:"confidence"`
	Score       *float64 `json:"score"`
	Reason      string   `json:"reason"`
	Comment     string   `json:"comment"`
	Explanation string   `json:"explanation"`
}

func (b sceneBlock) name() string {
	return coalesceString(b.Name, b.Value, b.Slug, b.Scene)
}

func parseFlat(raw []byte) (ScenePrediction, bool) {
	var shape flatShape
	if err := json.Unmarshal(raw, &shape); err != nil {
		return ScenePrediction{}, false
	}
	return shape.prediction()
}

func parseWrapped(raw []byte) (ScenePrediction, bool) {
	var shape struct {
		Result flatShape `json:"result"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return ScenePrediction{}, false
	}
	return shape.Result.prediction()
}

func parseNested(raw []byte) (ScenePrediction, bool) {
	var shape struct {
		Scene      sceneBlock `json:"scene"`
		Confidence *float64   `json:"confidence"`
		Reason     string     `json:"reason"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return ScenePrediction{}, false
	}
	scene := strings.TrimSpace(shape.Scene.name())
	if scene == "" {
		return ScenePrediction{}, false
	}
	return ScenePrediction{
		Scene:      scene,
		Confidence: coalesceFloat(shape.Confidence, shape.Scene.Confidence, shape.Scene.Score),
		Reason:     coalesceString(shape.Reason, shape.Scene.Reason, shape.Scene.Comment, shape.Scene.Explanation),
	}, true
}

func parseWrappedNested(raw []byte) (ScenePrediction, bool) {
	var shape struct {
		Result struct {
			Scene      sceneBlock `json:"scene"`
			Confidence *float64   `json:"confidence"`
			Reason     string     `json:"reason"`
		} `json:"result"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return ScenePrediction{}, false
	}
	scene := strings.TrimSpace(shape.Result.Scene.name())
	if scene == "" {
		return ScenePrediction{}, false
	}
	return ScenePrediction{
		Scene:      scene,
		Confidence: coalesceFloat(shape.Result.Confidence, shape.Result.Scene.Confidence, shape.Result.Scene.Score),
		Reason:     coalesceString(shape.Result.Reason, shape.Result.Scene.Reason, shape.Result.Scene.Comment, shape.Result.Scene.Explanation),
	}, true
}

func coalesceFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func coalesceString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
