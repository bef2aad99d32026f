package matching

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRecord marks a row whose loosely-typed payload could not be
// decoded into an explicit record. It is never an empty-result condition.
var ErrInvalidRecord = errors.New("invalid record")

type WeightScale int

const (
	// ScaleUnit values are already 0..1 (vendor relevance, composite scores).
	ScaleUnit WeightScale = iota
	// ScaleOrdinal5 values are 1..5 importance levels or O*NET importance.
	ScaleOrdinal5
	// ScalePercent values are 0..100.
	ScalePercent
)

// NormalizeWeight maps a raw weight from its source scale into 0..1. A nil
// value is missing data and normalizes to 0.
func NormalizeWeight(v *float64, scale WeightScale) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	x := *v
	switch scale {
	case ScaleOrdinal5:
		x = x / 5
	case ScalePercent:
		x = x / 100
	}
	return clamp01(x)
}

// OriginPayload is the validated shape of job_skills.onet_data_source.
type OriginPayload struct {
	Importance *float64 `json:"importance"`
	Level      *float64 `json:"level"`
	Source     string   `json:"source"`
}

// ParseOriginPayload decodes a raw JSON payload. Empty and JSON-null payloads
// are valid and carry no data.
func ParseOriginPayload(raw []byte) (OriginPayload, error) {
	var p OriginPayload
	if len(raw) == 0 || string(raw) == "null" {
		return p, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return OriginPayload{}, fmt.Errorf("%w: origin payload is not an object: %v", ErrInvalidRecord, err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return OriginPayload{}, fmt.Errorf("%w: origin payload: %v", ErrInvalidRecord, err)
	}
	if p.Importance != nil && (math.IsNaN(*p.Importance) || *p.Importance < 0) {
		return OriginPayload{}, fmt.Errorf("%w: importance out of range", ErrInvalidRecord)
	}
	return p, nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clampFloat(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
