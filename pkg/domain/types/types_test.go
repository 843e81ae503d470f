package types_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hva/pkg/domain/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  types.Rating
	}{
		{"nil", nil, 0},
		{"int", 2, 2},
		{"int64", int64(3), 3},
		{"uint8", uint8(1), 1},
		{"rating", types.Rating(2), 2},
		{"negative int", -1, 0},
		{"float", 2.0, 2},
		{"fractional float is truncated", 2.9, 2},
		{"float32", float32(1.5), 1},
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
		{"negative float", -0.5, 0},
		{"numeric string", "3", 3},
		{"numeric string with spaces", " 2 ", 2},
		{"non-numeric string", "high", 0},
		{"empty string", "", 0},
		{"json number", json.Number("1"), 1},
		{"bool", true, 0},
		{"slice", []int{1}, 0},
		{"huge int is capped", math.MaxInt64, types.MaxRating},
		{"huge float is capped", 1e300, types.MaxRating},
		{"huge uint is capped", uint64(math.MaxUint64), types.MaxRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, types.Normalize(tt.input)).Equal(tt.want)
		})
	}
}

func TestRating_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want types.Rating
	}{
		{"number", `2`, 2},
		{"float", `1.7`, 1},
		{"string number", `"3"`, 3},
		{"string text", `"N/A"`, 0},
		{"null", `null`, 0},
		{"bool", `false`, 0},
		{"object", `{"v":1}`, 0},
		{"array", `[1,2]`, 0},
		{"negative", `-4`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r types.Rating
			gt.NoError(t, json.Unmarshal([]byte(tt.data), &r))
			gt.Value(t, r).Equal(tt.want)
		})
	}

	t.Run("field inside struct never fails decoding", func(t *testing.T) {
		var v struct {
			A types.Rating `json:"a"`
			B types.Rating `json:"b"`
			C types.Rating `json:"c"`
		}
		err := json.Unmarshal([]byte(`{"a":"oops","b":{"x":1}}`), &v)
		gt.NoError(t, err).Required()
		gt.Value(t, v.A).Equal(types.Rating(0))
		gt.Value(t, v.B).Equal(types.Rating(0))
		gt.Value(t, v.C).Equal(types.Rating(0))
	})
}

func TestRating_Clamp(t *testing.T) {
	gt.Value(t, types.Rating(-3).Clamp()).Equal(types.Rating(0))
	gt.Value(t, types.Rating(3).Clamp()).Equal(types.Rating(3))
	gt.Value(t, (types.MaxRating + 10).Clamp()).Equal(types.MaxRating)
}

func TestLabels(t *testing.T) {
	tests := []struct {
		value       types.Rating
		probability string
		impact      string
		response    string
	}{
		{0, "N/A", "N/A", "N/A"},
		{1, "Low", "Low", "Poor"},
		{2, "Moderate", "Moderate", "Fair"},
		{3, "High", "High", "Good"},
		{4, "N/A", "N/A", "N/A"},
		{-1, "N/A", "N/A", "N/A"},
	}

	for _, tt := range tests {
		gt.Value(t, types.ProbabilityLabel(tt.value)).Equal(tt.probability)
		gt.Value(t, types.ImpactLabel(tt.value)).Equal(tt.impact)
		gt.Value(t, types.ResponseLabel(tt.value)).Equal(tt.response)
	}
}

func TestVerdict_Level(t *testing.T) {
	tests := []struct {
		verdict types.Verdict
		level   string
	}{
		{types.VerdictGood, "Good"},
		{types.VerdictFair, "Fair"},
		{types.VerdictPoor, "Poor"},
		{types.VerdictUnknown, "Unknown"},
		{types.Verdict("Excellent - made up"), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			gt.Value(t, tt.verdict.Level()).Equal(tt.level)
		})
	}

	for _, v := range types.AllVerdicts() {
		gt.B(t, v.IsValid()).True()
	}
}

func TestHazardCategory_Validate(t *testing.T) {
	tests := []struct {
		name     string
		category types.HazardCategory
		wantErr  bool
	}{
		{"natural", types.HazardCategoryNatural, false},
		{"technological", types.HazardCategoryTechnological, false},
		{"human", types.HazardCategoryHuman, false},
		{"empty", "", true},
		{"uppercase", "Natural", true},
		{"unknown", "cosmic", true},
		{"spaces", "natural hazard", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("HazardCategory.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOwnerID_Validate(t *testing.T) {
	gt.NoError(t, types.OwnerID("user-1").Validate())
	gt.Error(t, types.OwnerID("").Validate())
}
