package screening

import (
	"reflect"
	"sort"
	"testing"
)

// threeWayKeys are the questions whose unanswered/other tokens encode as 0.5.
var threeWayKeys = map[string]bool{
	"vision_with_glasses": true,
	"hearing_with_aid":    true,
	"heart_rate_normal":   true,
	"systolic_bp":         true,
	"diastolic_bp":        true,
}

func featureIndex(t *testing.T, name string) int {
	t.Helper()
	for i, n := range FeatureNames() {
		if n == name {
			return i
		}
	}
	t.Fatalf("feature %q not in FeatureNames()", name)
	return -1
}

// TestEncodeDeterministic verifies that encoding the same answers twice
// yields identical vectors.
func TestEncodeDeterministic(t *testing.T) {
	answers := AnswerSet{
		"born_before_1970":  TokenYes,
		"smoking_history":   TokenNo,
		"heart_rate_normal": TokenUnsure,
		"hearing_with_aid":  TokenNA,
	}

	first := Encode(answers)
	second := Encode(answers)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Encode() is not deterministic:\nfirst  = %v\nsecond = %v", first, second)
	}
}

// TestEncodeEmptyAnswerSet verifies totality: an empty submission still
// produces a full-width vector, with 0.5 at the three-way positions and 0
// everywhere else.
func TestEncodeEmptyAnswerSet(t *testing.T) {
	vector := Encode(AnswerSet{})

	if len(vector) != FeatureCount() {
		t.Fatalf("Encode(empty) length = %d, want %d", len(vector), FeatureCount())
	}

	for i, name := range FeatureNames() {
		want := 0.0
		if threeWayKeys[name] {
			want = 0.5
		}
		if vector[i] != want {
			t.Errorf("Encode(empty)[%d] (%s) = %v, want %v", i, name, vector[i], want)
		}
	}
}

// TestTwoWayMapping verifies that two-way questions map "yes" to 1 and
// everything else, missing included, to 0.
func TestTwoWayMapping(t *testing.T) {
	idx := featureIndex(t, "smoking_history")

	testCases := []struct {
		name    string
		answers AnswerSet
		want    float64
	}{
		{"yes", AnswerSet{"smoking_history": TokenYes}, 1},
		{"no", AnswerSet{"smoking_history": TokenNo}, 0},
		{"missing", AnswerSet{}, 0},
		{"unrecognized token", AnswerSet{"smoking_history": "maybe"}, 0},
		{"empty token", AnswerSet{"smoking_history": ""}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			vector := Encode(tc.answers)
			if vector[idx] != tc.want {
				t.Errorf("smoking_history = %v, want %v", vector[idx], tc.want)
			}
		})
	}
}

// TestThreeWayMapping verifies the three-way law for both the corrected
// vision/hearing pair and the unsure-style vitals: yes=1, no=0, anything
// else 0.5.
func TestThreeWayMapping(t *testing.T) {
	fields := []struct {
		key   string
		other string // the third token the questionnaire offers
	}{
		{"vision_with_glasses", TokenNA},
		{"hearing_with_aid", TokenNA},
		{"heart_rate_normal", TokenUnsure},
		{"systolic_bp", TokenUnsure},
		{"diastolic_bp", TokenUnsure},
	}

	for _, field := range fields {
		t.Run(field.key, func(t *testing.T) {
			idx := featureIndex(t, field.key)

			testCases := []struct {
				name    string
				answers AnswerSet
				want    float64
			}{
				{"yes", AnswerSet{field.key: TokenYes}, 1},
				{"no", AnswerSet{field.key: TokenNo}, 0},
				{"third token", AnswerSet{field.key: field.other}, 0.5},
				{"missing", AnswerSet{}, 0.5},
				{"unrecognized token", AnswerSet{field.key: "dunno"}, 0.5},
			}

			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					vector := Encode(tc.answers)
					if vector[idx] != tc.want {
						t.Errorf("%s = %v, want %v", field.key, vector[idx], tc.want)
					}
				})
			}
		})
	}
}

// TestEncodeIgnoresUnknownKeys verifies that keys outside the registry do
// not change the vector.
func TestEncodeIgnoresUnknownKeys(t *testing.T) {
	base := Encode(AnswerSet{"smoking_history": TokenYes})
	withUnknown := Encode(AnswerSet{
		"smoking_history": TokenYes,
		"favorite_color":  "blue",
		"SMOKING_HISTORY": TokenNo, // case-sensitive: not a registry key
	})

	if !reflect.DeepEqual(base, withUnknown) {
		t.Errorf("unknown keys changed the vector:\nbase = %v\nwith = %v", base, withUnknown)
	}
}

// TestFeatureNamesAreCanonical verifies the explicit column list matches
// the registry: same key set, byte-order sorted, fixed width.
func TestFeatureNamesAreCanonical(t *testing.T) {
	names := FeatureNames()

	if !sort.StringsAreSorted(names) {
		t.Error("FeatureNames() is not in lexicographic order")
	}

	fromRegistry := make([]string, 0, len(questions))
	for _, q := range questions {
		fromRegistry = append(fromRegistry, q.Key)
	}
	sort.Strings(fromRegistry)

	if !reflect.DeepEqual(names, fromRegistry) {
		t.Errorf("FeatureNames() diverges from the question registry:\nnames    = %v\nregistry = %v",
			names, fromRegistry)
	}

	if len(names) != 24 {
		t.Errorf("FeatureCount() = %d, want 24", len(names))
	}
}
