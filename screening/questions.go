package screening

// AnswerKind describes how a question's raw token maps to a numeric feature.
type AnswerKind int

const (
	// KindTwoWay maps "yes" to 1 and anything else, missing included, to 0.
	KindTwoWay AnswerKind = iota
	// KindThreeWayNA maps "yes" to 1, "no" to 0, and anything else
	// (typically "na", e.g. the respondent does not wear glasses) to 0.5.
	KindThreeWayNA
	// KindThreeWayUnsure maps "yes" to 1, "no" to 0, and anything else
	// (typically "unsure" about a measured vital) to 0.5.
	KindThreeWayUnsure
)

// Tokens returns the answer tokens the questionnaire offers for this kind.
func (k AnswerKind) Tokens() []string {
	switch k {
	case KindThreeWayNA:
		return []string{TokenYes, TokenNo, TokenNA}
	case KindThreeWayUnsure:
		return []string{TokenYes, TokenNo, TokenUnsure}
	default:
		return []string{TokenYes, TokenNo}
	}
}

// Question is one entry of the questionnaire registry.
type Question struct {
	Key     string
	Kind    AnswerKind
	Section string
}

// FeatureSchemaVersion identifies the feature layout this service encodes.
// Bump it whenever a question is added, removed, or renamed; model artifacts
// carry the feature list they were trained on and are checked against
// FeatureNames at load time.
const FeatureSchemaVersion = 1

// questions lists the registry in questionnaire (section) order.
var questions = []Question{
	{Key: "born_before_1970", Kind: KindTwoWay, Section: "demographics"},
	{Key: "sex_male", Kind: KindTwoWay, Section: "demographics"},
	{Key: "hispanic_latino", Kind: KindTwoWay, Section: "demographics"},
	{Key: "racial_minority", Kind: KindTwoWay, Section: "demographics"},
	{Key: "education_years", Kind: KindTwoWay, Section: "demographics"},
	{Key: "married_partnered", Kind: KindTwoWay, Section: "demographics"},
	{Key: "right_handed", Kind: KindTwoWay, Section: "demographics"},

	{Key: "english_country", Kind: KindTwoWay, Section: "background"},
	{Key: "spanish_environment", Kind: KindTwoWay, Section: "background"},
	{Key: "speak_english", Kind: KindTwoWay, Section: "background"},
	{Key: "speak_spanish", Kind: KindTwoWay, Section: "background"},

	{Key: "vision_without_glasses", Kind: KindTwoWay, Section: "vision_hearing"},
	{Key: "vision_with_glasses", Kind: KindThreeWayNA, Section: "vision_hearing"},
	{Key: "hearing_without_aid", Kind: KindTwoWay, Section: "vision_hearing"},
	{Key: "hearing_with_aid", Kind: KindThreeWayNA, Section: "vision_hearing"},

	{Key: "height_above_150", Kind: KindTwoWay, Section: "health"},
	{Key: "weight_above_50", Kind: KindTwoWay, Section: "health"},
	{Key: "heart_rate_normal", Kind: KindThreeWayUnsure, Section: "health"},
	{Key: "systolic_bp", Kind: KindThreeWayUnsure, Section: "health"},
	{Key: "diastolic_bp", Kind: KindThreeWayUnsure, Section: "health"},

	{Key: "smoking_history", Kind: KindTwoWay, Section: "smoking"},

	{Key: "first_time_user", Kind: KindTwoWay, Section: "platform"},
	{Key: "answering_in_english", Kind: KindTwoWay, Section: "platform"},
	{Key: "remote_response", Kind: KindTwoWay, Section: "platform"},
}

// featureNames is the canonical model input column order: the question keys
// in byte-order (lexicographic) sort. The model artifact was trained against
// exactly this order, so it is written out explicitly rather than derived,
// and load-time validation compares the artifact's list against it.
var featureNames = []string{
	"answering_in_english",
	"born_before_1970",
	"diastolic_bp",
	"education_years",
	"english_country",
	"first_time_user",
	"hearing_with_aid",
	"hearing_without_aid",
	"heart_rate_normal",
	"height_above_150",
	"hispanic_latino",
	"married_partnered",
	"racial_minority",
	"remote_response",
	"right_handed",
	"sex_male",
	"smoking_history",
	"spanish_environment",
	"speak_english",
	"speak_spanish",
	"systolic_bp",
	"vision_with_glasses",
	"vision_without_glasses",
	"weight_above_50",
}

// Questions returns a copy of the question registry in questionnaire order.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// FeatureNames returns a copy of the canonical feature column order.
func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// FeatureCount is the fixed width of every encoded feature vector.
func FeatureCount() int {
	return len(featureNames)
}
