package screening

// Encode converts an answer set into the fixed-width numeric feature vector
// the classifier was trained on. It is pure and total: any input, including
// an empty map, produces a vector of FeatureCount() values in {0, 0.5, 1},
// ordered by FeatureNames(). Keys that are not in the question registry are
// ignored; missing answers fall through the same token mapping as
// unrecognized ones.
func Encode(answers AnswerSet) []float64 {
	values := make(map[string]float64, len(questions))
	for _, q := range questions {
		values[q.Key] = mapToken(q.Kind, answers[q.Key])
	}

	vector := make([]float64, len(featureNames))
	for i, name := range featureNames {
		vector[i] = values[name]
	}
	return vector
}

// mapToken applies the numeric mapping for one answer kind. Two-way
// questions treat everything but "yes" as 0; three-way questions reserve
// 0.5 for anything that is neither "yes" nor "no".
func mapToken(kind AnswerKind, token string) float64 {
	switch kind {
	case KindThreeWayNA, KindThreeWayUnsure:
		switch token {
		case TokenYes:
			return 1
		case TokenNo:
			return 0
		default:
			return 0.5
		}
	default:
		if token == TokenYes {
			return 1
		}
		return 0
	}
}
