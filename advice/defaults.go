package advice

// Priorities for the built-in rule set. Conditional rules come first, the
// always-on general-wellness rules after, with gaps left for operators to
// slot custom rules in between.
const (
	priorityEducation = 10
	priorityPartner   = 20
	prioritySmoking   = 30
	priorityHearing   = 40

	priorityDiet     = 100
	priorityExercise = 110
	prioritySleep    = 120
	priorityStress   = 130
)

// DefaultRules returns the built-in recommendation set: four conditional
// rules triggered by specific raw answer tokens, and four general-wellness
// rules that fire on every submission. With the six-entry response cap, a
// submission that trips many conditional rules deterministically drops the
// trailing general ones.
func DefaultRules() []*Rule {
	return []*Rule{
		{
			ID:         "cognitive-engagement",
			Name:       "Low education",
			Expression: `"education_years" in answers && answers.education_years == "no"`,
			Icon:       "📚",
			Title:      "Cognitive Engagement",
			Text:       "Engage in mentally stimulating activities like reading, puzzles, or learning new skills to build cognitive reserve.",
			Priority:   priorityEducation,
			Active:     true,
		},
		{
			ID:         "social-connection",
			Name:       "Unmarried or unpartnered",
			Expression: `"married_partnered" in answers && answers.married_partnered == "no"`,
			Icon:       "👥",
			Title:      "Social Connection",
			Text:       "Maintain strong social ties. Join clubs, volunteer, or regularly connect with friends and family.",
			Priority:   priorityPartner,
			Active:     true,
		},
		{
			ID:         "quit-smoking",
			Name:       "Smoking history",
			Expression: `"smoking_history" in answers && answers.smoking_history == "yes"`,
			Icon:       "🚭",
			Title:      "Quit Smoking",
			Text:       "If you currently smoke, consider quitting. Smoking cessation can reduce dementia risk at any age.",
			Priority:   prioritySmoking,
			Active:     true,
		},
		{
			ID:         "hearing-health",
			Name:       "Untreated hearing loss",
			Expression: `"hearing_without_aid" in answers && answers.hearing_without_aid == "no"`,
			Icon:       "👂",
			Title:      "Hearing Health",
			Text:       "Untreated hearing loss is linked to cognitive decline. Consider getting a hearing evaluation.",
			Priority:   priorityHearing,
			Active:     true,
		},
		{
			ID:         "brain-healthy-diet",
			Name:       "General: diet",
			Expression: `true`,
			Icon:       "🥗",
			Title:      "Brain-Healthy Diet",
			Text:       "Follow the MIND diet rich in vegetables, berries, whole grains, fish, and healthy fats.",
			Priority:   priorityDiet,
			Active:     true,
		},
		{
			ID:         "physical-activity",
			Name:       "General: exercise",
			Expression: `true`,
			Icon:       "🏃",
			Title:      "Physical Activity",
			Text:       "Aim for 150 minutes of moderate exercise weekly. Physical activity benefits brain health.",
			Priority:   priorityExercise,
			Active:     true,
		},
		{
			ID:         "quality-sleep",
			Name:       "General: sleep",
			Expression: `true`,
			Icon:       "😴",
			Title:      "Quality Sleep",
			Text:       "Prioritize 7-8 hours of quality sleep. Good sleep helps clear brain waste products.",
			Priority:   prioritySleep,
			Active:     true,
		},
		{
			ID:         "stress-management",
			Name:       "General: stress",
			Expression: `true`,
			Icon:       "🧘",
			Title:      "Stress Management",
			Text:       "Practice stress-reduction techniques like meditation, yoga, or deep breathing exercises.",
			Priority:   priorityStress,
			Active:     true,
		},
	}
}
