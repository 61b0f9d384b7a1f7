package main

import (
	"time"

	"github.com/cogniscreen/cogniscreen/advice"
)

// API Request and Response Models with Swagger annotations

// PredictResponse is the successful prediction payload. Field names are a
// fixed wire contract with the questionnaire frontend.
type PredictResponse struct {
	Success         bool                  `json:"success" example:"true"`
	RiskPercentage  float64               `json:"risk_percentage" example:"10.0"`
	RiskCategory    string                `json:"risk_category" example:"Low Risk"`
	RiskColor       string                `json:"risk_color" example:"#00d97e"`
	Prediction      int                   `json:"prediction" example:"0"`
	Recommendations []RecommendationModel `json:"recommendations"`
} // @name PredictResponse

// PredictErrorResponse is returned for every prediction failure mode,
// always with HTTP 500.
type PredictErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Model not loaded"`
} // @name PredictErrorResponse

// RecommendationModel is one advisory entry in a prediction response.
type RecommendationModel struct {
	Icon  string `json:"icon" example:"🥗"`
	Title string `json:"title" example:"Brain-Healthy Diet"`
	Text  string `json:"text" example:"Follow the MIND diet rich in vegetables, berries, whole grains, fish, and healthy fats."`
} // @name RecommendationModel

// QuestionModel describes one questionnaire entry.
type QuestionModel struct {
	Key     string   `json:"key" example:"smoking_history"`
	Section string   `json:"section" example:"smoking"`
	Tokens  []string `json:"tokens" example:"yes,no"`
} // @name QuestionModel

// QuestionsResponse lists the question registry in questionnaire order.
type QuestionsResponse struct {
	SchemaVersion int             `json:"feature_schema_version" example:"1"`
	Questions     []QuestionModel `json:"questions"`
} // @name QuestionsResponse

// HealthResponse reports service health and model availability.
type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	ModelLoaded bool   `json:"model_loaded" example:"true"`
	RulesLoaded int    `json:"rules_loaded" example:"8"`
} // @name HealthResponse

// CreateRuleRequest is the request body for creating an advice rule.
type CreateRuleRequest struct {
	Name       string `json:"name" example:"Untreated hearing loss" binding:"required"`
	Expression string `json:"expression" example:"\"hearing_without_aid\" in answers && answers.hearing_without_aid == \"no\"" binding:"required"`
	Icon       string `json:"icon" example:"👂"`
	Title      string `json:"title" example:"Hearing Health" binding:"required"`
	Text       string `json:"text" example:"Untreated hearing loss is linked to cognitive decline."`
	Priority   int    `json:"priority" example:"40"`
	Active     bool   `json:"active" example:"true"`
} // @name CreateRuleRequest

// UpdateRuleRequest is the request body for updating an advice rule.
type UpdateRuleRequest struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Icon       string `json:"icon"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Priority   int    `json:"priority"`
	Active     bool   `json:"active"`
} // @name UpdateRuleRequest

// RuleModel represents an advice rule in API responses.
type RuleModel struct {
	ID         string    `json:"id" example:"hearing-health"`
	Name       string    `json:"name" example:"Untreated hearing loss"`
	Expression string    `json:"expression"`
	Icon       string    `json:"icon" example:"👂"`
	Title      string    `json:"title" example:"Hearing Health"`
	Text       string    `json:"text"`
	Priority   int       `json:"priority" example:"40"`
	Active     bool      `json:"active" example:"true"`
	CreatedAt  time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt  time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
} // @name RuleModel

// RulesListResponse lists advice rules in priority order.
type RulesListResponse struct {
	Rules []RuleModel `json:"rules"`
} // @name RulesListResponse

func toRuleModel(rule *advice.Rule) RuleModel {
	return RuleModel{
		ID:         rule.ID,
		Name:       rule.Name,
		Expression: rule.Expression,
		Icon:       rule.Icon,
		Title:      rule.Title,
		Text:       rule.Text,
		Priority:   rule.Priority,
		Active:     rule.Active,
		CreatedAt:  rule.CreatedAt,
		UpdatedAt:  rule.UpdatedAt,
	}
}
