package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/cogniscreen/cogniscreen/advice"
	"github.com/cogniscreen/cogniscreen/internal/logger"
	"github.com/cogniscreen/cogniscreen/model"
	"github.com/cogniscreen/cogniscreen/screening"
	"github.com/cogniscreen/cogniscreen/web"
)

type Server struct {
	svc    *screening.Service
	engine *advice.Engine
	db     *sql.DB // nil when no database is configured
	router *chi.Mux
}

// NewServer wires the screening service over an optional classifier and the
// recommendation engine. A nil classifier degrades predictions to the
// "Model not loaded" error instead of failing startup.
func NewServer(classifier screening.Classifier, engine *advice.Engine, db *sql.DB) *Server {
	s := &Server{
		svc:    screening.NewService(classifier, engine),
		engine: engine,
		db:     db,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Pages
	r.Get("/", s.handlePage("index.html"))
	r.Get("/questionnaire", s.handlePage("questionnaire.html"))
	r.Get("/results", s.handlePage("results.html"))

	// Prediction
	r.Post("/predict", s.handlePredict)

	// Operations API
	r.Get("/api/v1/health", s.handleHealth)
	r.Get("/api/v1/questions", s.handleQuestions)

	r.Route("/api/v1/advice-rules", func(r chi.Router) {
		r.Get("/", s.handleListRules)
		r.Post("/", s.handleCreateRule)

		r.Route("/{ruleId}", func(r chi.Router) {
			r.Get("/", s.handleGetRule)
			r.Put("/", s.handleUpdateRule)
			r.Delete("/", s.handleDeleteRule)
		})
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handlePage serves one of the embedded static pages.
func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := web.Page(name)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "page unavailable", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)
	}
}

// Prediction handler. The response contract is fixed: every outcome is a
// JSON body carrying a success flag, with HTTP 500 for every failure mode,
// and the failure message passed through to the caller.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	assessmentID := uuid.NewString()
	w.Header().Set("X-Assessment-ID", assessmentID)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.predictError(w, assessmentID, err)
		return
	}

	answers, err := screening.ParseAnswers(body)
	if err != nil {
		s.predictError(w, assessmentID, err)
		return
	}

	result, err := s.svc.Predict(answers)
	if err != nil {
		s.predictError(w, assessmentID, err)
		return
	}

	recommendations := make([]RecommendationModel, len(result.Recommendations))
	for i, rec := range result.Recommendations {
		recommendations[i] = RecommendationModel{
			Icon:  rec.Icon,
			Title: rec.Title,
			Text:  rec.Text,
		}
	}

	logger.Info("prediction served",
		"assessment_id", assessmentID,
		"risk_category", result.Category,
		"risk_percentage", result.RiskPercentage,
	)

	respondJSON(w, http.StatusOK, PredictResponse{
		Success:         true,
		RiskPercentage:  result.RiskPercentage,
		RiskCategory:    result.Category,
		RiskColor:       result.Color,
		Prediction:      result.Prediction,
		Recommendations: recommendations,
	})
}

func (s *Server) predictError(w http.ResponseWriter, assessmentID string, err error) {
	logger.Error("prediction failed", "assessment_id", assessmentID, "error", err)
	logger.CountHttp5xx()
	respondJSON(w, http.StatusInternalServerError, PredictErrorResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	rules, err := s.engine.Rules()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list rules", err)
		return
	}

	status := "healthy"
	if !s.svc.ModelAvailable() {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, HealthResponse{
		Status:      status,
		ModelLoaded: s.svc.ModelAvailable(),
		RulesLoaded: len(rules),
	})
}

// Questions handler: the registry the questionnaire page renders from.
func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	registry := screening.Questions()
	questions := make([]QuestionModel, len(registry))
	for i, q := range registry {
		questions[i] = QuestionModel{
			Key:     q.Key,
			Section: q.Section,
			Tokens:  q.Kind.Tokens(),
		}
	}

	respondJSON(w, http.StatusOK, QuestionsResponse{
		SchemaVersion: screening.FeatureSchemaVersion,
		Questions:     questions,
	})
}

// List rules handler
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.engine.Rules()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list rules", err)
		return
	}

	models := make([]RuleModel, len(rules))
	for i, rule := range rules {
		models[i] = toRuleModel(rule)
	}

	respondJSON(w, http.StatusOK, RulesListResponse{Rules: models})
}

// Create rule handler
func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Name == "" || req.Expression == "" || req.Title == "" {
		respondError(w, http.StatusBadRequest, "name, expression and title are required", nil)
		return
	}

	rule := &advice.Rule{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Expression: req.Expression,
		Icon:       req.Icon,
		Title:      req.Title,
		Text:       req.Text,
		Priority:   req.Priority,
		Active:     req.Active,
	}

	// AddRule validates and compiles the trigger expression.
	if err := s.engine.AddRule(rule); err != nil {
		respondError(w, http.StatusBadRequest, "failed to add rule", err)
		return
	}

	respondJSON(w, http.StatusCreated, toRuleModel(rule))
}

// Get rule handler
func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "ruleId")

	rule, err := s.engine.GetRule(ruleID)
	if err != nil {
		respondError(w, http.StatusNotFound, "rule not found", err)
		return
	}

	respondJSON(w, http.StatusOK, toRuleModel(rule))
}

// Update rule handler
func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "ruleId")

	var req UpdateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	rule := &advice.Rule{
		ID:         ruleID,
		Name:       req.Name,
		Expression: req.Expression,
		Icon:       req.Icon,
		Title:      req.Title,
		Text:       req.Text,
		Priority:   req.Priority,
		Active:     req.Active,
	}

	if err := s.engine.UpdateRule(rule); err != nil {
		respondError(w, http.StatusBadRequest, "failed to update rule", err)
		return
	}

	respondJSON(w, http.StatusOK, toRuleModel(rule))
}

// Delete rule handler
func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	ruleID := chi.URLParam(r, "ruleId")

	if err := s.engine.DeleteRule(ruleID); err != nil {
		respondError(w, http.StatusNotFound, "rule not found", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if status >= 500 {
		logger.CountHttp5xx()
	} else if status >= 400 {
		logger.CountHttp4xx()
	}

	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}

func main() {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	// Load the classifier artifact. Absence degrades the service rather
	// than failing startup: every prediction returns a 500 until a model
	// is provided.
	modelDir := os.Getenv("MODEL_DIR")
	if modelDir == "" {
		modelDir = "models"
	}

	var classifier model.Classifier
	loaded, err := model.Load(model.Config{
		Dir:         modelDir,
		OnnxLibrary: os.Getenv("ONNX_LIB"),
	}, screening.FeatureNames())
	if err != nil {
		logger.Warn("classifier unavailable, predictions will fail until a model artifact is provided",
			"model_dir", modelDir, "error", err)
	} else {
		classifier = loaded
		defer classifier.Close()
	}

	// Recommendation rules come from Postgres when configured, otherwise
	// from the built-in set.
	var store advice.RuleStore
	var db *sql.DB
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err = sql.Open("postgres", databaseURL)
		if err != nil {
			logger.Fatal("failed to open database", "error", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Fatal("failed to ping database", "error", err)
		}

		pgStore := advice.NewPostgresRuleStore(db)
		if err := pgStore.Seed(advice.DefaultRules()); err != nil {
			logger.Fatal("failed to seed advice rules", "error", err)
		}
		store = pgStore
		logger.Info("advice rules backed by postgres")
	} else {
		store = advice.NewSeededRuleStore(advice.DefaultRules())
		logger.Info("advice rules backed by built-in defaults")
	}

	engine, err := advice.NewEngine(store)
	if err != nil {
		logger.Fatal("failed to build recommendation engine", "error", err)
	}

	server := NewServer(classifier, engine, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("server starting", "port", port, "model_loaded", classifier != nil)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := logger.Shutdown(ctx); err != nil {
		logger.Error("logger shutdown error", "error", err)
	}
}
