package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"codeprep/internal/api/middleware"
	"codeprep/internal/app/service"
	"codeprep/internal/common"
	"codeprep/internal/domain/model"
	"codeprep/internal/domain/repository"

	"github.com/go-chi/chi/v5"
)

// CodingHandler owns the problem-generation, run and grading endpoints.
type CodingHandler struct {
	problemService *service.ProblemService
	gradingService *service.GradingService
	attemptRepo    repository.AttemptRepository
}

func NewCodingHandler(ps *service.ProblemService, gs *service.GradingService, ar repository.AttemptRepository) *CodingHandler {
	return &CodingHandler{problemService: ps, gradingService: gs, attemptRepo: ar}
}

func (h *CodingHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.OptionalIdentity)
	r.Post("/problem/generate", h.generateProblem)
	r.Post("/run", h.runCode)
	r.Post("/submit", h.submitCode)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/submissions", h.listSubmissions)
	})
}

type generateProblemRequest struct {
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
}

func (h *CodingHandler) generateProblem(w http.ResponseWriter, r *http.Request) {
	var req generateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	problem, err := h.problemService.Generate(r.Context(), req.Difficulty, req.Topic)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]*model.Problem{"problem": problem})
}

type runCodeRequest struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	InputData string `json:"input_data"`
}

func (h *CodingHandler) runCode(w http.ResponseWriter, r *http.Request) {
	var req runCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.Code == "" || req.Language == "" {
		common.RespondWithError(w, http.StatusBadRequest, "code and language are required")
		return
	}

	result, err := h.gradingService.Run(r.Context(), req.Code, req.Language, req.InputData)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

type submitCodeRequest struct {
	ProblemID string `json:"problem_id"`
	Code      string `json:"code"`
	Language  string `json:"language"`
}

// submitResponse mirrors the grading contract: success carries only a
// message, runtime errors add details, wrong answers add the failing case's
// input/output/expected triple.
type submitResponse struct {
	Status   model.VerdictStatus `json:"status"`
	Message  string              `json:"message"`
	Details  string              `json:"details,omitempty"`
	Input    *string             `json:"input,omitempty"`
	Output   *string             `json:"output,omitempty"`
	Expected *string             `json:"expected,omitempty"`
}

func (h *CodingHandler) submitCode(w http.ResponseWriter, r *http.Request) {
	var req submitCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.ProblemID == "" || req.Code == "" || req.Language == "" {
		common.RespondWithError(w, http.StatusBadRequest, "problem_id, code and language are required")
		return
	}

	var userID *string
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	verdict := h.gradingService.Grade(r.Context(), userID, req.ProblemID, req.Code, req.Language)

	resp := submitResponse{
		Status:  verdict.Status,
		Message: verdict.Message,
		Details: verdict.Details,
	}
	if verdict.Kind == model.FailWrongAnswer {
		resp.Input = &verdict.Input
		resp.Output = &verdict.Output
		resp.Expected = &verdict.Expected
	}

	code := http.StatusOK
	if verdict.Status == model.VerdictError {
		code = http.StatusNotFound
	}
	common.RespondWithJSON(w, code, resp)
}

func (h *CodingHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	problemID := r.URL.Query().Get("problem_id")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	attempts, err := h.attemptRepo.ListByUser(r.Context(), userID, problemID, pageSize, (page-1)*pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"attempts": attempts,
		"page":     page,
	})
}
