package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic-writer-api/internal/application/writer"
	"civic-writer-api/internal/domain/entity"
	"civic-writer-api/internal/interfaces/http/dto"
	"civic-writer-api/internal/interfaces/http/middleware"
	"civic-writer-api/internal/interfaces/web"
	apperrors "civic-writer-api/pkg/errors"
)

// actionGenerate is the value of the generate button; any other action
// rebuilds the prompt.
const actionGenerate = "generate"

type SpeechHandler struct {
	svc *writer.FlowService
}

func NewSpeechHandler(svc *writer.FlowService) *SpeechHandler {
	return &SpeechHandler{svc: svc}
}

// Options
// @Summary List the speech form options
// @Tags Speech
// @Produce json
// @Success 200 {object} dto.Response[writer.SpeechOptions]
// @Router /v1/flows/speech/options [get]
func (h *SpeechHandler) Options(c *gin.Context) {
	dto.Success(c, h.svc.SpeechOptions())
}

// Prompt
// @Summary Assemble the speech prompt from the form selections
// @Tags Speech
// @Accept json
// @Produce json
// @Param request body dto.SpeechSelection true "form selections"
// @Success 200 {object} dto.Response[dto.SpeechPromptResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/flows/speech/prompt [post]
func (h *SpeechHandler) Prompt(c *gin.Context) {
	var req dto.SpeechSelection
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	prompt, err := h.svc.SpeechPrompt(c.Request.Context(), req.ToEntity())
	if err != nil {
		dto.AppError(c, err, nil)
		return
	}
	dto.Success(c, dto.SpeechPromptResponse{Prompt: prompt})
}

// Generate
// @Summary Generate a speech from the (edited) prompt
// @Tags Speech
// @Accept json
// @Produce json
// @Param request body dto.SpeechGenerateRequest true "prompt"
// @Success 200 {object} dto.Response[dto.FlowStateResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/flows/speech/generations [post]
func (h *SpeechHandler) Generate(c *gin.Context) {
	var req dto.SpeechGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	cfg, err := h.svc.FlowConfig(entity.FlowSpeech)
	if err != nil {
		dto.AppError(c, err, nil)
		return
	}

	prev := writer.RestoreState(entity.FlowSpeech, cfg, req.PreviousResult)
	state, err := h.svc.Submit(c.Request.Context(), middleware.GetSessionID(c), entity.FlowSpeech, req.Prompt, prev)
	resp := dto.NewFlowStateResponse(state, writer.Present(state, cfg))
	if err != nil {
		dto.AppError(c, err, resp)
		return
	}
	dto.Success(c, resp)
}

// Page renders the speech form with the default selections and their prompt.
func (h *SpeechHandler) Page(c *gin.Context) {
	cfg, err := h.svc.FlowConfig(entity.FlowSpeech)
	if err != nil {
		dto.AppError(c, err, nil)
		return
	}

	sel := entity.DefaultSpeechRequest()
	prompt, _ := h.svc.SpeechPrompt(c.Request.Context(), sel)
	renderHTML(c, http.StatusOK, web.SpeechPage(web.SpeechPageData{
		Selection: sel,
		Options:   h.svc.SpeechOptions(),
		Prompt:    prompt,
		Result:    writer.Present(entity.FlowState{Flow: entity.FlowSpeech}, cfg),
	}))
}

// Submit handles both buttons of the speech form. "preview" rebuilds the
// prompt from the selections; "generate" sends the prompt textarea as is.
func (h *SpeechHandler) Submit(c *gin.Context) {
	cfg, err := h.svc.FlowConfig(entity.FlowSpeech)
	if err != nil {
		dto.AppError(c, err, nil)
		return
	}

	var form dto.SpeechSelection
	if err := c.ShouldBind(&form); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	prompt := formValue(c, "prompt")

	ctx := c.Request.Context()
	sel := form.ToEntity().Normalize()
	prev := writer.RestoreState(entity.FlowSpeech, cfg, formValue(c, "previous_result"))
	data := web.SpeechPageData{
		Selection: sel,
		Options:   h.svc.SpeechOptions(),
		Prompt:    prompt,
	}
	status := http.StatusOK
	state := prev

	switch c.PostForm("action") {
	case actionGenerate:
		state, err = h.svc.Submit(ctx, middleware.GetSessionID(c), entity.FlowSpeech, prompt, prev)
	default:
		data.Prompt, err = h.svc.SpeechPrompt(ctx, sel)
	}
	if err != nil {
		status = apperrors.AsAppError(err).HTTPStatus
		data.Error = writer.InlineError(err)
	}

	data.Result = writer.Present(state, cfg)
	data.PreviousResult = state.Result
	renderHTML(c, status, web.SpeechPage(data))
}
