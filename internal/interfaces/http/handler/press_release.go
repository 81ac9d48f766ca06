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

type PressReleaseHandler struct {
	svc *writer.FlowService
}

func NewPressReleaseHandler(svc *writer.FlowService) *PressReleaseHandler {
	return &PressReleaseHandler{svc: svc}
}

// Prompt
// @Summary Fill the press-release template with the form fields
// @Tags PressRelease
// @Accept json
// @Produce json
// @Param request body dto.PressReleaseForm true "form fields"
// @Success 200 {object} dto.Response[dto.PressReleasePromptResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/flows/press-release/prompt [post]
func (h *PressReleaseHandler) Prompt(c *gin.Context) {
	var req dto.PressReleaseForm
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	prompt, err := h.svc.PressReleasePrompt(c.Request.Context(), req.ToEntity())
	if err != nil {
		dto.AppError(c, err, nil)
		return
	}
	dto.Success(c, dto.PressReleasePromptResponse{Prompt: prompt})
}

// Generate
// @Summary Generate a press release from the form fields
// @Tags PressRelease
// @Accept json
// @Produce json
// @Param request body dto.PressReleaseForm true "form fields"
// @Success 200 {object} dto.Response[dto.FlowStateResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/flows/press-release/generations [post]
func (h *PressReleaseHandler) Generate(c *gin.Context) {
	var req dto.PressReleaseForm
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	cfg, err := h.svc.FlowConfig(entity.FlowPressRelease)
	if err != nil {
		dto.AppError(c, err, nil)
		return
	}

	prev := writer.RestoreState(entity.FlowPressRelease, cfg, req.PreviousResult)
	state, err := h.svc.GeneratePressRelease(c.Request.Context(), middleware.GetSessionID(c), req.ToEntity(), prev)
	resp := dto.NewFlowStateResponse(state, writer.Present(state, cfg))
	if err != nil {
		dto.AppError(c, err, resp)
		return
	}
	dto.Success(c, resp)
}

// Page renders the empty press-release form.
func (h *PressReleaseHandler) Page(c *gin.Context) {
	cfg, err := h.svc.FlowConfig(entity.FlowPressRelease)
	if err != nil {
		dto.AppError(c, err, nil)
		return
	}
	renderHTML(c, http.StatusOK, web.PressReleasePage(web.PressReleasePageData{
		Result: writer.Present(entity.FlowState{Flow: entity.FlowPressRelease}, cfg),
	}))
}

// Submit generates from the posted form and re-renders the page with either
// the new result or the previous one and an inline error.
func (h *PressReleaseHandler) Submit(c *gin.Context) {
	cfg, err := h.svc.FlowConfig(entity.FlowPressRelease)
	if err != nil {
		dto.AppError(c, err, nil)
		return
	}

	var form dto.PressReleaseForm
	if err := c.ShouldBind(&form); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	for _, f := range []*string{&form.Title, &form.Person, &form.Contact, &form.Content, &form.PreviousResult} {
		*f = foldCRLF(*f)
	}

	req := form.ToEntity()
	prev := writer.RestoreState(entity.FlowPressRelease, cfg, form.PreviousResult)
	state, err := h.svc.GeneratePressRelease(c.Request.Context(), middleware.GetSessionID(c), req, prev)

	data := web.PressReleasePageData{Form: req}
	status := http.StatusOK
	if err != nil {
		status = apperrors.AsAppError(err).HTTPStatus
		data.Error = writer.InlineError(err)
	}
	data.Result = writer.Present(state, cfg)
	data.PreviousResult = state.Result
	renderHTML(c, status, web.PressReleasePage(data))
}
