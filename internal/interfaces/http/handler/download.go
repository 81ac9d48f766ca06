package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civic-writer-api/internal/application/writer"
	"civic-writer-api/internal/domain/entity"
	"civic-writer-api/internal/interfaces/http/dto"
	apperrors "civic-writer-api/pkg/errors"
)

// DownloadHandler turns a displayed result into a UTF-8 text attachment.
type DownloadHandler struct {
	svc *writer.FlowService
}

func NewDownloadHandler(svc *writer.FlowService) *DownloadHandler {
	return &DownloadHandler{svc: svc}
}

// Download
// @Summary Download the current result of a flow
// @Tags Flows
// @Accept json
// @Produce plain
// @Param flow path string true "speech or press-release"
// @Param request body dto.DownloadRequest true "displayed result"
// @Success 200 {string} string
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/flows/{flow}/download [post]
func (h *DownloadHandler) Download(c *gin.Context) {
	flow, ok := entity.ParseFlowID(c.Param("flow"))
	if !ok {
		dto.AppError(c, apperrors.ErrFlowNotFound.WithDetail(c.Param("flow")), nil)
		return
	}

	var req dto.DownloadRequest
	if err := c.ShouldBind(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	filename, body, err := h.attachment(flow, req.Result)
	if err != nil {
		dto.AppError(c, err, nil)
		return
	}
	writeAttachment(c, filename, body)
}

// Form returns the handler behind a page's download button.
func (h *DownloadHandler) Form(flow entity.FlowID) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename, body, err := h.attachment(flow, formValue(c, "result"))
		if err != nil {
			appErr := apperrors.AsAppError(err)
			c.String(appErr.HTTPStatus, appErr.Message)
			return
		}
		writeAttachment(c, filename, body)
	}
}

func (h *DownloadHandler) attachment(flow entity.FlowID, result string) (string, []byte, error) {
	cfg, err := h.svc.FlowConfig(flow)
	if err != nil {
		return "", nil, err
	}
	return writer.Download(writer.RestoreState(flow, cfg, result), cfg)
}

// Index sends the root path to the first flow.
func Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/speech")
}
