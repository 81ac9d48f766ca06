package handler

import (
	"mime"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"civic-writer-api/pkg/logger"
)

// renderHTML writes a templ component as the response body.
func renderHTML(c *gin.Context, status int, component templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		logger.Error(c.Request.Context(), "failed to render page", err)
	}
}

// writeAttachment sends body as a UTF-8 text download. Non-ASCII filenames
// are encoded per RFC 2231.
func writeAttachment(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", body)
}

// formValue reads a posted field. Browsers submit textarea line breaks as
// CRLF; they are folded back to LF so echoed results stay byte-identical.
func formValue(c *gin.Context, name string) string {
	return foldCRLF(c.PostForm(name))
}

func foldCRLF(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
