package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"furnicost/internal/core/apperror"
	"furnicost/internal/infrastructure/xlsx"
)

// ImportRecorder receives import metrics.
type ImportRecorder interface {
	ObserveImport(outcome string, n int)
}

// ImportHandler accepts spreadsheet uploads into the materials catalog.
type ImportHandler struct {
	*BaseHandler
	materials xlsx.Upserter
	recorder  ImportRecorder
	maxBytes  int64
}

// NewImportHandler creates an import handler. recorder may be nil.
func NewImportHandler(base *BaseHandler, materials xlsx.Upserter, recorder ImportRecorder, maxBytes int64) *ImportHandler {
	return &ImportHandler{
		BaseHandler: base,
		materials:   materials,
		recorder:    recorder,
		maxBytes:    maxBytes,
	}
}

// ImportMaterials handles POST /catalog/materials/import (multipart, field "file";
// optional form value "sheet").
func (h *ImportHandler) ImportMaterials(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("spreadsheet file is required").
			WithDetail("field", "file").
			WithDetail("error", err.Error()))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer f.Close()

	report, err := xlsx.ImportMaterials(c.Request.Context(), f, c.PostForm("sheet"), h.materials)
	if err != nil {
		h.Error(c, apperror.NewValidation("cannot read spreadsheet").
			WithDetail("file", fh.Filename).
			WithDetail("error", err.Error()))
		return
	}

	if h.recorder != nil {
		h.recorder.ObserveImport("created", report.Created)
		h.recorder.ObserveImport("updated", report.Updated)
		h.recorder.ObserveImport("failed", len(report.Failed))
	}

	h.OK(c, report)
}
