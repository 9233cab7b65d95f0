package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/umalmyha/insurance-crm/internal/service"
)

const mimeBytesNumber = 512

// FileHTTPHandler is http handler for customer files endpoint
type FileHTTPHandler struct {
	customerSvc    service.CustomerService
	dir            string
	validMimeTypes map[string]struct{}
}

// NewFileHTTPHandler builds new FileHTTPHandler, files are stored under dir/<customer id>
func NewFileHTTPHandler(customerSvc service.CustomerService, dir string) *FileHTTPHandler {
	return &FileHTTPHandler{
		customerSvc: customerSvc,
		dir:         dir,
		validMimeTypes: map[string]struct{}{
			"application/pdf":          {},
			"image/gif":                {},
			"image/jpeg":               {},
			"image/png":                {},
			"image/webp":               {},
			"image/bmp":                {},
			"image/vnd.microsoft.icon": {},
		},
	}
}

// Upload uploads customer file
// @Summary     Upload customer file
// @Description Uploads document or image and attaches it to customer
// @Tags        files
// @Security	ApiKeyAuth
// @Accept		mpfd
// @Produce     json
// @Param       id    path     string true "Customer guid" Format(uuid)
// @Param 		file  formData file   true "Document or image"
// @Success     201   {object} model.Customer
// @Failure     400   {object} echo.HTTPError
// @Failure     404   {object} echo.HTTPError
// @Failure     500   {object} echo.HTTPError
// @Router      /api/customers/{id}/files [post]
func (h *FileHTTPHandler) Upload(c echo.Context) error {
	id := c.Param("id")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	fileHdr, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	name := filepath.Base(filepath.Clean(fileHdr.Filename))
	if name == "." || name == string(filepath.Separator) {
		return echo.NewHTTPError(http.StatusBadRequest, "file name is invalid")
	}

	existing, err := h.customerSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if existing == nil {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("customer %s doesn't exist", id))
	}

	file, err := fileHdr.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("failed to load file content - %v", err))
	}
	defer file.Close()

	mimeBuff := make([]byte, mimeBytesNumber)
	n, err := file.Read(mimeBuff)
	if err != nil && !errors.Is(err, io.EOF) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	mimeType := http.DetectContentType(mimeBuff[:n])
	if !h.isMimeTypeAllowed(mimeType) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("MIME type %s is not allowed", mimeType))
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	customerDir := filepath.Join(h.dir, id)
	if err := os.MkdirAll(customerDir, 0o750); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	dst, err := os.Create(filepath.Join(customerDir, name))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := io.Copy(dst, file); err != nil {
		_ = dst.Close()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := dst.Close(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	customer, err := h.customerSvc.AttachFile(c.Request().Context(), id, path.Join(id, name))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, customer)
}

// Download downloads customer file
// @Summary     Download customer file
// @Description Downloads file attached to customer
// @Tags        files
// @Security	ApiKeyAuth
// @Produce		application/pdf
// @Produce		image/gif
// @Produce		image/jpeg
// @Produce		image/png
// @Produce		image/webp
// @Param       id    path     string true "Customer guid" Format(uuid)
// @Param 		name  path     string true "File name"
// @Success     200   {string} file
// @Failure     400   {object} echo.HTTPError
// @Failure     404   {object} echo.HTTPError
// @Failure     500   {object} echo.HTTPError
// @Router      /api/customers/{id}/files/{name} [get]
func (h *FileHTTPHandler) Download(c echo.Context) error {
	id, name := c.Param("id"), c.Param("name")
	if err := c.Validate(&identifier{ID: id}); err != nil {
		return err
	}

	if name == "" || name != filepath.Base(name) {
		return echo.NewHTTPError(http.StatusBadRequest, "file name is invalid")
	}

	customer, err := h.customerSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if customer == nil || !attached(customer.Files, path.Join(id, name)) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("file %s doesn't exist", name))
	}

	return c.Attachment(filepath.Join(h.dir, id, name), name)
}

func (h *FileHTTPHandler) isMimeTypeAllowed(mime string) bool {
	if _, ok := h.validMimeTypes[mime]; ok {
		return true
	}
	return false
}

func attached(files []string, file string) bool {
	for _, f := range files {
		if f == file {
			return true
		}
	}
	return false
}
