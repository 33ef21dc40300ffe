package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/zdziszkee/swift-directory/internal/importer"
	models "github.com/zdziszkee/swift-directory/internal/models"
	reader "github.com/zdziszkee/swift-directory/internal/readers"
	service "github.com/zdziszkee/swift-directory/internal/services"
)

const (
	msgCodeNotFound    = "SWIFT code not found."
	msgCountryNotFound = "Country not found."
	msgInvalidRequest  = "Invalid request data."
	msgCodeAdded       = "SWIFT code added successfully."
	msgCodeDeleted     = "SWIFT code deleted successfully."
	msgUploaded        = "Data uploaded successfully."
	msgMissingFile     = "A spreadsheet must be uploaded in the file field."
	msgInternal        = "Internal server error"
)

// SwiftHandler handles API requests for SWIFT codes
type SwiftHandler struct {
	service  service.SwiftService
	importer importer.Importer
	logger   *zap.Logger
}

// NewSwiftHandler creates a new handler instance. imp may be nil, in which
// case uploads are rejected.
func NewSwiftHandler(service service.SwiftService, imp importer.Importer, logger *zap.Logger) *SwiftHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SwiftHandler{service: service, importer: imp, logger: logger}
}

// GetByCode handles requests for a specific SWIFT code
func (h *SwiftHandler) GetByCode(c fiber.Ctx) error {
	details, err := h.service.GetSwiftCodeDetails(c.Context(), c.Params("swiftCode"))
	if err != nil {
		return h.handleError(c, err, msgCodeNotFound)
	}
	return c.Status(fiber.StatusOK).JSON(details)
}

// GetByCountry handles requests for all SWIFT codes by country
func (h *SwiftHandler) GetByCountry(c fiber.Ctx) error {
	codes, err := h.service.GetSwiftCodesByCountry(c.Context(), c.Params("countryISO2code"))
	if err != nil {
		return h.handleError(c, err, msgCountryNotFound)
	}
	return c.Status(fiber.StatusOK).JSON(codes)
}

// Create handles creation of a new SWIFT code
func (h *SwiftHandler) Create(c fiber.Ctx) error {
	var req models.CreateSwiftCodeRequest
	if err := c.Bind().Body(&req); err != nil {
		return message(c, fiber.StatusBadRequest, msgInvalidRequest)
	}

	if err := h.service.CreateSwiftCode(c.Context(), &req); err != nil {
		return h.handleError(c, err, msgCodeNotFound)
	}
	return message(c, fiber.StatusOK, msgCodeAdded)
}

// Delete handles deletion of a SWIFT code
func (h *SwiftHandler) Delete(c fiber.Ctx) error {
	if err := h.service.DeleteSwiftCode(c.Context(), c.Params("swiftCode")); err != nil {
		return h.handleError(c, err, msgCodeNotFound)
	}
	return message(c, fiber.StatusOK, msgCodeDeleted)
}

// Import loads an uploaded .xlsx or .csv sheet
func (h *SwiftHandler) Import(c fiber.Ctx) error {
	if h.importer == nil {
		return message(c, fiber.StatusServiceUnavailable, "Import is not available.")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return message(c, fiber.StatusBadRequest, msgMissingFile)
	}
	file, err := header.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.String("file", header.Filename), zap.Error(err))
		return message(c, fiber.StatusInternalServerError, msgInternal)
	}
	defer file.Close()

	rows, err := reader.Open(header.Filename, file)
	if err != nil {
		return message(c, fiber.StatusBadRequest, err.Error())
	}
	defer rows.Close()

	summary, err := h.importer.Import(c.Context(), rows)
	switch {
	case errors.Is(err, importer.ErrInvalidRow):
		return message(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		h.logger.Error("import failed", zap.String("file", header.Filename), zap.Error(err))
		return message(c, fiber.StatusInternalServerError, msgInternal)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": msgUploaded,
		"summary": summary,
	})
}

// Health reports that the process is serving
func (h *SwiftHandler) Health(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// handleError maps service errors onto responses. notFound is the message
// returned for service.ErrNotFound.
func (h *SwiftHandler) handleError(c fiber.Ctx, err error, notFound string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return message(c, fiber.StatusNotFound, notFound)
	case errors.Is(err, service.ErrInvalidInput):
		return message(c, fiber.StatusBadRequest, msgInvalidRequest)
	default:
		h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return message(c, fiber.StatusInternalServerError, msgInternal)
	}
}

func message(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}
