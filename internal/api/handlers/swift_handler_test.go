package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	handlers "github.com/zdziszkee/swift-directory/internal/api/handlers"
	"github.com/zdziszkee/swift-directory/internal/importer"
	models "github.com/zdziszkee/swift-directory/internal/models"
	reader "github.com/zdziszkee/swift-directory/internal/readers"
	service "github.com/zdziszkee/swift-directory/internal/services"
	mocks "github.com/zdziszkee/swift-directory/tests/mocks"
)

func TestHandlers(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swift Handler Suite")
}

// A helper to create a Fiber app with our handler mounted on a route.
func setupApp(svc service.SwiftService, imp importer.Importer) *fiber.App {
	app := fiber.New()
	h := handlers.NewSwiftHandler(svc, imp, nil)

	app.Get("/swift/:swiftCode", h.GetByCode)
	app.Get("/country/:countryISO2code", h.GetByCountry)
	app.Post("/swift", h.Create)
	app.Post("/import", h.Import)
	app.Delete("/swift/:swiftCode", h.Delete)

	return app
}

func decodeMessage(resp *http.Response) string {
	var body map[string]any
	Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
	msg, _ := body["message"].(string)
	return msg
}

func upload(filename, content string) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	Expect(err).NotTo(HaveOccurred())
	_, err = io.WriteString(part, content)
	Expect(err).NotTo(HaveOccurred())
	Expect(w.Close()).To(Succeed())

	req := httptest.NewRequest(http.MethodPost, "/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

var _ = Describe("Swift Handler", func() {
	var (
		app        *fiber.App
		mockSvc    *mocks.MockSwiftService
		mockImport *mocks.MockImporter
	)

	BeforeEach(func() {
		mockSvc = &mocks.MockSwiftService{}
		mockImport = &mocks.MockImporter{}
		app = setupApp(mockSvc, mockImport)
	})

	Describe("GetByCode", func() {
		Context("when the code is a headquarters", func() {
			It("should return the details with branches", func() {
				mockSvc.GetSwiftCodeDetailsFunc = func(_ context.Context, code string) (*models.SwiftCodeDetails, error) {
					return &models.SwiftCodeDetails{
						SwiftCode:     strings.ToUpper(code),
						BankName:      "Test Bank",
						CountryISO2:   "US",
						CountryName:   "United States",
						IsHeadquarter: true,
						Branches:      []models.Branch{{SwiftCode: "AAAAUS33ABC"}},
					}, nil
				}

				resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/swift/aaaaus33xxx", nil), fiber.TestConfig{})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var details models.SwiftCodeDetails
				Expect(json.NewDecoder(resp.Body).Decode(&details)).To(Succeed())
				Expect(details.SwiftCode).To(Equal("AAAAUS33XXX"))
				Expect(details.Branches).To(HaveLen(1))
			})
		})

		Context("when the code is a branch", func() {
			It("should omit the branches field", func() {
				mockSvc.GetSwiftCodeDetailsFunc = func(_ context.Context, code string) (*models.SwiftCodeDetails, error) {
					return &models.SwiftCodeDetails{SwiftCode: code, CountryName: "United States"}, nil
				}

				resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/swift/AAAAUS33ABC", nil), fiber.TestConfig{})
				Expect(err).NotTo(HaveOccurred())
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).NotTo(ContainSubstring("branches"))
			})
		})

		Context("when the code is not found", func() {
			It("should return 404", func() {
				mockSvc.GetSwiftCodeDetailsFunc = func(context.Context, string) (*models.SwiftCodeDetails, error) {
					return nil, service.ErrNotFound
				}

				resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/swift/unknown", nil), fiber.TestConfig{})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				Expect(decodeMessage(resp)).To(Equal("SWIFT code not found."))
			})
		})

		Context("when the store fails", func() {
			It("should return 500", func() {
				mockSvc.GetSwiftCodeDetailsFunc = func(context.Context, string) (*models.SwiftCodeDetails, error) {
					return nil, errors.Join(service.ErrStorage, errors.New("connection refused"))
				}

				resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/swift/AAAAUS33XXX", nil), fiber.TestConfig{})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
				Expect(decodeMessage(resp)).NotTo(ContainSubstring("connection refused"))
			})
		})
	})

	Describe("GetByCountry", func() {
		It("should return the listing", func() {
			mockSvc.GetSwiftCodesByCountryFunc = func(_ context.Context, iso2 string) (*models.CountrySwiftCodes, error) {
				Expect(iso2).To(Equal("us"))
				return &models.CountrySwiftCodes{
					CountryISO2: "US",
					CountryName: "United States",
					SwiftCodes:  []models.Branch{{SwiftCode: "AAAAUS33XXX"}, {SwiftCode: "BBBBUS33XXX"}},
				}, nil
			}

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/country/us", nil), fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var listing models.CountrySwiftCodes
			Expect(json.NewDecoder(resp.Body).Decode(&listing)).To(Succeed())
			Expect(listing.CountryName).To(Equal("United States"))
			Expect(listing.SwiftCodes).To(HaveLen(2))
		})

		It("should return 404 for an unknown country", func() {
			mockSvc.GetSwiftCodesByCountryFunc = func(context.Context, string) (*models.CountrySwiftCodes, error) {
				return nil, service.ErrNotFound
			}

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/country/XX", nil), fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(decodeMessage(resp)).To(Equal("Country not found."))
		})
	})

	Describe("Create", func() {
		It("should pass the decoded payload to the service", func() {
			var got *models.CreateSwiftCodeRequest
			mockSvc.CreateSwiftCodeFunc = func(_ context.Context, req *models.CreateSwiftCodeRequest) error {
				got = req
				return nil
			}

			body := `{"address":"","bankName":"Test Bank","countryISO2":"US","countryName":"United States","isHeadquarter":true,"swiftCode":"AAAAUS33XXX"}`
			req := httptest.NewRequest(http.MethodPost, "/swift", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decodeMessage(resp)).To(Equal("SWIFT code added successfully."))

			Expect(got).NotTo(BeNil())
			Expect(*got.SwiftCode).To(Equal("AAAAUS33XXX"))
			Expect(*got.Address).To(BeEmpty())
			Expect(*got.IsHeadquarter).To(BeTrue())
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/swift", strings.NewReader(`{"swiftCode":`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(decodeMessage(resp)).To(Equal("Invalid request data."))
		})

		It("should return 400 when the service rejects the payload", func() {
			mockSvc.CreateSwiftCodeFunc = func(context.Context, *models.CreateSwiftCodeRequest) error {
				return service.ErrInvalidInput
			}

			req := httptest.NewRequest(http.MethodPost, "/swift", strings.NewReader(`{"swiftCode":"AAAAUS33XXX"}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(decodeMessage(resp)).To(Equal("Invalid request data."))
		})
	})

	Describe("Delete", func() {
		It("should confirm the deletion", func() {
			mockSvc.DeleteSwiftCodeFunc = func(context.Context, string) error { return nil }

			resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/swift/AAAAUS33XXX", nil), fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(decodeMessage(resp)).To(Equal("SWIFT code deleted successfully."))
		})

		It("should return 404 for an absent code", func() {
			mockSvc.DeleteSwiftCodeFunc = func(context.Context, string) error { return service.ErrNotFound }

			resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/swift/AAAAUS33XXX", nil), fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Import", func() {
		It("should import an uploaded CSV sheet", func() {
			var rows [][]string
			mockImport.ImportFunc = func(_ context.Context, r reader.RowReader) (*importer.ImportSummary, error) {
				for {
					row, err := r.Next()
					if err == io.EOF {
						break
					}
					Expect(err).NotTo(HaveOccurred())
					rows = append(rows, row)
				}
				return &importer.ImportSummary{RunID: "run-1", Banks: len(rows) - 1}, nil
			}

			resp, err := app.Test(upload("codes.csv", "COUNTRY ISO2 CODE,SWIFT CODE\nUS,AAAAUS33XXX\n"), fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body struct {
				Message string                 `json:"message"`
				Summary importer.ImportSummary `json:"summary"`
			}
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body.Message).To(Equal("Data uploaded successfully."))
			Expect(body.Summary.RunID).To(Equal("run-1"))
			Expect(rows).To(HaveLen(2))
		})

		It("should return 400 without a file", func() {
			req := httptest.NewRequest(http.MethodPost, "/import", nil)
			resp, err := app.Test(req, fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 for an unsupported file type", func() {
			resp, err := app.Test(upload("codes.txt", "hello"), fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(decodeMessage(resp)).To(ContainSubstring("unsupported file format"))
		})

		It("should return 400 with the row for an invalid row", func() {
			mockImport.ImportFunc = func(context.Context, reader.RowReader) (*importer.ImportSummary, error) {
				return nil, errors.Join(importer.ErrInvalidRow, errors.New("row 3"))
			}

			resp, err := app.Test(upload("codes.csv", "a\n"), fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(decodeMessage(resp)).To(ContainSubstring("row 3"))
		})

		It("should return 500 on storage failures", func() {
			mockImport.ImportFunc = func(context.Context, reader.RowReader) (*importer.ImportSummary, error) {
				return nil, importer.ErrStorage
			}

			resp, err := app.Test(upload("codes.csv", "a\n"), fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		})

		It("should be unavailable without an importer", func() {
			app = setupApp(mockSvc, nil)
			resp, err := app.Test(upload("codes.csv", "a\n"), fiber.TestConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
		})
	})
})
