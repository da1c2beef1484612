package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Sternrassler/edu-api-proxy/internal/directory"
	"github.com/Sternrassler/edu-api-proxy/internal/export"
	"github.com/labstack/echo/v4"
)

// envelope is the body of every successful directory response.
type envelope struct {
	Status       string `json:"status"`
	Data         any    `json:"data"`
	Meta         any    `json:"meta,omitempty"`
	FullResponse any    `json:"full_response,omitempty"`
	CSVFile      string `json:"csv_file,omitempty"`
	APIOwner     string `json:"api_owner"`
	APIDev       string `json:"api_dev"`
}

func success(data any) *envelope {
	return &envelope{
		Status:   "success",
		Data:     data,
		APIOwner: APIOwner,
		APIDev:   APIDev,
	}
}

// OutputOptions are the response switches shared by the list routes.
// Only the case-insensitive value "true" enables an option.
type OutputOptions struct {
	FullResponse string `query:"full_response"`
	ExportCSV    string `query:"export_csv"`
}

func (o OutputOptions) wantsFullResponse() bool {
	return strings.EqualFold(o.FullResponse, "true")
}

func (o OutputOptions) wantsCSV() bool {
	return strings.EqualFold(o.ExportCSV, "true")
}

type thanaRequest struct {
	DistrictCode string `query:"district_code"`
}

type instituteRequest struct {
	directory.InstituteQuery
	OutputOptions
}

type employeeRequest struct {
	directory.EmployeeQuery
	OutputOptions
}

func (s *Server) divisions(c echo.Context) error {
	return c.JSON(http.StatusOK, success(s.directory.Tables().Divisions))
}

func (s *Server) districts(c echo.Context) error {
	return c.JSON(http.StatusOK, success(s.directory.Tables().Districts))
}

func (s *Server) instituteTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, success(s.directory.Tables().InstituteTypes))
}

func (s *Server) thanas(c echo.Context) error {
	var req thanaRequest
	if err := bindQuery(c, &req); err != nil {
		return err
	}
	if req.DistrictCode == "" {
		return unprocessable("district_code is required")
	}

	thanas := s.directory.Thanas(c.Request().Context(), req.DistrictCode)
	if len(thanas) == 0 {
		return notFound("No thanas found for this district")
	}

	return c.JSON(http.StatusOK, success(thanas))
}

func (s *Server) institutes(c echo.Context) error {
	req := instituteRequest{InstituteQuery: directory.DefaultInstituteQuery()}
	if err := bindQuery(c, &req); err != nil {
		return err
	}

	result, ok := s.directory.Institutes(c.Request().Context(), req.InstituteQuery)
	if !ok {
		return notFound("No institute data found")
	}

	resp := success(result.Institutes)
	if req.wantsFullResponse() {
		resp.FullResponse = result.Raw
	}
	if req.wantsCSV() {
		filename, err := s.writeCSV(func() (string, error) {
			return s.exporter.WriteRecords("institutes", result.Records)
		})
		if err != nil {
			return err
		}
		resp.CSVFile = filename
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) employees(c echo.Context) error {
	req, err := bindEmployeeRequest(c)
	if err != nil {
		return err
	}

	result, ok := s.directory.Employees(c.Request().Context(), req.EmployeeQuery)
	if !ok {
		return notFound("No employees found for EIIN: " + req.EIINNo)
	}

	resp := success(result.Employees)
	resp.Meta = result.Meta
	if req.wantsFullResponse() {
		resp.FullResponse = result.Raw
	}
	if req.wantsCSV() {
		filename, err := s.writeCSV(func() (string, error) {
			return s.exporter.WriteTable("employees_"+req.EIINNo, directory.EmployeeColumns, result.CSVRows())
		})
		if err != nil {
			return err
		}
		resp.CSVFile = filename
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) teachers(c echo.Context) error {
	req, err := bindEmployeeRequest(c)
	if err != nil {
		return err
	}

	result, ok := s.directory.Teachers(c.Request().Context(), req.EmployeeQuery)
	if !ok {
		return notFound("No teachers found for EIIN: " + req.EIINNo)
	}

	resp := success(result.Teachers)
	resp.Meta = result.Meta
	if req.wantsFullResponse() {
		resp.FullResponse = result.Raw
	}
	if req.wantsCSV() {
		filename, err := s.writeCSV(func() (string, error) {
			return s.exporter.WriteTable("teachers_"+req.EIINNo, directory.TeacherColumns, result.CSVRows())
		})
		if err != nil {
			return err
		}
		resp.CSVFile = filename
	}

	return c.JSON(http.StatusOK, resp)
}

// bindEmployeeRequest checks eiin_no before the paging fields: a missing
// EIIN is 422, a non-numeric one 400.
func bindEmployeeRequest(c echo.Context) (*employeeRequest, error) {
	req := &employeeRequest{EmployeeQuery: directory.DefaultEmployeeQuery("")}
	if err := bind(c, req); err != nil {
		return nil, err
	}

	if req.EIINNo == "" {
		return nil, unprocessable("eiin_no is required")
	}
	if !isDigits(req.EIINNo) {
		return nil, badRequest("Valid EIIN number is required")
	}

	if err := validate(c, req); err != nil {
		return nil, err
	}
	return req, nil
}

// writeCSV runs an export. An empty result writes no file and is not an error.
func (s *Server) writeCSV(write func() (string, error)) (string, error) {
	if s.exporter == nil {
		return "", echo.NewHTTPError(http.StatusServiceUnavailable, "CSV export is not configured")
	}

	filename, err := write()
	switch {
	case errors.Is(err, export.ErrNoRows):
		return "", nil
	case err != nil:
		s.logger.Error().Err(err).Msg("CSV export failed")
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to export CSV")
	}
	return filename, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
