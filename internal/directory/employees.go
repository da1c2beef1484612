package directory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sternrassler/edu-api-proxy/pkg/client"
)

// Titled CSV columns for employee and teacher exports.
var (
	EmployeeColumns = []string{
		"Name", "Name (BN)", "Gender", "Date of Birth", "Designation", "Employment Status",
	}

	TeacherColumns = append(append([]string{}, EmployeeColumns...),
		"Employee Type ID", "Employee Type Name", "Exam Program", "Training Info",
	)
)

// EmployeeQuery selects the staff of one institution.
type EmployeeQuery struct {
	EIINNo string `query:"eiin_no" validate:"required,numeric"`
	Page   int    `query:"page" validate:"min=1"`
	Size   int    `query:"size" validate:"min=1,max=1000"`
}

// DefaultEmployeeQuery returns the paging defaults for eiinNo.
func DefaultEmployeeQuery(eiinNo string) EmployeeQuery {
	return EmployeeQuery{EIINNo: eiinNo, Page: 1, Size: 50}
}

// Params converts the query to upstream parameters.
func (q EmployeeQuery) Params() client.Params {
	return client.Params{
		"page":   q.Page,
		"size":   q.Size,
		"eiinNo": q.EIINNo,
	}
}

// Employee is the public view of an upstream employee record.
type Employee struct {
	Name             any `json:"name"`
	NameBn           any `json:"name_bn"`
	Gender           any `json:"gender"`
	DateOfBirth      any `json:"date_of_birth"`
	Designation      any `json:"designation"`
	EmploymentStatus any `json:"employment_status"`
}

// Teacher extends Employee with recruitment and training details.
type Teacher struct {
	Employee
	EmployeeTypeID   any `json:"employee_type_id"`
	EmployeeTypeName any `json:"employee_type_name"`
	ExamProgram      any `json:"exam_program"`
	TrainingInfo     any `json:"training_info"`
}

// EmployeeResult holds a remapped employee page.
type EmployeeResult struct {
	Employees []Employee
	Meta      map[string]any
	Raw       client.Payload
}

// TeacherResult holds the teachers of an employee page.
type TeacherResult struct {
	Teachers []Teacher
	Meta     map[string]any
	Raw      client.Payload
}

// Employees fetches one page of an institution's staff.
func (s *Service) Employees(ctx context.Context, q EmployeeQuery) (*EmployeeResult, bool) {
	payload, ok := s.fetcher.Fetch(ctx, s.endpoints.Employees, q.Params())
	if !ok {
		return nil, false
	}

	records := payload.Records()
	employees := make([]Employee, 0, len(records))
	for _, record := range records {
		employees = append(employees, remapEmployee(record))
	}

	return &EmployeeResult{
		Employees: employees,
		Meta:      payload.Meta(),
		Raw:       payload,
	}, true
}

// Teachers fetches one page of staff and keeps only teachers. The page may
// hold staff but no teachers; that is still ok.
func (s *Service) Teachers(ctx context.Context, q EmployeeQuery) (*TeacherResult, bool) {
	payload, ok := s.fetcher.Fetch(ctx, s.endpoints.Employees, q.Params())
	if !ok {
		return nil, false
	}

	teachers := []Teacher{}
	for _, record := range payload.Records() {
		if !isTeacher(record) {
			continue
		}
		teachers = append(teachers, Teacher{
			Employee:         remapEmployee(record),
			EmployeeTypeID:   nested(record, "recruitmentInformation", "employeeTypeId"),
			EmployeeTypeName: nested(record, "recruitmentInformation", "employeeTypeNameBn"),
			ExamProgram:      nested(record, "recruitmentInformation", "examProgramNameBn"),
			TrainingInfo:     field(record, "employeeTrainingInformations"),
		})
	}

	return &TeacherResult{
		Teachers: teachers,
		Meta:     payload.Meta(),
		Raw:      payload,
	}, true
}

func remapEmployee(record map[string]any) Employee {
	return Employee{
		Name:             nested(record, "generalInformation", "employeeName"),
		NameBn:           nested(record, "generalInformation", "employeeNameBn"),
		Gender:           nested(record, "generalInformation", "gender"),
		DateOfBirth:      nested(record, "generalInformation", "dateOfBirth"),
		Designation:      nested(record, "recruitmentInformation", "designationName"),
		EmploymentStatus: nested(record, "recruitmentInformation", "employmentStatus"),
	}
}

func isTeacher(record map[string]any) bool {
	typeID, ok := nested(record, "recruitmentInformation", "employeeTypeId").(float64)
	return ok && typeID == teacherTypeID
}

// CSVRows returns the employees keyed by EmployeeColumns.
func (r *EmployeeResult) CSVRows() []map[string]any {
	rows := make([]map[string]any, 0, len(r.Employees))
	for _, e := range r.Employees {
		rows = append(rows, e.csvRow())
	}
	return rows
}

// CSVRows returns the teachers keyed by TeacherColumns.
func (r *TeacherResult) CSVRows() []map[string]any {
	rows := make([]map[string]any, 0, len(r.Teachers))
	for _, t := range r.Teachers {
		row := t.Employee.csvRow()
		row["Employee Type ID"] = t.EmployeeTypeID
		row["Employee Type Name"] = t.EmployeeTypeName
		row["Exam Program"] = t.ExamProgram
		row["Training Info"] = jsonCell(t.TrainingInfo)
		rows = append(rows, row)
	}
	return rows
}

func (e Employee) csvRow() map[string]any {
	return map[string]any{
		"Name":              e.Name,
		"Name (BN)":         e.NameBn,
		"Gender":            e.Gender,
		"Date of Birth":     e.DateOfBirth,
		"Designation":       e.Designation,
		"Employment Status": e.EmploymentStatus,
	}
}

// jsonCell renders v as JSON text, so a plain string keeps its quotes.
func jsonCell(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(encoded)
}
