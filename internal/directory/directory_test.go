package directory

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/Sternrassler/edu-api-proxy/internal/lookup"
	"github.com/Sternrassler/edu-api-proxy/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchCall struct {
	URL    string
	Params client.Params
}

// fakeFetcher serves canned payloads per URL and records every call.
type fakeFetcher struct {
	mu       sync.Mutex
	payloads map[string]client.Payload
	calls    []fetchCall
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{payloads: map[string]client.Payload{}}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, params client.Params) (client.Payload, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fetchCall{URL: url, Params: params})
	payload, ok := f.payloads[url]
	return payload, ok
}

// decodePayload round-trips through JSON so numbers are float64 as upstream.
func decodePayload(t *testing.T, raw string) client.Payload {
	t.Helper()
	var payload client.Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func newTestService(t *testing.T) (*Service, *fakeFetcher) {
	t.Helper()
	fetcher := newFakeFetcher()
	return New(fetcher, NewEndpoints("http://thana.test/", "http://edu.test"), lookup.MustLoad()), fetcher
}

func TestNewEndpoints(t *testing.T) {
	endpoints := NewEndpoints("http://thana.test/", "http://edu.test")

	assert.Equal(t, "http://thana.test/api/v1/thana/all", endpoints.Thanas)
	assert.Equal(t, "http://edu.test/api/v1/institute/list", endpoints.Institutes)
	assert.Equal(t, "http://edu.test/api/v1/employee/list", endpoints.Employees)

	assert.Equal(t, "http://202.72.235.218:8000/api/v1/thana/all", DefaultEndpoints().Thanas)
}

func TestThanas(t *testing.T) {
	svc, fetcher := newTestService(t)
	fetcher.payloads[svc.endpoints.Thanas] = decodePayload(t, `{
		"data": [
			{"thanaName": "Savar", "thanaCode": "302672"},
			{"thanaName": "Dhamrai", "thanaCode": 302614},
			{"thanaName": "None", "thanaCode": "0"},
			{"thanaCode": "302699"},
			{"thanaName": 17, "thanaCode": "302617"},
			{"thanaName": "Keraniganj", "thanaCode": null}
		]
	}`)

	thanas := svc.Thanas(context.Background(), "26")

	assert.Equal(t, map[string]any{
		"Savar":      "302672",
		"Dhamrai":    float64(302614),
		"Keraniganj": nil,
	}, thanas)
	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, client.Params{"districtCode": "26"}, fetcher.calls[0].Params)
}

func TestThanas_Fallback(t *testing.T) {
	svc, _ := newTestService(t)

	thanas := svc.Thanas(context.Background(), "82")
	assert.Len(t, thanas, 5)
	assert.Equal(t, "308276", thanas["Rajbari Sadar"])

	assert.Empty(t, svc.Thanas(context.Background(), "26"))
}

func TestWarmupJobs(t *testing.T) {
	svc, _ := newTestService(t)

	jobs := svc.WarmupJobs()
	require.Len(t, jobs, 13)
	for _, job := range jobs {
		assert.Equal(t, svc.endpoints.Thanas, job.URL)
		assert.Contains(t, job.Params, "districtCode")
	}
	assert.Equal(t, client.Params{"districtCode": "26"}, jobs[0].Params)
}

func TestInstituteQuery_Params(t *testing.T) {
	q := DefaultInstituteQuery()
	q.IsGovt = "TRUE"
	q.ThanaCode = "308276"

	assert.Equal(t, client.Params{
		"page":              1,
		"size":              10,
		"institute_type_id": 11,
		"is_govt":           "true",
		"thana_code":        "308276",
	}, q.Params())
}

func TestInstitutes(t *testing.T) {
	svc, fetcher := newTestService(t)
	fetcher.payloads[svc.endpoints.Institutes] = decodePayload(t, `{
		"data": [
			{
				"instituteName": "Rajbari Govt. High School",
				"instituteNameBn": "রাজবাড়ী সরকারি উচ্চ বিদ্যালয়",
				"eiinNo": 108070,
				"instituteTypeName": "School",
				"districtName": "Rajbari",
				"mobile": null
			}
		]
	}`)

	result, ok := svc.Institutes(context.Background(), DefaultInstituteQuery())
	require.True(t, ok)
	require.Len(t, result.Institutes, 1)

	inst := result.Institutes[0]
	assert.Equal(t, "Rajbari Govt. High School", inst.Name)
	assert.Equal(t, float64(108070), inst.EIIN)
	assert.Equal(t, "School", inst.Type)
	assert.Equal(t, NotAvailable, inst.Email)
	assert.Equal(t, NotAvailable, inst.Division)
	assert.Nil(t, inst.Mobile, "present null stays null")
	assert.Len(t, result.Records, 1)
	assert.NotNil(t, result.Raw)
}

func TestInstitutes_Absent(t *testing.T) {
	svc, _ := newTestService(t)

	result, ok := svc.Institutes(context.Background(), DefaultInstituteQuery())
	assert.False(t, ok)
	assert.Nil(t, result)
}

const employeePage = `{
	"data": [
		{
			"generalInformation": {"employeeName": "Ayesha Rahman", "gender": "Female", "dateOfBirth": "1985-02-11"},
			"recruitmentInformation": {"designationName": "Assistant Teacher", "employmentStatus": "Active", "employeeTypeId": 2, "employeeTypeNameBn": "শিক্ষক", "examProgramNameBn": "এসএসসি"},
			"employeeTrainingInformations": [{"trainingName": "ICT"}]
		},
		{
			"generalInformation": {"employeeName": "Karim Uddin"},
			"recruitmentInformation": {"designationName": "Office Assistant", "employeeTypeId": 3}
		},
		{
			"generalInformation": null
		}
	],
	"meta": {"total": 3, "page": 1}
}`

func TestEmployees(t *testing.T) {
	svc, fetcher := newTestService(t)
	fetcher.payloads[svc.endpoints.Employees] = decodePayload(t, employeePage)

	result, ok := svc.Employees(context.Background(), DefaultEmployeeQuery("108070"))
	require.True(t, ok)
	require.Len(t, result.Employees, 3)

	assert.Equal(t, "Ayesha Rahman", result.Employees[0].Name)
	assert.Equal(t, NotAvailable, result.Employees[0].NameBn)
	assert.Equal(t, "Assistant Teacher", result.Employees[0].Designation)
	assert.Equal(t, NotAvailable, result.Employees[1].EmploymentStatus)
	assert.Equal(t, NotAvailable, result.Employees[2].Name)
	assert.Equal(t, float64(3), result.Meta["total"])

	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, client.Params{"page": 1, "size": 50, "eiinNo": "108070"}, fetcher.calls[0].Params)
}

func TestTeachers(t *testing.T) {
	svc, fetcher := newTestService(t)
	fetcher.payloads[svc.endpoints.Employees] = decodePayload(t, employeePage)

	result, ok := svc.Teachers(context.Background(), DefaultEmployeeQuery("108070"))
	require.True(t, ok)
	require.Len(t, result.Teachers, 1)

	teacher := result.Teachers[0]
	assert.Equal(t, "Ayesha Rahman", teacher.Name)
	assert.Equal(t, float64(2), teacher.EmployeeTypeID)
	assert.Equal(t, "শিক্ষক", teacher.EmployeeTypeName)
	assert.Equal(t, "এসএসসি", teacher.ExamProgram)
	assert.Equal(t, []any{map[string]any{"trainingName": "ICT"}}, teacher.TrainingInfo)

	encoded, err := json.Marshal(teacher)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"name":"Ayesha Rahman"`)
	assert.Contains(t, string(encoded), `"employee_type_id":2`)
}

func TestTeachers_NoneOnPage(t *testing.T) {
	svc, fetcher := newTestService(t)
	fetcher.payloads[svc.endpoints.Employees] = decodePayload(t, `{"data": [{"recruitmentInformation": {"employeeTypeId": 3}}]}`)

	result, ok := svc.Teachers(context.Background(), DefaultEmployeeQuery("108070"))
	require.True(t, ok)
	assert.Empty(t, result.Teachers)
	assert.NotNil(t, result.Teachers)
}

func TestCSVRows(t *testing.T) {
	svc, fetcher := newTestService(t)
	fetcher.payloads[svc.endpoints.Employees] = decodePayload(t, employeePage)
	ctx := context.Background()

	employees, _ := svc.Employees(ctx, DefaultEmployeeQuery("108070"))
	rows := employees.CSVRows()
	require.Len(t, rows, 3)
	for _, column := range EmployeeColumns {
		assert.Contains(t, rows[0], column)
	}

	teachers, _ := svc.Teachers(ctx, DefaultEmployeeQuery("108070"))
	teacherRows := teachers.CSVRows()
	require.Len(t, teacherRows, 1)
	assert.Len(t, teacherRows[0], len(TeacherColumns))
	assert.Equal(t, "Assistant Teacher", teacherRows[0]["Designation"])
	assert.Equal(t, `[{"trainingName":"ICT"}]`, teacherRows[0]["Training Info"])
}

func TestTeacherCSVRows_TrainingInfoIsJSON(t *testing.T) {
	result := &TeacherResult{Teachers: []Teacher{
		{TrainingInfo: NotAvailable},
		{TrainingInfo: nil},
	}}

	rows := result.CSVRows()
	require.Len(t, rows, 2)
	assert.Equal(t, `"N/A"`, rows[0]["Training Info"])
	assert.Equal(t, "null", rows[1]["Training Info"])
}
