// Package directory reads the upstream education directory through the
// fetch pipeline and remaps its records into the public response shapes.
package directory

import (
	"context"
	"strings"

	"github.com/Sternrassler/edu-api-proxy/internal/lookup"
	"github.com/Sternrassler/edu-api-proxy/pkg/client"
	"github.com/Sternrassler/edu-api-proxy/pkg/warmup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultThanaBaseURL serves the thana (sub-district) lists.
	DefaultThanaBaseURL = "http://202.72.235.218:8000"

	// DefaultInstituteBaseURL serves the institute and employee lists.
	DefaultInstituteBaseURL = "http://202.72.235.218:8082"

	// NotAvailable replaces fields missing from upstream records.
	NotAvailable = "N/A"

	// teacherTypeID is the recruitmentInformation.employeeTypeId of teachers.
	teacherTypeID = 2
)

// Fetcher is implemented by *client.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string, params client.Params) (client.Payload, bool)
}

// Endpoints are the upstream list URLs.
type Endpoints struct {
	Thanas     string
	Institutes string
	Employees  string
}

// NewEndpoints derives the list URLs from the two upstream base URLs.
func NewEndpoints(thanaBaseURL, instituteBaseURL string) Endpoints {
	thanaBaseURL = strings.TrimRight(thanaBaseURL, "/")
	instituteBaseURL = strings.TrimRight(instituteBaseURL, "/")
	return Endpoints{
		Thanas:     thanaBaseURL + "/api/v1/thana/all",
		Institutes: instituteBaseURL + "/api/v1/institute/list",
		Employees:  instituteBaseURL + "/api/v1/employee/list",
	}
}

// DefaultEndpoints returns the production upstream URLs.
func DefaultEndpoints() Endpoints {
	return NewEndpoints(DefaultThanaBaseURL, DefaultInstituteBaseURL)
}

// Service answers directory queries.
type Service struct {
	fetcher   Fetcher
	endpoints Endpoints
	tables    *lookup.Tables
	logger    zerolog.Logger
}

// New creates a directory service.
func New(fetcher Fetcher, endpoints Endpoints, tables *lookup.Tables) *Service {
	return &Service{
		fetcher:   fetcher,
		endpoints: endpoints,
		tables:    tables,
		logger:    log.With().Str("component", "directory").Logger(),
	}
}

// Tables returns the static lookup tables.
func (s *Service) Tables() *lookup.Tables {
	return s.tables
}

// Thanas returns the thanas of a district as name -> code. Codes keep their
// upstream JSON type. Records without a string name and entries named "None"
// are dropped. When the upstream produces no data the district's fallback
// table is returned, if any. An empty map means nothing was found.
func (s *Service) Thanas(ctx context.Context, districtCode string) map[string]any {
	thanas := make(map[string]any)

	payload, ok := s.fetcher.Fetch(ctx, s.endpoints.Thanas, thanaParams(districtCode))
	if ok {
		for _, record := range payload.Records() {
			name, isString := record["thanaName"].(string)
			if !isString || name == "None" {
				continue
			}
			thanas[name] = record["thanaCode"]
		}
		return thanas
	}

	if fallback := s.tables.FallbackThanasFor(districtCode); fallback != nil {
		s.logger.Warn().
			Str("district_code", districtCode).
			Msg("Serving fallback thana table")
		for name, code := range fallback {
			thanas[name] = code
		}
	}
	return thanas
}

// WarmupJobs returns one thana request per known district.
func (s *Service) WarmupJobs() []warmup.Job {
	codes := s.tables.DistrictCodes()
	jobs := make([]warmup.Job, 0, len(codes))
	for _, code := range codes {
		jobs = append(jobs, warmup.Job{
			URL:    s.endpoints.Thanas,
			Params: thanaParams(code),
		})
	}
	return jobs
}

func thanaParams(districtCode string) client.Params {
	return client.Params{"districtCode": districtCode}
}
