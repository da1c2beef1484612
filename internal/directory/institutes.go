package directory

import (
	"context"
	"strings"

	"github.com/Sternrassler/edu-api-proxy/pkg/client"
)

// InstituteQuery filters the institute list. Empty strings are omitted
// from the upstream request.
type InstituteQuery struct {
	Page            int    `query:"page" validate:"min=1"`
	Size            int    `query:"size" validate:"min=1,max=1000"`
	DivisionCode    string `query:"division_code" validate:"omitempty,numeric"`
	DistrictCode    string `query:"district_code" validate:"omitempty,numeric"`
	ThanaCode       string `query:"thana_code" validate:"omitempty,numeric"`
	InstituteTypeID int    `query:"institute_type_id"`
	IsGovt          string `query:"is_govt"`
	EIINNo          string `query:"eiin_no" validate:"omitempty,numeric"`
}

// DefaultInstituteQuery returns the query used when no filters are given.
func DefaultInstituteQuery() InstituteQuery {
	return InstituteQuery{
		Page:            1,
		Size:            10,
		InstituteTypeID: 11,
		IsGovt:          "false",
	}
}

// Params converts the query to upstream parameters.
func (q InstituteQuery) Params() client.Params {
	params := client.Params{
		"page":              q.Page,
		"size":              q.Size,
		"institute_type_id": q.InstituteTypeID,
		"is_govt":           strings.ToLower(q.IsGovt),
	}
	optional := map[string]string{
		"division_code": q.DivisionCode,
		"district_code": q.DistrictCode,
		"thana_code":    q.ThanaCode,
		"eiin_no":       q.EIINNo,
	}
	for name, value := range optional {
		if value != "" {
			params[name] = value
		}
	}
	return params
}

// Institute is the public view of an upstream institute record.
type Institute struct {
	Name       any `json:"name"`
	NameBn     any `json:"name_bn"`
	EIIN       any `json:"eiin"`
	Type       any `json:"type"`
	TypeBn     any `json:"type_bn"`
	Division   any `json:"division"`
	DivisionBn any `json:"division_bn"`
	District   any `json:"district"`
	DistrictBn any `json:"district_bn"`
	Thana      any `json:"thana"`
	ThanaBn    any `json:"thana_bn"`
	Mobile     any `json:"mobile"`
	Email      any `json:"email"`
}

// InstituteResult holds a remapped institute page and the payload it came from.
type InstituteResult struct {
	Institutes []Institute
	Records    []map[string]any
	Raw        client.Payload
}

// Institutes fetches one page of institutes. ok is false when the upstream
// produced no data.
func (s *Service) Institutes(ctx context.Context, q InstituteQuery) (*InstituteResult, bool) {
	payload, ok := s.fetcher.Fetch(ctx, s.endpoints.Institutes, q.Params())
	if !ok {
		return nil, false
	}

	records := payload.Records()
	institutes := make([]Institute, 0, len(records))
	for _, record := range records {
		institutes = append(institutes, remapInstitute(record))
	}

	return &InstituteResult{
		Institutes: institutes,
		Records:    records,
		Raw:        payload,
	}, true
}

func remapInstitute(record map[string]any) Institute {
	return Institute{
		Name:       field(record, "instituteName"),
		NameBn:     field(record, "instituteNameBn"),
		EIIN:       field(record, "eiinNo"),
		Type:       field(record, "instituteTypeName"),
		TypeBn:     field(record, "instituteTypeNameBn"),
		Division:   field(record, "divisionName"),
		DivisionBn: field(record, "divisionNameBn"),
		District:   field(record, "districtName"),
		DistrictBn: field(record, "districtNameBn"),
		Thana:      field(record, "thanaName"),
		ThanaBn:    field(record, "thanaNameBn"),
		Mobile:     field(record, "mobile"),
		Email:      field(record, "email"),
	}
}

// field returns record[name], or NotAvailable when the key is absent.
// A present null is kept as null.
func field(record map[string]any, name string) any {
	value, ok := record[name]
	if !ok {
		return NotAvailable
	}
	return value
}

// nested reads record[section][name]. A missing or non-object section
// yields NotAvailable.
func nested(record map[string]any, section, name string) any {
	inner, ok := record[section].(map[string]any)
	if !ok {
		return NotAvailable
	}
	return field(inner, name)
}
