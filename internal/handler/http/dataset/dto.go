// Package dataset provides the HTTP handlers for browsing dataset pages.
package dataset

import (
	"nq-browser/internal/common/pagination"
	"nq-browser/internal/domain/entity"
)

// RecordDTO is the JSON form of one record.
type RecordDTO struct {
	Question     string `json:"question"`
	LongAnswers  string `json:"long_answers"`
	ShortAnswers string `json:"short_answers"`
}

// PageResponse is the body of GET /data.
type PageResponse = pagination.Response[RecordDTO]

// ListingDTO is the body of GET /datasets.
type ListingDTO struct {
	Datasets   []string `json:"datasets"`
	Default    string   `json:"default"`
	Pagination []int    `json:"pagination"`
}

// CountDTO is the body of GET /datasets/{id}.
type CountDTO struct {
	DatasetID    string `json:"dataset_id"`
	TotalRecords int64  `json:"totalRecords"`
	TotalPages   int    `json:"totalPages"`
	PageSize     int    `json:"pageSize"`
}

func toDTOs(records []entity.Record) []RecordDTO {
	dtos := make([]RecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, RecordDTO{
			Question:     rec.Question,
			LongAnswers:  rec.LongAnswers,
			ShortAnswers: rec.ShortAnswers,
		})
	}
	return dtos
}
