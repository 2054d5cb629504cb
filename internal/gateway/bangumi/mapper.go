package bangumi

import (
	"encoding/json"
	"fmt"

	"github.com/seichijunrei/seichijunrei/internal/core"
	"github.com/seichijunrei/seichijunrei/internal/gateway"
)

// bgm.tv ships the legacy search envelope and the flat subject detail.
// Pointer fields separate "absent" from "zero"; the detail endpoint uses
// "date" where search uses "air_date", so both are read.

type searchPayload struct {
	Results int           `json:"results"`
	List    []subjectItem `json:"list"`
}

type subjectItem struct {
	ID      *int    `json:"id"`
	Name    *string `json:"name"`
	NameCN  string  `json:"name_cn"`
	Summary string  `json:"summary"`
	AirDate string  `json:"air_date"`
	Date    string  `json:"date"`
	Rank    int     `json:"rank"`
	Images  *struct {
		Large  string `json:"large"`
		Common string `json:"common"`
		Medium string `json:"medium"`
	} `json:"images"`
	Rating *struct {
		Score float64 `json:"score"`
	} `json:"rating"`
}

func mapSearchResults(body []byte, keyword string) ([]core.Subject, error) {
	var payload searchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &gateway.MalformedError{Reason: err.Error()}
	}

	if len(payload.List) == 0 {
		return nil, gateway.NotFoundError(gateway.ProviderBangumi, "subject", "no subjects match "+keyword)
	}

	subjects := make([]core.Subject, 0, len(payload.List))
	for i, item := range payload.List {
		subject, err := mapSubject(item, fmt.Sprintf("list[%d]", i))
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

func mapSubjectDetail(body []byte) (core.Subject, error) {
	var item subjectItem
	if err := json.Unmarshal(body, &item); err != nil {
		return core.Subject{}, &gateway.MalformedError{Reason: err.Error()}
	}
	return mapSubject(item, "subject")
}

func mapSubject(item subjectItem, path string) (core.Subject, error) {
	if item.ID == nil || *item.ID <= 0 {
		return core.Subject{}, &gateway.MalformedError{Field: path + ".id", Reason: "missing"}
	}
	if item.Name == nil || *item.Name == "" {
		return core.Subject{}, &gateway.MalformedError{Field: path + ".name", Reason: "missing"}
	}
	if item.Rank < 0 {
		return core.Subject{}, &gateway.MalformedError{Field: path + ".rank", Reason: "negative"}
	}

	airDate := item.AirDate
	if airDate == "" {
		airDate = item.Date
	}

	imageURL := ""
	if item.Images != nil {
		imageURL = item.Images.Common
		if imageURL == "" {
			imageURL = item.Images.Large
		}
	}

	score := 0.0
	if item.Rating != nil {
		score = item.Rating.Score
	}
	if score < 0 || score > 10 {
		return core.Subject{}, &gateway.MalformedError{Field: path + ".rating.score", Reason: "out of range"}
	}

	return core.Subject{
		ID:       *item.ID,
		Name:     *item.Name,
		NameCN:   item.NameCN,
		Summary:  item.Summary,
		AirDate:  airDate,
		ImageURL: imageURL,
		Rank:     item.Rank,
		Score:    score,
	}, nil
}
