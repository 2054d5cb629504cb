// Package bangumi is the typed client for the Bangumi subject catalog
// (bgm.tv). Like the anitabi package it rides on the shared resilient
// gateway and only builds descriptors and maps payloads.
package bangumi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/seichijunrei/seichijunrei/internal/core"
	"github.com/seichijunrei/seichijunrei/internal/gateway"
)

// DefaultBaseURL is the public Bangumi API root.
const DefaultBaseURL = "https://api.bgm.tv"

const (
	// SubjectTypeAnime is the bgm.tv type code for anime subjects.
	SubjectTypeAnime = 2

	defaultMaxResults = 10
	maxResultsCeiling = 25
)

// Client exposes the Bangumi catalog operations.
type Client struct {
	gw     *gateway.Client
	logger *zap.Logger
}

// New builds a Bangumi client over the shared gateway.
func New(gw *gateway.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{gw: gw, logger: logger}
}

// SearchSubjects searches subjects by keyword. subjectType <= 0 means
// anime; maxResults <= 0 means the default page size. An empty result set
// yields NotFound{"subject"}.
func (c *Client) SearchSubjects(ctx context.Context, keyword string, subjectType, maxResults int) ([]core.Subject, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, errors.New("keyword is required")
	}
	if subjectType <= 0 {
		subjectType = SubjectTypeAnime
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxResultsCeiling {
		maxResults = maxResultsCeiling
	}

	d := gateway.Descriptor{
		Provider: gateway.ProviderBangumi,
		Endpoint: "/search/subject/" + url.PathEscape(keyword),
		Params: url.Values{
			"type":        {strconv.Itoa(subjectType)},
			"max_results": {strconv.Itoa(maxResults)},
		},
		Resource: "subject",
	}

	subjects, err := gateway.Call(ctx, c.gw, d, func(body []byte) ([]core.Subject, error) {
		return mapSearchResults(body, keyword)
	})
	if err != nil {
		return nil, err
	}
	if len(subjects) > maxResults {
		subjects = subjects[:maxResults]
	}

	c.logger.Debug("subject search complete",
		zap.String("keyword", keyword),
		zap.Int("found", len(subjects)))
	return subjects, nil
}

// GetSubject fetches one subject by its numeric ID.
func (c *Client) GetSubject(ctx context.Context, subjectID int) (core.Subject, error) {
	if subjectID <= 0 {
		return core.Subject{}, errors.New("subject id must be positive")
	}

	d := gateway.Descriptor{
		Provider: gateway.ProviderBangumi,
		Endpoint: fmt.Sprintf("/subjects/%d", subjectID),
		Resource: "subject",
	}

	subject, err := gateway.Call(ctx, c.gw, d, mapSubjectDetail)
	if err != nil {
		return core.Subject{}, err
	}

	c.logger.Debug("subject retrieved",
		zap.Int("subject_id", subjectID),
		zap.String("name", subject.Name))
	return subject, nil
}
