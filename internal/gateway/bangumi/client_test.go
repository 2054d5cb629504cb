package bangumi

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seichijunrei/seichijunrei/internal/gateway"
)

type fakeTransport struct {
	calls     []string
	params    []url.Values
	responses map[string]fakeResponse
}

type fakeResponse struct {
	status int
	body   string
}

func (t *fakeTransport) Do(_ context.Context, _ gateway.Provider, _ string, rawURL string, params url.Values) (int, []byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, nil, err
	}
	t.calls = append(t.calls, u.Path)
	t.params = append(t.params, params)

	resp, ok := t.responses[u.Path]
	if !ok {
		return 404, []byte(`{}`), nil
	}
	return resp.status, []byte(resp.body), nil
}

func newTestClient(t *testing.T, responses map[string]fakeResponse) (*Client, *fakeTransport) {
	t.Helper()

	transport := &fakeTransport{responses: responses}
	gw := gateway.New(gateway.Config{
		BaseURLs: map[gateway.Provider]string{
			gateway.ProviderBangumi: "https://api.bgm.test",
		},
		UseCache:   true,
		CacheSize:  16,
		MaxRetries: 0,
	}, nil)
	gw.Transport = transport

	return New(gw, nil), transport
}

func TestSearchSubjects(t *testing.T) {
	c, transport := newTestClient(t, map[string]fakeResponse{
		"/search/subject/lycoris": {200, `{"results":2,"list":[
			{"id":364450,"name":"リコリス・リコイル","name_cn":"莉可丽丝","summary":"...","air_date":"2022-07-02","rank":512,"images":{"common":"https://img.test/c.jpg"},"rating":{"score":7.6}},
			{"id":400602,"name":"Lycoris Recoil Friends are thieves of time.","air_date":"2023-02-11"}
		]}`},
	})

	subjects, err := c.SearchSubjects(context.Background(), "lycoris", 0, 0)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	require.Equal(t, 364450, subjects[0].ID)
	require.Equal(t, "莉可丽丝", subjects[0].NameCN)
	require.Equal(t, "2022-07-02", subjects[0].AirDate)
	require.Equal(t, "https://img.test/c.jpg", subjects[0].ImageURL)
	require.Equal(t, 7.6, subjects[0].Score)
	require.Zero(t, subjects[1].Score)

	require.Equal(t, []string{"/search/subject/lycoris"}, transport.calls)
	require.Equal(t, "2", transport.params[0].Get("type"))
	require.Equal(t, "10", transport.params[0].Get("max_results"))
}

func TestSearchSubjectsEmptyKeyword(t *testing.T) {
	c, transport := newTestClient(t, nil)

	_, err := c.SearchSubjects(context.Background(), "  ", 0, 0)
	require.Error(t, err)
	require.Empty(t, transport.calls)
}

func TestSearchSubjectsNoMatches(t *testing.T) {
	c, _ := newTestClient(t, map[string]fakeResponse{
		"/search/subject/nothing": {200, `{"results":0,"list":[]}`},
	})

	_, err := c.SearchSubjects(context.Background(), "nothing", 0, 0)
	gerr, ok := gateway.AsError(err)
	require.True(t, ok)
	require.Equal(t, gateway.KindNotFound, gerr.Kind)
	require.Equal(t, "subject", gerr.Resource)
}

func TestSearchSubjectsTruncatesToMaxResults(t *testing.T) {
	c, _ := newTestClient(t, map[string]fakeResponse{
		"/search/subject/gate": {200, `{"results":3,"list":[
			{"id":1,"name":"a"},{"id":2,"name":"b"},{"id":3,"name":"c"}
		]}`},
	})

	subjects, err := c.SearchSubjects(context.Background(), "gate", 0, 2)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
}

func TestSearchSubjectsMalformedItem(t *testing.T) {
	c, _ := newTestClient(t, map[string]fakeResponse{
		"/search/subject/bad": {200, `{"results":1,"list":[{"name":"no id"}]}`},
	})

	_, err := c.SearchSubjects(context.Background(), "bad", 0, 0)
	gerr, ok := gateway.AsError(err)
	require.True(t, ok)
	require.Equal(t, gateway.KindInvalidResponse, gerr.Kind)

	var merr *gateway.MalformedError
	require.True(t, errors.As(gerr, &merr))
	require.Equal(t, "list[0].id", merr.Field)
}

func TestGetSubject(t *testing.T) {
	c, transport := newTestClient(t, map[string]fakeResponse{
		"/subjects/364450": {200, `{"id":364450,"name":"リコリス・リコイル","name_cn":"莉可丽丝","date":"2022-07-02","rank":512,"images":{"large":"https://img.test/l.jpg"},"rating":{"score":7.6}}`},
	})

	subject, err := c.GetSubject(context.Background(), 364450)
	require.NoError(t, err)
	require.Equal(t, 364450, subject.ID)
	require.Equal(t, "2022-07-02", subject.AirDate)
	require.Equal(t, "https://img.test/l.jpg", subject.ImageURL)
	require.Equal(t, []string{"/subjects/364450"}, transport.calls)
}

func TestGetSubjectNotFound(t *testing.T) {
	c, _ := newTestClient(t, map[string]fakeResponse{})

	_, err := c.GetSubject(context.Background(), 99999999)
	gerr, ok := gateway.AsError(err)
	require.True(t, ok)
	require.Equal(t, gateway.KindNotFound, gerr.Kind)
	require.Equal(t, "subject", gerr.Resource)
}

func TestGetSubjectRejectsNonPositiveID(t *testing.T) {
	c, transport := newTestClient(t, nil)

	_, err := c.GetSubject(context.Background(), 0)
	require.Error(t, err)
	require.Empty(t, transport.calls)
}

func TestGetSubjectCached(t *testing.T) {
	c, transport := newTestClient(t, map[string]fakeResponse{
		"/subjects/1": {200, `{"id":1,"name":"a"}`},
	})

	_, err := c.GetSubject(context.Background(), 1)
	require.NoError(t, err)
	_, err = c.GetSubject(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, transport.calls, 1)
}
