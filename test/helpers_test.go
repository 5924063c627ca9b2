//go:build integration_test || all_tests

package test

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

type testUser struct {
	Username string
	Password string
	Height   float64
	Weight   float64
}

func newTestUser() testUser {
	return testUser{
		Username: fmt.Sprintf("%s-%d", gofakeit.Username(), gofakeit.Number(1000, 9999)),
		Password: gofakeit.Password(true, true, true, false, false, 12),
		Height:   180,
		Weight:   81,
	}
}

// page is a fetched page, after redirects are followed.
type page struct {
	StatusCode  int
	Path        string
	ContentType string
	Body        string
}

func (s *IntegrationTestSuite) doRequest(client *http.Client, req *http.Request) page {
	resp, err := client.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	return page{
		StatusCode:  resp.StatusCode,
		Path:        resp.Request.URL.Path,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        string(body),
	}
}

func (s *IntegrationTestSuite) get(client *http.Client, path string) page {
	req, err := http.NewRequest(http.MethodGet, serverEndpoint+path, nil)
	require.NoError(s.T(), err)
	return s.doRequest(client, req)
}

func (s *IntegrationTestSuite) post(client *http.Client, path string, form url.Values) page {
	req, err := http.NewRequest(http.MethodPost, serverEndpoint+path, strings.NewReader(form.Encode()))
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.doRequest(client, req)
}

func (s *IntegrationTestSuite) register(client *http.Client, user testUser) page {
	return s.post(client, "/register", url.Values{
		"username":    {user.Username},
		"password":    {user.Password},
		"height":      {fmt.Sprintf("%.1f", user.Height)},
		"weight":      {fmt.Sprintf("%.1f", user.Weight)},
		"age":         {"33"},
		"gender":      {"m"},
		"health_goal": {"stay healthy"},
	})
}

func (s *IntegrationTestSuite) userID(username string) int {
	var id int
	err := s.DB.QueryRow(`SELECT id FROM app_user WHERE username = $1`, username).Scan(&id)
	require.NoError(s.T(), err)
	return id
}
