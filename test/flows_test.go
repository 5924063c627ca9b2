//go:build integration_test || all_tests

package test

import (
	"bytes"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/2beens/healthme/internal/chart"
	"github.com/2beens/healthme/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func (s *IntegrationTestSuite) TestRegister_DashboardWithChart() {
	t := s.T()
	client := s.newClient()
	user := newTestUser()

	dashboard := s.register(client, user)
	require.Equal(t, http.StatusOK, dashboard.StatusCode)
	assert.Equal(t, "/dashboard", dashboard.Path)
	assert.Contains(t, dashboard.Body, "<h1>Dashboard</h1>")

	userID := s.userID(user.Username)

	var weights, activities int
	require.NoError(t, s.DB.QueryRow(`SELECT count(*) FROM user_weight WHERE user_id = $1`, userID).Scan(&weights))
	require.NoError(t, s.DB.QueryRow(`SELECT count(*) FROM user_activity WHERE user_id = $1`, userID).Scan(&activities))
	assert.Equal(t, 1, weights)
	assert.Equal(t, 1, activities)

	chartPage := s.get(client, "/dashboard/chart")
	require.Equal(t, http.StatusOK, chartPage.StatusCode)
	assert.Equal(t, "image/png", chartPage.ContentType)
	assert.True(t, bytes.HasPrefix([]byte(chartPage.Body), pngMagic))

	chartFile, err := os.ReadFile(filepath.Join(s.chartsDir, chart.FileName(userID)))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(chartFile, pngMagic))
}

func (s *IntegrationTestSuite) TestRegister_UsernameTaken() {
	t := s.T()
	user := newTestUser()

	first := s.register(s.newClient(), user)
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := s.register(s.newClient(), user)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
	assert.Contains(t, second.Body, user.Username)
}

func (s *IntegrationTestSuite) TestLogin_Logout() {
	t := s.T()
	user := newTestUser()
	require.Equal(t, http.StatusOK, s.register(s.newClient(), user).StatusCode)

	client := s.newClient()

	failed := s.post(client, "/login", url.Values{"username": {user.Username}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusUnauthorized, failed.StatusCode)
	assert.Contains(t, failed.Body, "Invalid username or password")

	loggedIn := s.post(client, "/login", url.Values{"username": {user.Username}, "password": {user.Password}})
	require.Equal(t, http.StatusOK, loggedIn.StatusCode)
	assert.Equal(t, "/dashboard", loggedIn.Path)

	profile := s.get(client, "/profile")
	require.Equal(t, http.StatusOK, profile.StatusCode)
	assert.Contains(t, profile.Body, user.Username)

	landing := s.get(client, "/logout")
	require.Equal(t, http.StatusOK, landing.StatusCode)
	assert.Equal(t, "/", landing.Path)

	afterLogout := s.get(client, "/profile")
	assert.Equal(t, middleware.LoginFormPath, afterLogout.Path)
}

func (s *IntegrationTestSuite) TestAddWeight_UpdatesBMI() {
	t := s.T()
	client := s.newClient()
	user := newTestUser()
	require.Equal(t, http.StatusOK, s.register(client, user).StatusCode)
	userID := s.userID(user.Username)

	dashboard := s.post(client, "/add-weight", url.Values{"weight": {"72"}})
	require.Equal(t, http.StatusOK, dashboard.StatusCode)
	assert.Equal(t, "/dashboard", dashboard.Path)

	var weight, bmi float64
	require.NoError(t, s.DB.QueryRow(`SELECT weight, bmi FROM app_user WHERE id = $1`, userID).Scan(&weight, &bmi))
	assert.Equal(t, 72.0, weight)
	assert.InDelta(t, 22.22, bmi, 0.01)

	badRequest := s.post(client, "/add-weight", url.Values{"weight": {"heavy"}})
	assert.Equal(t, http.StatusBadRequest, badRequest.StatusCode)
}

func (s *IntegrationTestSuite) TestAddData_And_HealthData() {
	t := s.T()
	client := s.newClient()
	user := newTestUser()
	require.Equal(t, http.StatusOK, s.register(client, user).StatusCode)
	userID := s.userID(user.Username)

	dashboard := s.post(client, "/add-data", url.Values{
		"steps":          {"9000"},
		"calorie_intake": {"2200"},
		"weight":         {"80"},
	})
	require.Equal(t, http.StatusOK, dashboard.StatusCode)

	healthData := s.post(client, "/add-health-data", url.Values{
		"steps":          {"3000"},
		"calorie_intake": {"500"},
	})
	require.Equal(t, http.StatusOK, healthData.StatusCode)
	assert.Equal(t, "/health-data", healthData.Path)

	var steps, calories int
	require.NoError(t, s.DB.QueryRow(`SELECT steps, calorie_intake FROM app_user WHERE id = $1`, userID).Scan(&steps, &calories))
	assert.Equal(t, 3000, steps)
	assert.Equal(t, 500, calories)

	var activities int
	require.NoError(t, s.DB.QueryRow(`SELECT count(*) FROM user_activity WHERE user_id = $1`, userID).Scan(&activities))
	assert.Equal(t, 3, activities)
}

func (s *IntegrationTestSuite) TestEditProfile_And_HealthGoal() {
	t := s.T()
	client := s.newClient()
	user := newTestUser()
	require.Equal(t, http.StatusOK, s.register(client, user).StatusCode)
	userID := s.userID(user.Username)

	profile := s.post(client, "/edit-profile", url.Values{
		"age":    {"40"},
		"gender": {"m"},
		"height": {"175"},
	})
	require.Equal(t, http.StatusOK, profile.StatusCode)
	assert.Equal(t, "/profile", profile.Path)

	var age int
	var height float64
	require.NoError(t, s.DB.QueryRow(`SELECT age, height FROM app_user WHERE id = $1`, userID).Scan(&age, &height))
	assert.Equal(t, 40, age)
	assert.Equal(t, 175.0, height)

	goals := s.post(client, "/set-health-goal", url.Values{
		"new_goal":       {"METs"},
		"new_goal_value": {"2.5"},
	})
	require.Equal(t, http.StatusOK, goals.StatusCode)
	assert.Equal(t, "/health-goals", goals.Path)

	var goalKind, goalName string
	var goalValue float64
	require.NoError(t, s.DB.QueryRow(
		`SELECT goal_kind, goal_name, goal_value FROM app_user WHERE id = $1`, userID,
	).Scan(&goalKind, &goalName, &goalValue))
	assert.Equal(t, "numeric", goalKind)
	assert.Equal(t, "METs", goalName)
	assert.Equal(t, 2500.0, goalValue)
}

func (s *IntegrationTestSuite) TestCommunity_Join() {
	t := s.T()
	first, second := newTestUser(), newTestUser()
	firstClient, secondClient := s.newClient(), s.newClient()
	require.Equal(t, http.StatusOK, s.register(firstClient, first).StatusCode)
	require.Equal(t, http.StatusOK, s.register(secondClient, second).StatusCode)

	joinPage := s.get(firstClient, "/community")
	require.Equal(t, http.StatusOK, joinPage.StatusCode)
	assert.Contains(t, joinPage.Body, "Join a community")

	communityName := "walkers-" + first.Username
	community := s.post(firstClient, "/community/join", url.Values{"community_name": {communityName}})
	require.Equal(t, http.StatusOK, community.StatusCode)
	assert.Contains(t, community.Body, communityName)

	var communityID int
	require.NoError(t, s.DB.QueryRow(`SELECT id FROM community WHERE name = $1`, communityName).Scan(&communityID))

	community = s.post(secondClient, "/community/join", url.Values{"community_name": {communityName}})
	require.Equal(t, http.StatusOK, community.StatusCode)
	assert.Contains(t, community.Body, first.Username)
	assert.Contains(t, community.Body, second.Username)

	notFound := s.post(s.newClientLoggedIn(newTestUser()), "/community/join", url.Values{"community_id": {"999999"}})
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
}

func (s *IntegrationTestSuite) newClientLoggedIn(user testUser) *http.Client {
	client := s.newClient()
	require.Equal(s.T(), http.StatusOK, s.register(client, user).StatusCode)
	return client
}
