//go:build integration_test || all_tests

package test

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/fittrack/internal/account"
	"github.com/2beens/fittrack/internal/activity"
	"github.com/2beens/fittrack/internal/guard"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLoginLogout() {
	t := s.T()
	ctx := context.Background()

	profile := randomProfile()
	password := s.backend.addUser(profile)

	// wrong password
	resp := doRequest(ctx, t, http.MethodPost, "/auth/login", "", account.Credentials{
		Email:    profile.Email,
		Password: "wrong-" + password,
	})
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", strings.TrimSpace(string(respBytes)))

	loggedIn := doLogin(ctx, t, profile.Email, password)
	require.NotNil(t, loggedIn.Profile)
	assert.Equal(t, profile.Email, loggedIn.Profile.Email)
	assert.Empty(t, loggedIn.Profile.Token)
	assert.False(t, loggedIn.NeedsOnboarding)
	assert.Equal(t, guard.PathDashboard, loggedIn.Next)
	assert.Equal(t, 1, s.countEvents(profile.Email, activity.EventTypeUserLoggedIn.String()))

	resp = doRequest(ctx, t, http.MethodGet, "/me", loggedIn.SessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me account.ProfileResponse
	decodeBody(t, resp, &me)
	assert.Equal(t, profile.Name, me.Profile.Name)

	resp = doRequest(ctx, t, http.MethodPost, "/auth/logout", loggedIn.SessionID, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// session is gone from redis
	resp = doRequest(ctx, t, http.MethodGet, "/me", loggedIn.SessionID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestSignupAndOnboarding() {
	t := s.T()
	ctx := context.Background()

	email := strings.ToLower(gofakeit.Email())
	resp := doRequest(ctx, t, http.MethodPost, "/auth/signup", "", account.SignupForm{
		Name:     gofakeit.Name(),
		Email:    email,
		Password: gofakeit.Password(true, true, true, false, false, 10),
		Age:      29,
		Height:   180,
		Weight:   80,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var signedUp account.SessionResponse
	decodeBody(t, resp, &signedUp)
	assert.True(t, signedUp.NeedsOnboarding)
	assert.Equal(t, guard.PathOnboarding, signedUp.Next)

	resp = doRequest(ctx, t, http.MethodGet, "/nav/resolve?path=/", signedUp.SessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var decision guard.Decision
	decodeBody(t, resp, &decision)
	assert.Equal(t, guard.PathOnboarding, decision.Path)
	assert.Equal(t, guard.ViewOnboarding, decision.View)

	resp = doRequest(ctx, t, http.MethodPut, "/me/profile", signedUp.SessionID, map[string]any{
		"age":               29,
		"height":            180,
		"weight":            80,
		"gender":            "Male",
		"environment":       "Gym",
		"weeklyWorkoutGoal": 4,
		"fitnessGoals":      "Lose weight, Build strength",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var onboarded account.ProfileResponse
	decodeBody(t, resp, &onboarded)
	assert.False(t, onboarded.NeedsOnboarding)
	assert.Equal(t, []string{"Lose weight", "Build strength"}, onboarded.Profile.FitnessGoals)
	assert.Equal(t, 4, onboarded.Profile.WeeklyWorkoutGoal.Int())

	assert.Equal(t, 1, s.countEvents(email, activity.EventTypeUserSignedUp.String()))
	assert.Equal(t, 1, s.countEvents(email, activity.EventTypeProfileUpdated.String()))

	// same email again
	resp = doRequest(ctx, t, http.MethodPost, "/auth/signup", "", account.SignupForm{
		Name:     gofakeit.Name(),
		Email:    email,
		Password: "whatever1",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestProtectedRoutesNeedSession() {
	t := s.T()
	ctx := context.Background()

	for _, path := range []string{"/me", "/dashboard", "/workouts", "/profile/stats", "/activity/list/page/1/size/10"} {
		resp := doRequest(ctx, t, http.MethodGet, path, "", nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)

		resp = doRequest(ctx, t, http.MethodGet, path, gofakeit.UUID(), nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp := doRequest(ctx, t, http.MethodGet, "/nav/resolve?path=/profile", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var decision guard.Decision
	decodeBody(t, resp, &decision)
	assert.Equal(t, guard.PathLogin, decision.Path)
	assert.True(t, decision.Redirected)
}
