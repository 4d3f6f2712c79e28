//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fittrack/internal/activity"
	"github.com/2beens/fittrack/internal/dashboard"
	"github.com/2beens/fittrack/internal/fitness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestWorkoutsFlow() {
	t := s.T()
	ctx := context.Background()

	profile := randomProfile()
	password := s.backend.addUser(profile)
	sessionID := doLogin(ctx, t, profile.Email, password).SessionID

	resp := doRequest(ctx, t, http.MethodGet, "/workouts", sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dashboard.WorkoutsListResponse
	decodeBody(t, resp, &list)
	assert.Empty(t, list.Workouts)
	assert.Equal(t, 0, list.Total)

	// invalid form never reaches the backend
	resp = doRequest(ctx, t, http.MethodPost, "/workouts", sessionID, map[string]any{"title": "  "})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	yesterday := time.Now().AddDate(0, 0, -1).Format(fitness.DateLayout)
	addedIDs := make([]string, 0, 2)
	for _, form := range []map[string]any{
		{"title": "Leg day", "date": yesterday, "duration": 40, "exercises": []map[string]any{{"name": "squat", "sets": 5, "reps": 5, "weight": 100}}},
		{"title": "Evening run", "duration": "30"},
	} {
		resp = doRequest(ctx, t, http.MethodPost, "/workouts", sessionID, form)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var added fitness.Workout
		decodeBody(t, resp, &added)
		require.NotEmpty(t, added.ID)
		minutes := added.Minutes()
		assert.GreaterOrEqual(t, added.CaloriesBurned(), minutes*5)
		assert.Less(t, added.CaloriesBurned(), minutes*5+50)
		addedIDs = append(addedIDs, added.ID)
	}
	assert.Equal(t, 2, s.countEvents(profile.Email, activity.EventTypeWorkoutLogged.String()))

	resp = doRequest(ctx, t, http.MethodGet, "/dashboard", sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view dashboard.Dashboard
	decodeBody(t, resp, &view)
	assert.Equal(t, profile.FirstName(), view.FirstName)
	assert.Equal(t, 2, view.TotalWorkouts)
	assert.Equal(t, 70, view.TotalMinutes)
	assert.Equal(t, 2, view.Streak)
	require.NotNil(t, view.BMI)
	assert.Len(t, view.RecentWorkouts, 2)
	assert.Equal(t, "Evening run", view.RecentWorkouts[0].Title)

	// dashboard and stats are served from the workout cache
	listCalls := s.backend.callCount("GET /api/workouts")
	resp = doRequest(ctx, t, http.MethodGet, "/profile/stats?scope=week", sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats dashboard.ProfileStats
	decodeBody(t, resp, &stats)
	assert.Equal(t, listCalls, s.backend.callCount("GET /api/workouts"))
	assert.Equal(t, 2, stats.TotalWorkouts)
	assert.Equal(t, 3, stats.WeeklyGoal)
	assert.Len(t, stats.Weekdays, 7)

	resp = doRequest(ctx, t, http.MethodGet, "/profile/stats?scope=year", sessionID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(ctx, t, http.MethodDelete, "/workouts/"+addedIDs[0], sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted dashboard.DeleteWorkoutResponse
	decodeBody(t, resp, &deleted)
	assert.Equal(t, addedIDs[0], deleted.DeletedID)

	resp = doRequest(ctx, t, http.MethodDelete, "/workouts/"+addedIDs[0], sessionID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(ctx, t, http.MethodGet, "/workouts", sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, addedIDs[1], list.Workouts[0].ID)

	resp = doRequest(ctx, t, http.MethodGet, "/activity/list/page/1/size/10", sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events activity.ListResponse
	decodeBody(t, resp, &events)
	// login, two workouts logged, one deleted
	assert.Equal(t, 4, events.Total)
	require.Len(t, events.Events, 4)
	assert.Equal(t, activity.EventTypeWorkoutDeleted, events.Events[0].Type)

	resp = doRequest(ctx, t, http.MethodGet, fmt.Sprintf("/activity/list/page/1/size/10?type=%s", activity.EventTypeWorkoutLogged), sessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &events)
	assert.Equal(t, 2, events.Total)
}

func (s *IntegrationTestSuite) TestBackendDown() {
	t := s.T()
	ctx := context.Background()

	profile := randomProfile()
	password := s.backend.addUser(profile)
	sessionID := doLogin(ctx, t, profile.Email, password).SessionID

	s.backend.setUnhealthy(true)
	defer s.backend.setUnhealthy(false)

	resp := doRequest(ctx, t, http.MethodGet, "/workouts", sessionID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
