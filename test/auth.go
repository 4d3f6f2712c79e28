//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/2beens/fittrack/internal/account"
	"github.com/2beens/fittrack/internal/fitness"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

func randomProfile() fitness.Profile {
	return fitness.Profile{
		Name:              gofakeit.FirstName() + " " + gofakeit.LastName(),
		Email:             strings.ToLower(gofakeit.Email()),
		Age:               fitness.Number(gofakeit.Number(18, 70)),
		Height:            fitness.Number(gofakeit.Number(150, 200)),
		Weight:            fitness.Number(gofakeit.Number(50, 110)),
		Gender:            gofakeit.RandomString([]string{"Male", "Female"}),
		WeeklyWorkoutGoal: 3,
		FitnessGoals:      []string{"Build strength"},
	}
}

func doRequest(ctx context.Context, t *testing.T, method, path, sessionID string, body any) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("Authorization", "Bearer "+sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(respBytes, v), string(respBytes))
}

func doLogin(ctx context.Context, t *testing.T, email, password string) account.SessionResponse {
	t.Helper()

	resp := doRequest(ctx, t, http.MethodPost, "/auth/login", "", account.Credentials{
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, fmt.Sprintf("login %s", email))

	var sessionResp account.SessionResponse
	decodeBody(t, resp, &sessionResp)
	require.NotEmpty(t, sessionResp.SessionID)
	return sessionResp
}
