//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/2beens/fittrack/internal/backend"
	"github.com/2beens/fittrack/internal/fitness"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gorilla/mux"
)

// fitnessBackend is an in-memory stand-in for the fitness REST backend.
type fitnessBackend struct {
	mu        sync.Mutex
	users     map[string]*backendUser // by email
	tokens    map[string]string       // token -> email
	nextID    int
	calls     map[string]int
	unhealthy bool
}

type backendUser struct {
	profile  fitness.Profile
	password string
	workouts []fitness.Workout
}

func newFitnessBackend() *fitnessBackend {
	return &fitnessBackend{
		users:  map[string]*backendUser{},
		tokens: map[string]string{},
		calls:  map[string]int{},
	}
}

func (b *fitnessBackend) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/users/login", b.login).Methods("POST")
	r.HandleFunc("/api/users", b.signup).Methods("POST")
	r.HandleFunc("/api/users/profile", b.authed(b.updateProfile)).Methods("PUT")
	r.HandleFunc("/api/users/me", b.authed(b.me)).Methods("GET")
	r.HandleFunc("/api/workouts", b.authed(b.listWorkouts)).Methods("GET")
	r.HandleFunc("/api/workouts", b.authed(b.addWorkout)).Methods("POST")
	r.HandleFunc("/api/workouts/{id}", b.authed(b.deleteWorkout)).Methods("DELETE")
	return r
}

func (b *fitnessBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls[r.Method+" "+r.URL.Path]++
	unhealthy := b.unhealthy
	b.mu.Unlock()

	if unhealthy {
		writeBackendError(w, http.StatusInternalServerError, "Server error")
		return
	}
	b.router().ServeHTTP(w, r)
}

func (b *fitnessBackend) callCount(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *fitnessBackend) setUnhealthy(unhealthy bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unhealthy = unhealthy
}

// addUser registers an onboarded user and returns its password.
func (b *fitnessBackend) addUser(profile fitness.Profile) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	password := gofakeit.Password(true, true, true, false, false, 12)
	b.nextID++
	profile.ID = fmt.Sprintf("u%d", b.nextID)
	profile.Token = ""
	b.users[profile.Email] = &backendUser{
		profile:  profile,
		password: password,
	}
	return password
}

func (b *fitnessBackend) issueToken(u *backendUser) fitness.Profile {
	token := gofakeit.UUID()
	b.tokens[token] = u.profile.Email
	p := u.profile
	p.Token = token
	return p
}

func (b *fitnessBackend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBackendError(w, http.StatusBadRequest, "Bad request")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[req.Email]
	if !ok || u.password != req.Password {
		writeBackendError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeBackendJSON(w, http.StatusOK, b.issueToken(u))
}

func (b *fitnessBackend) signup(w http.ResponseWriter, r *http.Request) {
	var req backend.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBackendError(w, http.StatusBadRequest, "Bad request")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[req.Email]; exists {
		writeBackendError(w, http.StatusBadRequest, "User already exists")
		return
	}
	b.nextID++
	u := &backendUser{
		profile: fitness.Profile{
			ID:     fmt.Sprintf("u%d", b.nextID),
			Name:   req.Name,
			Email:  req.Email,
			Age:    req.Age,
			Height: req.Height,
			Weight: req.Weight,
		},
		password: req.Password,
	}
	b.users[req.Email] = u
	writeBackendJSON(w, http.StatusCreated, b.issueToken(u))
}

type authedHandler func(w http.ResponseWriter, r *http.Request, u *backendUser)

// authed resolves the bearer token; handlers run with b.mu held.
func (b *fitnessBackend) authed(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		b.mu.Lock()
		defer b.mu.Unlock()
		email, ok := b.tokens[token]
		if !ok {
			writeBackendError(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		next(w, r, b.users[email])
	}
}

func (b *fitnessBackend) me(w http.ResponseWriter, _ *http.Request, u *backendUser) {
	writeBackendJSON(w, http.StatusOK, u.profile)
}

func (b *fitnessBackend) updateProfile(w http.ResponseWriter, r *http.Request, u *backendUser) {
	var update backend.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeBackendError(w, http.StatusBadRequest, "Bad request")
		return
	}
	u.profile.Age = update.Age
	u.profile.Height = update.Height
	u.profile.Weight = update.Weight
	u.profile.Gender = update.Gender
	u.profile.Environment = update.Environment
	u.profile.DietaryPreference = update.DietaryPreference
	u.profile.WeeklyWorkoutGoal = fitness.Number(update.WeeklyWorkoutGoal)
	u.profile.FitnessGoals = update.FitnessGoals
	u.profile.HealthConditions = update.HealthConditions
	u.profile.ExercisePreferences = update.ExercisePreferences
	writeBackendJSON(w, http.StatusOK, u.profile)
}

func (b *fitnessBackend) listWorkouts(w http.ResponseWriter, _ *http.Request, u *backendUser) {
	list := u.workouts
	if list == nil {
		list = []fitness.Workout{}
	}
	writeBackendJSON(w, http.StatusOK, list)
}

func (b *fitnessBackend) addWorkout(w http.ResponseWriter, r *http.Request, u *backendUser) {
	var req backend.NewWorkout
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBackendError(w, http.StatusBadRequest, "Bad request")
		return
	}
	b.nextID++
	created := fitness.Workout{
		ID:        fmt.Sprintf("w%d", b.nextID),
		Title:     req.Title,
		Date:      req.Date,
		Duration:  fitness.Number(fitness.ParseLeadingNumber(req.Duration)),
		Calories:  fitness.Number(req.Calories),
		Exercises: req.Exercises,
	}
	// newest first, like the real backend
	u.workouts = append([]fitness.Workout{created}, u.workouts...)
	writeBackendJSON(w, http.StatusCreated, created)
}

func (b *fitnessBackend) deleteWorkout(w http.ResponseWriter, r *http.Request, u *backendUser) {
	id := mux.Vars(r)["id"]
	for i, wk := range u.workouts {
		if wk.ID == id {
			u.workouts = append(u.workouts[:i], u.workouts[i+1:]...)
			writeBackendJSON(w, http.StatusOK, map[string]string{"message": "Workout removed"})
			return
		}
	}
	writeBackendError(w, http.StatusNotFound, "Workout not found")
}

func writeBackendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBackendError(w http.ResponseWriter, status int, message string) {
	writeBackendJSON(w, status, map[string]string{"message": message})
}
