package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/2beens/fittrack/internal/account"
	"github.com/2beens/fittrack/internal/analytics"
	"github.com/2beens/fittrack/internal/backend"
	"github.com/2beens/fittrack/internal/dashboard"
	"github.com/2beens/fittrack/internal/fitness"
	"github.com/2beens/fittrack/internal/session"
	"github.com/2beens/fittrack/internal/workouts"
)

var errUsage = errors.New("missing or unknown command")

var errNotLoggedIn = errors.New("not logged in, run: fitstats login")

const usage = `usage: fitstats [global flags] <command> [flags]

commands:
  login      log in with email and password
  signup     create an account
  logout     forget the stored session
  onboard    answer the onboarding questionnaire
  refresh    reload the profile from the backend
  workouts   list logged workouts
  add        log a workout
  delete     delete a workout by id
  dashboard  show the dashboard summary
  stats      show profile statistics (-scope all|week)
`

type app struct {
	out        io.Writer
	jsonOutput bool
	sessions   *session.FileStore
	account    *account.Service
	dashboard  *dashboard.Service
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "login":
		return a.login(ctx, rest)
	case "signup":
		return a.signup(ctx, rest)
	case "logout":
		return a.logout(ctx)
	case "onboard":
		return a.onboard(ctx, rest)
	case "refresh":
		return a.refresh(ctx)
	case "workouts":
		return a.workouts(ctx)
	case "add":
		return a.add(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "dashboard":
		return a.showDashboard(ctx)
	case "stats":
		return a.stats(ctx, rest)
	case "help", "-h", "--help":
		_, _ = fmt.Fprint(a.out, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func (a *app) current() (*session.Session, error) {
	sess := a.sessions.Current()
	if !sess.LoggedIn() {
		return nil, errNotLoggedIn
	}
	return sess, nil
}

func passwordFlag(fs *flag.FlagSet) *string {
	return fs.String("password", "", "password (defaults to $FITTRACK_PASSWORD)")
}

func resolvePassword(p string) string {
	if p != "" {
		return p
	}
	return os.Getenv("FITTRACK_PASSWORD")
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := passwordFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.account.Login(ctx, account.Credentials{
		Email:    *email,
		Password: resolvePassword(*password),
	})
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return errors.New("invalid email or password")
		}
		return err
	}

	return a.printSessionStarted(sess)
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := passwordFlag(fs)
	age := fs.Float64("age", 0, "age in years")
	height := fs.Float64("height", 0, "height in cm")
	weight := fs.Float64("weight", 0, "weight in kg")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.account.Signup(ctx, account.SignupForm{
		Name:     *name,
		Email:    *email,
		Password: resolvePassword(*password),
		Age:      fitness.Number(*age),
		Height:   fitness.Number(*height),
		Weight:   fitness.Number(*weight),
	})
	if err != nil {
		return err
	}

	return a.printSessionStarted(sess)
}

func (a *app) printSessionStarted(sess *session.Session) error {
	if a.jsonOutput {
		return a.printJSON(map[string]any{
			"email":           sess.Profile.Email,
			"needsOnboarding": sess.Profile.NeedsOnboarding(),
		})
	}
	_, _ = fmt.Fprintf(a.out, "Welcome, %s!\n", sess.Profile.FirstName())
	if sess.Profile.NeedsOnboarding() {
		_, _ = fmt.Fprintln(a.out, "Your profile is not complete yet, run: fitstats onboard")
	}
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.account.Logout(ctx, a.sessions.Current()); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *app) onboard(ctx context.Context, args []string) error {
	sess, err := a.current()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("onboard", flag.ContinueOnError)
	age := fs.Float64("age", sess.Profile.Age.Float(), "age in years")
	height := fs.Float64("height", sess.Profile.Height.Float(), "height in cm")
	weight := fs.Float64("weight", sess.Profile.Weight.Float(), "weight in kg")
	gender := fs.String("gender", sess.Profile.Gender, "Male, Female or Prefer not to say")
	environment := fs.String("environment", "", "where you train: home, gym, outdoor")
	diet := fs.String("diet", "", "dietary preference")
	weeklyGoal := fs.Int("weekly-goal", 0, "workouts per week, 1 to 7")
	goals := fs.String("goals", "", "comma separated fitness goals")
	conditions := fs.String("conditions", "", "comma separated health conditions")
	preferences := fs.String("preferences", "", "comma separated exercise preferences")
	if err := fs.Parse(args); err != nil {
		return err
	}

	updated, err := a.account.Onboard(ctx, sess, account.OnboardingForm{
		Age:                 fitness.Number(*age),
		Height:              fitness.Number(*height),
		Weight:              fitness.Number(*weight),
		Gender:              *gender,
		Environment:         *environment,
		DietaryPreference:   *diet,
		WeeklyWorkoutGoal:   fitness.Number(*weeklyGoal),
		FitnessGoals:        account.SplitList(*goals),
		HealthConditions:    account.SplitList(*conditions),
		ExercisePreferences: account.SplitList(*preferences),
	})
	if err != nil {
		return err
	}

	if a.jsonOutput {
		return a.printJSON(publicProfile(updated.Profile))
	}
	_, _ = fmt.Fprintf(a.out, "Profile updated, weekly goal: %d workouts.\n", analytics.WeeklyGoal(updated.Profile))
	return nil
}

func (a *app) refresh(ctx context.Context) error {
	sess, err := a.current()
	if err != nil {
		return err
	}

	refreshed, err := a.account.Refresh(ctx, sess)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return errors.New("session expired, log in again")
		}
		return err
	}

	if a.jsonOutput {
		return a.printJSON(publicProfile(refreshed.Profile))
	}
	p := refreshed.Profile
	_, _ = fmt.Fprintf(a.out, "%s <%s>\n", p.Name, p.Email)
	if len(p.FitnessGoals) > 0 {
		_, _ = fmt.Fprintf(a.out, "goals: %s\n", strings.Join(p.FitnessGoals, ", "))
	}
	return nil
}

func (a *app) workouts(ctx context.Context) error {
	sess, err := a.current()
	if err != nil {
		return err
	}

	list, err := a.dashboard.Workouts(ctx, sess)
	if err != nil {
		return err
	}

	if a.jsonOutput {
		return a.printJSON(list)
	}
	if len(list) == 0 {
		_, _ = fmt.Fprintln(a.out, "No workouts logged yet.")
		return nil
	}
	return a.printWorkouts(list)
}

func (a *app) printWorkouts(list []fitness.Workout) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDATE\tTITLE\tMIN\tKCAL")
	for _, w := range list {
		date := w.Date
		if day, ok := w.Day(nil); ok {
			date = day.Format(fitness.DateLayout)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", w.ID, date, w.Title, w.Minutes(), w.CaloriesBurned())
	}
	return tw.Flush()
}

// exerciseFlags collects repeated -exercise name:sets:reps:weight values
type exerciseFlags []fitness.Exercise

func (e *exerciseFlags) String() string {
	names := make([]string, 0, len(*e))
	for _, ex := range *e {
		names = append(names, ex.Name)
	}
	return strings.Join(names, ",")
}

func (e *exerciseFlags) Set(value string) error {
	parts := strings.Split(value, ":")
	if len(parts) > 4 {
		return fmt.Errorf("expected name:sets:reps:weight, got %q", value)
	}
	ex := fitness.Exercise{Name: strings.TrimSpace(parts[0])}
	numbers := []*fitness.Number{&ex.Sets, &ex.Reps, &ex.Weight}
	for i, raw := range parts[1:] {
		*numbers[i] = fitness.Number(fitness.ParseLeadingNumber(raw))
	}
	*e = append(*e, ex)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	sess, err := a.current()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "workout title")
	date := fs.String("date", "", "workout date, YYYY-MM-DD (defaults to today)")
	duration := fs.Float64("duration", 0, "duration in minutes")
	var exercises exerciseFlags
	fs.Var(&exercises, "exercise", "exercise as name:sets:reps:weight, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	added, err := a.dashboard.LogWorkout(ctx, sess, workouts.Form{
		Title:     *title,
		Date:      *date,
		Duration:  fitness.Number(*duration),
		Exercises: exercises,
	})
	if err != nil {
		return err
	}

	if a.jsonOutput {
		return a.printJSON(added)
	}
	_, _ = fmt.Fprintf(a.out, "Logged %q (%s): %d min, ~%d kcal.\n", added.Title, added.ID, added.Minutes(), added.CaloriesBurned())
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	sess, err := a.current()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "workout id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" && fs.NArg() > 0 {
		*id = fs.Arg(0)
	}

	if err := a.dashboard.DeleteWorkout(ctx, sess, *id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Deleted workout %s.\n", *id)
	return nil
}

func (a *app) showDashboard(ctx context.Context) error {
	sess, err := a.current()
	if err != nil {
		return err
	}

	view, err := a.dashboard.Dashboard(ctx, sess)
	if err != nil {
		return err
	}

	if a.jsonOutput {
		return a.printJSON(view)
	}

	bmi := "n/a"
	if view.BMI != nil {
		bmi = fmt.Sprintf("%.1f", *view.BMI)
	}
	_, _ = fmt.Fprintf(a.out, "Hi %s!\n\n", view.FirstName)
	_, _ = fmt.Fprintf(a.out, "BMI: %s   BMR: %d kcal/day\n", bmi, view.BMR)
	_, _ = fmt.Fprintf(a.out, "Workouts: %d   Minutes: %d   Calories: %d   Streak: %d days\n",
		view.TotalWorkouts, view.TotalMinutes, view.TotalCalories, view.Streak)
	if len(view.RecentWorkouts) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(a.out, "\nRecent workouts:")
	return a.printWorkouts(view.RecentWorkouts)
}

func (a *app) stats(ctx context.Context, args []string) error {
	sess, err := a.current()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	scopeArg := fs.String("scope", string(analytics.ScopeAll), "weekday charts scope: all or week")
	if err := fs.Parse(args); err != nil {
		return err
	}
	scope, err := analytics.ParseScope(*scopeArg)
	if err != nil {
		return err
	}

	stats, err := a.dashboard.ProfileStats(ctx, sess, scope)
	if err != nil {
		return err
	}

	if a.jsonOutput {
		return a.printJSON(stats)
	}

	_, _ = fmt.Fprintf(a.out, "Weekly goal: %d/%d (%d%%)\n", stats.WorkoutsThisWeek, stats.WeeklyGoal, stats.GoalPercent)
	_, _ = fmt.Fprintf(a.out, "Level: %s", stats.Level)
	if stats.NextLevel != nil {
		_, _ = fmt.Fprintf(a.out, " (%d more to %s)", stats.NextLevel.Remaining, stats.NextLevel.Next)
	}
	_, _ = fmt.Fprintf(a.out, "\nWorkouts: %d   Minutes: %d   Calories: %d   Streak: %d days\n\n",
		stats.TotalWorkouts, stats.TotalMinutes, stats.TotalCalories, stats.Streak)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "DAY\tMIN\tKCAL\t(%s)\n", stats.Scope)
	for _, b := range stats.Weekdays {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t\n", b.Day, b.Minutes, b.Calories)
	}
	return tw.Flush()
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func publicProfile(p *fitness.Profile) *fitness.Profile {
	if p == nil {
		return nil
	}
	public := *p
	public.Token = ""
	return &public
}
