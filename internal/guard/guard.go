package guard

import (
	"path"
	"strings"

	"github.com/2beens/fittrack/internal/session"
)

type View string

const (
	ViewLanding    View = "landing"
	ViewLogin      View = "login"
	ViewSignup     View = "signup"
	ViewOnboarding View = "onboarding"
	ViewDashboard  View = "dashboard"
	ViewAddWorkout View = "add-workout"
	ViewProfile    View = "profile"
)

const (
	PathRoot       = "/"
	PathLogin      = "/login"
	PathSignup     = "/signup"
	PathOnboarding = "/onboarding"
	PathDashboard  = "/dashboard"
	PathAddWorkout = "/add-workout"
	PathProfile    = "/profile"
)

// redirects never chain more than twice (unknown -> / -> dashboard)
const maxHops = 3

type route struct {
	view      View
	protected bool
}

var routes = map[string]route{
	PathLogin:      {view: ViewLogin},
	PathSignup:     {view: ViewSignup},
	PathOnboarding: {view: ViewOnboarding, protected: true},
	PathDashboard:  {view: ViewDashboard, protected: true},
	PathAddWorkout: {view: ViewAddWorkout, protected: true},
	PathProfile:    {view: ViewProfile, protected: true},
}

// Decision tells a client where a requested path ends up and which view
// to render there.
type Decision struct {
	Requested  string `json:"requested"`
	Path       string `json:"path"`
	View       View   `json:"view"`
	Redirected bool   `json:"redirected"`
}

// Resolve applies the route guards to p for the given session (nil when
// logged out), following redirects until a view is reached.
func Resolve(p string, sess *session.Session) Decision {
	current := normalize(p)
	d := Decision{
		Requested: p,
	}

	for hop := 0; hop < maxHops; hop++ {
		next, view := step(current, sess)
		if next == current {
			d.Path = current
			d.View = view
			d.Redirected = current != normalize(p)
			return d
		}
		current = next
	}

	// unreachable with the current table
	d.Path = PathRoot
	d.View = ViewLanding
	d.Redirected = true
	return d
}

// step returns the path to go to next; the same path means render view.
func step(p string, sess *session.Session) (string, View) {
	loggedIn := sess.LoggedIn()

	if p == PathRoot {
		if !loggedIn {
			return PathRoot, ViewLanding
		}
		if sess.Profile.NeedsOnboarding() {
			return PathOnboarding, ""
		}
		return PathDashboard, ""
	}

	r, known := routes[p]
	if !known {
		return PathRoot, ""
	}
	if r.protected && !loggedIn {
		return PathLogin, ""
	}
	return p, r.view
}

func normalize(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return PathRoot
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
