package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Asimsayam/lms-automation-bot/internal/config"
)

const loginForm = `<html><body>
<form action="/login/index.php" method="post">
<input type="hidden" name="logintoken" value="tok123">
<input type="text" name="username">
<input type="password" name="password">
</form>
</body></html>`

const dayView = `<html><body>
<div data-type="event">
  <h3 class="name">Assignment 1</h3>
  <div class="date">Monday, 1 September, 11:59 PM</div>
  <div class="course"><a href="/course/view.php?id=3">CS101</a></div>
  <div class="description">Assignment 1 is due. Add submission</div>
</div>
<div data-type="event">
  <h3 class="name">Quiz 2</h3>
  <div class="description">Quiz 2 Submitted for grading</div>
</div>
</body></html>`

type fixture struct {
	srv       *httptest.Server
	lastQuery map[string]string
	token     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{lastQuery: map[string]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/login/index.php", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, loginForm)
			return
		}
		require.NoError(t, r.ParseForm())
		f.token = r.PostFormValue("logintoken")
		if r.PostFormValue("username") == "student" && r.PostFormValue("password") == "hunter2" {
			http.Redirect(w, r, "/my/", http.StatusFound)
			return
		}
		// Moodle re-renders the login form on bad credentials.
		fmt.Fprint(w, loginForm)
	})
	mux.HandleFunc("/my/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body>Dashboard</body></html>")
	})
	mux.HandleFunc("/calendar/view.php", func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery["view"] = r.URL.Query().Get("view")
		f.lastQuery["time"] = r.URL.Query().Get("time")
		fmt.Fprint(w, dayView)
	})
	mux.HandleFunc("/calendar/empty", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body><p>No events</p></body></html>")
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func testConfig(baseURL, password string) config.Portal {
	return config.Portal{
		BaseURL:        baseURL,
		LoginPath:      "/login/index.php",
		Username:       "student",
		Password:       password,
		Timeout:        5 * time.Second,
		UserAgent:      "lms-notifier-test",
		EventSelector:  `div[data-type="event"]`,
		TitleSelector:  "h3.name",
		CourseSelector: ".course a",
		DateSelector:   ".date",
		PendingMarker:  "Add submission",
		VerifyTLS:      true,
	}
}

func TestLoginSubmitsTokenAndCredentials(t *testing.T) {
	f := newFixture(t)
	c, err := New(testConfig(f.srv.URL, "hunter2"), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, c.Login(context.Background()))
	assert.Equal(t, "tok123", f.token)
}

func TestLoginRejected(t *testing.T) {
	f := newFixture(t)
	c, err := New(testConfig(f.srv.URL, "wrong"), zap.NewNop())
	require.NoError(t, err)

	err = c.Login(context.Background())
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestDayEventsRequiresLogin(t *testing.T) {
	f := newFixture(t)
	c, err := New(testConfig(f.srv.URL, "hunter2"), zap.NewNop())
	require.NoError(t, err)

	_, err = c.DayEvents(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestDayEventsParsesFragments(t *testing.T) {
	f := newFixture(t)
	c, err := New(testConfig(f.srv.URL, "hunter2"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Login(context.Background()))

	loc := time.FixedZone("UTC+5", 5*3600)
	day := time.Date(2025, 9, 1, 10, 30, 0, 0, loc)

	frags, err := c.DayEvents(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, frags, 2)

	assert.Equal(t, "Assignment 1", frags[0].Title)
	assert.Equal(t, "CS101", frags[0].Course)
	assert.Equal(t, "Monday, 1 September, 11:59 PM", frags[0].When)
	assert.Contains(t, frags[0].Text, "Add submission")

	// Missing elements come back empty; the extractor decides fallbacks.
	assert.Empty(t, frags[1].Course)
	assert.Empty(t, frags[1].When)

	// The query carries midnight of the target day in its own zone.
	midnight := time.Date(2025, 9, 1, 0, 0, 0, 0, loc)
	assert.Equal(t, "day", f.lastQuery["view"])
	assert.Equal(t, fmt.Sprint(midnight.Unix()), f.lastQuery["time"])
}

func TestDayEventsNoEventsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login/index.php" {
			if r.Method == http.MethodPost {
				http.Redirect(w, r, "/my/", http.StatusFound)
				return
			}
			fmt.Fprint(w, loginForm)
			return
		}
		fmt.Fprint(w, "<html><body><p>Nothing scheduled</p></body></html>")
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL, "hunter2"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Login(context.Background()))

	frags, err := c.DayEvents(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, frags)
}
