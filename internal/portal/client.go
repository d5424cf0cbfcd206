package portal

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Asimsayam/lms-automation-bot/internal/config"
	"github.com/Asimsayam/lms-automation-bot/internal/domain/deadline"
)

var (
	ErrNotLoggedIn = errors.New("portal: not logged in")
	ErrLoginFailed = errors.New("portal: login rejected")
)

// Client is an authenticated Moodle session over plain HTTP with a cookie
// jar. It implements deadline.Portal and is used sequentially by one run.
type Client struct {
	cfg      config.Portal
	base     *url.URL
	http     *http.Client
	log      *zap.Logger
	loggedIn bool
}

func New(cfg config.Portal, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS},
	}
	return &Client{
		cfg:  cfg,
		base: base,
		http: &http.Client{
			Jar:       jar,
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		log: log.With(zap.String("component", "portal.client")),
	}, nil
}

// Login fetches the login form, carries over its logintoken and submits
// the credentials. Moodle redirects away from the login page on success;
// a response that still shows the password field means rejection.
func (c *Client) Login(ctx context.Context) error {
	loginURL := c.base.ResolveReference(&url.URL{Path: c.cfg.LoginPath}).String()

	start := time.Now()
	doc, err := c.getDoc(ctx, loginURL)
	if err != nil {
		return fmt.Errorf("fetch login page: %w", err)
	}

	form := url.Values{
		"username": {c.cfg.Username},
		"password": {c.cfg.Password},
	}
	if token, ok := doc.Find(`input[name="logintoken"]`).Attr("value"); ok {
		form.Set("logintoken", token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit login: %w", err)
	}
	defer resp.Body.Close()

	after, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parse login response: %w", err)
	}
	if after.Find(`input[name="password"]`).Length() > 0 {
		c.log.Warn("login rejected", zap.String("username", c.cfg.Username))
		return ErrLoginFailed
	}

	c.loggedIn = true
	c.log.Info("logged in", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// DayEvents fetches the calendar day view containing day and returns its
// event fragments. An absent event list degrades to zero fragments; only
// transport-level failures surface as errors.
func (c *Client) DayEvents(ctx context.Context, day time.Time) ([]deadline.Fragment, error) {
	if !c.loggedIn {
		return nil, ErrNotLoggedIn
	}

	y, m, d := day.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, day.Location())

	u := c.base.ResolveReference(&url.URL{
		Path: "/calendar/view.php",
		RawQuery: url.Values{
			"view": {"day"},
			"time": {strconv.FormatInt(midnight.Unix(), 10)},
		}.Encode(),
	}).String()

	doc, err := c.getDoc(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch day view %s: %w", midnight.Format("2006-01-02"), err)
	}

	frags := collectFragments(doc, c.cfg)
	if len(frags) == 0 {
		c.log.Debug("no events on day view", zap.String("day", midnight.Format("2006-01-02")))
	}
	return frags, nil
}

func (c *Client) getDoc(ctx context.Context, u string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}
