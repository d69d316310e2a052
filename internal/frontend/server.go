// Package frontend serves the server-rendered pages and proxies /api to the
// backend.
package frontend

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
)

const localeCookieMaxAge = 60 * 60 * 24 * 365

var legacyChartPath = regexp.MustCompile(`levels/chcy-([0-9a-zA-Z]+)`)

const localeKey = "locale"

type Server struct {
	backendURL string
	client     *Client
	translator *Translator
	pages      *Pages
}

func NewServer(backendURL string, client *Client, translator *Translator, pages *Pages) *Server {
	return &Server{
		backendURL: strings.TrimSuffix(backendURL, "/"),
		client:     client,
		translator: translator,
		pages:      pages,
	}
}

// Register mounts the proxy, redirects and pages on app.
func (s *Server) Register(app *fiber.App) {
	app.All("/api/*", s.proxyAPI)

	app.Use(s.redirectLocalePrefix)
	app.Use(s.redirectLegacyChart)
	app.Use(s.detectLocale)

	app.Get("/", s.home)
	app.Get("/users/:handle", s.user)
	app.Get("/charts/:name", s.chart)
	app.Use(s.notFound)
}

func (s *Server) proxyAPI(c *fiber.Ctx) error {
	// replaces any client supplied value
	c.Request().Header.Set(fiber.HeaderXForwardedFor, c.IP())
	return proxy.Do(c, s.backendURL+c.OriginalURL())
}

func callerOf(c *fiber.Ctx) Caller {
	return Caller{Cookie: c.Get(fiber.HeaderCookie), IP: c.IP()}
}

// stripLocalePrefix returns the path without a leading /ja or /en segment
// and the locale it named.
func stripLocalePrefix(path string) (string, string, bool) {
	for _, locale := range Locales {
		prefix := "/" + locale
		if path == prefix {
			return "/", locale, true
		}
		if strings.HasPrefix(path, prefix+"/") {
			return strings.TrimPrefix(path, prefix), locale, true
		}
	}
	return path, "", false
}

func (s *Server) redirectLocalePrefix(c *fiber.Ctx) error {
	rest, locale, ok := stripLocalePrefix(c.Path())
	if !ok {
		return c.Next()
	}

	c.Cookie(&fiber.Cookie{
		Name:     LocaleCookie,
		Value:    locale,
		Path:     "/",
		MaxAge:   localeCookieMaxAge,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	if q := string(c.Request().URI().QueryString()); q != "" {
		rest += "?" + q
	}
	return c.Redirect(rest, fiber.StatusPermanentRedirect)
}

func (s *Server) redirectLegacyChart(c *fiber.Ctx) error {
	m := legacyChartPath.FindStringSubmatch(c.Path())
	if m == nil {
		return c.Next()
	}
	return c.Redirect("/charts/"+m[1], fiber.StatusPermanentRedirect)
}

func (s *Server) detectLocale(c *fiber.Ctx) error {
	c.Locals(localeKey, s.translator.Detect(c.Cookies(LocaleCookie), c.Get(fiber.HeaderAcceptLanguage)))
	return c.Next()
}

func (s *Server) messages(c *fiber.Ctx) *Messages {
	locale, _ := c.Locals(localeKey).(string)
	if locale == "" {
		locale = DefaultLocale
	}
	return s.translator.Messages(locale)
}

func (s *Server) render(c *fiber.Ctx, status int, page, title string, data any) error {
	msgs := s.messages(c)
	if title == "" {
		title = msgs.T("root_name")
	} else {
		title += " | " + msgs.T("root_name")
	}

	body, err := s.pages.Render(page, msgs, PageData{Title: title, Path: c.Path(), Data: data})
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(body)
}

func (s *Server) home(c *fiber.Ctx) error {
	charts, err := s.client.Charts(c.UserContext(), callerOf(c))
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "home", "", charts)
}

func (s *Server) user(c *fiber.Ctx) error {
	profile, err := LoadProfile(c.UserContext(), s.client, callerOf(c), c.Params("handle"))
	if errors.Is(err, ErrNotFound) {
		return s.notFound(c)
	}
	if err != nil {
		return err
	}
	title := profile.User.Name + "#" + profile.User.Handle
	return s.render(c, fiber.StatusOK, "user", title, profile)
}

func (s *Server) chart(c *fiber.Ctx) error {
	chart, err := s.client.Chart(c.UserContext(), callerOf(c), c.Params("name"))
	if err != nil {
		return err
	}
	if chart == nil {
		return s.notFound(c)
	}
	return s.render(c, fiber.StatusOK, "chart", chart.Title, chart)
}

func (s *Server) notFound(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusNotFound, "not_found", s.messages(c).T("notfound_title"), nil)
}

// ErrorHandler renders the localized error page for failures that escaped
// the page handlers.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	var be *BackendError
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.As(err, &be) && be.Status == fiber.StatusTooManyRequests:
		code = fiber.StatusTooManyRequests
	}
	if code == fiber.StatusNotFound {
		return s.notFound(c)
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("page render failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
	}

	msgs := s.messages(c)
	body, rerr := s.pages.Render("error", msgs, PageData{Title: msgs.T("error_title") + " | " + msgs.T("root_name"), Path: c.Path()})
	if rerr != nil {
		return c.Status(code).SendString(msgs.T("error_title"))
	}
	c.Type("html", "utf-8")
	return c.Status(code).Send(body)
}
