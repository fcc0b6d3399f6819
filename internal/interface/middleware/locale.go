package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	CtxLocaleKey     = "locale"
	localeCookieName = "locale"
)

// Locale is the default continuation behind the gate. A path already carrying
// a supported locale prefix is recorded and passed on; anything else is
// redirected to its localized form, picking the locale from the cookie, then
// Accept-Language, then the default.
func Locale(locales []string, defaultLocale string) gin.HandlerFunc {
	tags := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		tags = append(tags, language.Make(l))
	}
	matcher := language.NewMatcher(tags)

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !isPageRequest(path) {
			c.Next()
			return
		}

		if locale, _ := SplitLocale(path, locales); locale != "" {
			c.Set(CtxLocaleKey, locale)
			c.Next()
			return
		}

		locale := resolveLocale(c, locales, matcher, defaultLocale)
		target := "/" + locale + path
		if path == "/" {
			target = "/" + locale
		}
		if q := c.Request.URL.RawQuery; q != "" {
			target += "?" + q
		}
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

func resolveLocale(c *gin.Context, locales []string, matcher language.Matcher, def string) string {
	if v, err := c.Cookie(localeCookieName); err == nil {
		for _, l := range locales {
			if v == l {
				return l
			}
		}
	}
	if accept := c.GetHeader("Accept-Language"); accept != "" {
		if prefs, _, err := language.ParseAcceptLanguage(accept); err == nil {
			_, idx, conf := matcher.Match(prefs...)
			if conf > language.No && idx < len(locales) {
				return locales[idx]
			}
		}
	}
	return def
}
