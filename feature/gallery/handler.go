package gallery

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"photo-gallery/core/logger"
	"photo-gallery/feature/gallery/dirconfig"
	"photo-gallery/feature/gallery/models"
	"photo-gallery/feature/gallery/variant"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// credentialCookiePrefix prefixes the per-path cookies remembering passwords
// the client already presented.
const credentialCookiePrefix = "gallery_pw_"

// Handler handles HTTP requests for the gallery.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the gallery routes. The catch-all gallery route
// must come last so the photo routes keep precedence.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/.photo/:uid", h.HandleGetPhoto)
	app.Get("/.photo/:uid/thumbnail", h.HandleGetThumbnail)
	app.Get("/.photo/:uid/large", h.HandleGetLarge)
	app.Get("/.photo/:uid/download", h.HandleDownloadPhoto)
	app.Get("/", h.HandleGallery)
	app.Get("/*", h.HandleGallery)
}

// HandleGallery reconciles and returns the photo listing for a path, or its
// navigation data when the nav query flag is set.
// @Summary Browse a gallery path
// @Produce json
// @Param path path string false "Gallery path"
// @Param start query int false "First photo to return"
// @Param count query int false "Number of photos to return"
// @Param uid query string false "Narrow the listing to a single photo"
// @Param nav query bool false "Return navigation data instead of photos"
// @Router /{path} [get]
func (h *Handler) HandleGallery(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	path := "/" + c.Params("*")
	creds := h.credentialsFrom(c, path)

	if c.Query("nav") != "" {
		return h.renderNav(c, l, path, creds)
	}

	photos, total, err := h.service.Browse(c.Context(), path, creds,
		c.QueryInt("start", 0), c.QueryInt("count", 0), c.Query("uid"))
	if err != nil {
		return h.renderError(c, l, err)
	}
	return c.JSON(fiber.Map{
		"path":   dirconfig.Normalize(path),
		"photos": photos,
		"total":  total,
	})
}

func (h *Handler) renderNav(c *fiber.Ctx, l *zap.Logger, path string, creds dirconfig.Credentials) error {
	subdirs, err := h.service.ListVisibleSubdirs(path, creds, false)
	if err != nil {
		return h.renderError(c, l, err)
	}

	path = dirconfig.Normalize(path)
	segments := []string{}
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return c.JSON(fiber.Map{
		"is_root":  path == "/",
		"path":     path,
		"parent":   dirconfig.Parent(path),
		"segments": segments,
		"subdirs":  subdirs,
	})
}

// HandleGetPhoto streams a photo's original file.
// @Summary Get a photo's original file
// @Produce image/jpeg
// @Param uid path string true "Photo uid"
// @Router /.photo/{uid} [get]
func (h *Handler) HandleGetPhoto(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	photo, err := h.service.GetPhotoRecord(c.Context(), c.Params("uid"))
	if err != nil {
		return h.renderError(c, l, err)
	}
	return c.SendFile(h.service.SourcePath(photo))
}

// HandleGetThumbnail streams a photo's thumbnail rendition.
// @Summary Get a photo's thumbnail
// @Produce image/jpeg
// @Param uid path string true "Photo uid"
// @Router /.photo/{uid}/thumbnail [get]
func (h *Handler) HandleGetThumbnail(c *fiber.Ctx) error {
	return h.sendVariant(c, variant.Thumbnail)
}

// HandleGetLarge streams a photo's large-view rendition.
// @Summary Get a photo's large view
// @Produce image/jpeg
// @Param uid path string true "Photo uid"
// @Router /.photo/{uid}/large [get]
func (h *Handler) HandleGetLarge(c *fiber.Ctx) error {
	return h.sendVariant(c, variant.Large)
}

func (h *Handler) sendVariant(c *fiber.Ctx, kind variant.Kind) error {
	l := logger.WithRayID(h.service.logger, c)
	path, err := h.service.GetVariant(c.Context(), c.Params("uid"), kind)
	if err != nil {
		return h.renderError(c, l, err)
	}
	return c.SendFile(path)
}

// HandleDownloadPhoto streams a photo's original file as an attachment named
// after its uid instead of the original filename.
// @Summary Download a photo
// @Produce image/jpeg
// @Param uid path string true "Photo uid"
// @Router /.photo/{uid}/download [get]
func (h *Handler) HandleDownloadPhoto(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	photo, err := h.service.GetPhotoRecord(c.Context(), c.Params("uid"))
	if err != nil {
		return h.renderError(c, l, err)
	}
	return c.Download(h.service.SourcePath(photo), h.service.DownloadName(photo))
}

// credentialsFrom collects the passwords the client presents: one cookie per
// previously unlocked path, plus an optional base64 Authorization header that
// applies to the requested path. A header that satisfies the path's password
// is remembered in a cookie so the client doesn't have to resend it.
func (h *Handler) credentialsFrom(c *fiber.Ctx, path string) dirconfig.Credentials {
	creds := dirconfig.Credentials{}

	c.Request().Header.VisitAllCookie(func(key, value []byte) {
		name := string(key)
		if !strings.HasPrefix(name, credentialCookiePrefix) {
			return
		}
		p, err := url.QueryUnescape(strings.TrimPrefix(name, credentialCookiePrefix))
		if err != nil {
			return
		}
		creds[p] = string(value)
	})

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return creds
	}
	decoded, err := base64.StdEncoding.DecodeString(header)
	if err != nil || !utf8.Valid(decoded) {
		logger.WithRayID(h.service.logger, c).Warn("ignoring invalid authorization header")
		return creds
	}
	secret := string(decoded)

	path = dirconfig.Normalize(path)
	creds[path] = secret
	if h.service.CheckCredential(path, secret) {
		c.Cookie(&fiber.Cookie{
			Name:     credentialCookiePrefix + url.QueryEscape(path),
			Value:    secret,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteStrictMode,
		})
	}
	return creds
}

// renderError maps the gallery error taxonomy onto HTTP statuses. Not-found
// and corrupt-source collapse to 404 so responses don't reveal whether a
// protected or broken resource exists.
func (h *Handler) renderError(c *fiber.Ctx, l *zap.Logger, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrCorruptSource):
		if errors.Is(err, models.ErrCorruptSource) {
			l.Error("source photo is corrupted", zap.Error(err))
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not found",
		})
	case errors.Is(err, models.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, models.ErrWriteConflict):
		l.Warn("catalog write conflict", zap.Error(err))
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "the gallery changed while loading, retry the request",
		})
	default:
		l.Error("gallery request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
