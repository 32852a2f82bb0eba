package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"galleryapi/internal/imaging"
	"galleryapi/internal/model"
	"galleryapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; all gallery rules live in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, uploads service.UploadService, photos service.PhotoService, users service.UserService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/photos", UploadPhoto(uploads))
	app.Get("/photos", RecentPhotos(photos))
	app.Post("/photos/search", SearchPhotos(photos))
	app.Get("/photos/:id", GetPhoto(photos))
	app.Get("/photos/:id/file", StreamPhotoFile(photos))
	app.Get("/photos/:id/download", DownloadPhoto(photos))
	app.Get("/photos/:id/processed", DownloadProcessedPhoto(photos))
	app.Put("/photos/:id", EditPhotoMetadata(photos))
	app.Delete("/photos/:id", DeletePhoto(photos))

	app.Get("/users/:id", GetUser(users))
	app.Post("/users/:id/plan", ChangeUserPlan(users))

	app.Get("/admin/logs", RecentAuditLogs(photos))
}

// HealthCheck reports readiness: the database must answer a ping.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is the plain liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadPhoto accepts a multipart upload (field name: file) plus optional
// description and tags form fields.
func UploadPhoto(uploads service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := model.ActorFromContext(c.UserContext())
		if !ok || actor.ID == "" {
			return writeError(c, fiber.StatusUnauthorized, "AUTH_REQUIRED", "X-User-ID header is required")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		photo, err := uploads.Admit(c.UserContext(), service.UploadRequest{
			UserID:      actor.ID,
			Content:     f,
			Size:        fh.Size,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Description: c.FormValue("description"),
			RawTags:     c.FormValue("tags"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(photo)
	}
}

// GetPhoto returns photo metadata including tags.
func GetPhoto(photos service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := photoID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		photo, err := photos.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(photo)
	}
}

// StreamPhotoFile serves the original blob inline with its stored content type.
func StreamPhotoFile(photos service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := photoID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, photo, err := photos.OpenOriginal(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, photo.ContentType)
		return c.SendStream(rc)
	}
}

// DownloadPhoto serves the original blob as an attachment under its original
// filename.
func DownloadPhoto(photos service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := photoID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, photo, err := photos.DownloadOriginal(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, photo.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+photo.OriginalFilename+`"`)
		return c.SendStream(rc)
	}
}

// DownloadProcessedPhoto runs the blob through the image pipeline. Variant
// options come from query parameters: format, width, height, sepia, blur.
func DownloadProcessedPhoto(photos service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := photoID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		opts := imaging.Options{
			Format:       strings.ToLower(c.Query("format")),
			ResizeWidth:  c.QueryInt("width"),
			ResizeHeight: c.QueryInt("height"),
			Sepia:        c.QueryBool("sepia"),
		}
		if raw := c.Query("blur"); raw != "" {
			blur, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BLUR", "invalid blur value")
			}
			opts.Blur = blur
		}

		res, err := photos.DownloadProcessed(c.UserContext(), id, opts)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, res.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
		return c.Send(res.Data)
	}
}

type editMetadataRequest struct {
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

// EditPhotoMetadata updates a photo's description and tag set.
func EditPhotoMetadata(photos service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := photoID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body editMetadataRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := photos.EditMetadata(c.UserContext(), id, body.Description, body.Tags); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeletePhoto removes the blob and the metadata record.
func DeletePhoto(photos service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := photoID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := photos.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type searchRequest struct {
	AuthorEmail string  `json:"author_email"`
	MinSizeMB   float64 `json:"min_size_mb"`
	MaxSizeMB   float64 `json:"max_size_mb"`
	FromDate    string  `json:"from_date"`
	ToDate      string  `json:"to_date"`
	Tags        string  `json:"tags"`
}

// SearchPhotos filters photos by author, size, upload date and tags. Dates
// use the 2006-01-02 form; the to-date is inclusive.
func SearchPhotos(photos service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body searchRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		params := service.SearchParams{
			AuthorEmail: body.AuthorEmail,
			MinSizeMB:   body.MinSizeMB,
			MaxSizeMB:   body.MaxSizeMB,
			RawTags:     body.Tags,
		}
		if body.FromDate != "" {
			from, err := time.Parse("2006-01-02", body.FromDate)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "from_date must be YYYY-MM-DD")
			}
			params.FromDate = from
		}
		if body.ToDate != "" {
			to, err := time.Parse("2006-01-02", body.ToDate)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "to_date must be YYYY-MM-DD")
			}
			params.ToDate = to
		}

		items, err := photos.Search(c.UserContext(), params)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items, "count": len(items)})
	}
}

// RecentPhotos lists the newest photos.
func RecentPhotos(photos service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := photos.Recent(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items, "count": len(items)})
	}
}

// GetUser returns a user's plan and quota state.
func GetUser(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := users.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

type changePlanRequest struct {
	Plan string `json:"plan"`
}

// ChangeUserPlan switches a user's subscription tier.
func ChangeUserPlan(users service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body changePlanRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		tier := model.PlanTier(strings.ToLower(strings.TrimSpace(body.Plan)))
		if err := users.ChangePlan(c.UserContext(), c.Params("id"), tier); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RecentAuditLogs lists the newest audit entries for the admin view.
func RecentAuditLogs(photos service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := photos.RecentAuditEntries(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items, "count": len(items)})
	}
}

var errInvalidID = errors.New("invalid id format")

// photoID validates the :id path parameter.
func photoID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", errInvalidID
	}
	return id, nil
}
