package http

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"videoprofiles/internal/profiles"
)

// ErrUnsupportedPicture is returned when the uploaded picture is not an accepted image type.
var ErrUnsupportedPicture = errors.New("unsupported profile picture type")

const pictureField = "profile_picture"

// SubmissionResponse is the body returned by ProfileSubmitAction.
type SubmissionResponse struct {
	profiles.Result
	Error string `json:"error,omitempty"`
}

// FormIndexAction serves the registration form definition
func FormIndexAction() fiber.Handler {
	form := profiles.RegistrationForm()
	return func(c *fiber.Ctx) error {
		return c.JSON(form)
	}
}

// ProfileSubmitAction accepts one registration and reports its outcome
func ProfileSubmitAction(submitter *profiles.Submitter, logger *slog.Logger) fiber.Handler {
	form := profiles.RegistrationForm()

	return func(c *fiber.Ctx) error {
		values, err := readSubmission(c, form)
		if err != nil {
			if errors.Is(err, ErrUnsupportedPicture) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			logger.Warn("Unreadable profile submission", slog.Any("error", err))
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		candidate, err := profiles.DecodeCandidate(values)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(SubmissionResponse{
				Result: profiles.ResultFor(nil, err),
				Error:  err.Error(),
			})
		}

		profile, err := submitter.Submit(c.UserContext(), candidate)
		result := profiles.ResultFor(profile, err)

		switch {
		case err == nil:
			return c.Status(fiber.StatusCreated).JSON(SubmissionResponse{Result: result})
		case errors.Is(err, profiles.ErrDuplicateUsername):
			return c.Status(fiber.StatusConflict).JSON(SubmissionResponse{Result: result})
		case errors.Is(err, profiles.ErrInvalidCandidate):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(SubmissionResponse{
				Result: result,
				Error:  err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(SubmissionResponse{Result: result})
		}
	}
}

// readSubmission turns the request body into a mapping keyed by column name.
// Multi-select fields keep every submitted value in order, other fields keep the first.
// Only an uploaded picture file is checked; a picture reference sent as text is kept as is.
func readSubmission(c *fiber.Ctx, form profiles.Form) (map[string]any, error) {
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		values := map[string]any{}
		if err := c.BodyParser(&values); err != nil {
			return nil, err
		}
		return values, nil

	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		multipart, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		values := collectValues(form, multipart.Value)
		if files := multipart.File[pictureField]; len(files) > 0 && files[0].Filename != "" {
			name, err := pictureName(files[0].Filename)
			if err != nil {
				return nil, err
			}
			values[pictureField] = name
		}
		return values, nil

	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		raw := map[string][]string{}
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			k := string(key)
			raw[k] = append(raw[k], string(value))
		})
		return collectValues(form, raw), nil
	}

	return nil, fmt.Errorf("unsupported content type %q", contentType)
}

func collectValues(form profiles.Form, raw map[string][]string) map[string]any {
	values := make(map[string]any, len(raw))
	for key, submitted := range raw {
		if len(submitted) == 0 {
			continue
		}
		if field, ok := form.Field(key); ok && field.Kind == profiles.KindMultiSelect {
			values[key] = submitted
			continue
		}
		values[key] = submitted[0]
	}
	return values
}

// pictureName reduces an uploaded file name to its base name and checks its extension.
func pictureName(filename string) (string, error) {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(profiles.PictureExtensions, ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPicture, name)
	}
	return name, nil
}
