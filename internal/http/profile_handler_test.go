package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videoprofiles/internal/profiles"
	"videoprofiles/internal/testsupport"
)

func decodeSubmission(t *testing.T, body io.Reader) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload
}

func TestProfileSubmitAction(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)

	t.Run("urlencoded submission with repeated multi-select keys", func(t *testing.T) {
		testsupport.CleanProfiles(db)

		form := url.Values{}
		form.Set("full_name", "Alice Smith")
		form.Set("username", "alice")
		form.Set("email", "alice@example.com")
		form.Add("skills", "Video Editing")
		form.Add("skills", "Drone Videography")
		form.Set("experience_level", "Expert")

		req := httptest.NewRequest(fiber.MethodPost, "/profiles", strings.NewReader(form.Encode()))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

		payload := decodeSubmission(t, resp.Body)
		assert.Equal(t, string(profiles.OutcomeSuccess), payload["outcome"])
		assert.Equal(t, profiles.MessageSuccess, payload["message"])
		assert.NotZero(t, payload["id"])

		stored := testsupport.FindProfile(t, db, "alice")
		assert.Equal(t, "Video Editing, Drone Videography", stored.Skills)
		assert.Equal(t, "Expert", stored.ExperienceLevel)
		assert.Nil(t, stored.ProfilePicture)
	})

	t.Run("duplicate username returns conflict", func(t *testing.T) {
		testsupport.CleanProfiles(db)
		testsupport.CreateTestProfile(t, db, "alice")

		body, _ := json.Marshal(map[string]any{
			"full_name": "Another Alice",
			"username":  "alice",
			"email":     "other@example.com",
		})
		req := httptest.NewRequest(fiber.MethodPost, "/profiles", bytes.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

		payload := decodeSubmission(t, resp.Body)
		assert.Equal(t, string(profiles.OutcomeDuplicateUsername), payload["outcome"])
		assert.Contains(t, payload["message"], `"alice"`)
		assert.EqualValues(t, 1, testsupport.CountProfiles(t, db, "alice"))
	})

	t.Run("json submission joins list values", func(t *testing.T) {
		testsupport.CleanProfiles(db)

		body, _ := json.Marshal(map[string]any{
			"full_name":       "Bob",
			"username":        "bob",
			"email":           "bob@example.com",
			"specialization":  []string{"Music Videos", "Short Films"},
			"follower_count":  1500,
			"profile_picture": "bob.png",
		})
		req := httptest.NewRequest(fiber.MethodPost, "/profiles", bytes.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		stored := testsupport.FindProfile(t, db, "bob")
		assert.Equal(t, "Music Videos, Short Films", stored.Specialization)
		assert.Equal(t, "1500", stored.FollowerCount)
		require.NotNil(t, stored.ProfilePicture)
		assert.Equal(t, "bob.png", *stored.ProfilePicture)
	})

	t.Run("picture references sent as text are stored as sent", func(t *testing.T) {
		testsupport.CleanProfiles(db)

		body, _ := json.Marshal(map[string]any{
			"full_name":       "Carol",
			"username":        "carol",
			"email":           "carol@example.com",
			"profile_picture": "https://cdn.example.com/p/123",
		})
		req := httptest.NewRequest(fiber.MethodPost, "/profiles", bytes.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		form := url.Values{}
		form.Set("full_name", "Dan")
		form.Set("username", "dan")
		form.Set("email", "dan@example.com")
		form.Set("profile_picture", `C:\photos\dan`)

		req = httptest.NewRequest(fiber.MethodPost, "/profiles", strings.NewReader(form.Encode()))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

		resp, err = app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		carol := testsupport.FindProfile(t, db, "carol")
		require.NotNil(t, carol.ProfilePicture)
		assert.Equal(t, "https://cdn.example.com/p/123", *carol.ProfilePicture)

		dan := testsupport.FindProfile(t, db, "dan")
		require.NotNil(t, dan.ProfilePicture)
		assert.Equal(t, `C:\photos\dan`, *dan.ProfilePicture)
	})

	t.Run("multipart submission stores the picture file name", func(t *testing.T) {
		testsupport.CleanProfiles(db)

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.WriteField("full_name", "Carol"))
		require.NoError(t, writer.WriteField("username", "carol"))
		require.NoError(t, writer.WriteField("email", "carol@example.com"))
		require.NoError(t, writer.WriteField("compensation", "Negotiable"))
		require.NoError(t, writer.WriteField("compensation", "Hourly Rates"))
		part, err := writer.CreateFormFile("profile_picture", "headshot.JPG")
		require.NoError(t, err)
		_, err = part.Write([]byte("not really a jpeg"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(fiber.MethodPost, "/profiles", &buf)
		req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		stored := testsupport.FindProfile(t, db, "carol")
		require.NotNil(t, stored.ProfilePicture)
		assert.Equal(t, "headshot.JPG", *stored.ProfilePicture)
		assert.Equal(t, "Negotiable, Hourly Rates", stored.Compensation)
	})

	t.Run("unsupported picture type is rejected", func(t *testing.T) {
		testsupport.CleanProfiles(db)

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		require.NoError(t, writer.WriteField("full_name", "Dan"))
		require.NoError(t, writer.WriteField("username", "dan"))
		require.NoError(t, writer.WriteField("email", "dan@example.com"))
		part, err := writer.CreateFormFile("profile_picture", "payload.exe")
		require.NoError(t, err)
		_, err = part.Write([]byte("MZ"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(fiber.MethodPost, "/profiles", &buf)
		req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Zero(t, testsupport.CountProfiles(t, db, "dan"))
	})

	t.Run("missing required field is unprocessable", func(t *testing.T) {
		testsupport.CleanProfiles(db)

		form := url.Values{}
		form.Set("username", "erin")
		form.Set("email", "erin@example.com")

		req := httptest.NewRequest(fiber.MethodPost, "/profiles", strings.NewReader(form.Encode()))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

		payload := decodeSubmission(t, resp.Body)
		assert.Equal(t, string(profiles.OutcomeFailure), payload["outcome"])
		assert.Contains(t, payload["error"], "full_name is required")
		assert.Zero(t, testsupport.CountProfiles(t, db, "erin"))
	})

	t.Run("unknown field is unprocessable", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"id":        7,
			"full_name": "Frank",
			"username":  "frank",
			"email":     "frank@example.com",
		})
		req := httptest.NewRequest(fiber.MethodPost, "/profiles", bytes.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		assert.Zero(t, testsupport.CountProfiles(t, db, "frank"))
	})

	t.Run("unsupported content type is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/profiles", strings.NewReader("username=gina"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMETextPlain)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/profiles", strings.NewReader("{"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestProfileSubmitActionConcurrentDuplicates(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)

	const attempts = 8
	statuses := make([]int, attempts)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			form := url.Values{}
			form.Set("full_name", "Racer")
			form.Set("username", "racer")
			form.Set("email", "racer@example.com")

			req := httptest.NewRequest(fiber.MethodPost, "/profiles", strings.NewReader(form.Encode()))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

			resp, err := app.Test(req, -1)
			if err == nil {
				statuses[i] = resp.StatusCode
			}
		}()
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, status := range statuses {
		switch status {
		case fiber.StatusCreated:
			created++
		case fiber.StatusConflict:
			conflicts++
		}
	}

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)
	assert.EqualValues(t, 1, testsupport.CountProfiles(t, db, "racer"))
}

func TestFormIndexAction(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/form", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var form profiles.Form
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&form))
	assert.Equal(t, profiles.RegistrationForm().Title, form.Title)
	assert.Len(t, form.Fields(), len(profiles.Columns)-1)

	field, ok := form.Field("experience_level")
	require.True(t, ok)
	assert.Equal(t, profiles.ExperienceLevels, field.Options)
}

func TestHealthIndexAction(t *testing.T) {
	t.Run("healthy with schema", func(t *testing.T) {
		db := testsupport.SetupTestDB(t)
		app := testsupport.CreateMinimalTestApp(t, db)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/_health", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		payload := decodeSubmission(t, resp.Body)
		assert.Equal(t, "ok", payload["status"])
		assert.Equal(t, "ok", payload["db_status"])
		assert.Equal(t, true, payload["profiles_table"])

		head, err := app.Test(httptest.NewRequest(fiber.MethodHead, "/_health", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, head.StatusCode)
	})

	t.Run("degraded without a connection", func(t *testing.T) {
		app := testsupport.CreateMinimalTestApp(t, nil)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/_health", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

		payload := decodeSubmission(t, resp.Body)
		assert.Equal(t, "degraded", payload["status"])
		assert.Equal(t, "error", payload["db_status"])
	})
}
