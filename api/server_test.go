package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"babblebridge/lang"
	"babblebridge/repositories"
	"babblebridge/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// prefixTranslator marks translated copies so assertions can tell the
// buckets apart without a real provider.
type prefixTranslator struct{}

func (prefixTranslator) Translate(_ context.Context, text string, source, target lang.Code) (string, error) {
	if source == target {
		return text, nil
	}
	return string(target) + ": " + text, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	roomSvc := services.NewRoomService(
		repositories.NewRoomRepository(db, log),
		repositories.NewDirectoryRepository(db, log),
		prefixTranslator{},
		log,
		time.Second,
	)
	authSvc := services.NewAuthService(repositories.NewUserRepository(db), time.Hour)
	return NewServer(authSvc, roomSvc, log)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	var parsed map[string]json.RawMessage
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp, parsed
}

func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email":           email,
		"password":        "Sup3r$ecretPass!",
		"username":        "Tester",
		"native_language": "English",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var token string
	require.NoError(t, json.Unmarshal(body["token"], &token))
	return token
}

func Test_API_Full_Flow(t *testing.T) {
	req := require.New(t)
	app := newTestApp(t)
	token := registerAndLogin(t, app, "alice@test.com")

	// Create a two-language room.
	resp, body := doJSON(t, app, http.MethodPost, "/v1/rooms", token, map[string]any{
		"participants": []map[string]string{
			{"id": "a", "username": "Alice", "native_language": "English"},
			{"id": "b", "username": "Bob", "native_language": "French"},
		},
	})
	req.Equal(http.StatusCreated, resp.StatusCode)

	var room struct {
		RoomCode string `json:"RoomCode"`
	}
	req.NoError(json.Unmarshal(body["room"], &room))
	req.Len(room.RoomCode, 6)

	var link string
	req.NoError(json.Unmarshal(body["link"], &link))
	req.Equal(fmt.Sprintf("babblebridge://room?code=%s", room.RoomCode), link)

	// Send a message, then read both buckets back.
	resp, _ = doJSON(t, app, http.MethodPost, "/v1/rooms/"+room.RoomCode+"/messages", token, map[string]string{
		"text":     "Hello",
		"language": "English",
	})
	req.Equal(http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/v1/rooms/"+room.RoomCode+"/messages?language=French", token, nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	var messages []struct {
		Text string `json:"Text"`
	}
	req.NoError(json.Unmarshal(body["messages"], &messages))
	req.Len(messages, 1)
	req.Equal("fr: Hello", messages[0].Text)
}

func Test_API_Requires_Token(t *testing.T) {
	req := require.New(t)
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/v1/rooms", "", nil)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/v1/rooms", "garbage-token", nil)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func Test_API_Unknown_Room_Is_404(t *testing.T) {
	req := require.New(t)
	app := newTestApp(t)
	token := registerAndLogin(t, app, "alice@test.com")

	resp, _ := doJSON(t, app, http.MethodGet, "/v1/rooms/999999", token, nil)
	req.Equal(http.StatusNotFound, resp.StatusCode)
}

func Test_API_Join_By_Link(t *testing.T) {
	req := require.New(t)
	app := newTestApp(t)
	token := registerAndLogin(t, app, "alice@test.com")

	resp, body := doJSON(t, app, http.MethodPost, "/v1/rooms", token, map[string]any{
		"participants": []map[string]string{
			{"id": "a", "username": "Alice", "native_language": "English"},
		},
	})
	req.Equal(http.StatusCreated, resp.StatusCode)
	var link string
	req.NoError(json.Unmarshal(body["link"], &link))

	joiner := registerAndLogin(t, app, "bob@test.com")
	resp, body = doJSON(t, app, http.MethodPost, "/v1/rooms/join", joiner, map[string]string{
		"link":            link,
		"username":        "Bob",
		"native_language": "French",
	})
	req.Equal(http.StatusOK, resp.StatusCode)

	var code string
	req.NoError(json.Unmarshal(body["room_code"], &code))

	resp, _ = doJSON(t, app, http.MethodGet, "/v1/rooms", joiner, nil)
	req.Equal(http.StatusOK, resp.StatusCode)
}
