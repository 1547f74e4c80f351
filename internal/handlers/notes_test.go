package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type noteListBody struct {
	NoteListItems []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"noteListItems"`
}

func createNote(t *testing.T, env *testEnv, cookie *http.Cookie, title string, body string) string {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/notes", url.Values{
		"title": {title},
		"body":  {body},
	}, cookie)
	require.Equal(t, http.StatusFound, w.Code)

	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/notes/"))
	return strings.TrimPrefix(location, "/notes/")
}

func listNotes(t *testing.T, env *testEnv, cookie *http.Cookie) noteListBody {
	t.Helper()

	w := env.do(t, http.MethodGet, "/api/notes", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var body noteListBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestNoteLifecycleAcrossOwners(t *testing.T) {
	env := newTestEnv(t)
	alice := env.join(t, "alice@example.com", "password123")
	bob := env.join(t, "bob@example.com", "password456")

	noteID := createNote(t, env, alice, "Shopping", "Milk")

	// Alice sees exactly her note.
	body := listNotes(t, env, alice)
	require.Len(t, body.NoteListItems, 1)
	require.Equal(t, noteID, body.NoteListItems[0].ID)
	require.Equal(t, "Shopping", body.NoteListItems[0].Title)

	// Bob cannot see, fetch or delete it; absence and foreign ownership look
	// the same.
	require.Empty(t, listNotes(t, env, bob).NoteListItems)

	w := env.do(t, http.MethodGet, "/api/notes/"+noteID, nil, bob)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/notes/"+noteID, nil, bob)
	require.Equal(t, http.StatusNotFound, w.Code)

	missing := env.do(t, http.MethodGet, "/api/notes/does-not-exist", nil, bob)
	require.Equal(t, missing.Body.String(), w.Body.String())

	// The owner can still read it, then delete it.
	w = env.do(t, http.MethodGet, "/api/notes/"+noteID, nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Milk")

	w = env.do(t, http.MethodDelete, "/api/notes/"+noteID, nil, alice)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/notes/"+noteID, nil, alice)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Empty(t, listNotes(t, env, alice).NoteListItems)
}

func TestListNeverMixesOwners(t *testing.T) {
	env := newTestEnv(t)
	alice := env.join(t, "alice@example.com", "password123")
	bob := env.join(t, "bob@example.com", "password456")

	createNote(t, env, alice, "a1", "body")
	bobNote := createNote(t, env, bob, "b1", "body")
	createNote(t, env, alice, "a2", "body")
	require.Equal(t, http.StatusNoContent,
		env.do(t, http.MethodDelete, "/api/notes/"+bobNote, nil, bob).Code)
	createNote(t, env, bob, "b2", "body")

	aliceList := listNotes(t, env, alice)
	require.Len(t, aliceList.NoteListItems, 2)
	// Newest first.
	require.Equal(t, "a2", aliceList.NoteListItems[0].Title)
	require.Equal(t, "a1", aliceList.NoteListItems[1].Title)

	bobList := listNotes(t, env, bob)
	require.Len(t, bobList.NoteListItems, 1)
	require.Equal(t, "b2", bobList.NoteListItems[0].Title)
}

func TestCreateNoteValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.join(t, "alice@example.com", "password123")

	w := env.do(t, http.MethodPost, "/api/notes", url.Values{"body": {"Milk"}}, alice)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Title is required")

	w = env.do(t, http.MethodPost, "/api/notes", url.Values{"title": {"Shopping"}}, alice)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Body is required")
}

func TestNotesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/notes", nil, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login?redirectTo=%2Fapi%2Fnotes", w.Header().Get("Location"))
}
