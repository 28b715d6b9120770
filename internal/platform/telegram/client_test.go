package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var got sendMessageReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("TOKEN")
	c.BaseURL = srv.URL
	require.NoError(t, c.SendMessage(context.Background(), 42, "hello"))
	assert.Equal(t, int64(42), got.ChatID)
	assert.Equal(t, "hello", got.Text)
}

func TestSendMessageTruncates(t *testing.T) {
	var got sendMessageReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	c := NewClient("TOKEN")
	c.BaseURL = srv.URL
	require.NoError(t, c.SendMessage(context.Background(), 1, strings.Repeat("a", 5000)))
	assert.Len(t, got.Text, maxMessageLen)
	assert.True(t, strings.HasSuffix(got.Text, "..."))
}

func TestSendMessageCountsCharacters(t *testing.T) {
	var got sendMessageReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	c := NewClient("TOKEN")
	c.BaseURL = srv.URL

	short := strings.Repeat("₦", 2000)
	require.NoError(t, c.SendMessage(context.Background(), 1, short))
	assert.Equal(t, short, got.Text)

	require.NoError(t, c.SendMessage(context.Background(), 1, strings.Repeat("₦", 5000)))
	assert.Equal(t, maxMessageLen, utf8.RuneCountInString(got.Text))
	assert.True(t, utf8.ValidString(got.Text))
	assert.Equal(t, strings.Repeat("₦", maxMessageLen-3)+"...", got.Text)
}

func TestSendDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendDocument", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "7", r.FormValue("chat_id"))
		assert.Equal(t, "New assessment", r.FormValue("caption"))

		f, hdr, err := r.FormFile("document")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "report.md", hdr.Filename)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "# Report", string(data))
	}))
	defer srv.Close()

	c := NewClient("TOKEN")
	c.BaseURL = srv.URL
	require.NoError(t, c.SendDocument(context.Background(), 7, []byte("# Report"), "report.md", "New assessment"))
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	c := NewClient("TOKEN")
	c.BaseURL = srv.URL
	err := c.SendMessage(context.Background(), 1, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
