package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestGetBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/conditions":
			w.Header().Set("ETag", "\"v1\"")
			w.Header().Set("X-Agent", r.UserAgent())
			_, _ = fmt.Fprint(w, "<html></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "ferrycast-test")

	t.Run("ok", func(t *testing.T) {
		is := is.New(t)
		body, info, err := client.GetBytes(context.Background(), server.URL+"/conditions")
		is.NoErr(err)
		is.Equal(string(body), "<html></html>")
		is.Equal(info.ETag, "\"v1\"")
		is.Equal(info.Path, server.URL+"/conditions")
		is.True(!info.IsDifferent("\"v1\"", 0))
		is.True(info.IsDifferent("\"v0\"", 0))
	})

	t.Run("not found", func(t *testing.T) {
		is := is.New(t)
		_, _, err := client.GetBytes(context.Background(), server.URL+"/missing")
		is.True(err != nil)
	})
}

func TestIsDifferentWithoutVersionInformation(t *testing.T) {
	is := is.New(t)
	info := RemoteFileInfo{}
	is.True(info.IsDifferent("", 0))
	info.LastModifiedTimestamp = 100
	is.True(!info.IsDifferent("", 100))
	is.True(info.IsDifferent("", 101))
}
