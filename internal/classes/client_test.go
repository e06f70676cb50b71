package classes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/classes", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":1,"name":"Spanish A1","level":"beginner","teacher":"Ms. Ortega",`+
			`"days":["Mon","Wed"],"start_time":"18:00","end_time":"19:30","capacity":12,"enrolled":9}]`)
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL+"/api/", srv.Client()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, "Spanish A1", got[0].Name)
	assert.Equal(t, []string{"Mon", "Wed"}, got[0].Days)
	assert.Equal(t, "18:00", got[0].StartTime)
	assert.Equal(t, 9, got[0].Enrolled)
}

func TestList_Errors(t *testing.T) {
	t.Run("NotConfigured", func(t *testing.T) {
		_, err := NewClient("", nil).List(context.Background())
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("BadStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()
		_, err := NewClient(srv.URL, srv.Client()).List(context.Background())
		assert.ErrorContains(t, err, "502")
	})

	t.Run("BadBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"not":"a list"}`)
		}))
		defer srv.Close()
		_, err := NewClient(srv.URL, srv.Client()).List(context.Background())
		assert.ErrorContains(t, err, "decode")
	})
}
