package fielddirectory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldbooking/internal/domain"
)

func TestHTTPFieldRepository_GetByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fields/f1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"f1","business_name":"Cancha Uno","address":"Jr. Lampa 1","location":{"lat":-12.05,"lng":-77.03},"price_per_player":15,"time_zone":"America/Lima"}`))
		case "/fields/busy":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/fields/teapot":
			w.WriteHeader(http.StatusTeapot)
		case "/fields/garbled":
			_, _ = w.Write([]byte(`{"id":`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	repo := NewHTTPFieldRepository(srv.URL+"/", srv.Client())
	ctx := context.Background()

	f, err := repo.GetByID(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Cancha Uno", f.BusinessName)
	require.NotNil(t, f.Location)
	assert.Equal(t, -77.03, f.Location.Lng)
	require.NotNil(t, f.PricePerPlayer)
	assert.Equal(t, 15.0, *f.PricePerPlayer)
	assert.Equal(t, "America/Lima", f.TimeZone)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetByID(ctx, "busy")
	assert.ErrorIs(t, err, domain.ErrTransient)

	_, err = repo.GetByID(ctx, "teapot")
	require.Error(t, err)
	assert.Equal(t, domain.Kind(""), domain.KindOf(err))

	_, err = repo.GetByID(ctx, "garbled")
	assert.Error(t, err)
}

func TestHTTPFieldRepository_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPFieldRepository(url, nil).GetByID(context.Background(), "f1")
	assert.ErrorIs(t, err, domain.ErrTransient)
}
