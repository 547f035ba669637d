package advisory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/edueat/services/cafeteria/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.AdvisoryConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 2 * time.Second,
	})
}

func generationBody(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + marshalString(text) + `}]}}]}`
}

func marshalString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\\':
			out += `\\`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func TestHealthTipReturnsGeneratedText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(generationBody("Las frutas aportan vitaminas.")))
	}))
	defer server.Close()

	tip := newTestClient(server.URL).HealthTip(context.Background(), "Ensalada de frutas")
	require.Equal(t, "Las frutas aportan vitaminas.", tip)
}

func TestHealthTipFallsBackOnNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	tip := newTestClient(server.URL).HealthTip(context.Background(), "Almuerzo")
	require.Equal(t, FallbackHealthTip, tip)
}

func TestHealthTipFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tip := newTestClient(server.URL).HealthTip(context.Background(), "Almuerzo")
	require.Equal(t, FallbackHealthTip, tip)
}

func TestHealthTipDefaultsWhenResponseEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	tip := newTestClient(server.URL).HealthTip(context.Background(), "Almuerzo")
	require.Equal(t, DefaultHealthTip, tip)
}

func TestSuggestWeeklyMenuParsesStructuredList(t *testing.T) {
	menuJSON := `[{"dia":"Lunes","plato":"Pollo al horno","descripcion":"Con verduras"},` +
		`{"dia":"Martes","plato":"Lentejas","descripcion":"Guiso casero"}]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(generationBody(menuJSON)))
	}))
	defer server.Close()

	menu := newTestClient(server.URL).SuggestWeeklyMenu(context.Background())
	require.Len(t, menu, 2)
	require.Equal(t, "Lunes", menu[0].Day)
	require.Equal(t, "Pollo al horno", menu[0].Dish)
}

func TestSuggestWeeklyMenuReturnsEmptyListOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(generationBody("this is not json")))
	}))
	defer server.Close()

	menu := newTestClient(server.URL).SuggestWeeklyMenu(context.Background())
	require.NotNil(t, menu)
	require.Empty(t, menu)
}
