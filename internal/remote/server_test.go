package remote

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/gallery"
	"github.com/teranos/carousel/internal/metrics"
)

type fakeController struct {
	moves []int
	snap  carousel.Snapshot
	err   error
}

func (f *fakeController) Move(direction int) error {
	if f.err != nil {
		return f.err
	}
	f.moves = append(f.moves, direction)
	return nil
}

func (f *fakeController) State() carousel.Snapshot { return f.snap }

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHandler_State(t *testing.T) {
	ctrl := &fakeController{snap: carousel.Snapshot{Index: 2, Title: "The Great Wave off Kanagawa", Count: 6}}
	h := NewHandler(ctrl, nil, nil)

	rec := do(t, h, http.MethodGet, "/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got carousel.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, ctrl.snap, got)
}

func TestHandler_Move(t *testing.T) {
	ctrl := &fakeController{}
	h := NewHandler(ctrl, nil, nil)

	for _, path := range []string{"/move/next", "/move/right", "/move/1", "/move/+1", "/move/prev", "/move/left", "/move/-1"} {
		rec := do(t, h, http.MethodPost, path)
		assert.Equal(t, http.StatusAccepted, rec.Code, path)
	}
	assert.Equal(t, []int{1, 1, 1, 1, -1, -1, -1}, ctrl.moves)
}

func TestHandler_MoveRejectsBadDirections(t *testing.T) {
	ctrl := &fakeController{}
	h := NewHandler(ctrl, nil, nil)

	for _, path := range []string{"/move/2", "/move/0", "/move/-3", "/move/sideways"} {
		rec := do(t, h, http.MethodPost, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)

		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "invalid_direction", body.Type, path)
	}
	assert.Empty(t, ctrl.moves)
}

func TestHandler_MoveWhenHostUnavailable(t *testing.T) {
	ctrl := &fakeController{err: errors.New("render loop busy")}
	h := NewHandler(ctrl, nil, nil)

	rec := do(t, h, http.MethodPost, "/move/next")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "render loop busy")
}

func TestHandler_MethodsAndCORS(t *testing.T) {
	h := NewHandler(&fakeController{}, nil, nil)

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/move/next").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/metrics").Code)

	rec := do(t, h, http.MethodOptions, "/state")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_Metrics(t *testing.T) {
	recorder := metrics.NewRecorder()
	recorder.ObserveCompleted()
	h := NewHandler(&fakeController{}, recorder.Handler(), nil)

	rec := do(t, h, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "carousel_transitions_completed_total")
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("next")
	require.NoError(t, err)
	assert.Equal(t, 1, d)

	_, err = ParseDirection("7")
	assert.ErrorIs(t, err, carousel.ErrInvalidDirection)

	_, err = ParseDirection("")
	assert.ErrorIs(t, err, carousel.ErrInvalidDirection)
}

// appliedSender hands messages straight to a gallery model.
type appliedSender struct{ m *gallery.Model }

func (s appliedSender) Send(msg tea.Msg) { s.m.Update(msg) }

func TestHandler_MoveAfterGalleryExit(t *testing.T) {
	cfg := carousel.DefaultConfig()
	nav, err := carousel.New(cfg)
	require.NoError(t, err)
	board := &gallery.StateBoard{}
	m, err := gallery.NewModel(nav, cfg, gallery.WithBoard(board))
	require.NoError(t, err)

	rc := gallery.NewRemote(appliedSender{m}, board)
	h := NewHandler(rc, nil, nil)

	assert.Equal(t, http.StatusAccepted, do(t, h, http.MethodPost, "/move/next").Code)
	assert.Equal(t, 1, m.CurrentIndex())

	rc.Stop()
	rec := do(t, h, http.MethodPost, "/move/next")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not running")
	assert.Equal(t, 1, m.CurrentIndex())
}
