package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gala-seating/internal/middleware"
	"github.com/iliyamo/gala-seating/internal/model"
	"github.com/iliyamo/gala-seating/internal/repository"
	"github.com/iliyamo/gala-seating/internal/seating"
	"github.com/iliyamo/gala-seating/internal/utils"
)

const testSecret = "handler-secret"

type fakeStore struct {
	mu     sync.Mutex
	rows   []model.Registration
	hidden map[string]bool
}

func (s *fakeStore) ListActive(context.Context) ([]model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Registration
	for _, r := range s.rows {
		if r.Active() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) List(context.Context) ([]model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Registration(nil), s.rows...), nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Registration{}, repository.ErrRegistrationNotFound
}

func (s *fakeStore) UpdateByID(_ context.Context, id string, tableNo *int, zone *model.SeatZone) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hidden[id] {
		return 0, nil
	}
	for i := range s.rows {
		if s.rows[i].ID == id && s.rows[i].Active() {
			s.rows[i].TableNo, s.rows[i].SeatZone = tableNo, zone
			return 1, nil
		}
	}
	return 0, nil
}

func (s *fakeStore) UpdateByIDSet(ctx context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		got, _ := s.UpdateByID(ctx, id, nil, nil)
		n += got
	}
	return n, nil
}

func (s *fakeStore) table(id string) *int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.ID == id {
			return r.TableNo
		}
	}
	return nil
}

type fakeSettings struct {
	set model.SeatingSettings
}

func (f *fakeSettings) GetSeatingSettings(context.Context) (model.SeatingSettings, error) {
	return f.set, nil
}

func (f *fakeSettings) UpdateSeatingSettings(_ context.Context, s model.SeatingSettings) error {
	f.set = s
	return nil
}

func reg(id string, typ model.RegistrationType, headcount int, name, phone string) model.Registration {
	return model.Registration{
		ID:          id,
		Type:        typ,
		Headcount:   headcount,
		ContactName: name,
		Phone:       phone,
		Status:      model.StatusOpen,
		CreatedAt:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// adminServer mounts the admin handlers the same way the router does,
// without the rate limiter.
func adminServer(t *testing.T, store *fakeStore, settings *fakeSettings) *echo.Echo {
	t.Helper()
	svc := seating.NewService(store, settings, seating.Options{Concurrency: 4})
	regs := NewRegistrationHandler(store)
	sets := NewSettingsHandler(settings)
	seat := NewSeatingHandler(svc)

	e := echo.New()
	g := e.Group("/v1/admin", middleware.JWTAuth(testSecret), middleware.RequireRole(model.RoleAdmin))
	g.GET("/registrations", regs.List)
	g.PUT("/registrations/:id/table", seat.SetTable)
	g.DELETE("/registrations/:id/table", seat.ClearTable)
	g.GET("/settings/seating", sets.Get)
	g.PUT("/settings/seating", sets.Put)
	g.POST("/seating/auto-assign", seat.AutoAssign)
	g.POST("/seating/reset", seat.Reset)
	g.GET("/seating/tables", seat.Tables)
	g.GET("/seating/grid", seat.Grid)
	g.GET("/seating/overview", seat.Overview)
	return e
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, 1, model.RoleAdmin, 5)
	require.NoError(t, err)
	return tok.Token
}

func call(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
