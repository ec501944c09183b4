package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/smartride/smartride-web/internal/api/view"
	"github.com/smartride/smartride-web/internal/core/service"
	"github.com/smartride/smartride-web/internal/core/session"
	"github.com/smartride/smartride-web/internal/core/validation"
	"github.com/smartride/smartride-web/internal/infrastructure/gateway"
	"github.com/smartride/smartride-web/internal/infrastructure/http/handlers"
)

// fakeBackend plays the SmartRide REST API.
type fakeBackend struct {
	mu         sync.Mutex
	bookStatus int
	booked     []map[string]any
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	ok := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /api/auth/send-otp", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/user/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, OTP string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		role := "PASSENGER"
		if strings.HasPrefix(req.Email, "driver") {
			role = "DRIVER"
		}
		ok(w, map[string]any{
			"token": "tok-" + role,
			"user":  map[string]any{"name": "Test " + role, "email": req.Email, "role": role, "password": "Temp123"},
		})
	})
	mux.HandleFunc("GET /api/user/profile", func(w http.ResponseWriter, r *http.Request) {
		ok(w, map[string]any{"name": "Dee Ray", "role": "DRIVER"})
	})
	mux.HandleFunc("GET /api/driver/rides", func(w http.ResponseWriter, r *http.Request) {
		ok(w, []map[string]any{{"id": 1, "source": "Pune", "destination": "Mumbai", "date": "2099-01-01", "availableSeats": 3}})
	})
	mux.HandleFunc("GET /api/ride/booking-requests", func(w http.ResponseWriter, r *http.Request) { ok(w, []any{}) })
	mux.HandleFunc("GET /api/driver/earnings", func(w http.ResponseWriter, r *http.Request) { ok(w, map[string]any{"today": 50}) })
	mux.HandleFunc("GET /api/driver/vehicle", func(w http.ResponseWriter, r *http.Request) { ok(w, map[string]any{"vehicleModel": "Swift"}) })
	mux.HandleFunc("GET /api/booking/my-book", func(w http.ResponseWriter, r *http.Request) { ok(w, []any{}) })
	mux.HandleFunc("GET /api/payment/my", func(w http.ResponseWriter, r *http.Request) { ok(w, []any{}) })
	mux.HandleFunc("POST /api/ride/search", func(w http.ResponseWriter, r *http.Request) {
		ok(w, []map[string]any{{"id": 7, "source": "Pune", "destination": "Mumbai", "date": "2099-01-01", "availableSeats": 4, "price": 100}})
	})
	mux.HandleFunc("POST /api/booking/book", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		status := b.bookStatus
		b.booked = append(b.booked, req)
		b.mu.Unlock()
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
	})
	return mux
}

type testApp struct {
	srv     *httptest.Server
	backend *fakeBackend
	screens *service.Registry
}

type appOptions struct {
	auth    service.AuthOptions
	screens service.RegistryConfig
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWith(t, appOptions{})
}

func newTestAppWith(t *testing.T, opts appOptions) *testApp {
	t.Helper()
	backend := &fakeBackend{}
	api := httptest.NewServer(backend.handler())
	t.Cleanup(api.Close)

	log := zerolog.Nop()
	sessions := session.NewManager(session.NewMemoryStore(), log)
	client, err := gateway.New(gateway.Config{BaseURL: api.URL + "/api", Timeout: 2 * time.Second}, sessions, log)
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}
	renderer, err := view.New()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	v := validation.New()
	screens := service.NewRegistryWithConfig(opts.screens)
	t.Cleanup(screens.CloseAll)

	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Auth:       service.NewAuthService(client, client, sessions, v, opts.auth, log),
		Drivers:    service.NewDriverService(client, client, sessions, v, time.Now, log),
		Passengers: service.NewPassengerService(client, sessions, v, log),
		Sessions:   sessions,
		Screens:    screens,
		Renderer:   renderer,
		Validator:  v,
		Ready:      map[string]handlers.Pinger{"session_store": sessions},
		Registerer: reg,
		Gatherer:   reg,
		Log:        log,
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &testApp{srv: srv, backend: backend, screens: screens}
}

// browser is one browser profile: it keeps cookies and does not follow
// redirects.
type browser struct {
	t    *testing.T
	base string
	c    *http.Client
}

func (a *testApp) browser(t *testing.T) *browser {
	jar, _ := cookiejar.New(nil)
	return &browser{t: t, base: a.srv.URL, c: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (b *browser) do(method, path string, form url.Values) (int, string, string) {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, b.base+path, body)
	if err != nil {
		b.t.Fatalf("request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := b.c.Do(req)
	if err != nil {
		b.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header.Get("Location"), string(raw)
}

func (b *browser) get(path string) (int, string, string) { return b.do(http.MethodGet, path, nil) }

func (b *browser) post(path string, form url.Values) (int, string, string) {
	return b.do(http.MethodPost, path, form)
}

func expectRedirect(t *testing.T, code int, loc, want string) {
	t.Helper()
	if code != http.StatusSeeOther && code != http.StatusFound {
		t.Fatalf("expected redirect to %s, got %d", want, code)
	}
	if loc != want {
		t.Fatalf("expected redirect to %s, got %s", want, loc)
	}
}

func (b *browser) loginWithOTP(email string) (int, string) {
	b.t.Helper()
	if code, _, _ := b.get("/login"); code != http.StatusOK {
		b.t.Fatalf("login page: %d", code)
	}
	code, _, body := b.post("/login/email", url.Values{"email": {email}})
	if code != http.StatusOK || !strings.Contains(body, `action="/login/otp"`) {
		b.t.Fatalf("expected otp step, got %d", code)
	}
	code, loc, _ := b.post("/login/otp", url.Values{"otp": {"123456"}})
	return code, loc
}

func TestRouter_DriverTempPasswordLogin(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	code, loc := b.loginWithOTP("driver@x.io")
	expectRedirect(t, code, loc, "/driver-dashboard")

	code, _, body := b.get("/driver-dashboard")
	if code != http.StatusOK || !strings.Contains(body, "Pune → Mumbai") || !strings.Contains(body, ">DR<") {
		t.Fatalf("driver dashboard not rendered: %d", code)
	}

	code, loc, _ = b.get("/passenger-dashboard")
	expectRedirect(t, code, loc, "/home")

	code, loc, _ = b.get("/dashboard")
	expectRedirect(t, code, loc, "/driver-dashboard")

	code, loc, _ = b.post("/logout", url.Values{})
	expectRedirect(t, code, loc, "/login")

	code, loc, _ = b.get("/driver-dashboard")
	expectRedirect(t, code, loc, "/login")
}

func TestRouter_PassengerBooking(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	code, loc := b.loginWithOTP("pax@x.io")
	expectRedirect(t, code, loc, "/passenger-dashboard")

	if code, _, _ := b.get("/passenger-dashboard"); code != http.StatusOK {
		t.Fatalf("passenger dashboard: %d", code)
	}
	code, _, body := b.post("/passenger-dashboard/search", url.Values{"source": {"Pune"}, "destination": {"Mumbai"}, "seats": {"2"}})
	if code != http.StatusOK || !strings.Contains(body, `name="ride_id" value="7"`) {
		t.Fatalf("search results missing: %d", code)
	}

	code, _, body = b.post("/passenger-dashboard/book", url.Values{"ride_id": {"7"}, "seats": {"2"}})
	if code != http.StatusOK || !strings.Contains(body, "Successfully booked 2 seat(s)!") {
		t.Fatalf("expected booking confirmation, got %d", code)
	}
	app.backend.mu.Lock()
	booked := app.backend.booked
	app.backend.bookStatus = http.StatusUnauthorized
	app.backend.mu.Unlock()
	if len(booked) != 1 || booked[0]["rideId"] != float64(7) || booked[0]["seats"] != float64(2) {
		t.Fatalf("unexpected backend bookings %+v", booked)
	}

	code, loc, _ = b.post("/passenger-dashboard/book", url.Values{"ride_id": {"7"}, "seats": {"2"}})
	expectRedirect(t, code, loc, "/login")

	code, loc, _ = b.get("/passenger-dashboard")
	expectRedirect(t, code, loc, "/login")
}

func TestRouter_GuardsAndFallbacks(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	code, loc, _ := b.get("/driver-dashboard")
	expectRedirect(t, code, loc, "/login")

	code, loc, _ = b.get("/no/such/page")
	expectRedirect(t, code, loc, "/")

	if code, _, body := b.get("/"); code != http.StatusOK || !strings.Contains(body, "SmartRide") {
		t.Fatalf("landing page: %d", code)
	}
	if code, _, _ := b.get("/health/ready"); code != http.StatusOK {
		t.Fatalf("readiness: %d", code)
	}
}

func TestRouter_ActionWithoutMountedScreen(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	code, loc := b.loginWithOTP("driver@x.io")
	expectRedirect(t, code, loc, "/driver-dashboard")

	code, loc, _ = b.post("/driver-dashboard/rides", url.Values{"source": {"A"}})
	expectRedirect(t, code, loc, "/driver-dashboard")

	code, loc, _ = b.post("/login/password", url.Values{"password": {"whatever1"}})
	expectRedirect(t, code, loc, "/login")
}

func resendDisabled(t *testing.T, body string) bool {
	t.Helper()
	i := strings.Index(body, `action="/login/resend"`)
	if i < 0 {
		i = strings.Index(body, `action="/forgot-password/resend"`)
	}
	if i < 0 {
		t.Fatalf("resend form missing")
	}
	button := body[i:]
	button = button[:strings.Index(button, ">Resend")]
	return strings.Contains(button, " disabled")
}

func TestRouter_ResendEnabledOnceCooldownEnds(t *testing.T) {
	app := newTestAppWith(t, appOptions{auth: service.AuthOptions{TickInterval: time.Millisecond}})
	b := app.browser(t)

	b.get("/login")
	code, _, body := b.post("/login/email", url.Values{"email": {"pax@x.io"}})
	if code != http.StatusOK || !resendDisabled(t, body) {
		t.Fatalf("resend must start disabled, got %d", code)
	}
	if !strings.Contains(body, `data-cooldown="`) || !strings.Contains(body, `;url=/login/otp"`) {
		t.Fatalf("otp step must count down in the browser")
	}
	if !strings.Contains(body, "data-otp-cell") {
		t.Fatalf("otp cells must be wired for focus moves")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		code, _, body = b.get("/login/otp")
		if code != http.StatusOK || !strings.Contains(body, `action="/login/otp"`) {
			t.Fatalf("re-render must stay on the otp step, got %d", code)
		}
		if !resendDisabled(t, body) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("resend never re-enabled")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if strings.Contains(body, `http-equiv="refresh"`) {
		t.Fatalf("no refresh once the cooldown is over")
	}
	if !strings.Contains(body, "pax@x.io") {
		t.Fatalf("entered email must survive the re-render")
	}

	code, _, body = b.post("/login/resend", url.Values{})
	if code != http.StatusOK || !strings.Contains(body, "OTP resent successfully!") {
		t.Fatalf("expected resend to go through, got %d", code)
	}
}

func TestRouter_ResetOTPPageRerendersFlow(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	b.get("/forgot-password")
	code, _, body := b.post("/forgot-password/email", url.Values{"email": {"pax@x.io"}})
	if code != http.StatusOK || !strings.Contains(body, `action="/forgot-password/otp"`) {
		t.Fatalf("expected reset otp step, got %d", code)
	}
	code, _, body = b.get("/forgot-password/otp")
	if code != http.StatusOK || !strings.Contains(body, `action="/forgot-password/otp"`) || !resendDisabled(t, body) {
		t.Fatalf("expected the mounted reset flow, got %d", code)
	}
	if !strings.Contains(body, `;url=/forgot-password/otp"`) {
		t.Fatalf("expected a refresh back to the otp step")
	}
}

func TestRouter_OTPPageWithoutFlowMountsOne(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	code, _, body := b.get("/login/otp")
	if code != http.StatusOK || !strings.Contains(body, `action="/login/email"`) {
		t.Fatalf("expected a fresh login flow, got %d", code)
	}
	if app.screens.Len() != 1 {
		t.Fatalf("expected one mounted screen, got %d", app.screens.Len())
	}
}

func TestRouter_AnonymousVisitsStayWithinScreenCap(t *testing.T) {
	app := newTestAppWith(t, appOptions{screens: service.RegistryConfig{MaxScreens: 20}})
	for i := 0; i < 200; i++ {
		resp, err := http.Get(app.srv.URL + "/login")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
	}
	if n := app.screens.Len(); n != 20 {
		t.Fatalf("expected 20 mounted screens, got %d", n)
	}
}
