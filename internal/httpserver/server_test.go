package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/telemanager/internal/config"
	"github.com/MrSnakeDoc/telemanager/internal/directory"
	"github.com/MrSnakeDoc/telemanager/internal/domain"
	"github.com/MrSnakeDoc/telemanager/internal/httpserver/deps"
	"github.com/MrSnakeDoc/telemanager/internal/logger"
	"github.com/MrSnakeDoc/telemanager/internal/marketplace"
	"github.com/MrSnakeDoc/telemanager/internal/postgen"
	"github.com/MrSnakeDoc/telemanager/internal/registry"
	redisstore "github.com/MrSnakeDoc/telemanager/internal/store/redis"
)

var slotDay = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

func fixtureChannels() []domain.ChannelProfile {
	return []domain.ChannelProfile{
		{
			Username:    "crypto_signals",
			Title:       "Alpha Crypto Signals",
			IsVerified:  true,
			Subscribers: 89000,
			Category:    domain.CategoryCrypto,
			Slots: []domain.AdSlot{
				{ID: "slot-a", Date: slotDay, Price: 300, Currency: domain.CurrencyStars, Status: domain.SlotAvailable},
				{ID: "slot-b", Date: slotDay.AddDate(0, 0, 1), Price: 200, Currency: domain.CurrencyStars, Status: domain.SlotSold, BuyerName: "CryptoWhale"},
			},
		},
		{
			Username:    "tech_insider",
			Title:       "Tech Insider Daily",
			IsVerified:  true,
			Subscribers: 154000,
			Category:    domain.CategoryTech,
			Slots:       []domain.AdSlot{},
		},
	}
}

type fakeGenerator struct {
	text string
	err  error
}

func (f fakeGenerator) Generate(ctx context.Context, cfg postgen.Config) (string, error) {
	return f.text, f.err
}

func newTestDeps(channels []domain.ChannelProfile) deps.Deps {
	log := logger.Nop()
	dir := directory.New(channels)
	return deps.Deps{
		Logger:           log,
		StartTime:        time.Now(),
		TimeNow:          time.Now,
		RateBurst:        5,
		RateRefillPerMin: 10,
		Directory:        dir,
		Registry:         registry.New(dir, log),
		Marketplace:      marketplace.New(dir, log, marketplace.WithIDs(&domain.SequentialIDs{})),
		Analytics:        redisstore.NewStore(nil, 0),
	}
}

func newTestHandler(d deps.Deps) http.Handler {
	cfg := &config.Config{ListenPort: ":0", RequestTimeout: 5 * time.Second}
	return New(cfg, d.Logger, d).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestSearchEndpoint(t *testing.T) {
	h := newTestHandler(newTestDeps(fixtureChannels()))

	tests := []struct {
		name      string
		target    string
		wantCount int
		wantFirst string
	}{
		{name: "all sorted by subscribers", target: "/api/channels", wantCount: 2, wantFirst: "tech_insider"},
		{name: "query", target: "/api/channels?q=crypto", wantCount: 1, wantFirst: "crypto_signals"},
		{name: "category", target: "/api/channels?category=crypto", wantCount: 1, wantFirst: "crypto_signals"},
		{name: "explicit all", target: "/api/channels?category=All&q=", wantCount: 2, wantFirst: "tech_insider"},
		{name: "no match", target: "/api/channels?q=cooking", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)

			body := decode[struct {
				Count    int                     `json:"count"`
				Channels []domain.ChannelProfile `json:"channels"`
			}](t, rec)
			assert.Equal(t, tt.wantCount, body.Count)
			require.Len(t, body.Channels, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, body.Channels[0].Username)
			}
		})
	}
}

func TestSearchEndpointBadCategory(t *testing.T) {
	h := newTestHandler(newTestDeps(fixtureChannels()))

	rec := do(t, h, http.MethodGet, "/api/channels?category=Sports", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", decode[errorBody](t, rec).Code)
}

func TestChannelEndpoint(t *testing.T) {
	h := newTestHandler(newTestDeps(fixtureChannels()))

	rec := do(t, h, http.MethodGet, "/api/channels/crypto_signals", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[domain.ChannelProfile](t, rec)
	assert.Equal(t, "Alpha Crypto Signals", p.Title)
	assert.Len(t, p.Slots, 2)

	rec = do(t, h, http.MethodGet, "/api/channels/ghost_channel", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errorBody](t, rec).Code)
}

func TestVerifyEndpoint(t *testing.T) {
	h := newTestHandler(newTestDeps(fixtureChannels()))

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantOutcome domain.VerifyOutcome
	}{
		{name: "registered", body: `{"candidate":"@crypto_signals"}`, wantStatus: http.StatusOK, wantOutcome: domain.OutcomeAlreadyRegistered},
		{name: "fresh link", body: `{"candidate":"https://t.me/new_channel"}`, wantStatus: http.StatusOK, wantOutcome: domain.OutcomeVerified},
		{name: "too short", body: `{"candidate":"ab"}`, wantStatus: http.StatusNotFound},
		{name: "unknown field", body: `{"handle":"new_channel"}`, wantStatus: http.StatusBadRequest},
		{name: "not json", body: `candidate=new_channel`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/channels/verify", tt.body, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantOutcome != "" {
				assert.Equal(t, tt.wantOutcome, decode[registry.VerifyResult](t, rec).Outcome)
			}
		})
	}
}

func TestRegisterEndpoint(t *testing.T) {
	d := newTestDeps(fixtureChannels())
	h := newTestHandler(d)

	body := `{"username":"garden_club","title":"Garden Club","isVerified":false,"subscribers":0,"category":"Lifestyle","slots":[]}`

	rec := do(t, h, http.MethodPost, "/api/channels", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "inserted", decode[map[string]string](t, rec)["outcome"])

	rec = do(t, h, http.MethodPost, "/api/channels", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "already_exists", decode[map[string]string](t, rec)["outcome"])

	assert.Equal(t, 3, d.Directory.Count())
	assert.Equal(t, "garden_club", d.Directory.List()[0].Username)

	rec = do(t, h, http.MethodPost, "/api/channels", `{"username":"bad_cat","category":"Sports"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterEndpointIgnoresClaimedBadge(t *testing.T) {
	d := newTestDeps(fixtureChannels())
	h := newTestHandler(d)

	body := `{"username":"self_made","title":"Self Made","isVerified":true,"subscribers":9000000,"category":"News","slots":[]}`
	rec := do(t, h, http.MethodPost, "/api/channels", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	stored, ok := d.Directory.Lookup("self_made")
	require.True(t, ok)
	assert.False(t, stored.IsVerified)
	assert.Zero(t, stored.Subscribers)
	assert.Equal(t, "Self Made", stored.Title)
}

func TestRegisterEndpointDuplicateSkipsValidation(t *testing.T) {
	d := newTestDeps(fixtureChannels())
	h := newTestHandler(d)

	rec := do(t, h, http.MethodPost, "/api/channels", `{"username":"Tech_Insider","title":"x"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "already_exists", decode[map[string]string](t, rec)["outcome"])

	stored, _ := d.Directory.Lookup("tech_insider")
	assert.True(t, stored.IsVerified)
	assert.Equal(t, "Tech Insider Daily", stored.Title)
}

func TestOnboardEndpoint(t *testing.T) {
	d := newTestDeps(fixtureChannels())
	h := newTestHandler(d)

	rec := do(t, h, http.MethodPost, "/api/onboard", `{"candidate":"@fresh_news"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode[struct {
		Verify   domain.VerifyOutcome   `json:"verify"`
		Register domain.RegisterOutcome `json:"register"`
		Profile  domain.ChannelProfile  `json:"profile"`
	}](t, rec)
	assert.Equal(t, domain.OutcomeVerified, body.Verify)
	assert.Equal(t, domain.RegisterInserted, body.Register)
	assert.Equal(t, "fresh_news Channel", body.Profile.Title)

	rec = do(t, h, http.MethodGet, "/api/channels/fresh_news", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/onboard", `{"candidate":"@crypto_signals"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.RegisterAlreadyExists, decode[struct {
		Register domain.RegisterOutcome `json:"register"`
	}](t, rec).Register)

	rec = do(t, h, http.MethodPost, "/api/onboard", `{"candidate":"x"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 3, d.Directory.Count())
}

func TestCreateSlotEndpoint(t *testing.T) {
	d := newTestDeps(fixtureChannels())
	h := newTestHandler(d)
	owner := map[string]string{"X-User-Role": "owner"}

	rec := do(t, h, http.MethodPost, "/api/channels/tech_insider/slots", `{"date":"2026-10-22","price":250}`, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/channels/tech_insider/slots", `{"date":"2026-10-22","price":250}`,
		map[string]string{"X-User-Role": "advertiser"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/channels/tech_insider/slots", `{"date":"2026-10-22","price":250,"estimatedViews":1200}`, owner)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	slot := decode[domain.AdSlot](t, rec)
	assert.Equal(t, "slot-1", slot.ID)
	assert.Equal(t, domain.SlotAvailable, slot.Status)
	assert.Equal(t, domain.CurrencyStars, slot.Currency)

	p, ok := d.Directory.Lookup("tech_insider")
	require.True(t, ok)
	assert.Len(t, p.Slots, 1)

	rec = do(t, h, http.MethodPost, "/api/channels/tech_insider/slots", `{"date":"next week","price":250}`, owner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/channels/ghost_channel/slots", `{"date":"2026-10-22","price":250}`, owner)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPurchaseEndpoint(t *testing.T) {
	d := newTestDeps(fixtureChannels())
	h := newTestHandler(d)
	advertiser := map[string]string{"X-User-Role": "Advertiser"}

	tests := []struct {
		name        string
		target      string
		body        string
		headers     map[string]string
		wantStatus  int
		wantOutcome domain.PurchaseOutcome
		wantSuccess bool
	}{
		{
			name:       "owner cannot buy",
			target:     "/api/channels/crypto_signals/slots/slot-a/purchase",
			headers:    map[string]string{"X-User-Role": "owner"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:        "available",
			target:      "/api/channels/crypto_signals/slots/slot-a/purchase",
			body:        `{"buyer":"Acme Ads"}`,
			headers:     advertiser,
			wantStatus:  http.StatusOK,
			wantOutcome: domain.Purchased,
			wantSuccess: true,
		},
		{
			name:        "bought twice",
			target:      "/api/channels/crypto_signals/slots/slot-a/purchase",
			headers:     advertiser,
			wantStatus:  http.StatusOK,
			wantOutcome: domain.AlreadySold,
		},
		{
			name:        "unknown slot",
			target:      "/api/channels/crypto_signals/slots/slot-zzz/purchase",
			headers:     advertiser,
			wantStatus:  http.StatusOK,
			wantOutcome: domain.SlotNotFound,
		},
		{
			name:        "unknown channel",
			target:      "/api/channels/ghost_channel/slots/slot-a/purchase",
			headers:     advertiser,
			wantStatus:  http.StatusOK,
			wantOutcome: domain.ChannelNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.target, tt.body, tt.headers)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantOutcome == "" {
				return
			}
			body := decode[struct {
				Outcome domain.PurchaseOutcome `json:"outcome"`
				Success bool                   `json:"success"`
			}](t, rec)
			assert.Equal(t, tt.wantOutcome, body.Outcome)
			assert.Equal(t, tt.wantSuccess, body.Success)
		})
	}

	p, ok := d.Directory.Lookup("crypto_signals")
	require.True(t, ok)
	slot := p.FindSlot("slot-a")
	require.NotNil(t, slot)
	assert.Equal(t, "Acme Ads", slot.BuyerName)
}

func TestGenerateEndpoint(t *testing.T) {
	body := `{"topic":"New GPU launch","tone":"Hype","creativity":"high"}`

	t.Run("not configured", func(t *testing.T) {
		h := newTestHandler(newTestDeps(fixtureChannels()))
		rec := do(t, h, http.MethodPost, "/api/posts/generate", body, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("generated", func(t *testing.T) {
		d := newTestDeps(fixtureChannels())
		d.Generator = fakeGenerator{text: "🚀 GPUs are here"}
		rec := do(t, newTestHandler(d), http.MethodPost, "/api/posts/generate", body, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "🚀 GPUs are here", decode[map[string]string](t, rec)["text"])
	})

	t.Run("upstream failure", func(t *testing.T) {
		d := newTestDeps(fixtureChannels())
		d.Generator = fakeGenerator{err: errors.Join(postgen.ErrGenerationFailed, errors.New("quota"))}
		rec := do(t, newTestHandler(d), http.MethodPost, "/api/posts/generate", body, nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("invalid config", func(t *testing.T) {
		d := newTestDeps(fixtureChannels())
		d.Generator = fakeGenerator{err: postgen.ErrInvalidConfig}
		rec := do(t, newTestHandler(d), http.MethodPost, "/api/posts/generate", `{"topic":""}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		d := newTestDeps(fixtureChannels())
		d.Generator = fakeGenerator{text: "ok"}
		d.RateBurst = 1
		h := newTestHandler(d)

		rec := do(t, h, http.MethodPost, "/api/posts/generate", body, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = do(t, h, http.MethodPost, "/api/posts/generate", body, nil)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})
}

func TestEnforceHostOnAPI(t *testing.T) {
	d := newTestDeps(fixtureChannels())
	d.AllowedHosts = []string{"tm.example.org"}
	h := newTestHandler(d)

	// httptest requests carry Host: example.com
	rec := do(t, h, http.MethodGet, "/api/channels", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/channels", nil)
	req.Host = "tm.example.org"
	ok := httptest.NewRecorder()
	h.ServeHTTP(ok, req)
	assert.Equal(t, http.StatusOK, ok.Code)
}

func TestOpsEndpoints(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		h := newTestHandler(newTestDeps(fixtureChannels()))
		rec := do(t, h, http.MethodGet, "/healthz", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 2, decode[map[string]any](t, rec)["channels"])
	})

	t.Run("readyz", func(t *testing.T) {
		rec := do(t, newTestHandler(newTestDeps(fixtureChannels())), http.MethodGet, "/readyz", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, newTestHandler(newTestDeps(nil)), http.MethodGet, "/readyz", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("infra", func(t *testing.T) {
		rec := do(t, newTestHandler(newTestDeps(fixtureChannels())), http.MethodGet, "/infra", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[struct {
			Mode       string `json:"mode"`
			Components map[string]struct {
				OK        bool   `json:"ok"`
				Mode      string `json:"mode"`
				SoldSlots *int   `json:"sold_slots"`
			} `json:"components"`
		}](t, rec)
		assert.Equal(t, "degraded", body.Mode)
		assert.Equal(t, "disabled", body.Components["redis"].Mode)
		assert.Equal(t, "disabled", body.Components["generator"].Mode)
		require.NotNil(t, body.Components["directory"].SoldSlots)
		assert.Equal(t, 1, *body.Components["directory"].SoldSlots)
	})

	t.Run("cidr restricted", func(t *testing.T) {
		d := newTestDeps(fixtureChannels())
		d.AllowedCIDRS = []string{"10.0.0.0/8"}
		rec := do(t, newTestHandler(d), http.MethodGet, "/infra", "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestReloadEndpoint(t *testing.T) {
	t.Run("no seed file", func(t *testing.T) {
		rec := do(t, newTestHandler(newTestDeps(fixtureChannels())), http.MethodPost, "/reload", "", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("trigger", func(t *testing.T) {
		d := newTestDeps(fixtureChannels())
		d.SeedFile = "channels.yaml"
		d.ReloadTrigger = make(chan struct{}, 1)
		h := newTestHandler(d)

		rec := do(t, h, http.MethodPost, "/reload", "", nil)
		require.Equal(t, http.StatusAccepted, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, "triggered", body["status"])
		assert.Equal(t, "channels.yaml", body["seed_file"])
		assert.EqualValues(t, 0, body["flushed_verdicts"])

		// Nobody drains the trigger, so the second call finds it full
		rec = do(t, h, http.MethodPost, "/reload", "", nil)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Len(t, d.ReloadTrigger, 1)
	})
}
