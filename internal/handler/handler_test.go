package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/osse101/LevelUp_Go/internal/award"
	"github.com/osse101/LevelUp_Go/internal/database/memory"
	"github.com/osse101/LevelUp_Go/internal/novelty"
	"github.com/osse101/LevelUp_Go/internal/reward"
	"github.com/osse101/LevelUp_Go/internal/ruleset"
)

// testAPI wires the handlers over in-memory storage the same way the server does
type testAPI struct {
	router   chi.Router
	rulesets ruleset.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	activity := memory.NewActivityRepository()
	rulesets := ruleset.NewService(memory.NewRulesetRepository(), ruleset.DefaultOptions())
	awardSvc := award.NewService(rulesets, novelty.NewChecker(activity), activity)
	checker, err := reward.NewChecker(reward.CooldownFunc(func(ctx context.Context) (int, error) {
		c, err := rulesets.GetActive(ctx)
		if err != nil {
			return 0, err
		}
		return c.DefaultCooldownDays, nil
	}))
	require.NoError(t, err)

	xpH := NewXPHandlers(awardSvc)
	rsH := NewRulesetHandlers(rulesets)
	rwH := NewRewardHandlers(checker, awardSvc)

	r := chi.NewRouter()
	r.Post("/xp/simulate", xpH.HandleSimulate())
	r.Post("/xp/quest", xpH.HandleScoreQuest())
	r.Post("/xp/event", xpH.HandleScoreEvent())
	r.Get("/level", xpH.HandleGetLevel())
	r.Route("/rulesets", func(r chi.Router) {
		r.Get("/", rsH.HandleList())
		r.Post("/", rsH.HandleCreate())
		r.Get("/active", rsH.HandleGetActive())
		r.Get("/defaults", rsH.HandleDefaults())
		r.Post("/validate", rsH.HandleValidate())
		r.Get("/{id}", rsH.HandleGet())
		r.Put("/{id}", rsH.HandleUpdate())
		r.Post("/{id}/activate", rsH.HandleActivate())
	})
	r.Post("/rewards/eligibility", rwH.HandleCheckEligibility())
	r.Post("/rewards/prerequisites/validate", rwH.HandleValidatePrerequisite())

	return &testAPI{router: r, rulesets: rulesets}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
