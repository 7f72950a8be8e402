package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/osse101/LevelUp_Go/internal/domain"
)

func TestRejectionReason(t *testing.T) {
	assert.Equal(t, ReasonInvalidInput, RejectionReason(fmt.Errorf("%w: bad", domain.ErrInvalidInput)))
	assert.Equal(t, ReasonInvalidRuleset, RejectionReason(fmt.Errorf("%w: bad", domain.ErrInvalidRuleset)))
	assert.Equal(t, ReasonOther, RejectionReason(errors.New("boom")))
}

func TestRecordCalculation(t *testing.T) {
	novelty := 1.1
	before := testutil.ToFloat64(XPAwarded.WithLabelValues("test_source"))
	noveltyBefore := testutil.ToFloat64(NoveltyBonusApplied)

	RecordCalculation("test_source", domain.DifficultyHard, &domain.XPCalculationResult{
		Multiplier: 1.65,
		Total:      17,
		Breakdown:  domain.Breakdown{Base: 10, Difficulty: 1.5, Novelty: &novelty},
	})

	assert.Equal(t, before+17, testutil.ToFloat64(XPAwarded.WithLabelValues("test_source")))
	assert.Equal(t, noveltyBefore+1, testutil.ToFloat64(NoveltyBonusApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(XPCalculations.WithLabelValues("test_source", "hard")))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/rulesets/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rulesets/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/rulesets/{id}", "418")))
}
