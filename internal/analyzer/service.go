package analyzer

import (
	"context"
	"fmt"
	"log"

	"policylens/internal/compliance"
	"policylens/internal/models"
	"policylens/internal/resilience"
)

// ReportStore persists reports across restarts; the in-process cache
// only covers the hot path. Optional; nil keeps everything in memory.
type ReportStore interface {
	UpsertReport(ctx context.Context, rep models.ComplianceReport) error
	GetReport(ctx context.Context, ownerID, policyID, framework string) (models.ComplianceReport, error)
}

// Service is the compliance front door: it resolves the framework,
// serves cached reports, runs the model escalation, and falls back to
// the rule engine when the models are out entirely.
type Service struct {
	engine   *compliance.Engine
	analyzer *Analyzer
	cache    *resilience.Cache[models.ComplianceReport]
	store    ReportStore
}

func NewService(engine *compliance.Engine, a *Analyzer, cache *resilience.Cache[models.ComplianceReport], store ReportStore) *Service {
	return &Service{engine: engine, analyzer: a, cache: cache, store: store}
}

// CheckCompliance returns the report for (policy, owner, framework).
// An empty framework is auto-detected from the text. forceRefresh
// bypasses both cache tiers and overwrites them with the fresh result.
func (s *Service) CheckCompliance(ctx context.Context, policyID, ownerID, text, framework string, forceRefresh bool) (models.ComplianceReport, error) {
	if framework == "" {
		framework = s.engine.Detect(text)
	}
	framework = s.engine.Resolve(framework).Key
	key := reportKey(policyID, ownerID, framework)

	if !forceRefresh {
		if rep, ok := s.cache.Get(key); ok {
			return rep, nil
		}
		if s.store != nil {
			if rep, err := s.store.GetReport(ctx, ownerID, policyID, framework); err == nil {
				s.cache.Set(key, rep)
				return rep, nil
			}
		}
	}

	rep, outcome, err := s.analyzer.Analyze(ctx, policyID, ownerID, text, framework)
	if err != nil {
		log.Printf("compliance: model analysis failed, using rule engine: %v", err)
		rep = s.engine.Report(policyID, ownerID, text, framework)
	} else if outcome == OutcomeDegraded {
		log.Printf("compliance: degraded analysis for policy %s", policyID)
	}

	if s.store != nil {
		if err := s.store.UpsertReport(ctx, rep); err != nil {
			log.Printf("compliance: persist report failed: %v", err)
		}
	}
	s.cache.Set(key, rep)
	return rep, nil
}

func reportKey(policyID, ownerID, framework string) string {
	return fmt.Sprintf("report:%s:%s:%s", ownerID, policyID, framework)
}
