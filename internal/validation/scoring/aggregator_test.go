package scoring

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"shelfcheck/internal/validation/models"
)

type AggregatorSuite struct {
	suite.Suite
	agg *Aggregator
}

func TestAggregatorSuite(t *testing.T) {
	suite.Run(t, new(AggregatorSuite))
}

func (s *AggregatorSuite) SetupTest() {
	s.agg = New()
}

func failure(ruleID string, layer models.Layer, key string) models.Validation {
	return models.Validation{
		RuleID:    ruleID,
		Layer:     layer,
		Severity:  models.SeverityHigh,
		RecordKey: key,
	}
}

func (s *AggregatorSuite) TestEmptyBatch() {
	scores := s.agg.Scores(nil, 0, false)

	for _, domain := range models.Domains() {
		ds := scores[domain]
		s.Equal(0, ds.Total)
		s.Equal(0, ds.Failed)
		s.Equal(100.0, ds.Score)
	}
	s.Equal(100.0, scores[models.DomainOverall].Score)
}

func (s *AggregatorSuite) TestCleanBatch() {
	scores := s.agg.Scores(nil, 20, false)

	for _, domain := range models.Domains() {
		ds := scores[domain]
		s.Equal(20, ds.Total)
		s.Equal(20, ds.Passed)
		s.Equal(100.0, ds.Score)
	}
	s.Equal(100.0, scores[models.DomainOverall].Score)
}

func (s *AggregatorSuite) TestDistinctRecordCounting() {
	s.Run("several findings on one record count once", func() {
		findings := []models.Validation{
			failure("R001", models.LayerRules, "P1"),
			failure("R004", models.LayerRules, "P1"),
		}
		scores := s.agg.Scores(findings, 10, false)
		s.Equal(1, scores[models.DomainPLU].Failed)
		s.Equal(90.0, scores[models.DomainPLU].Score)
	})

	s.Run("same record failing one domain in two layers counts once", func() {
		findings := []models.Validation{
			failure("R003", models.LayerRules, "P1"),
			failure("S001", models.LayerStandards, "P1"),
		}
		scores := s.agg.Scores(findings, 10, false)
		s.Equal(1, scores[models.DomainHierarchy].Failed)
		s.Equal(90.0, scores[models.DomainHierarchy].Score)
	})

	s.Run("distinct records accumulate", func() {
		findings := []models.Validation{
			failure("R001", models.LayerRules, "P1"),
			failure("R001", models.LayerRules, "P2"),
			failure("R004", models.LayerRules, "P3"),
		}
		scores := s.agg.Scores(findings, 10, false)
		s.Equal(3, scores[models.DomainPLU].Failed)
		s.Equal(70.0, scores[models.DomainPLU].Score)
	})
}

func (s *AggregatorSuite) TestDomainIsolation() {
	findings := []models.Validation{
		failure("R001", models.LayerRules, "P1"),
	}
	scores := s.agg.Scores(findings, 10, false)

	s.Equal(90.0, scores[models.DomainPLU].Score)
	s.Equal(100.0, scores[models.DomainBarcode].Score)
	s.Equal(100.0, scores[models.DomainPricing].Score)
	s.Equal(100.0, scores[models.DomainHierarchy].Score)
	s.Equal(100.0, scores[models.DomainSupplier].Score)
}

func (s *AggregatorSuite) TestSupplierAlwaysPerfect() {
	// No rule currently maps to the supplier domain.
	findings := []models.Validation{
		failure("R001", models.LayerRules, "P1"),
		failure("S001", models.LayerStandards, "P1"),
		failure("A001", models.LayerAI, "P1"),
	}
	scores := s.agg.Scores(findings, 4, false)
	s.Equal(100.0, scores[models.DomainSupplier].Score)
	s.Equal(0, scores[models.DomainSupplier].Failed)
}

func (s *AggregatorSuite) TestLayerScores() {
	s.Run("recon inactive leaves recon layer score nil", func() {
		scores := s.agg.Scores(nil, 5, false)
		for _, domain := range models.Domains() {
			ls := scores[domain].LayerScores
			s.Require().Contains(ls, models.LayerRecon)
			s.Nil(ls[models.LayerRecon])
			s.NotNil(ls[models.LayerRules])
		}
		s.Nil(scores[models.DomainOverall].LayerScores[models.LayerRecon])
	})

	s.Run("recon active scores the recon layer", func() {
		findings := []models.Validation{
			failure("X001", models.LayerRecon, "P1"),
		}
		scores := s.agg.Scores(findings, 10, true)
		recon := scores[models.DomainBarcode].LayerScores[models.LayerRecon]
		s.Require().NotNil(recon)
		s.Equal(90.0, *recon)
	})

	s.Run("per-domain layer scores split by layer", func() {
		findings := []models.Validation{
			failure("R003", models.LayerRules, "P1"),
			failure("S001", models.LayerStandards, "P1"),
			failure("S001", models.LayerStandards, "P2"),
		}
		scores := s.agg.Scores(findings, 10, false)
		ls := scores[models.DomainHierarchy].LayerScores
		s.Equal(90.0, *ls[models.LayerRules])
		s.Equal(80.0, *ls[models.LayerStandards])
		s.Equal(100.0, *ls[models.LayerAI])
	})
}

func (s *AggregatorSuite) TestOverall() {
	s.Run("weighted across active layers", func() {
		// Rules fails 2 of 10 (80), standards 1 of 10 (90), ai clean (100).
		findings := []models.Validation{
			failure("R001", models.LayerRules, "P1"),
			failure("R002", models.LayerRules, "P2"),
			failure("S005", models.LayerStandards, "P3"),
		}
		scores := s.agg.Scores(findings, 10, false)
		// (80*0.35 + 90*0.30 + 100*0.20) / 0.85
		s.Equal(88.2, scores[models.DomainOverall].Score)
		s.Equal(3, scores[models.DomainOverall].Failed)
		s.Equal(7, scores[models.DomainOverall].Passed)
	})

	s.Run("recon active uses base weights", func() {
		findings := []models.Validation{
			failure("X003", models.LayerRecon, "P1"),
		}
		scores := s.agg.Scores(findings, 10, true)
		// 100*0.35 + 100*0.30 + 100*0.20 + 90*0.15
		s.Equal(98.5, scores[models.DomainOverall].Score)
	})
}

func (s *AggregatorSuite) TestUnmappedRuleAffectsLayerScoresOnly() {
	s.Run("synthetic key moves layer scores but not the tally", func() {
		findings := []models.Validation{
			failure("E001", models.LayerStandards, "engine:standards"),
		}
		scores := s.agg.Scores(findings, 10, false)

		for _, domain := range models.Domains() {
			s.Equal(100.0, scores[domain].Score)
			s.Equal(0, scores[domain].Failed)
		}

		overall := scores[models.DomainOverall]
		s.Equal(90.0, *overall.LayerScores[models.LayerStandards])
		s.Equal(100.0, *overall.LayerScores[models.LayerRules])
		s.Equal(0, overall.Failed)
		s.Equal(10, overall.Passed)
	})

	s.Run("tally stays within the batch when every record fails", func() {
		findings := []models.Validation{
			failure("R001", models.LayerRules, "P1"),
			failure("R001", models.LayerRules, "P2"),
			failure("E001", models.LayerStandards, "engine:standards"),
		}
		scores := s.agg.Scores(findings, 2, false)

		overall := scores[models.DomainOverall]
		s.Equal(2, overall.Failed)
		s.Equal(0, overall.Passed)
	})
}

func (s *AggregatorSuite) TestMoreFailuresNeverRaiseAScore() {
	base := []models.Validation{
		failure("R001", models.LayerRules, "P1"),
	}
	more := append(append([]models.Validation{}, base...),
		failure("R004", models.LayerRules, "P2"),
		failure("S001", models.LayerStandards, "P3"),
	)

	baseScores := s.agg.Scores(base, 10, false)
	moreScores := s.agg.Scores(more, 10, false)

	for _, domain := range append(models.Domains(), models.DomainOverall) {
		s.LessOrEqual(moreScores[domain].Score, baseScores[domain].Score,
			"domain %s", domain)
	}
}
