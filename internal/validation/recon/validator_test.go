package recon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"shelfcheck/internal/validation/models"
)

type ReconValidatorSuite struct {
	suite.Suite
	validator *Validator
	ctx       context.Context
}

func TestReconValidatorSuite(t *testing.T) {
	suite.Run(t, new(ReconValidatorSuite))
}

func (s *ReconValidatorSuite) SetupTest() {
	s.validator = New()
	s.ctx = context.Background()
}

func barcoded(plu, barcode string) models.Record {
	return models.Record{
		PLUCode: models.FlexString(plu),
		Barcode: models.FlexString(barcode),
	}
}

func scanInfo(source string, manualKey, success float64) models.ScanInfo {
	return models.ScanInfo{
		ScanSource:    models.FlexString(source),
		ManualKeyRate: models.Num(manualKey),
		SuccessRate:   models.Num(success),
	}
}

func (s *ReconValidatorSuite) TestInactiveWithoutTelemetry() {
	batch := models.NewBatch([]models.Record{barcoded("P1", "9300601001019")}, nil)
	s.Empty(s.validator.Run(s.ctx, batch))
}

func (s *ReconValidatorSuite) TestHealthyTelemetry() {
	scans := map[string]models.ScanInfo{
		"9300601001019": scanInfo("both", 0.02, 0.97),
	}
	batch := models.NewBatch([]models.Record{barcoded("P1", "9300601001019")}, scans)
	s.Empty(s.validator.Run(s.ctx, batch))
}

func (s *ReconValidatorSuite) TestUnknownBarcode() {
	// Telemetry present but this barcode never appears: flagged for both
	// warehouse and POS.
	batch := models.NewBatch([]models.Record{barcoded("P1", "9300601001019")}, map[string]models.ScanInfo{})
	findings := s.validator.Run(s.ctx, batch)
	s.Require().Len(findings, 2)
	s.Equal(RuleNeverWarehouseScanned, findings[0].RuleID)
	s.Equal(RuleNeverPOSScanned, findings[1].RuleID)
	for _, f := range findings {
		s.Equal("P1", f.RecordKey)
		s.Equal(models.SeverityMedium, f.Severity)
	}
}

func (s *ReconValidatorSuite) TestRecordsWithoutBarcodeSkipped() {
	batch := models.NewBatch([]models.Record{barcoded("P1", "")}, map[string]models.ScanInfo{})
	s.Empty(s.validator.Run(s.ctx, batch))
}

func (s *ReconValidatorSuite) TestScanSources() {
	s.Run("warehouse only flags pos", func() {
		scans := map[string]models.ScanInfo{
			"9300601001019": scanInfo("warehouse", 0.02, 0.97),
		}
		batch := models.NewBatch([]models.Record{barcoded("P1", "9300601001019")}, scans)
		findings := s.validator.Run(s.ctx, batch)
		s.Require().Len(findings, 1)
		s.Equal(RuleNeverPOSScanned, findings[0].RuleID)
	})

	s.Run("pos only flags warehouse", func() {
		scans := map[string]models.ScanInfo{
			"9300601001019": scanInfo("pos", 0.02, 0.97),
		}
		batch := models.NewBatch([]models.Record{barcoded("P1", "9300601001019")}, scans)
		findings := s.validator.Run(s.ctx, batch)
		s.Require().Len(findings, 1)
		s.Equal(RuleNeverWarehouseScanned, findings[0].RuleID)
	})

	s.Run("source compares case-insensitively", func() {
		scans := map[string]models.ScanInfo{
			"9300601001019": scanInfo("Both", 0.02, 0.97),
		}
		batch := models.NewBatch([]models.Record{barcoded("P1", "9300601001019")}, scans)
		s.Empty(s.validator.Run(s.ctx, batch))
	})
}

func (s *ReconValidatorSuite) TestRateThresholds() {
	s.Run("manual key rate at threshold flagged", func() {
		scans := map[string]models.ScanInfo{
			"9300601001019": scanInfo("both", 0.10, 0.97),
		}
		batch := models.NewBatch([]models.Record{barcoded("P1", "9300601001019")}, scans)
		findings := s.validator.Run(s.ctx, batch)
		s.Require().Len(findings, 1)
		s.Equal(RuleHighManualKeyRate, findings[0].RuleID)
		s.Equal(models.SeverityHigh, findings[0].Severity)
	})

	s.Run("success rate below threshold flagged", func() {
		scans := map[string]models.ScanInfo{
			"9300601001019": scanInfo("both", 0.02, 0.79),
		}
		batch := models.NewBatch([]models.Record{barcoded("P1", "9300601001019")}, scans)
		findings := s.validator.Run(s.ctx, batch)
		s.Require().Len(findings, 1)
		s.Equal(RuleLowScanSuccess, findings[0].RuleID)
	})

	s.Run("success rate at threshold passes", func() {
		scans := map[string]models.ScanInfo{
			"9300601001019": scanInfo("both", 0.02, 0.80),
		}
		batch := models.NewBatch([]models.Record{barcoded("P1", "9300601001019")}, scans)
		s.Empty(s.validator.Run(s.ctx, batch))
	})

	s.Run("absent rates skip the rate checks", func() {
		scans := map[string]models.ScanInfo{
			"9300601001019": {ScanSource: "both"},
		}
		batch := models.NewBatch([]models.Record{barcoded("P1", "9300601001019")}, scans)
		s.Empty(s.validator.Run(s.ctx, batch))
	})

	s.Run("rate checks apply even when a source is missing", func() {
		scans := map[string]models.ScanInfo{
			"9300601001019": scanInfo("warehouse", 0.25, 0.60),
		}
		batch := models.NewBatch([]models.Record{barcoded("P1", "9300601001019")}, scans)
		findings := s.validator.Run(s.ctx, batch)
		s.Require().Len(findings, 3)
		s.Equal(RuleNeverPOSScanned, findings[0].RuleID)
		s.Equal(RuleHighManualKeyRate, findings[1].RuleID)
		s.Equal(RuleLowScanSuccess, findings[2].RuleID)
	})
}
