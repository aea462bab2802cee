package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/internal/factorydb"
	"github.com/factorscope/factorscope/internal/modelio"
	"github.com/factorscope/factorscope/internal/outwriter"
	"github.com/factorscope/factorscope/schema"
)

// ExecutorFunc defines the function signature for executing analysis commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteOEE runs the OEE analysis and prints results to stdout.
// It serves as the main entry point for the 'oee' command.
func ExecuteOEE(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	rows, err := GetOEEResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	ranked := LimitKPIRows(rows, cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteKPI(ranked, cfg, time.Since(start))
}

// ExecutePareto runs the downtime Pareto analysis and prints results to stdout.
func ExecutePareto(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	buckets, err := GetParetoResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	ranked := LimitBuckets(buckets, cfg.ResultLimit)
	return outwriter.NewOutWriter().WritePareto(ranked, cfg, time.Since(start))
}

// ExecuteEnergy runs the daily energy analysis and prints results to stdout.
func ExecuteEnergy(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	rows, err := GetEnergyResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	ranked := LimitEnergyRows(rows, cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteEnergy(ranked, cfg, time.Since(start))
}

// ExecuteFeatures builds model input rows and prints them to stdout.
func ExecuteFeatures(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	rows, err := GetFeatureResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	ranked := LimitFeatureRows(rows, cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteFeatures(ranked, cfg, time.Since(start))
}

// ExecuteRisk scores machines with the configured model and prints results.
func ExecuteRisk(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	scores, err := GetRiskResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	ranked := LimitScores(scores, cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteRisk(ranked, cfg, time.Since(start))
}

// ExecuteSchedule runs the order schedule-risk analysis and prints results.
func ExecuteSchedule(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	rows, err := GetScheduleResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	ranked := LimitScheduleRows(rows, cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteSchedule(ranked, cfg, time.Since(start))
}

// ExecuteAnomalies runs the fleet energy anomaly scan and prints results.
func ExecuteAnomalies(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	rows, err := GetAnomalyResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	ranked := LimitEnergyAnomalies(rows, cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteAnomalies(ranked, cfg, time.Since(start))
}

// ExecuteHealth runs the composite health report and prints results.
func ExecuteHealth(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	reports, err := GetHealthResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	ranked := LimitHealthReports(reports, cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteHealth(ranked, cfg, time.Since(start))
}

// GetOEEResults loads production and event records and computes daily OEE
// rows per machine. Results are cached per source identity and query window.
func GetOEEResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.KPIRow, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogAnalysisHeader(cfg, "oee")
	}

	ds, err := factorydb.Open(cfg.DBBackend, cfg.DBConnect)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	key := resultCacheKey(ds.Identity(), "oee", cfg)
	return cachedResult(resultStore(mgr), key, "oee", func() ([]schema.KPIRow, error) {
		production, events, err := loadProductionAndEvents(ctx, ds, queryFilter(cfg))
		if err != nil {
			return nil, err
		}
		return ComputeOEE(production, events), nil
	})
}

// GetParetoResults loads event records and computes the downtime Pareto table.
func GetParetoResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.DowntimeBucket, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogAnalysisHeader(cfg, "pareto")
	}

	ds, err := factorydb.Open(cfg.DBBackend, cfg.DBConnect)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	key := resultCacheKey(ds.Identity(), "pareto", cfg)
	return cachedResult(resultStore(mgr), key, "pareto", func() ([]schema.DowntimeBucket, error) {
		events, err := ds.LoadEvents(ctx, queryFilter(cfg))
		if err != nil {
			return nil, err
		}
		if len(events) == 0 {
			return nil, schema.ErrNoData
		}
		return DowntimePareto(events), nil
	})
}

// GetEnergyResults loads energy and production records and computes daily
// energy rows per machine, with peak spike alerts.
func GetEnergyResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.EnergyRow, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogAnalysisHeader(cfg, "energy")
	}

	ds, err := factorydb.Open(cfg.DBBackend, cfg.DBConnect)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	key := resultCacheKey(ds.Identity(), "energy", cfg)
	return cachedResult(resultStore(mgr), key, "energy", func() ([]schema.EnergyRow, error) {
		filter := queryFilter(cfg)
		energy, err := ds.LoadEnergy(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(energy) == 0 {
			return nil, schema.ErrNoData
		}
		production, err := ds.LoadProduction(ctx, filter)
		if err != nil {
			return nil, err
		}
		return DailyEnergy(energy, production, cfg.SpikeFactor), nil
	})
}

// GetScheduleResults loads production orders and their routing steps and
// assesses schedule risk as of the analysis end time.
func GetScheduleResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.ScheduleRow, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogAnalysisHeader(cfg, "schedule")
	}

	ds, err := factorydb.Open(cfg.DBBackend, cfg.DBConnect)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	key := resultCacheKey(ds.Identity(), "schedule", cfg)
	return cachedResult(resultStore(mgr), key, "schedule", func() ([]schema.ScheduleRow, error) {
		orders, err := ds.LoadOrders(ctx)
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			return nil, schema.ErrNoData
		}
		steps, err := ds.LoadOrderSteps(ctx)
		if err != nil {
			return nil, err
		}
		return ComputeSchedule(orders, steps, cfg.EndTime), nil
	})
}

// GetAnomalyResults loads energy records and flags machines whose total
// consumption is unusual for the fleet.
func GetAnomalyResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.EnergyAnomaly, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogAnalysisHeader(cfg, "anomaly")
	}

	ds, err := factorydb.Open(cfg.DBBackend, cfg.DBConnect)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	// The threshold participates in the key so a different --anomaly-std never
	// serves another run's cached verdicts.
	key := resultCacheKey(ds.Identity(), fmt.Sprintf("anomaly:%g", cfg.AnomalyStd), cfg)
	return cachedResult(resultStore(mgr), key, "anomaly", func() ([]schema.EnergyAnomaly, error) {
		energy, err := ds.LoadEnergy(ctx, queryFilter(cfg))
		if err != nil {
			return nil, err
		}
		if len(energy) == 0 {
			return nil, schema.ErrNoData
		}
		return DetectEnergyAnomalies(energy, cfg.AnomalyStd), nil
	})
}

// GetFeatureResults builds one model input row per qualifying machine at the
// end of the analysis window. History loads are unbounded on the start side so
// cumulative runtime and time-since-last-fault see the full past.
func GetFeatureResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.FeatureRow, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogAnalysisHeader(cfg, "features")
	}

	ds, err := factorydb.Open(cfg.DBBackend, cfg.DBConnect)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	machines, err := ds.LoadMachines(ctx)
	if err != nil {
		return nil, err
	}
	machines = filterMachines(machines, cfg)
	if len(machines) == 0 {
		return nil, schema.ErrNoData
	}

	filter := historyFilter(cfg)
	events, err := ds.LoadEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, schema.ErrNoData
	}
	production, err := ds.LoadProduction(ctx, filter)
	if err != nil {
		return nil, err
	}
	energy, err := ds.LoadEnergy(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := FeatureOptions{
		Window:        cfg.RollingWindow,
		MinRecords:    cfg.MinRecords,
		FaultSentinel: cfg.FaultSentinel,
	}
	rows, err := BuildFeatureRows(machines, events, production, energy, cfg.EndTime, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no machine has at least %d events before %s",
			schema.ErrInsufficientHistory, opts.MinRecords, cfg.EndTime.Format(contract.DateTimeFormat))
	}
	return rows, nil
}

// GetRiskResults builds feature rows, loads the model artifact and scores
// every qualifying machine, sorted by probability descending. This is the
// one-shot path; long-lived callers load the artifact once and go through
// GetRiskResultsWithClassifier instead.
func GetRiskResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.RiskScore, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("--model-path is required")
	}

	clf, err := modelio.Load(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	return GetRiskResultsWithClassifier(ctx, cfg, mgr, clf)
}

// GetRiskResultsWithClassifier scores every qualifying machine with an
// already loaded classifier, sorted by probability descending.
func GetRiskResultsWithClassifier(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, clf contract.Classifier) ([]schema.RiskScore, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogAnalysisHeader(cfg, "risk")
	}

	rows, err := GetFeatureResults(WithSuppressHeader(ctx), cfg, mgr)
	if err != nil {
		return nil, err
	}

	scorer, err := NewRiskScorer(clf, cfg.Thresholds)
	if err != nil {
		return nil, err
	}
	return scorer.ScoreAll(rows)
}

// GetHealthResults computes the composite health report. It reuses the OEE
// and energy computations over a single connection rather than going through
// the per-analysis caches.
func GetHealthResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.HealthReport, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogAnalysisHeader(cfg, "health")
	}

	ds, err := factorydb.Open(cfg.DBBackend, cfg.DBConnect)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	filter := queryFilter(cfg)
	production, events, err := loadProductionAndEvents(ctx, ds, filter)
	if err != nil {
		return nil, err
	}
	energy, err := ds.LoadEnergy(ctx, filter)
	if err != nil {
		return nil, err
	}

	kpis := ComputeOEE(production, events)
	energyRows := DailyEnergy(energy, production, cfg.SpikeFactor)
	return ComputeHealth(kpis, energyRows), nil
}

// loadProductionAndEvents loads both record kinds and maps an empty combined
// result to ErrNoData.
func loadProductionAndEvents(ctx context.Context, ds contract.DataSource, filter schema.QueryFilter) ([]schema.ProductionRecord, []schema.EventRecord, error) {
	production, err := ds.LoadProduction(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	events, err := ds.LoadEvents(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	if len(production) == 0 && len(events) == 0 {
		return nil, nil, schema.ErrNoData
	}
	return production, events, nil
}

// queryFilter maps the config to the bounded analysis window.
func queryFilter(cfg *contract.Config) schema.QueryFilter {
	return schema.QueryFilter{
		MachineID: cfg.MachineID,
		Line:      cfg.Line,
		StartTime: cfg.StartTime,
		EndTime:   cfg.EndTime,
	}
}

// historyFilter maps the config to a window with an open start, for features
// that need the complete past up to the as-of time.
func historyFilter(cfg *contract.Config) schema.QueryFilter {
	return schema.QueryFilter{
		MachineID: cfg.MachineID,
		Line:      cfg.Line,
		EndTime:   cfg.EndTime,
	}
}

// filterMachines narrows the machine list to the configured scope.
func filterMachines(machines []schema.Machine, cfg *contract.Config) []schema.Machine {
	if cfg.MachineID == "" && cfg.Line == "" {
		return machines
	}
	filtered := make([]schema.Machine, 0, len(machines))
	for _, m := range machines {
		if cfg.MachineID != "" && m.MachineID != cfg.MachineID {
			continue
		}
		if cfg.Line != "" && m.Line != cfg.Line {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// resultStore extracts the result cache store, tolerating a nil manager.
func resultStore(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetResultStore()
}
