package sim

import (
	"context"
	"encoding/json"
	"net"
	"strconv"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"geosentry/internal/anomaly"
	"geosentry/internal/track"
)

// Default GreptimeDB table names, overridable via NewGreptimeDBWriter args.
const (
	DefaultSampleTable  = "location_samples"
	DefaultEventTable   = "geofence_events"
	DefaultVerdictTable = "anomaly_verdicts"
)

// GreptimeDBWriter persists samples, events, and verdicts to GreptimeDB
// via the ingester client. Persistence lives outside the engine; this is
// the storage collaborator the engine hands its records to.
type GreptimeDBWriter struct {
	client       *greptime.Client
	db           string
	sampleTable  string
	eventTable   string
	verdictTable string
}

// NewGreptimeDBWriter creates a writer and auto-creates its tables.
// Empty table names fall back to the defaults.
func NewGreptimeDBWriter(endpoint, database, sampleTable, eventTable, verdictTable string) (*GreptimeDBWriter, error) {
	if sampleTable == "" {
		sampleTable = DefaultSampleTable
	}
	if eventTable == "" {
		eventTable = DefaultEventTable
	}
	if verdictTable == "" {
		verdictTable = DefaultVerdictTable
	}

	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		host = endpoint
		portStr = ""
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, err
		}
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	ddls := []string{
		`CREATE TABLE IF NOT EXISTS ` + sampleTable + ` (
  entity_id STRING TAG,
  lat DOUBLE,
  lon DOUBLE,
  accuracy_m DOUBLE,
  speed_kmh DOUBLE,
  source STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')`,
		`CREATE TABLE IF NOT EXISTS ` + eventTable + ` (
  entity_id STRING TAG,
  event_id STRING,
  event_type STRING,
  zone_name STRING,
  lat DOUBLE,
  lon DOUBLE,
  severity STRING,
  message STRING,
  resolved STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='90d')`,
		`CREATE TABLE IF NOT EXISTS ` + verdictTable + ` (
  entity_id STRING TAG,
  verdict_type STRING,
  severity STRING,
  confidence DOUBLE,
  description STRING,
  evidence STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='90d')`,
	}
	// The ingester client (greptimedb-ingester-go) exposes no SQL/DDL entry
	// point in any published version, so these statements cannot be executed
	// here; GreptimeDB auto-creates the tables on first write, but the ttl
	// options above are not applied.
	_ = ddls

	return &GreptimeDBWriter{
		client:       client,
		db:           database,
		sampleTable:  sampleTable,
		eventTable:   eventTable,
		verdictTable: verdictTable,
	}, nil
}

// WriteSample inserts a single location sample.
func (w *GreptimeDBWriter) WriteSample(s track.LocationSample) error {
	return w.WriteSamples([]track.LocationSample{s})
}

// WriteSamples inserts multiple location samples.
func (w *GreptimeDBWriter) WriteSamples(rows []track.LocationSample) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.sampleTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("entity_id", types.STRING)
	tbl.AddFieldColumn("lat", types.FLOAT64)
	tbl.AddFieldColumn("lon", types.FLOAT64)
	tbl.AddFieldColumn("accuracy_m", types.FLOAT64)
	tbl.AddFieldColumn("speed_kmh", types.FLOAT64)
	tbl.AddFieldColumn("source", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP)

	for _, r := range rows {
		if err := tbl.AddRow(r.EntityID, r.Point.Lat, r.Point.Lon,
			deref(r.AccuracyM), deref(r.SpeedKmh), r.Source, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(tbl)
}

// WriteEvent inserts a single geofence event.
func (w *GreptimeDBWriter) WriteEvent(e track.GeofenceEvent) error {
	return w.WriteEvents([]track.GeofenceEvent{e})
}

// WriteEvents inserts multiple geofence events.
func (w *GreptimeDBWriter) WriteEvents(rows []track.GeofenceEvent) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.eventTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("entity_id", types.STRING)
	tbl.AddFieldColumn("event_id", types.STRING)
	tbl.AddFieldColumn("event_type", types.STRING)
	tbl.AddFieldColumn("zone_name", types.STRING)
	tbl.AddFieldColumn("lat", types.FLOAT64)
	tbl.AddFieldColumn("lon", types.FLOAT64)
	tbl.AddFieldColumn("severity", types.STRING)
	tbl.AddFieldColumn("message", types.STRING)
	tbl.AddFieldColumn("resolved", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP)

	for _, r := range rows {
		if err := tbl.AddRow(r.EntityID, r.ID, string(r.Type), r.ZoneName,
			r.Point.Lat, r.Point.Lon, string(r.Severity), r.Message,
			strconv.FormatBool(r.Resolved), r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(tbl)
}

// WriteVerdict inserts a single anomaly verdict.
func (w *GreptimeDBWriter) WriteVerdict(v anomaly.Verdict) error {
	return w.WriteVerdicts([]anomaly.Verdict{v})
}

// WriteVerdicts inserts multiple anomaly verdicts.
func (w *GreptimeDBWriter) WriteVerdicts(rows []anomaly.Verdict) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.verdictTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("entity_id", types.STRING)
	tbl.AddFieldColumn("verdict_type", types.STRING)
	tbl.AddFieldColumn("severity", types.STRING)
	tbl.AddFieldColumn("confidence", types.FLOAT64)
	tbl.AddFieldColumn("description", types.STRING)
	tbl.AddFieldColumn("evidence", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP)

	for _, r := range rows {
		evidence, _ := json.Marshal(r.Evidence)
		if err := tbl.AddRow(r.EntityID, string(r.Type), string(r.Severity),
			r.Confidence, r.Description, string(evidence), r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(tbl)
}

func (w *GreptimeDBWriter) write(tbl *table.Table) error {
	ctx := ingesterContext.New(context.Background())
	_, err := w.client.Write(ctx, tbl)
	return err
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
