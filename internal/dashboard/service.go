// Package dashboard owns the loaded dataset and turns filter queries into
// dashboard views, code searches, drill-downs and exports.
package dashboard

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow/internal/engine"
	"github.com/sells-group/tradeflow/internal/model"
	"github.com/sells-group/tradeflow/internal/session"
	"github.com/sells-group/tradeflow/internal/sheet"
)

var (
	// ErrNoInput is returned by every operation until a dataset is loaded.
	ErrNoInput = eris.New("upload a spreadsheet to begin")
	// ErrEmptyExport is returned when the requested view has no rows to write.
	ErrEmptyExport = eris.New("no data to download")
)

// Export file names.
const (
	FilteredExportName = "comercio_filtrado.xlsx"
	codeExportPattern  = "partida_%s_filtrada.xlsx"
)

// Dataset is one loaded source file.
type Dataset struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	LoadedAt time.Time    `json:"loaded_at" yaml:"loaded_at"`
	Rows     int          `json:"rows" yaml:"rows"`
	Columns  int          `json:"columns" yaml:"columns"`
	Table    *model.Table `json:"-" yaml:"-"`
}

// Config tunes the views produced by a Service. A zero TopN or MatchLimit
// and a negative MatchCutoff fall back to the engine defaults; a
// MatchCutoff of 0 accepts every code. Start from DefaultConfig.
type Config struct {
	TopN         int
	MatchLimit   int
	MatchCutoff  float64
	DefaultStart time.Time
	SheetName    string
	Load         sheet.Options
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		TopN:         engine.DefaultTopN,
		MatchLimit:   engine.DefaultMatchLimit,
		MatchCutoff:  engine.DefaultMatchCutoff,
		DefaultStart: engine.DefaultRangeFloor,
		SheetName:    sheet.DefaultSheetName,
	}
}

func (c Config) withDefaults() Config {
	if c.TopN <= 0 {
		c.TopN = engine.DefaultTopN
	}
	if c.MatchLimit <= 0 {
		c.MatchLimit = engine.DefaultMatchLimit
	}
	if c.MatchCutoff < 0 {
		c.MatchCutoff = engine.DefaultMatchCutoff
	}
	if c.DefaultStart.IsZero() {
		c.DefaultStart = engine.DefaultRangeFloor
	}
	if c.SheetName == "" {
		c.SheetName = sheet.DefaultSheetName
	}
	return c
}

// Service holds the current dataset and the session state of one user.
type Service struct {
	cfg   Config
	store session.Store
	now   func() time.Time

	mu      sync.RWMutex
	current *Dataset
}

// NewService creates a Service with no dataset loaded. A nil store gets an
// in-memory one.
func NewService(cfg Config, store session.Store) *Service {
	if store == nil {
		store = session.NewMemoryStore()
	}
	return &Service{cfg: cfg.withDefaults(), store: store, now: time.Now}
}

// Load parses and normalizes an uploaded file and makes it the current
// dataset. The previous dataset stays current if parsing fails.
func (s *Service) Load(ctx context.Context, name string, b []byte) (*Dataset, error) {
	tbl, err := sheet.LoadBytes(ctx, name, b, s.cfg.Load)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: load")
	}
	return s.install(name, tbl), nil
}

// LoadFile is Load for a file on disk.
func (s *Service) LoadFile(ctx context.Context, path string) (*Dataset, error) {
	tbl, err := sheet.Load(ctx, path, s.cfg.Load)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: load")
	}
	return s.install(filepath.Base(path), tbl), nil
}

func (s *Service) install(name string, tbl *model.Table) *Dataset {
	ds := &Dataset{
		ID:       uuid.New().String(),
		Name:     name,
		LoadedAt: s.now().UTC(),
		Rows:     tbl.Len(),
		Columns:  tbl.Width(),
		Table:    tbl,
	}
	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()

	zap.L().Info("dashboard: dataset loaded",
		zap.String("dataset_id", ds.ID),
		zap.String("name", name),
		zap.Int("rows", ds.Rows),
	)
	return ds
}

// Dataset returns the current dataset or ErrNoInput.
func (s *Service) Dataset() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoInput
	}
	return s.current, nil
}

// OptionSet is what the filter controls are populated from.
type OptionSet struct {
	Fields   map[string][]string `json:"fields" yaml:"fields"`
	Start    string              `json:"start,omitempty" yaml:"start,omitempty"`
	End      string              `json:"end,omitempty" yaml:"end,omitempty"`
	HasDates bool                `json:"has_dates" yaml:"has_dates"`
}

// Options lists the distinct values of every filter field and the default
// date range of the current dataset.
func (s *Service) Options() (*OptionSet, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	out := &OptionSet{Fields: make(map[string][]string, len(engine.FilterFields))}
	for f, vals := range engine.Options(ds.Table, engine.FilterFields...) {
		out.Fields[f.Name()] = vals
	}
	if start, end, ok := engine.DefaultRange(ds.Table, s.cfg.DefaultStart); ok {
		out.Start = start.Format(model.DateLayout)
		out.End = end.Format(model.DateLayout)
		out.HasDates = true
	}
	return out, nil
}

// View is a rendered dashboard for one query.
type View struct {
	Dataset    *Dataset              `json:"dataset" yaml:"dataset"`
	Start      string                `json:"start" yaml:"start"`
	End        string                `json:"end" yaml:"end"`
	Dashboard  *engine.Dashboard     `json:"dashboard" yaml:"dashboard"`
	LastSearch *session.SearchResult `json:"last_search,omitempty" yaml:"last_search,omitempty"`
}

// View filters the current dataset and builds every dashboard view. The last
// search of the session is attached if it was run against this dataset.
func (s *Service) View(q Query) (*View, error) {
	ds, filtered, f, err := s.filtered(q)
	if err != nil {
		return nil, err
	}
	v := &View{
		Dataset:   ds,
		Start:     f.Start.Format(model.DateLayout),
		End:       f.End.Format(model.DateLayout),
		Dashboard: engine.BuildDashboard(filtered, s.cfg.TopN),
	}
	if last, ok := s.store.Search(); ok && last.DatasetID == ds.ID {
		v.LastSearch = last
	}
	return v, nil
}

// Search runs a fuzzy tariff-code search over the unfiltered dataset and
// stores the outcome in the session, replacing the previous one. The query
// is trimmed before it is matched and stored.
func (s *Service) Search(query string) (*session.SearchResult, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	matches, err := engine.SearchCodes(ds.Table, query, s.cfg.MatchLimit, s.cfg.MatchCutoff)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: search")
	}
	r := &session.SearchResult{
		DatasetID:  ds.ID,
		Query:      query,
		Matches:    matches,
		SearchedAt: s.now().UTC(),
	}
	s.store.SetSearch(r)

	zap.L().Debug("dashboard: code search",
		zap.String("query", query),
		zap.Int("matches", len(matches)),
	)
	return r, nil
}

// LastSearch returns the stored search outcome for the current dataset.
func (s *Service) LastSearch() (*session.SearchResult, bool) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, false
	}
	r, ok := s.store.Search()
	if !ok || r.DatasetID != ds.ID {
		return nil, false
	}
	return r, true
}

// Selection drills the filtered dataset down to one tariff code.
func (s *Service) Selection(q Query, code string) (*engine.Partition, error) {
	_, filtered, _, err := s.filtered(q)
	if err != nil {
		return nil, err
	}
	p, err := engine.DrillDown(filtered, code, s.cfg.TopN)
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: selection")
	}
	return p, nil
}

// Download is a filtered table ready to be written as a workbook.
type Download struct {
	FileName  string
	SheetName string
	Table     *model.Table
}

// Write encodes the download as XLSX.
func (d *Download) Write(w io.Writer) error {
	return sheet.WriteXLSX(w, d.Table, d.SheetName)
}

// Save writes the download to path. The file is closed before returning and
// a failed close is reported.
func (d *Download) Save(path string) error {
	return sheet.SaveXLSX(path, d.Table, d.SheetName)
}

// Export prepares the filtered view, or its drill-down to code when code is
// not empty, for download. An empty view yields ErrEmptyExport.
func (s *Service) Export(q Query, code string) (*Download, error) {
	_, filtered, _, err := s.filtered(q)
	if err != nil {
		return nil, err
	}
	d := &Download{FileName: FilteredExportName, SheetName: s.cfg.SheetName, Table: filtered}
	if code != "" {
		rows, err := engine.SelectCode(filtered, code)
		if err != nil {
			return nil, eris.Wrap(err, "dashboard: export")
		}
		d.FileName = CodeExportName(code)
		d.Table = rows
	}
	if d.Table.Empty() {
		return nil, ErrEmptyExport
	}
	return d, nil
}

func (s *Service) filtered(q Query) (*Dataset, *model.Table, engine.Filter, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, nil, engine.Filter{}, err
	}
	f, err := q.Filter(ds.Table, s.cfg.DefaultStart)
	if err != nil {
		return nil, nil, engine.Filter{}, err
	}
	out, err := engine.Apply(ds.Table, f)
	if err != nil {
		return nil, nil, engine.Filter{}, eris.Wrap(err, "dashboard: filter")
	}
	return ds, out, f, nil
}
