package workspace

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wonny/tradelens/internal/contracts"
	"github.com/wonny/tradelens/internal/performance"
	"github.com/wonny/tradelens/internal/returns"
	"github.com/wonny/tradelens/pkg/logger"
)

var (
	ErrTraderNotFound = errors.New("trader not found")
	ErrFirmNotFound   = errors.New("firm not found")
	ErrEmptyID        = errors.New("id is required")
)

// firmEntry holds member trader IDs by reference
type firmEntry struct {
	id        string
	name      string
	traderIDs []string
}

// Workspace is the in-memory working set of traders and firms
// ⭐ SSOT: trader metrics are recomputed here on every write
type Workspace struct {
	mu      sync.RWMutex
	traders map[string]*contracts.TraderProfile
	firms   map[string]*firmEntry
	opts    performance.Options
	logger  *logger.Logger
	now     func() time.Time
}

// New creates an empty workspace. A nil logger discards output.
func New(opts performance.Options, log *logger.Logger) *Workspace {
	if log == nil {
		log = logger.Nop()
	}
	return &Workspace{
		traders: make(map[string]*contracts.TraderProfile),
		firms:   make(map[string]*firmEntry),
		opts:    opts,
		logger:  log.WithComponent("workspace"),
		now:     time.Now,
	}
}

// PutFirm creates or renames a firm. Existing members are kept.
func (w *Workspace) PutFirm(id, name string) error {
	if id == "" {
		return fmt.Errorf("put firm: %w", ErrEmptyID)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if f, ok := w.firms[id]; ok {
		f.name = name
		return nil
	}
	w.firms[id] = &firmEntry{id: id, name: name}
	return nil
}

// PutTrader replaces the trader's trades and recomputes its metrics.
// A non-empty firmID must name an existing firm; the trader moves to it.
func (w *Workspace) PutTrader(id, firmID string, trades []contracts.Trade) (contracts.TraderProfile, error) {
	if id == "" {
		return contracts.TraderProfile{}, fmt.Errorf("put trader: %w", ErrEmptyID)
	}

	sorted := returns.SortByExit(trades)
	metrics := performance.Calculate(sorted, w.opts)

	w.mu.Lock()
	defer w.mu.Unlock()

	if firmID != "" {
		if _, ok := w.firms[firmID]; !ok {
			return contracts.TraderProfile{}, fmt.Errorf("put trader %s: %w: %s", id, ErrFirmNotFound, firmID)
		}
	}

	if prev, ok := w.traders[id]; ok && prev.FirmID != firmID {
		w.detach(prev.FirmID, id)
	}
	if firmID != "" {
		w.attach(firmID, id)
	}

	profile := &contracts.TraderProfile{
		ID:          id,
		FirmID:      firmID,
		Trades:      sorted,
		Metrics:     metrics,
		LastUpdated: w.now().UTC(),
	}
	w.traders[id] = profile

	w.logger.WithFields(map[string]interface{}{
		"trader": id,
		"firm":   firmID,
		"trades": len(sorted),
	}).Debug("Trader updated")

	return copyProfile(profile), nil
}

// DeleteTrader discards the trader's trades and removes it from its firm
func (w *Workspace) DeleteTrader(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev, ok := w.traders[id]
	if !ok {
		return fmt.Errorf("delete trader %s: %w", id, ErrTraderNotFound)
	}
	w.detach(prev.FirmID, id)
	delete(w.traders, id)
	return nil
}

// Trader returns a copy of the trader's profile
func (w *Workspace) Trader(id string) (contracts.TraderProfile, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	p, ok := w.traders[id]
	if !ok {
		return contracts.TraderProfile{}, fmt.Errorf("trader %s: %w", id, ErrTraderNotFound)
	}
	return copyProfile(p), nil
}

// Traders returns copies of every profile ordered by ID
func (w *Workspace) Traders() []contracts.TraderProfile {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]contracts.TraderProfile, 0, len(w.traders))
	for _, p := range w.traders {
		out = append(out, copyProfile(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Firm assembles the firm profile with aggregate metrics over all member trades
func (w *Workspace) Firm(id string) (contracts.FirmProfile, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	f, ok := w.firms[id]
	if !ok {
		return contracts.FirmProfile{}, fmt.Errorf("firm %s: %w", id, ErrFirmNotFound)
	}

	profile := contracts.FirmProfile{
		ID:      f.id,
		Name:    f.name,
		Traders: make([]contracts.TraderProfile, 0, len(f.traderIDs)),
	}
	for _, tid := range f.traderIDs {
		if p, ok := w.traders[tid]; ok {
			profile.Traders = append(profile.Traders, copyProfile(p))
		}
	}
	profile.AggregateMetrics = performance.Calculate(returns.SortByExit(profile.AllTrades()), w.opts)
	return profile, nil
}

// Firms returns every firm profile ordered by ID
func (w *Workspace) Firms() []contracts.FirmProfile {
	w.mu.RLock()
	ids := make([]string, 0, len(w.firms))
	for id := range w.firms {
		ids = append(ids, id)
	}
	w.mu.RUnlock()

	sort.Strings(ids)
	out := make([]contracts.FirmProfile, 0, len(ids))
	for _, id := range ids {
		if f, err := w.Firm(id); err == nil {
			out = append(out, f)
		}
	}
	return out
}

// attach appends traderID to the firm once; caller holds the write lock
func (w *Workspace) attach(firmID, traderID string) {
	f := w.firms[firmID]
	for _, id := range f.traderIDs {
		if id == traderID {
			return
		}
	}
	f.traderIDs = append(f.traderIDs, traderID)
}

// detach removes traderID from the firm; caller holds the write lock
func (w *Workspace) detach(firmID, traderID string) {
	f, ok := w.firms[firmID]
	if !ok {
		return
	}
	for i, id := range f.traderIDs {
		if id == traderID {
			f.traderIDs = append(f.traderIDs[:i], f.traderIDs[i+1:]...)
			return
		}
	}
}

func copyProfile(p *contracts.TraderProfile) contracts.TraderProfile {
	out := *p
	out.Trades = append([]contracts.Trade(nil), p.Trades...)
	return out
}
