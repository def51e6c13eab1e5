package main

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type widget string

const (
	widgetEmployees   widget = "employees"
	widgetActivity    widget = "activity"
	widgetCallRange   widget = "callstats_range"
	widgetCallSummary widget = "callstats_summary"
	widgetWebUsage    widget = "web_usage"
	widgetScorecard   widget = "scorecard"
	widgetDrilldown   widget = "drilldown"
	widgetAI          widget = "ai"
)

type dashboardOptions struct {
	owner             callStatsOwner
	managerID         int
	currentPath       string
	scorecardTimezone string
	timing            dashboardTiming
}

type dashboardTiming struct {
	debounce   time.Duration
	rangeDelay time.Duration
	chartDelay time.Duration
}

func (t dashboardTiming) withDefaults() dashboardTiming {
	if t.debounce <= 0 {
		t.debounce = 250 * time.Millisecond
	}
	if t.rangeDelay <= 0 {
		t.rangeDelay = 200 * time.Millisecond
	}
	if t.chartDelay <= 0 {
		t.chartDelay = 250 * time.Millisecond
	}
	return t
}

// dashboard is one open page: its view plus the renderers that fill it.
type dashboard struct {
	view        *view
	client      *backendClient
	owner       callStatsOwner
	managerID   int
	currentPath string
	timezone    string
	clock       clock
	log         logrus.FieldLogger
	metrics     *metrics

	dates  *debouncer
	timing dashboardTiming

	genMu sync.Mutex
	gens  map[widget]uint64

	initOnce sync.Once
	timerMu  sync.Mutex
	timers   []timer
}

func newDashboard(client *backendClient, opts dashboardOptions, c clock, log logrus.FieldLogger, m *metrics) *dashboard {
	if c == nil {
		c = realClock{}
	}
	d := &dashboard{
		view:        newView(),
		client:      client,
		owner:       opts.owner,
		managerID:   opts.managerID,
		currentPath: opts.currentPath,
		timezone:    opts.scorecardTimezone,
		clock:       c,
		log:         log,
		metrics:     m,
		timing:      opts.timing.withDefaults(),
		gens:        make(map[widget]uint64),
	}
	d.dates = newDebouncer(c, d.timing.debounce)
	d.view.setOptions(idEmployeeSelect, []selectOption{allEmployeesOption})
	d.view.setValue(idEmployeeSelect, allEmployees)
	return d
}

// begin starts a new request for w and returns its generation.
func (d *dashboard) begin(w widget) uint64 {
	d.genMu.Lock()
	defer d.genMu.Unlock()
	d.gens[w]++
	return d.gens[w]
}

// commit runs apply only if gen is still the newest request for w, so a
// slow response never overwrites a newer one.
func (d *dashboard) commit(w widget, gen uint64, apply func()) bool {
	d.genMu.Lock()
	defer d.genMu.Unlock()
	if d.gens[w] != gen {
		d.metrics.observeStale(w)
		d.log.WithFields(logrus.Fields{"widget": w, "generation": gen}).Debug("discarding stale response")
		return false
	}
	apply()
	return true
}

func (d *dashboard) selectedEmployee() string {
	if v := d.view.value(idEmployeeSelect); v != "" {
		return v
	}
	return allEmployees
}

func (d *dashboard) hasDateRange() bool {
	return d.view.value(idRangeStart) != "" && d.view.value(idRangeEnd) != ""
}

// refreshAll re-renders activity, the web-usage chart and, when this
// dashboard owns them, the call-stats cells.
func (d *dashboard) refreshAll(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error { d.updateActivity(ctx); return nil })
	g.Go(func() error { d.updateWebUsage(ctx); return nil })
	if d.owner.canWriteCallStats() {
		if d.hasDateRange() {
			g.Go(func() error { d.applyDateRange(ctx); return nil })
		} else {
			g.Go(func() error { d.updateCallSummary(ctx); return nil })
		}
	}
	_ = g.Wait()
}

func (d *dashboard) onEmployeeChange(ctx context.Context, employee string) {
	if employee == "" {
		employee = allEmployees
	}
	d.view.setValue(idEmployeeSelect, employee)
	d.refreshAll(ctx)
}

// onDatesChanged records the new inputs and refreshes the chart once the
// inputs have been quiet for the debounce period.
func (d *dashboard) onDatesChanged(ctx context.Context, start, end string) {
	d.view.setValue(idRangeStart, start)
	d.view.setValue(idRangeEnd, end)
	d.dates.schedule(func() { d.updateWebUsage(ctx) })
}

func (d *dashboard) onApply(ctx context.Context, start, end string) {
	d.view.setValue(idRangeStart, start)
	d.view.setValue(idRangeEnd, end)
	d.dates.cancel()
	var g errgroup.Group
	g.Go(func() error { d.applyDateRange(ctx); return nil })
	g.Go(func() error { d.updateWebUsage(ctx); return nil })
	_ = g.Wait()
}

func (d *dashboard) onScorecardDate(ctx context.Context, date string) {
	d.view.setValue(idScorecardDate, date)
	d.fetchScorecard(ctx)
}

// initialize runs the page's first load. A second call is ignored.
func (d *dashboard) initialize(ctx context.Context, start, end string) bool {
	first := false
	d.initOnce.Do(func() { first = true })
	if !first {
		d.log.Warn("dashboard already initialised, ignoring second init")
		return false
	}

	d.view.setValue(idRangeStart, start)
	d.view.setValue(idRangeEnd, end)
	d.view.setValue(idScorecardDate, todayIn(d.clock.Now(), d.timezone))

	var g errgroup.Group
	g.Go(func() error { d.fetchScorecard(ctx); return nil })
	g.Go(func() error {
		d.loadEmployees(ctx)
		d.view.setValue(idEmployeeSelect, allEmployees)

		var refresh errgroup.Group
		refresh.Go(func() error { d.refreshAll(ctx); return nil })
		// The date picker may fill its defaults after the page script ran.
		// The delays count from the employee list, not from the refresh.
		d.later(d.timing.rangeDelay, func() { d.applyDateRange(ctx) })
		d.later(d.timing.chartDelay, func() { d.updateWebUsage(ctx) })
		return refresh.Wait()
	})
	_ = g.Wait()
	return true
}

func (d *dashboard) later(delay time.Duration, fn func()) {
	t := d.clock.AfterFunc(delay, fn)
	d.timerMu.Lock()
	d.timers = append(d.timers, t)
	d.timerMu.Unlock()
}

// close drops pending debounced and delayed work.
func (d *dashboard) close() {
	d.dates.cancel()
	d.timerMu.Lock()
	defer d.timerMu.Unlock()
	for _, t := range d.timers {
		t.Stop()
	}
	d.timers = nil
}
