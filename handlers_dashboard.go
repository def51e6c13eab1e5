package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func serveDashboard(c *gin.Context) {
	clientIDFrom(c)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, dashboardHTML)
}

// dashboardHTML is the page shell. Its script forwards input events to the
// server and applies the polled view snapshot to the DOM.
const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Manager Dashboard</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"></script>
  <style>
    :root {
      --bg: #0f1419;
      --ink: #e6f1ff;
      --muted: #8b9bb4;
      --card: #17202a;
      --accent: #00f0ff;
      --border: #243040;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      font-family: "Segoe UI", "Helvetica Neue", Arial, sans-serif;
      color: var(--ink);
      background: var(--bg);
    }
    header {
      padding: 20px 28px;
      border-bottom: 1px solid var(--border);
      position: sticky;
      top: 0;
      z-index: 10;
      background: var(--bg);
    }
    h1 { margin: 0; font-size: 22px; letter-spacing: 0.5px; }
    .filters {
      margin-top: 12px;
      display: flex;
      flex-wrap: wrap;
      gap: 12px;
      align-items: center;
      font-size: 13px;
    }
    .filters input, .filters select {
      padding: 6px 8px;
      border: 1px solid var(--border);
      border-radius: 6px;
      background: #0b1016;
      color: var(--ink);
    }
    .filters button {
      padding: 7px 12px;
      border: none;
      border-radius: 6px;
      background: var(--accent);
      color: #002;
      cursor: pointer;
    }
    #cm-error { color: #f66; display: none; }
    .layout { padding: 24px 28px 40px; display: grid; gap: 16px; }
    .cards {
      display: grid;
      gap: 12px;
      grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
    }
    .card {
      background: var(--card);
      border: 1px solid var(--border);
      border-radius: 10px;
      padding: 14px 16px;
    }
    .card .label { color: var(--muted); font-size: 12px; }
    .card .value { font-size: 22px; margin-top: 6px; }
    .card .avg { color: var(--muted); font-size: 11px; margin-top: 4px; }
    .panel {
      background: var(--card);
      border: 1px solid var(--border);
      border-radius: 10px;
      padding: 12px 14px;
    }
    .panel h3 { margin: 0 0 8px 0; font-size: 14px; color: var(--muted); }
    .chart-wrap { position: relative; height: 320px; }
    #weblogsNoData {
      position: absolute; inset: 0; display: none; align-items: center; justify-content: center;
      font-weight: 600; font-size: 1.05rem; color: #00ffff; background: rgba(0,0,0,0.18);
      border-radius: 10px; text-align: center;
    }
    table { width: 100%; border-collapse: collapse; font-size: 12px; }
    tbody td { padding: 8px 6px; border-bottom: 1px dashed var(--border); }
    .scorecard-muted { color: #667; }
    #userMetricsModal {
      display: none; position: fixed; inset: 10% 25%; z-index: 20;
      background: var(--card); border: 1px solid var(--border); border-radius: 10px; padding: 18px;
    }
  </style>
</head>
<body data-manager-id="">
  <header>
    <h1>Manager Dashboard</h1>
    <div class="filters">
      <label>Employee <select id="employeeSelect"></select></label>
      <label>From <input type="text" id="cm-start" placeholder="mm/dd/yyyy"></label>
      <label>To <input type="text" id="cm-end" placeholder="mm/dd/yyyy"></label>
      <button id="cm-apply">Apply</button>
      <span id="cm-error"></span>
    </div>
  </header>

  <div class="layout">
    <div class="cards">
      <div class="card"><div class="label">Mouse Distance</div><div class="value" id="mouse-distance">-</div><div class="avg" id="mouse-distance-avg"></div></div>
      <div class="card"><div class="label">Keystrokes</div><div class="value" id="keystrokes">-</div><div class="avg" id="keystrokes-avg"></div></div>
      <div class="card"><div class="label">Mouse Clicks</div><div class="value" id="clicks">-</div><div class="avg" id="clicks-avg"></div></div>
      <div class="card"><div class="label">Idle Time</div><div class="value" id="idle-count">-</div><div class="avg" id="idle-count-avg"></div></div>
    </div>
    <div class="cards">
      <div class="card"><div class="label">Inbound Calls</div><div class="value" id="inboundCalls">-</div></div>
      <div class="card"><div class="label">Outbound Calls</div><div class="value" id="outboundCalls">-</div></div>
      <div class="card"><div class="label">Inbound Talk Time</div><div class="value" id="inboundDuration">-</div></div>
      <div class="card"><div class="label">Outbound Talk Time</div><div class="value" id="outboundDuration">-</div></div>
    </div>
    <div class="panel">
      <h3>Web Usage</h3>
      <div class="chart-wrap"><canvas id="weblogsChart"></canvas><div id="weblogsNoData"></div></div>
    </div>
    <div class="panel">
      <h3>Scorecard <input type="date" id="scorecard-date"></h3>
      <table><tbody id="scorecard-table-body"></tbody></table>
    </div>
    <div class="panel">
      <h3>Ask AI</h3>
      <input type="text" id="ai-input" style="width:70%"> <button id="ai-ask">Ask</button>
      <div id="ai-response" style="margin-top:8px;white-space:pre-wrap;"></div>
    </div>
  </div>

  <div id="userMetricsModal">
    <button id="userMetricsClose" style="float:right;">×</button>
    <div id="userMetricsContent"></div>
  </div>

  <script>
    const page = (crypto.randomUUID ? crypto.randomUUID() : String(Date.now()) + Math.random());
    let version = -1;
    let chart = null;
    let chartId = 0;
    let redirected = false;

    const $ = (id) => document.getElementById(id);

    async function post(path, body) {
      await fetch(path, {
        method: 'POST',
        credentials: 'same-origin',
        headers: { 'Content-Type': 'application/json', 'X-Dashboard-Page': page },
        body: JSON.stringify(body || {})
      });
      poll();
    }

    function applyChart(spec) {
      if (!spec) {
        if (chart) { chart.destroy(); chart = null; chartId = 0; }
        return;
      }
      if (spec.id === chartId) return;
      if (chart) chart.destroy();
      const canvas = $(spec.canvas);
      if (!canvas || typeof Chart === 'undefined') return;
      chartId = spec.id;
      chart = new Chart(canvas.getContext('2d'), {
        type: spec.type,
        data: {
          labels: spec.labels,
          datasets: [{
            label: spec.dataset_label,
            data: spec.values,
            borderRadius: spec.border_radius,
            barThickness: spec.bar_thickness,
            backgroundColor: (ctx) => {
              const area = ctx.chart.chartArea;
              if (!area) return spec.gradient[0].color;
              const g = ctx.chart.ctx.createLinearGradient(area.left, 0, area.right, 0);
              spec.gradient.forEach(s => g.addColorStop(s.offset, s.color));
              return g;
            }
          }]
        },
        options: {
          indexAxis: spec.index_axis,
          maintainAspectRatio: false,
          scales: {
            x: { beginAtZero: true, max: spec.axis_max, ticks: { callback: v => v + '%', color: '#ccc' }, grid: { color: 'rgba(255,255,255,0.1)' } },
            y: { ticks: { color: '#fff', font: { weight: 'bold' } }, grid: { display: false } }
          },
          plugins: {
            legend: { display: false },
            tooltip: { callbacks: { label: (ctx) => spec.tooltips[ctx.dataIndex] } }
          }
        }
      });
    }

    function apply(snap) {
      if (snap.redirect && !redirected) {
        redirected = true;
        alert('Your session expired. Please log in again.');
        window.location.href = snap.redirect;
        return;
      }
      if (snap.version === version) return;
      version = snap.version;

      Object.entries(snap.options || {}).forEach(([id, opts]) => {
        const el = $(id);
        if (!el) return;
        const current = el.value;
        el.innerHTML = '';
        opts.forEach(o => {
          const opt = document.createElement('option');
          opt.value = o.value;
          opt.textContent = o.label;
          el.appendChild(opt);
        });
        el.value = current || 'all';
      });
      Object.entries(snap.elements || {}).forEach(([id, e]) => {
        const el = $(id);
        if (!el) return;
        if (e.text !== undefined) el.textContent = e.text;
        if (e.html !== undefined) el.innerHTML = e.html;
        if (e.value !== undefined && document.activeElement !== el) el.value = e.value;
        if (e.display !== undefined) el.style.display = e.display;
      });
      applyChart(snap.chart);
    }

    async function poll() {
      try {
        const res = await fetch('/dashboard/state?page=' + encodeURIComponent(page), { credentials: 'same-origin' });
        if (res.ok) apply(await res.json());
      } catch (e) {
        console.error('dashboard state poll failed', e);
      }
    }

    const dates = () => ({ start: $('cm-start').value, end: $('cm-end').value });

    $('employeeSelect').addEventListener('change', (e) => post('/dashboard/events/employee', { employee: e.target.value }));
    ['cm-start', 'cm-end'].forEach(id => {
      $(id).addEventListener('change', () => post('/dashboard/events/dates', dates()));
      $(id).addEventListener('input', () => post('/dashboard/events/dates', dates()));
      $(id).addEventListener('keydown', e => { if (e.key === 'Enter') post('/dashboard/events/dates', dates()); });
    });
    $('cm-apply').addEventListener('click', (e) => { e.preventDefault(); post('/dashboard/events/apply', dates()); });
    $('scorecard-date').addEventListener('change', (e) => post('/dashboard/events/scorecard-date', { date: e.target.value }));
    $('ai-ask').addEventListener('click', () => post('/dashboard/events/ask', { question: $('ai-input').value }));
    $('userMetricsClose').addEventListener('click', () => { $('userMetricsModal').style.display = 'none'; post('/dashboard/events/close-modal', {}); });
    document.addEventListener('click', (e) => {
      const el = e.target.closest('.user-metrics-link');
      if (!el) return;
      e.preventDefault();
      post('/dashboard/events/drilldown', {
        user_id: el.dataset.userId, email: el.dataset.userEmail, label: el.dataset.userLabel, date: el.dataset.date
      });
    });

    post('/dashboard/init', {
      page: page,
      path: location.pathname,
      manager_id_attr: document.body.dataset.managerId || '',
      start: $('cm-start').value,
      end: $('cm-end').value
    });
    setInterval(poll, 1000);
  </script>
</body>
</html>`
