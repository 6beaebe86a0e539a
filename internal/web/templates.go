package web

import (
	"embed"
	"html/template"

	"github.com/desertthunder/movievault/internal/formatter"
	"github.com/desertthunder/movievault/internal/tasks"
)

//go:embed assets
var assets embed.FS

const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>MovieVault</title>
</head>
<body class="{{.Theme}}">
  <header>
    <h1>🎬 MovieVault</h1>
    <button id="themeToggle" data-theme="{{.Theme}}">{{if eq .Theme "dark"}}☀️{{else}}🌙{{end}}</button>
  </header>
  <form id="searchForm">
    <input id="searchInput" type="search" name="q" placeholder="Search movies..." autocomplete="off" />
    <button type="submit">Search</button>
    <span id="spinner" hidden>Loading…</span>
  </form>
  <p id="notice" class="{{.Notice.Level}}">{{.Notice.Text}}</p>
  <section>
    <h2>Results</h2>
    <div id="results" role="list">{{template "list" .Results}}</div>
  </section>
  <section>
    <h2>Watchlist</h2>
    <div id="watchlist" role="list">{{template "list" .Watchlist}}</div>
  </section>
  <script>{{template "script" .Debounce}}</script>
</body>
</html>{{end}}`

const pageScript = `{{define "script"}}
(() => {
  const debounceMs = {{.}};
  const $ = (id) => document.getElementById(id);
  let inFlight = 0;
  let searchSeq = 0;
  let appliedSeq = 0;
  let timer = null;

  const busy = (delta) => {
    inFlight = Math.max(0, inFlight + delta);
    $("spinner").hidden = inFlight === 0;
  };

  const apply = (data) => {
    if (!data) return;
    if (data.notice) {
      $("notice").textContent = data.notice.text;
      $("notice").className = data.notice.level;
    }
    if (data.results !== undefined) $("results").innerHTML = data.results;
    if (data.watchlist !== undefined) $("watchlist").innerHTML = data.watchlist;
  };

  const call = async (method, url, isCurrent = () => true) => {
    busy(1);
    try {
      const res = await fetch(url, { method, credentials: "same-origin" });
      if (res.status === 204) return;
      const data = await res.json();
      if (isCurrent()) apply(data);
    } catch (err) {
      apply({ notice: { text: "You're offline — check your connection.", level: "error" } });
    } finally {
      busy(-1);
    }
  };

  const search = (url) => {
    const seq = ++searchSeq;
    call("GET", url, () => {
      if (seq < appliedSeq) return false;
      appliedSeq = seq;
      return true;
    });
  };

  $("searchForm").addEventListener("submit", (e) => {
    e.preventDefault();
    clearTimeout(timer);
    search("/api/search?q=" + encodeURIComponent($("searchInput").value));
  });

  $("searchInput").addEventListener("input", (e) => {
    clearTimeout(timer);
    const q = e.target.value;
    timer = setTimeout(() => search("/api/search?typeahead=1&q=" + encodeURIComponent(q)), debounceMs);
  });

  document.addEventListener("click", (e) => {
    const btn = e.target.closest("button");
    if (!btn) return;
    if (btn.classList.contains("add-btn")) call("POST", "/api/watchlist/" + encodeURIComponent(btn.dataset.id));
    if (btn.classList.contains("remove-btn")) call("DELETE", "/api/watchlist/" + encodeURIComponent(btn.dataset.id));
    if (btn.id === "clearWatchlistBtn" && confirm("Clear all watchlist items?")) call("POST", "/api/watchlist/clear?confirm=true");
    if (btn.id === "themeToggle") {
      const next = btn.dataset.theme === "dark" ? "light" : "dark";
      fetch("/api/theme?theme=" + next, { method: "POST" }).then(() => location.reload());
    }
  });

  const connect = () => {
    const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    ws.onmessage = (e) => {
      const msg = JSON.parse(e.data);
      if (msg.type === "watchlist") call("GET", "/fragments/watchlist");
    };
    ws.onclose = () => setTimeout(connect, 2000);
  };
  connect();
})();
{{end}}`

// pageData is rendered by the page template.
type pageData struct {
	Theme     string
	Notice    tasks.Notice
	Results   formatter.View
	Watchlist formatter.View
	Debounce  int64
}

var pageTmpl = template.Must(template.Must(formatter.ListTemplate().Clone()).Parse(pageTemplate + pageScript))
