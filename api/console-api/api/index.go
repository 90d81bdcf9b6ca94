// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package console_api

import (
	"net/http"
	"strconv"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"

	internal_controller "github.com/HN-Vignolles/sounds/api/console-api/internal/controller"
)

var indexTemplate = pongo2.Must(pongo2.FromString(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{ name }}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
img { border: 1px solid #ccc; }
td, th { padding: 0 1em; text-align: left; }
.error { color: #a00; }
</style>
</head>
<body>
<h1>{{ name }}</h1>
<p>Recording: <strong id="state">{{ status.Recording }}</strong>,
window {{ status.WindowLength }}/{{ status.WindowCapacity }} samples</p>
<img id="frame" src="/v1/frame.png" width="{{ width }}" height="{{ height }}" alt="waveform">
<h2>Devices</h2>
{% if devicesError %}<p class="error">{{ devicesError }}</p>{% else %}
<ul>{% for d in devices.Devices %}
<li>{{ d.Index }}: {{ d.Name }}{% if d.Index == devices.Selected %} (selected){% endif %}</li>{% endfor %}
</ul>{% endif %}
<h2>Events</h2>
<p>{% for e in events %}<code>{{ e }}</code> {% endfor %}</p>
<h2>Fold {{ fold }}</h2>
{% if tableError %}<p class="error">{{ tableError }}</p>{% else %}
<table><tr><th>category</th><th>takes</th></tr>{% for row in table.Rows %}
<tr><td>{{ row.Category }}</td><td>{{ row.Count }}</td></tr>{% empty %}
<tr><td colspan="2">no takes yet</td></tr>{% endfor %}
</table>{% endif %}
<script>
setInterval(function () {
  document.getElementById("frame").src = "/v1/frame.png?t=" + Date.now();
}, {{ refresh }});
</script>
</body>
</html>
`))

// Index renders the operator page. Recorder failures are shown inline so
// the waveform stays visible while the recorder is unreachable.
func (cApi *ConsoleApi) Index(c *gin.Context) {
	ctx := c.Request.Context()
	status, err := cApi.session.Status(ctx)
	if err != nil {
		cApi.fail(c, err)
		return
	}

	fold := internal_controller.DefaultFold
	if parsed, err := strconv.Atoi(c.Query("fold")); err == nil && parsed > 0 {
		fold = parsed
	}
	data := pongo2.Context{
		"name":    cApi.cfg.Name,
		"status":  status,
		"fold":    fold,
		"events":  cApi.cfg.Events,
		"width":   cApi.cfg.Render.Width,
		"height":  cApi.cfg.Render.Height,
		"refresh": max(cApi.cfg.Render.Interval.Milliseconds(), 100),
	}
	if devices, err := cApi.controller.Devices(ctx); err != nil {
		data["devicesError"] = err.Error()
	} else {
		data["devices"] = devices
	}
	if table, err := cApi.controller.Table(ctx, fold); err != nil {
		data["tableError"] = err.Error()
	} else {
		data["table"] = table
	}

	page, err := indexTemplate.Execute(data)
	if err != nil {
		cApi.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
