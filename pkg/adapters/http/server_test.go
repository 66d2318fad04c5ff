package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	hawtio "github.com/woq-blended/hawtio-integration"
	"github.com/woq-blended/hawtio-integration/pkg/adapters/memory"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
	"github.com/woq-blended/hawtio-integration/pkg/observability"
)

const routesXML = `<routes id="ctx">
  <route id="orders">
    <from uri="jms:queue:orders"/>
    <filter>
      <xpath>/order[@priority='high']</xpath>
      <to uri="direct:priority"/>
    </filter>
    <log message="done"/>
  </route>
</routes>`

func newTestServer(t *testing.T, opts ...Option) (http.Handler, *memory.Source) {
	t.Helper()
	source := memory.NewSource(routesXML)
	ws, err := hawtio.Open(context.Background(), source)
	require.NoError(t, err)
	return NewHandler(ws, opts...), source
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_Status(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"health", "GET", "/health", "", http.StatusOK},
		{"info", "GET", "/info", "", http.StatusOK},
		{"routes", "GET", "/routes", "", http.StatusOK},
		{"outline all", "GET", "/outline", "", http.StatusOK},
		{"outline missing route", "GET", "/routes/nope/outline", "", http.StatusNotFound},
		{"diagram missing route", "GET", "/diagram?route=nope", "", http.StatusNotFound},
		{"diagram bad format", "GET", "/diagram?format=gif", "", http.StatusBadRequest},
		{"diagram bad query", "GET", "/diagram?where=step%20%3D%3D", "", http.StatusBadRequest},
		{"missing step", "GET", "/steps/ctx_orders_nothing1", "", http.StatusNotFound},
		{"bad record", "PUT", "/steps/ctx_orders_log1", "{", http.StatusBadRequest},
		{"bad jq", "GET", "/steps/ctx_orders_log1?jq=.%5B", "", http.StatusBadRequest},
		{"bad messages", "POST", "/messages", "<messages>", http.StatusBadRequest},
		{"cors preflight", "OPTIONS", "/routes", "", http.StatusOK},
		{"no metrics by default", "GET", "/metrics", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestHandler_RoutesAndOutline(t *testing.T) {
	h, _ := newTestServer(t)

	var routes []hawtio.RouteInfo
	require.NoError(t, json.Unmarshal(do(t, h, "GET", "/routes", "").Body.Bytes(), &routes))
	require.Len(t, routes, 1)
	assert.Equal(t, "orders", routes[0].ID)
	assert.Equal(t, "jms:queue:orders", routes[0].From)

	w := do(t, h, "GET", "/routes/orders/outline", "")
	require.Equal(t, http.StatusOK, w.Code)
	var outline []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outline))
	require.Len(t, outline, 1)
	assert.Equal(t, "ctx_orders", outline[0]["key"])
	assert.Len(t, outline[0]["children"], 3)
}

func TestHandler_Diagram(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "GET", "/routes/orders/diagram?highlight=ctx_orders_log1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var d domain.Diagram
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	require.Len(t, d.Nodes, 4)
	assert.Equal(t, "Filter: /order[@priority='high']", d.Nodes[1].Label)
	assert.True(t, d.Nodes[3].Selected)
	assert.False(t, d.Nodes[0].Selected)

	w = do(t, h, "GET", "/diagram?format=mermaid", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD"))

	w = do(t, h, "GET", `/diagram?where=step+%3D%3D+%22to%22`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var nodes []domain.DiagramNode
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nodes))
	require.Len(t, nodes, 1)
	assert.Equal(t, "direct:priority", nodes[0].URI)
}

func TestHandler_StepEditing(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "GET", "/steps/ctx_orders_filter1", "")
	require.Equal(t, http.StatusOK, w.Code)
	rec := domain.NewRecord()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), rec))
	lang, text, ok := rec.Child(domain.KeyExpression).Expression()
	require.True(t, ok)
	assert.Equal(t, "xpath", lang)
	assert.Equal(t, "/order[@priority='high']", text)

	w = do(t, h, "GET", "/steps/ctx_orders_filter1?jq=.expression.language", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"xpath"`, w.Body.String())

	w = do(t, h, "PUT", "/steps/ctx_orders_log1", `{"message":"finished","loggingLevel":"DEBUG"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, `<log message="finished" loggingLevel="DEBUG"/>`, resp["xml"])

	w = do(t, h, "GET", "/steps/ctx_orders_log1/xml", "")
	assert.Equal(t, "application/xml", w.Header().Get("Content-Type"))
	assert.Equal(t, `<log message="finished" loggingLevel="DEBUG"/>`, w.Body.String())

	w = do(t, h, "GET", "/xml", "")
	assert.Contains(t, w.Body.String(), `loggingLevel="DEBUG"`)
	assert.NotContains(t, w.Body.String(), "_cid")
}

func TestHandler_Messages(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "POST", "/messages", `<messages><message><headers><header key="CamelFileName" type="java.lang.String">a.xml</header></headers><body type="java.lang.String">hi</body></message></messages>`)
	require.Equal(t, http.StatusOK, w.Code)
	var msgs []domain.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "a.xml", msgs[0].ID)
	assert.Equal(t, "String", msgs[0].BodyType)
}

func TestHandler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg).ObserveDecode()
	h, _ := newTestServer(t, WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hawtio_records_total{op="decode"} 1`)
}

func TestSubscribeEvents_Reload(t *testing.T) {
	h, source := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	source.Set(`<routes><route id="other"><from uri="direct:x"/></route></routes>`)

	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: reload") {
			break
		}
	}
}
