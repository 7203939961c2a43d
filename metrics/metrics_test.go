// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopByDefault(t *testing.T) {
	// the default implementation swallows everything
	Counter("noop_counter").Add(1)
	Gauge("noop_gauge").Set(42)
	Histogram("noop_histogram", BucketHTTPReqs).Observe(7)
	assert.Nil(t, HTTPHandler())
}

func TestPrometheusMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("ops_total").Add(3)
	CounterVec("ops_by_kind_total", []string{"kind"}).AddWithLabel(2, map[string]string{"kind": "stake"})
	Gauge("total_shares").Set(9)
	Histogram("request_ms", BucketHTTPReqs).Observe(12)

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, "stakedist_metrics_ops_total 3"))
	assert.True(t, strings.Contains(text, `stakedist_metrics_ops_by_kind_total{kind="stake"} 2`))
	assert.True(t, strings.Contains(text, "stakedist_metrics_total_shares 9"))
}

func TestLazyLoadCounter(t *testing.T) {
	lazy := LazyLoadCounter("lazy_counter")
	assert.Same(t, lazy(), lazy())
}
