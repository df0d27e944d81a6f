package Controllers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requests.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestReadLogsFromFile(t *testing.T) {
	path := writeLog(t,
		`{"level":"info","timestamp":"2025-03-01T10:00:00Z","msg":"request","method":"GET","path":"/api/accounts","status":200,"latency_ms":1.5}`,
		`not json`,
		`{"level":"info","timestamp":"2025-03-01T10:00:01Z","msg":"listening","port":"8000"}`,
		``,
		`{"level":"warn","timestamp":"2025-03-02T09:00:00Z","msg":"request","method":"POST","path":"/api/orders","status":400,"latency_ms":3.25,"user_id":4,"username":"rahim"}`,
		`{"level":"info","timestamp":"2025-03-05T09:00:00Z","msg":"request","method":"GET","path":"/api/products","status":200,"latency_ms":0.5}`,
	)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 2, 23, 59, 59, 0, time.UTC)
	logs, err := readLogsFromFile(path, from, to)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, "/api/accounts", logs[0].Path)
	assert.Equal(t, 1.5, logs[0].LatencyMs)
	assert.Nil(t, logs[0].UserID)
	assert.Equal(t, 400, logs[1].Status)
	require.NotNil(t, logs[1].UserID)
	assert.EqualValues(t, 4, *logs[1].UserID)
	assert.Equal(t, "rahim", logs[1].Username)
}

func TestReadLogsFromFile_Missing(t *testing.T) {
	logs, err := readLogsFromFile(filepath.Join(t.TempDir(), "none.log"), time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestFilterAndGroupLogs(t *testing.T) {
	logs := []LogEntry{
		{Method: "GET", Path: "/api/accounts", Status: 200, LatencyMs: 2},
		{Method: "GET", Path: "/api/accounts", Status: 404, LatencyMs: 4},
		{Method: "POST", Path: "/api/accounts", Status: 201, LatencyMs: 9},
		{Method: "POST", Path: "/api/orders", Status: 400, LatencyMs: 1},
	}

	assert.Len(t, filterLogs(logs, "ACCOUNTS", "", ""), 3)
	assert.Len(t, filterLogs(logs, "", "post", ""), 2)
	assert.Len(t, filterLogs(logs, "", "", "400"), 1)
	assert.Len(t, filterLogs(logs, "", "", "abc"), 4)

	groups := groupLogsByPath(logs)
	require.Len(t, groups, 3)

	assert.Equal(t, "GET", groups[0].Method)
	assert.Equal(t, "/api/accounts", groups[0].Path)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, 3.0, groups[0].AvgLatency)
	assert.Equal(t, 2.0, groups[0].MinLatency)
	assert.Equal(t, 4.0, groups[0].MaxLatency)
	assert.Equal(t, 0.5, groups[0].SuccessRate)

	// Ties sort by method and path
	assert.Equal(t, "POST /api/accounts", groups[1].Method+" "+groups[1].Path)
	assert.Equal(t, 1.0, groups[1].SuccessRate)
	assert.Equal(t, "POST /api/orders", groups[2].Method+" "+groups[2].Path)
	assert.Equal(t, 0.0, groups[2].SuccessRate)
}

func TestDateRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 30, 0, 0, time.UTC)

	from, to, err := dateRange("", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, 15, to.Day())
	assert.Equal(t, 23, to.Hour())

	from, to, err = dateRange("2025-06-01", "2025-06-10", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), from)
	assert.True(t, to.After(time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)))
	assert.True(t, to.Before(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)))

	from, to, err = dateRange("2025-06-01", "", now)
	require.NoError(t, err)
	assert.Equal(t, now, to)

	_, _, err = dateRange("06/01/2025", "", now)
	assert.EqualError(t, err, "Invalid date_from format. Use YYYY-MM-DD")
	_, _, err = dateRange("", "tomorrow", now)
	assert.EqualError(t, err, "Invalid date_to format. Use YYYY-MM-DD")
}
