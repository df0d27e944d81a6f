package Controllers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LogEntry is one line of the request log
type LogEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Level         string    `json:"level"`
	Method        string    `json:"method"`
	Path          string    `json:"path"`
	URL           string    `json:"url"`
	Status        int       `json:"status"`
	LatencyMs     float64   `json:"latency_ms"`
	IP            string    `json:"ip"`
	UserAgent     string    `json:"user_agent"`
	RequestID     string    `json:"request_id"`
	Error         string    `json:"error,omitempty"`
	UserID        *uint     `json:"user_id,omitempty"`
	Username      string    `json:"username,omitempty"`
	ContentLength int64     `json:"content_length"`
}

// LogGroup represents a group of logs by method and path
type LogGroup struct {
	Path        string     `json:"path"`
	Method      string     `json:"method"`
	Count       int        `json:"count"`
	AvgLatency  float64    `json:"avg_latency_ms"`
	MinLatency  float64    `json:"min_latency_ms"`
	MaxLatency  float64    `json:"max_latency_ms"`
	SuccessRate float64    `json:"success_rate"`
	Logs        []LogEntry `json:"logs"`
}

// LogsResponse represents the response structure for logs API
type LogsResponse struct {
	Groups      []LogGroup `json:"groups"`
	TotalLogs   int        `json:"total_logs"`
	TotalGroups int        `json:"total_groups"`
	Page        int        `json:"page"`
	PageSize    int        `json:"page_size"`
	TotalPages  int        `json:"total_pages"`
	DateFrom    time.Time  `json:"date_from"`
	DateTo      time.Time  `json:"date_to"`
}

// LogController serves the request log written by the logging middleware
type LogController struct {
	LogPath string
	Log     *zap.Logger
}

func NewLogController(logPath string, log *zap.Logger) *LogController {
	return &LogController{LogPath: logPath, Log: log}
}

// GetLogs retrieves logs with pagination, date filtering, and grouping
func (c *LogController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.Query("page_size", "50"))

	dateFrom, dateTo, err := dateRange(ctx.Query("date_from"), ctx.Query("date_to"), time.Now())
	if err != nil {
		return failStatus(ctx, fiber.StatusBadRequest, err.Error())
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 1000 {
		pageSize = 50
	}

	logs, err := readLogsFromFile(c.LogPath, dateFrom, dateTo)
	if err != nil {
		c.Log.Error("reading request log", zap.String("path", c.LogPath), zap.Error(err))
		return failStatus(ctx, fiber.StatusInternalServerError, "Failed to read logs")
	}

	filtered := filterLogs(logs, ctx.Query("path"), ctx.Query("method"), ctx.Query("status"))
	groups := groupLogsByPath(filtered)

	totalGroups := len(groups)
	totalPages := (totalGroups + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalGroups {
		start = totalGroups
	}
	if end > totalGroups {
		end = totalGroups
	}

	return success(ctx, LogsResponse{
		Groups:      groups[start:end],
		TotalLogs:   len(filtered),
		TotalGroups: totalGroups,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
	})
}

// GetLogStats returns totals, latency and status breakdowns for the range
func (c *LogController) GetLogStats(ctx *fiber.Ctx) error {
	dateFrom, dateTo, err := dateRange(ctx.Query("date_from"), ctx.Query("date_to"), time.Now())
	if err != nil {
		return failStatus(ctx, fiber.StatusBadRequest, err.Error())
	}

	logs, err := readLogsFromFile(c.LogPath, dateFrom, dateTo)
	if err != nil {
		c.Log.Error("reading request log", zap.String("path", c.LogPath), zap.Error(err))
		return failStatus(ctx, fiber.StatusInternalServerError, "Failed to read logs")
	}

	var successful, failed int
	var total, minLatency, maxLatency float64
	methodStats := make(map[string]int)
	statusStats := make(map[int]int)
	for i, entry := range logs {
		if entry.Status >= 200 && entry.Status < 300 {
			successful++
		} else if entry.Status >= 400 {
			failed++
		}
		total += entry.LatencyMs
		if i == 0 || entry.LatencyMs < minLatency {
			minLatency = entry.LatencyMs
		}
		if entry.LatencyMs > maxLatency {
			maxLatency = entry.LatencyMs
		}
		methodStats[entry.Method]++
		statusStats[entry.Status]++
	}

	var avg, successRate float64
	if len(logs) > 0 {
		avg = total / float64(len(logs))
		successRate = float64(successful) / float64(len(logs)) * 100
	}

	return success(ctx, fiber.Map{
		"total_requests":      len(logs),
		"successful_requests": successful,
		"error_requests":      failed,
		"success_rate":        successRate,
		"avg_latency_ms":      avg,
		"min_latency_ms":      minLatency,
		"max_latency_ms":      maxLatency,
		"method_stats":        methodStats,
		"status_stats":        statusStats,
		"date_from":           dateFrom,
		"date_to":             dateTo,
	})
}

// dateRange defaults to today when neither bound is given
func dateRange(fromStr, toStr string, now time.Time) (time.Time, time.Time, error) {
	if fromStr == "" && toStr == "" {
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return from, from.Add(24*time.Hour - time.Nanosecond), nil
	}

	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("Invalid date_from format. Use YYYY-MM-DD")
		}
		from = parsed
	}

	to := now
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("Invalid date_to format. Use YYYY-MM-DD")
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}

// readLogsFromFile reads the JSON lines in filePath within [dateFrom, dateTo].
// A log that does not exist yet holds no entries.
func readLogsFromFile(filePath string, dateFrom, dateTo time.Time) ([]LogEntry, error) {
	file, err := os.Open(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var logs []LogEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil || entry.Method == "" {
			// Skip lines that are not request lines
			continue
		}
		if entry.Timestamp.Before(dateFrom) || entry.Timestamp.After(dateTo) {
			continue
		}
		logs = append(logs, entry)
	}
	return logs, scanner.Err()
}

// filterLogs filters logs by path, method, and status
func filterLogs(logs []LogEntry, pathFilter, methodFilter, statusFilter string) []LogEntry {
	var filtered []LogEntry
	status, statusErr := strconv.Atoi(statusFilter)

	for _, entry := range logs {
		if pathFilter != "" && !strings.Contains(strings.ToLower(entry.Path), strings.ToLower(pathFilter)) {
			continue
		}
		if methodFilter != "" && !strings.EqualFold(entry.Method, methodFilter) {
			continue
		}
		if statusFilter != "" && statusErr == nil && entry.Status != status {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// groupLogsByPath groups logs by method and path, busiest first
func groupLogsByPath(logs []LogEntry) []LogGroup {
	groupMap := make(map[string]*LogGroup)
	var successes = make(map[string]int)

	for _, entry := range logs {
		key := fmt.Sprintf("%s %s", entry.Method, entry.Path)
		group, exists := groupMap[key]
		if !exists {
			group = &LogGroup{
				Path:       entry.Path,
				Method:     entry.Method,
				MinLatency: entry.LatencyMs,
				MaxLatency: entry.LatencyMs,
			}
			groupMap[key] = group
		}

		group.Count++
		group.Logs = append(group.Logs, entry)
		group.AvgLatency += (entry.LatencyMs - group.AvgLatency) / float64(group.Count)
		if entry.LatencyMs < group.MinLatency {
			group.MinLatency = entry.LatencyMs
		}
		if entry.LatencyMs > group.MaxLatency {
			group.MaxLatency = entry.LatencyMs
		}
		if entry.Status >= 200 && entry.Status < 300 {
			successes[key]++
		}
		group.SuccessRate = float64(successes[key]) / float64(group.Count)
	}

	groups := make([]LogGroup, 0, len(groupMap))
	for _, group := range groupMap {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Method+" "+groups[i].Path < groups[j].Method+" "+groups[j].Path
	})
	return groups
}
