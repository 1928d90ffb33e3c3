// counterctl is a terminal client for the counter dashboard service. It
// plays the browser's role: watches the live stream with a polling backstop,
// derives entry/exit events from reading deltas, filters, paginates, and
// exports CSV.
//
// Usage:
//
//	counterctl watch   [-url http://localhost:8080]
//	counterctl history [-url ...] [-kind all|entries|exits] [-date 2026-01-31] [-device id] [-page 1]
//	counterctl export  [-url ...] [-kind ...] [-date ...] [-device id] [-o file.csv]
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aforolabs/counter-dashboard/internal/dashboard"
	"github.com/aforolabs/counter-dashboard/internal/models"
)

const (
	reconnectDelay = 5 * time.Second
	pollInterval   = 30 * time.Second
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	baseURL := fs.String("url", "http://localhost:8080", "service base URL")
	kind := fs.String("kind", "all", "event filter: all, entries, exits")
	date := fs.String("date", "", "calendar-day filter (YYYY-MM-DD, local time)")
	device := fs.String("device", "", "device id filter (exact match)")
	page := fs.Int("page", 1, "page number of the filtered view")
	out := fs.String("o", "", "output file (export only; defaults to the dated standard name)")
	fs.Parse(os.Args[2:])

	cli := &client{rest: resty.New().SetBaseURL(*baseURL), baseURL: *baseURL}

	var err error
	switch cmd {
	case "watch":
		err = cli.watch()
	case "history":
		err = cli.history(*kind, *date, *device, *page)
	case "export":
		err = cli.export(*kind, *date, *device, *out)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: counterctl <watch|history|export> [flags]")
}

type client struct {
	rest    *resty.Client
	baseURL string
}

func (c *client) fetchCurrent() (*models.CurrentResponse, error) {
	var cur models.CurrentResponse
	resp, err := c.rest.R().SetResult(&cur).Get("/api/counter")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("GET /api/counter: %s", resp.Status())
	}
	return &cur, nil
}

func (c *client) fetchHistory(limit int, device string) (*models.HistoryResponse, error) {
	req := c.rest.R().SetQueryParam("limit", fmt.Sprint(limit))
	if device != "" {
		req.SetQueryParam("deviceId", device)
	}
	var hist models.HistoryResponse
	resp, err := req.SetResult(&hist).Get("/api/history")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("GET /api/history: %s", resp.Status())
	}
	return &hist, nil
}

// applyFilters runs the view pipeline in display order: kind against the
// canonical list first, then the calendar-day filter.
func applyFilters(readings []models.CounterReading, kind, date string) ([]models.CounterReading, error) {
	view := dashboard.FilterKind(readings, dashboard.Kind(kind))
	if date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid -date: %w", err)
		}
		view = dashboard.FilterDay(view, day)
	}
	return view, nil
}

// watch follows the live stream and keeps the summary fresh. The SSE
// subscription retries every 5s on failure while an independent 30s poll
// fully replaces the windows, so a flaky channel never desynchronizes the
// view for long.
func (c *client) watch() error {
	recent := dashboard.NewWindow(dashboard.RecentWindowCap)
	allLogs := dashboard.NewWindow(dashboard.AllLogsWindowCap)

	refresh := func() {
		if cur, err := c.fetchCurrent(); err == nil {
			printCurrent(cur.Current, cur.Source)
		}
		if hist, err := c.fetchHistory(dashboard.RecentWindowCap, ""); err == nil {
			recent.Replace(hist.History)
		}
		if hist, err := c.fetchHistory(dashboard.AllLogsWindowCap, ""); err == nil {
			allLogs.Replace(hist.History)
		}
		fmt.Println(summaryLine(recent, allLogs))
	}
	refresh()

	updates := make(chan models.CounterReading)
	go c.subscribeLoop(updates)

	poll := time.NewTicker(pollInterval)
	defer poll.Stop()

	for {
		select {
		case r := <-updates:
			recent.Prepend(r)
			allLogs.Prepend(r)
			printCurrent(r, "stream")
			fmt.Println(summaryLine(recent, allLogs))
		case <-poll.C:
			refresh()
		}
	}
}

// summaryLine condenses the live windows into one line: people movement
// derived over the recent view plus the size of the detailed one.
func summaryLine(recent, allLogs *dashboard.Window) string {
	items := recent.Items()

	var entries, exits int
	for _, ev := range dashboard.DeriveEvents(items) {
		switch ev.Type {
		case dashboard.EventEntry:
			entries += ev.Magnitude
		case dashboard.EventExit:
			exits += ev.Magnitude
		}
	}

	return fmt.Sprintf("  resumen: %d registros, +%d entradas, -%d salidas | detalle: %d registros",
		len(items), entries, exits, allLogs.Len())
}

// subscribeLoop keeps an SSE connection open against /api/events, pushing
// counter-update frames into updates and reconnecting after a fixed delay.
func (c *client) subscribeLoop(updates chan<- models.CounterReading) {
	for {
		if err := c.subscribeOnce(updates); err != nil {
			fmt.Fprintf(os.Stderr, "stream: %v (reconnecting in %s)\n", err, reconnectDelay)
		}
		time.Sleep(reconnectDelay)
	}
}

func (c *client) subscribeOnce(updates chan<- models.CounterReading) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.baseURL+"/api/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream returned %s", resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

		var frame struct {
			Type string `json:"type"`
			models.CounterReading
		}
		if err := json.Unmarshal([]byte(payload), &frame); err != nil {
			continue
		}
		switch frame.Type {
		case "connected":
			fmt.Println("conectado al stream de eventos")
		case "counter-update":
			updates <- frame.CounterReading
		}
	}
	return scanner.Err()
}

// history prints one page of the filtered detailed view with derived events.
func (c *client) history(kind, date, device string, page int) error {
	hist, err := c.fetchHistory(dashboard.AllLogsWindowCap, device)
	if err != nil {
		return err
	}
	if hist.Message != "" {
		fmt.Println(hist.Message)
	}

	view, err := applyFilters(hist.History, kind, date)
	if err != nil {
		return err
	}

	rows := dashboard.Page(view, page)
	events := dashboard.DeriveEvents(view)
	offset := (page - 1) * dashboard.PageSize

	fmt.Printf("%-20s  %-14s  %8s  %8s  %6s  %s\n",
		"FECHA", "TIPO", "ENTRADAS", "SALIDAS", "AFORO", "DISPOSITIVO")
	for i, r := range rows {
		ev := events[offset+i]
		kindCol := "-"
		switch ev.Type {
		case dashboard.EventEntry:
			kindCol = fmt.Sprintf("entrada (+%d)", ev.Magnitude)
		case dashboard.EventExit:
			kindCol = fmt.Sprintf("salida (+%d)", ev.Magnitude)
		}
		fmt.Printf("%-20s  %-14s  %8d  %8d  %6d  %s\n",
			r.Timestamp.Local().Format("02/01/2006 15:04:05"),
			kindCol, r.InCount, r.OutCount, dashboard.DisplayAforo(r.Aforo), r.DeviceID)
	}

	fmt.Printf("\nmostrando %d de %d registros (página %d de %d, total en tabla: %d)\n",
		len(rows), len(view), page, dashboard.TotalPages(len(view)), hist.Stats.TotalRecords)
	return nil
}

// export writes the filtered view as CSV, deriving events over the same view.
func (c *client) export(kind, date, device, out string) error {
	hist, err := c.fetchHistory(dashboard.AllLogsWindowCap, device)
	if err != nil {
		return err
	}

	view, err := applyFilters(hist.History, kind, date)
	if err != nil {
		return err
	}

	if out == "" {
		out = dashboard.CSVFileName(time.Now())
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := dashboard.WriteCSV(f, view); err != nil {
		return err
	}
	fmt.Printf("exportados %d registros a %s\n", len(view), out)
	return nil
}

func printCurrent(r models.CounterReading, source string) {
	fmt.Printf("[%s] entradas=%d salidas=%d aforo=%d dispositivo=%s (%s)\n",
		r.Timestamp.Local().Format("15:04:05"), r.InCount, r.OutCount,
		dashboard.DisplayAforo(r.Aforo), r.DeviceID, source)
}
