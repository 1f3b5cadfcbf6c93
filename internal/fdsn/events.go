// Package fdsn provides thin clients for FDSN-style web services: the event
// catalog service (text format) and an ASCII timeseries service for raw
// waveform acquisition. Both are external collaborators of the analysis
// core; their failures surface as acquisition faults, never as pipeline
// errors.
package fdsn

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sayoUNL/rfproc/internal/rf"
)

// missingFloat marks fields absent from the catalog text; NewEventRecord
// maps it to the magnitude sentinel.
var missingFloat = math.NaN()

// EventClient queries an fdsnws-event service for earthquake catalogs.
type EventClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewEventClient returns a client for the given fdsnws-event query endpoint.
func NewEventClient(baseURL string) *EventClient {
	return &EventClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Events fetches the catalog of events between start and end within the
// given magnitude range, using the pipe-separated FDSN text format.
func (c *EventClient) Events(ctx context.Context, start, end time.Time, minMag, maxMag float64) ([]*rf.EventRecord, error) {
	q := url.Values{}
	q.Set("starttime", start.UTC().Format("2006-01-02T15:04:05"))
	q.Set("endtime", end.UTC().Format("2006-01-02T15:04:05"))
	q.Set("minmagnitude", strconv.FormatFloat(minMag, 'f', -1, 64))
	q.Set("maxmagnitude", strconv.FormatFloat(maxMag, 'f', -1, 64))
	q.Set("format", "text")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("fdsn: building event request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fdsn: event request failed: %w", err)
	}
	defer resp.Body.Close()

	// 204 means an empty catalog, not a fault.
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fdsn: event service returned %s", resp.Status)
	}

	return parseEventText(resp.Body)
}

// parseEventText decodes the FDSN event text format:
//
//	#EventID|Time|Latitude|Longitude|Depth/km|Author|Catalog|Contributor|ContributorID|MagType|Magnitude|...
func parseEventText(r io.Reader) ([]*rf.EventRecord, error) {
	var events []*rf.EventRecord

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 11 {
			return nil, fmt.Errorf("fdsn: malformed event line: %q", line)
		}

		origin, err := parseEventTime(fields[1])
		if err != nil {
			return nil, fmt.Errorf("fdsn: parsing event time %q: %w", fields[1], err)
		}
		lat, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("fdsn: parsing event latitude: %w", err)
		}
		lon, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("fdsn: parsing event longitude: %w", err)
		}
		depthKm, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("fdsn: parsing event depth: %w", err)
		}

		// An absent magnitude is normalized to the sentinel by the record
		// constructor.
		mag := missingFloat
		if s := strings.TrimSpace(fields[10]); s != "" {
			mag, err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("fdsn: parsing event magnitude: %w", err)
			}
		}

		ev, err := rf.NewEventRecord(origin, depthKm*1000, lat, lon, mag)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fdsn: reading event response: %w", err)
	}
	return events, nil
}

func parseEventTime(s string) (time.Time, error) {
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999Z",
		"2006-01-02T15:04:05.999999999",
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time layout")
}
