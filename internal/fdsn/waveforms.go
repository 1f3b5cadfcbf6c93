package fdsn

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sayoUNL/rfproc/internal/rf"
	"github.com/sayoUNL/rfproc/internal/wave"
)

// TimeseriesClient downloads raw N/E/Z traces from an ASCII timeseries web
// service (slist sample lists). It satisfies the analysis record's
// WaveformSource contract.
type TimeseriesClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewTimeseriesClient returns a client for the given timeseries query
// endpoint.
func NewTimeseriesClient(baseURL string) *TimeseriesClient {
	return &TimeseriesClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Waveforms fetches the three component traces for the station over the
// requested window. A failure on any single channel fails the whole
// acquisition; the caller records it as an acquisition fault.
func (c *TimeseriesClient) Waveforms(sta *rf.StationDescriptor, start, end time.Time, sampleRate float64) (*wave.Set, error) {
	traces := make([]*wave.Trace, 0, 3)
	for _, comp := range []string{"Z", "N", "E"} {
		tr, err := c.fetchChannel(sta, comp, start, end)
		if err != nil {
			return nil, fmt.Errorf("fdsn: channel %s%s: %w", sta.Channel, comp, err)
		}
		if sampleRate > 0 && math.Abs(tr.SampleRate-sampleRate) > 1e-6 {
			return nil, fmt.Errorf("fdsn: channel %s returned %g sps, want %g",
				tr.Channel, tr.SampleRate, sampleRate)
		}
		traces = append(traces, tr)
	}
	return wave.NewSet(traces...), nil
}

func (c *TimeseriesClient) fetchChannel(sta *rf.StationDescriptor, comp string, start, end time.Time) (*wave.Trace, error) {
	q := url.Values{}
	q.Set("net", sta.Network)
	q.Set("sta", sta.Code)
	q.Set("loc", sta.Location)
	q.Set("cha", sta.Channel+comp)
	q.Set("start", start.UTC().Format("2006-01-02T15:04:05.000"))
	q.Set("end", end.UTC().Format("2006-01-02T15:04:05.000"))
	q.Set("format", "ascii")

	resp, err := c.HTTPClient.Get(c.BaseURL + "?" + q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, fmt.Errorf("no data available")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timeseries service returned %s", resp.Status)
	}

	return parseSlist(resp.Body)
}

// parseSlist decodes one trace in TIMESERIES slist format:
//
//	TIMESERIES NY_MMPY__HHZ_R, 1200 samples, 5 sps, 2015-02-02T08:36:39.500000, SLIST, FLOAT, COUNTS
//	 1.234 5.678 ...
func parseSlist(r io.Reader) (*wave.Trace, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("empty timeseries response")
	}
	header := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(header, "TIMESERIES") {
		return nil, fmt.Errorf("unexpected header %q", header)
	}

	parts := strings.Split(header, ",")
	if len(parts) < 5 {
		return nil, fmt.Errorf("malformed slist header %q", header)
	}

	sid := strings.Fields(parts[0]) // "TIMESERIES NET_STA_LOC_CHA_Q"
	if len(sid) != 2 {
		return nil, fmt.Errorf("malformed source id in %q", header)
	}
	idParts := strings.Split(sid[1], "_")
	if len(idParts) < 4 {
		return nil, fmt.Errorf("malformed source id %q", sid[1])
	}

	nsamples, err := strconv.Atoi(strings.Fields(strings.TrimSpace(parts[1]))[0])
	if err != nil {
		return nil, fmt.Errorf("parsing sample count: %w", err)
	}
	sps, err := strconv.ParseFloat(strings.Fields(strings.TrimSpace(parts[2]))[0], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing sample rate: %w", err)
	}
	startTime, err := time.Parse("2006-01-02T15:04:05.999999999", strings.TrimSpace(parts[3]))
	if err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}

	data := make([]float64, 0, nsamples)
	for scanner.Scan() {
		for _, field := range strings.Fields(scanner.Text()) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing sample %q: %w", field, err)
			}
			data = append(data, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading timeseries response: %w", err)
	}
	if len(data) != nsamples {
		return nil, fmt.Errorf("got %d samples, header promised %d", len(data), nsamples)
	}

	return &wave.Trace{
		Network:    idParts[0],
		Station:    idParts[1],
		Channel:    idParts[3],
		Start:      startTime.UTC(),
		SampleRate: sps,
		Data:       data,
	}, nil
}
