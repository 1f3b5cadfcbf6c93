package fdsn

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sayoUNL/rfproc/internal/rf"
)

const sampleSlist = `TIMESERIES NY_MMPY__HHZ_R, 10 samples, 5 sps, 2015-02-02T08:36:39.500000, SLIST, FLOAT, COUNTS
 1.0 2.0 3.0 4.0
 5.0 6.0 7.0 8.0
 9.0 10.0
`

func TestParseSlist(t *testing.T) {
	tr, err := parseSlist(strings.NewReader(sampleSlist))
	if err != nil {
		t.Fatalf("parseSlist: %v", err)
	}

	if tr.Network != "NY" || tr.Station != "MMPY" || tr.Channel != "HHZ" {
		t.Errorf("source id = %s.%s.%s, expected NY.MMPY.HHZ", tr.Network, tr.Station, tr.Channel)
	}
	if tr.SampleRate != 5 {
		t.Errorf("sample rate = %g, expected 5", tr.SampleRate)
	}
	want := time.Date(2015, 2, 2, 8, 36, 39, 500000000, time.UTC)
	if !tr.Start.Equal(want) {
		t.Errorf("start = %v, expected %v", tr.Start, want)
	}
	if len(tr.Data) != 10 {
		t.Fatalf("got %d samples, expected 10", len(tr.Data))
	}
	for i, v := range tr.Data {
		if v != float64(i+1) {
			t.Errorf("sample %d = %g, expected %d", i, v, i+1)
		}
	}
}

func TestParseSlistErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not a timeseries", "HELLO WORLD\n1.0\n"},
		{"sample count mismatch", "TIMESERIES NY_MMPY__HHZ_R, 5 samples, 5 sps, 2015-02-02T08:36:39.500000, SLIST\n1.0 2.0\n"},
		{"bad sample", "TIMESERIES NY_MMPY__HHZ_R, 1 samples, 5 sps, 2015-02-02T08:36:39.500000, SLIST\nabc\n"},
		{"bad start time", "TIMESERIES NY_MMPY__HHZ_R, 1 samples, 5 sps, noonish, SLIST\n1.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseSlist(strings.NewReader(tt.body)); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}

func testSlistServer(t *testing.T, fail map[string]bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cha := r.URL.Query().Get("cha")
		if fail[cha] {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		fmt.Fprintf(w, "TIMESERIES NY_MMPY__%s_R, 4 samples, 5 sps, 2015-02-02T08:36:39.500000, SLIST, FLOAT, COUNTS\n", cha)
		fmt.Fprintln(w, " 1.0 2.0 3.0 4.0")
	}))
}

func waveformStation() *rf.StationDescriptor {
	return &rf.StationDescriptor{
		Network:  "NY",
		Code:     "MMPY",
		Channel:  "HH",
		Polarity: 1,
	}
}

func TestTimeseriesClient(t *testing.T) {
	srv := testSlistServer(t, nil)
	defer srv.Close()

	c := NewTimeseriesClient(srv.URL)
	start := time.Date(2015, 2, 2, 8, 36, 39, 0, time.UTC)

	set, err := c.Waveforms(waveformStation(), start, start.Add(time.Minute), 5)
	if err != nil {
		t.Fatalf("Waveforms: %v", err)
	}
	if len(set.Traces) != 3 {
		t.Fatalf("got %d traces, expected 3", len(set.Traces))
	}
	for _, comp := range []string{"Z", "N", "E"} {
		tr, err := set.Select(comp)
		if err != nil {
			t.Fatalf("missing %s component: %v", comp, err)
		}
		if tr.Channel != "HH"+comp {
			t.Errorf("channel = %q, expected HH%s", tr.Channel, comp)
		}
	}
}

func TestTimeseriesClientMissingChannel(t *testing.T) {
	// One dead channel fails the whole acquisition.
	srv := testSlistServer(t, map[string]bool{"HHE": true})
	defer srv.Close()

	c := NewTimeseriesClient(srv.URL)
	start := time.Date(2015, 2, 2, 8, 36, 39, 0, time.UTC)

	if _, err := c.Waveforms(waveformStation(), start, start.Add(time.Minute), 5); err == nil {
		t.Error("expected an error when a channel has no data")
	}
}

func TestTimeseriesClientSampleRateMismatch(t *testing.T) {
	srv := testSlistServer(t, nil)
	defer srv.Close()

	c := NewTimeseriesClient(srv.URL)
	start := time.Date(2015, 2, 2, 8, 36, 39, 0, time.UTC)

	if _, err := c.Waveforms(waveformStation(), start, start.Add(time.Minute), 100); err == nil {
		t.Error("expected an error when the returned sample rate disagrees")
	}
}
