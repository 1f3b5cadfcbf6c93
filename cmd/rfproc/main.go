// Command rfproc computes teleseismic receiver functions for every
// station-event pair drawn from a station database and an FDSN event
// catalog. Pairs are processed by a bounded worker pool; each worker owns
// one analysis record at a time, so no coordination is needed between
// events.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/sayoUNL/rfproc/internal/database"
	"github.com/sayoUNL/rfproc/internal/fdsn"
	"github.com/sayoUNL/rfproc/internal/log"
	"github.com/sayoUNL/rfproc/internal/rf"
	"github.com/sayoUNL/rfproc/pkg/traveltime"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

const timeLayout = "2006-01-02T15:04:05"

type job struct {
	sta   rf.StationDescriptor
	event *rf.EventRecord
}

func main() {
	stationDB := flag.String("stationdb", "stations.db", "Path to the SQLite station metadata database")
	network := flag.String("network", "", "Restrict processing to this network code")
	station := flag.String("station", "", "Restrict processing to this station code")
	eventsURL := flag.String("events-url", "https://service.iris.edu/fdsnws/event/1/query", "FDSN event service query endpoint")
	waveURL := flag.String("waveforms-url", "https://service.iris.edu/irisws/timeseries/1/query", "ASCII timeseries service query endpoint")
	startStr := flag.String("start", "", "Catalog start time (UTC, e.g. 2015-01-01T00:00:00)")
	endStr := flag.String("end", "", "Catalog end time (UTC)")
	minMag := flag.Float64("minmag", 6.0, "Minimum event magnitude")
	maxMag := flag.Float64("maxmag", 9.0, "Maximum event magnitude")
	align := flag.String("align", "", "Coordinate alignment: ZRT, LQT or PVH (default: ZRT)")
	vp := flag.Float64("vp", 0, "Assumed surface P velocity override (km/s)")
	vs := flag.Float64("vs", 0, "Assumed surface S velocity override (km/s)")
	sampleRate := flag.Float64("sample-rate", 5.0, "Target waveform sample rate (Hz)")
	dts := flag.Float64("dts", 120, "Waveform window half-length around the P arrival (s)")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of concurrent analysis workers")
	outDir := flag.String("outdir", "rfdata", "Directory for analysis record snapshots")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("rfproc %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	start, err := time.Parse(timeLayout, *startStr)
	if err != nil {
		log.Fatalf("invalid -start time: %v", err)
	}
	end, err := time.Parse(timeLayout, *endStr)
	if err != nil {
		log.Fatalf("invalid -end time: %v", err)
	}

	stations, err := loadStations(*stationDB, *network, *station)
	if err != nil {
		log.Fatalf("loading stations: %v", err)
	}
	if len(stations) == 0 {
		log.Fatal("no stations matched the request")
	}

	events, err := fdsn.NewEventClient(*eventsURL).
		Events(context.Background(), start, end, *minMag, *maxMag)
	if err != nil {
		log.Fatalf("fetching event catalog: %v", err)
	}
	log.Infof("processing %d stations x %d events", len(stations), len(events))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	waveforms := fdsn.NewTimeseriesClient(*waveURL)
	model := traveltime.NewIASP91()

	jobs := make(chan job)
	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := process(j, model, waveforms, *align, *vp, *vs, *sampleRate, *dts, *outDir); err != nil {
					log.Errorf("%s %s: %v", j.sta.Key(), j.event.Origin.Format(timeLayout), err)
				}
			}
		}()
	}

	for _, sta := range stations {
		for _, ev := range events {
			jobs <- job{sta: sta, event: ev}
		}
	}
	close(jobs)
	wg.Wait()
}

func loadStations(path, network, station string) ([]rf.StationDescriptor, error) {
	db := database.NewClient(path)
	if err := db.Connect(); err != nil {
		return nil, err
	}

	stations, err := db.ListStations("open")
	if err != nil {
		return nil, err
	}

	filtered := stations[:0]
	for _, sta := range stations {
		if network != "" && sta.Network != network {
			continue
		}
		if station != "" && sta.Code != station {
			continue
		}
		filtered = append(filtered, sta)
	}
	return filtered, nil
}

// process runs the full pipeline for one station-event pair and snapshots
// the record when a receiver function was produced.
func process(j job, model *traveltime.IASP91, src rf.WaveformSource,
	align string, vp, vs, sampleRate, dts float64, outDir string) error {

	record, err := rf.NewRFData(&j.sta, model)
	if err != nil {
		return err
	}

	accept, err := record.AddEvent(j.event)
	if err != nil {
		return err
	}
	if !accept {
		log.Debugf("%s: no predicted P arrival for event %s, skipping",
			j.sta.Key(), j.event.Origin.Format(timeLayout))
		return nil
	}

	if err := record.Download(src, dts, sampleRate); err != nil {
		return err
	}
	if record.AcqErr {
		return nil
	}

	if err := record.Rotate(vp, vs, align); err != nil {
		return err
	}
	if err := record.CalcSNR(rf.DefaultSNRWindow, rf.DefaultSNRFmin, rf.DefaultSNRFmax); err != nil {
		return err
	}
	if err := record.Deconvolve(rf.DefaultPulseWindow, align); err != nil {
		// Numeric defects on a single pair should not stop the batch.
		if errors.Is(err, rf.ErrTraceLengthMismatch) || errors.Is(err, rf.ErrUnstableNormalization) {
			log.Warnf("%s: deconvolution defect: %v", j.sta.Key(), err)
			return nil
		}
		return err
	}

	out := filepath.Join(outDir, fmt.Sprintf("%s.%s.rf", j.sta.Key(), record.ID))
	if err := record.Save(out); err != nil {
		return err
	}

	if set, err := record.Export(); err == nil && set != nil {
		log.Infof("%s: receiver functions ready (snr %.1f dB)", j.sta.Key(), set.Traces[0].RF.SNR)
	}
	return nil
}
