package database

import (
	"path/filepath"
	"testing"

	"github.com/sayoUNL/rfproc/internal/rf"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(filepath.Join(t.TempDir(), "stations.db"))
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return c
}

func TestPutAndGetStation(t *testing.T) {
	c := testClient(t)

	sta := &rf.StationDescriptor{
		Network:   "NY",
		Code:      "MMPY",
		Channel:   "HH",
		Latitude:  62.618,
		Longitude: -131.262,
		Elevation: 1273,
		Polarity:  1,
		Status:    "open",
	}
	if err := c.PutStation(sta); err != nil {
		t.Fatalf("PutStation: %v", err)
	}

	got, err := c.GetStation("NY", "MMPY")
	if err != nil {
		t.Fatalf("GetStation: %v", err)
	}
	if got.Latitude != sta.Latitude || got.Longitude != sta.Longitude {
		t.Errorf("coordinates = %g, %g, expected %g, %g",
			got.Latitude, got.Longitude, sta.Latitude, sta.Longitude)
	}
	if got.Channel != "HH" || got.Polarity != 1 || got.Status != "open" {
		t.Errorf("descriptor fields lost: %+v", got)
	}

	// Save is an upsert: a second put updates in place.
	sta.Status = "closed"
	if err := c.PutStation(sta); err != nil {
		t.Fatalf("PutStation update: %v", err)
	}
	got, err = c.GetStation("NY", "MMPY")
	if err != nil {
		t.Fatalf("GetStation after update: %v", err)
	}
	if got.Status != "closed" {
		t.Errorf("status = %q, expected updated value", got.Status)
	}
}

func TestPutStationValidates(t *testing.T) {
	c := testClient(t)

	bad := &rf.StationDescriptor{Network: "NY", Code: "MMPY", Polarity: 0.5}
	if err := c.PutStation(bad); err == nil {
		t.Error("expected a validation error for a bad polarity")
	}
}

func TestGetStationMissing(t *testing.T) {
	c := testClient(t)

	if _, err := c.GetStation("XX", "NOPE"); err == nil {
		t.Error("expected an error for an unknown station")
	}
}

func TestListStations(t *testing.T) {
	c := testClient(t)

	stations := []*rf.StationDescriptor{
		{Network: "NY", Code: "MMPY", Polarity: 1, Status: "open"},
		{Network: "NY", Code: "FARO", Polarity: 1, Status: "open"},
		{Network: "CN", Code: "WHY", Polarity: 1, Status: "closed"},
	}
	for _, sta := range stations {
		if err := c.PutStation(sta); err != nil {
			t.Fatalf("PutStation %s: %v", sta.Key(), err)
		}
	}

	open, err := c.ListStations("open")
	if err != nil {
		t.Fatalf("ListStations(open): %v", err)
	}
	if len(open) != 2 {
		t.Errorf("got %d open stations, expected 2", len(open))
	}

	all, err := c.ListStations("")
	if err != nil {
		t.Fatalf("ListStations: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d stations, expected 3", len(all))
	}
}
