// Package database stores and looks up seismic station metadata in a local
// SQLite database.
package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sayoUNL/rfproc/internal/log"
	"github.com/sayoUNL/rfproc/internal/rf"
	"go.uber.org/zap"
)

// Client holds the connection to the station metadata database
type Client struct {
	path string
	DB   *gorm.DB // Exported so it can be accessed from other packages
}

// NewClient creates a new database client for the given SQLite file
func NewClient(path string) *Client {
	return &Client{path: path}
}

// Connect opens the SQLite database and migrates the station schema
func (c *Client) Connect() error {
	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	log.Infof("opening station database %s...", c.path)
	db, err := gorm.Open(sqlite.Open(c.path), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warn("warning: unable to open station database:", err)
		return err
	}
	c.DB = db

	if err := c.DB.AutoMigrate(&rf.StationDescriptor{}); err != nil {
		return fmt.Errorf("error migrating station schema: %w", err)
	}
	return nil
}

// PutStation inserts or updates a station descriptor
func (c *Client) PutStation(sta *rf.StationDescriptor) error {
	if err := sta.Validate(); err != nil {
		return err
	}
	if err := c.DB.Save(sta).Error; err != nil {
		return fmt.Errorf("error saving station %s: %w", sta.Key(), err)
	}
	return nil
}

// GetStation looks up one station by network and code
func (c *Client) GetStation(network, code string) (*rf.StationDescriptor, error) {
	var sta rf.StationDescriptor
	err := c.DB.Where("network = ? AND code = ?", network, code).First(&sta).Error
	if err != nil {
		return nil, fmt.Errorf("error querying station %s.%s: %w", network, code, err)
	}
	return &sta, nil
}

// ListStations returns all stations, optionally filtered by operational status
func (c *Client) ListStations(status string) ([]rf.StationDescriptor, error) {
	var stations []rf.StationDescriptor
	q := c.DB
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&stations).Error; err != nil {
		return nil, fmt.Errorf("error listing stations: %w", err)
	}
	return stations, nil
}
