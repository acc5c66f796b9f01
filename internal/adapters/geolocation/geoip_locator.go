package geolocation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"place-picker-service/internal/domain"

	"github.com/oschwald/geoip2-golang"
)

// cityReader is the part of *geoip2.Reader the locator uses.
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// GeoIPLocator resolves the position of a fixed IP address against a
// MaxMind City database.
type GeoIPLocator struct {
	reader cityReader
	ip     net.IP
}

func NewGeoIPLocator(dbPath string, address string) (*GeoIPLocator, error) {
	ip := net.ParseIP(address)
	if ip == nil {
		return nil, fmt.Errorf("geoip locator: invalid ip %q", address)
	}

	reader, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("geoip locator: open %q: %w", dbPath, err)
	}

	return &GeoIPLocator{reader: reader, ip: ip}, nil
}

func (l *GeoIPLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}

	record, err := l.reader.City(l.ip)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geoip lookup %s: %w", l.ip, err)
	}

	// The database reports (0, 0) with zero accuracy for addresses it cannot place.
	if record.Location.AccuracyRadius == 0 && record.Location.Latitude == 0 && record.Location.Longitude == 0 {
		return domain.Coordinates{}, errors.New("geoip lookup: no location for " + l.ip.String())
	}

	return domain.Coordinates{Lat: record.Location.Latitude, Lon: record.Location.Longitude}, nil
}

func (l *GeoIPLocator) Close() error {
	return l.reader.Close()
}
