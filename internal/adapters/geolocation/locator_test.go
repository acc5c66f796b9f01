package geolocation

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/oschwald/geoip2-golang"
)

func TestStaticLocator(t *testing.T) {
	pos, err := NewStaticLocator(10, 20).Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Lat != 10 || pos.Lon != 20 {
		t.Fatalf("pos = %+v, want (10, 20)", pos)
	}
}

func TestNewGeoIPLocatorErrors(t *testing.T) {
	if _, err := NewGeoIPLocator("unused.mmdb", "not-an-ip"); err == nil {
		t.Fatal("expected invalid ip error, got nil")
	}

	missing := filepath.Join(t.TempDir(), "missing.mmdb")
	if _, err := NewGeoIPLocator(missing, "81.2.69.142"); err == nil {
		t.Fatal("expected open error for missing database, got nil")
	}
}

type fakeCityReader struct {
	city   geoip2.City
	err    error
	lookup net.IP
	closed bool
}

func (f *fakeCityReader) City(ip net.IP) (*geoip2.City, error) {
	f.lookup = ip
	if f.err != nil {
		return nil, f.err
	}
	return &f.city, nil
}

func (f *fakeCityReader) Close() error {
	f.closed = true
	return nil
}

func TestGeoIPLocatorLocate(t *testing.T) {
	reader := &fakeCityReader{}
	reader.city.Location.Latitude = 51.5142
	reader.city.Location.Longitude = -0.0931
	reader.city.Location.AccuracyRadius = 100

	l := &GeoIPLocator{reader: reader, ip: net.ParseIP("81.2.69.160")}
	pos, err := l.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Lat != 51.5142 || pos.Lon != -0.0931 {
		t.Fatalf("pos = %+v, want (51.5142, -0.0931)", pos)
	}
	if !reader.lookup.Equal(net.ParseIP("81.2.69.160")) {
		t.Fatalf("looked up %v, want 81.2.69.160", reader.lookup)
	}

	if err := l.Close(); err != nil || !reader.closed {
		t.Fatalf("close err=%v closed=%v", err, reader.closed)
	}
}

func TestGeoIPLocatorLocateFailures(t *testing.T) {
	tests := []struct {
		name   string
		reader *fakeCityReader
		ctx    func() context.Context
	}{
		{"lookup error", &fakeCityReader{err: errors.New("corrupt record")}, context.Background},
		{"unplaced address", &fakeCityReader{}, context.Background},
		{"canceled", &fakeCityReader{}, func() context.Context {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &GeoIPLocator{reader: tt.reader, ip: net.ParseIP("10.0.0.1")}
			if _, err := l.Locate(tt.ctx()); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

// Runs against MaxMind's public GeoIP2-City-Test.mmdb when it is checked out
// into testdata/.
func TestGeoIPLocatorWithTestDatabase(t *testing.T) {
	path := filepath.Join("testdata", "GeoIP2-City-Test.mmdb")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	l, err := NewGeoIPLocator(path, "81.2.69.160")
	if err != nil {
		t.Fatalf("new geoip locator: %v", err)
	}
	defer l.Close()

	pos, err := l.Locate(context.Background())
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if pos.Lat != 51.5142 || pos.Lon != -0.0931 {
		t.Fatalf("pos = %+v, want London (51.5142, -0.0931)", pos)
	}
}
