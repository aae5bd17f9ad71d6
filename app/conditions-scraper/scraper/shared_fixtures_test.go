package scraper

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OpenTransitTools/ferrycast/business/civilday"
	"github.com/OpenTransitTools/ferrycast/business/data/capacity"
	"github.com/OpenTransitTools/ferrycast/foundation/httpclient"
	"github.com/golang-sql/civil"
)

type testLogWriter struct {
	logLines []string
	log      *log.Logger
}

func makeTestLogWriter() *testLogWriter {
	logWriter := testLogWriter{
		logLines: make([]string, 0),
	}
	logger := log.New(&logWriter, "FERRY_SCRAPER : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logWriter.log = logger
	return &logWriter
}

func (t *testLogWriter) Write(p []byte) (n int, err error) {
	t.logLines = append(t.logLines, string(p))
	return len(p), nil
}

func strPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}

// pinnedNow is Wednesday 2026-02-11 at 8:30 in Vancouver
var pinnedNow = time.Date(2026, time.February, 11, 8, 30, 0, 0, civilday.Location)

var pinnedToday = civil.Date{Year: 2026, Month: time.February, Day: 11}

func loadConditionsFixture(t *testing.T) []byte {
	data, err := os.ReadFile(filepath.Join("testdata", "conditions.html"))
	if err != nil {
		t.Fatalf("unable to read test fixture: %v", err)
	}
	return data
}

// fakeFetcher returns the same page and version info for every request
type fakeFetcher struct {
	body     []byte
	info     httpclient.RemoteFileInfo
	err      error
	requests []string
}

func (f *fakeFetcher) GetBytes(_ context.Context, url string) ([]byte, httpclient.RemoteFileInfo, error) {
	f.requests = append(f.requests, url)
	if f.err != nil {
		return nil, httpclient.RemoteFileInfo{}, f.err
	}
	return f.body, f.info, nil
}

// recordingPublisher keeps every batch it is asked to publish
type recordingPublisher struct {
	batches [][]capacity.Entry
}

func (r *recordingPublisher) publish(entries []capacity.Entry) {
	r.batches = append(r.batches, entries)
}
