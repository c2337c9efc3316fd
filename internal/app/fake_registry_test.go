package app

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"jfrog-cleaner/internal/types"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeRegistry struct {
	mu          sync.Mutex
	catalogs    map[string][]string
	tags        map[string][]types.Tag
	catalogErrs map[string]error
	tagErrs     map[string]error
	deleteErrs  map[string]error
	calls       []string
	deletes     []string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		catalogs:    map[string][]string{},
		tags:        map[string][]types.Tag{},
		catalogErrs: map[string]error{},
		tagErrs:     map[string]error{},
		deleteErrs:  map[string]error{},
	}
}

func (f *fakeRegistry) withTags(repository, image string, ages ...int) *fakeRegistry {
	key := repository + "/" + image
	for _, age := range ages {
		name := fmt.Sprintf("v%d", age)
		f.tags[key] = append(f.tags[key], types.Tag{
			Identifier: name,
			Path:       image + "/" + name,
			Modified:   testNow.AddDate(0, 0, -age).Format(time.RFC3339),
		})
	}
	return f
}

func (f *fakeRegistry) ListImages(_ context.Context, repository string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "catalog "+repository)
	if err := f.catalogErrs[repository]; err != nil {
		return nil, err
	}
	return append([]string(nil), f.catalogs[repository]...), nil
}

func (f *fakeRegistry) ListTags(_ context.Context, repository, image string) ([]types.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := repository + "/" + image
	f.calls = append(f.calls, "tags "+key)
	if err := f.tagErrs[key]; err != nil {
		return nil, err
	}
	return append([]types.Tag(nil), f.tags[key]...), nil
}

func (f *fakeRegistry) DeleteTag(_ context.Context, repository, tagPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := repository + "/" + tagPath
	f.calls = append(f.calls, "delete "+key)
	if err := f.deleteErrs[key]; err != nil {
		return err
	}
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeRegistry) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRegistry) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

type recordingReporter struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingReporter) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingReporter) ConfigSummary(images []types.ResolvedImage, dryRun bool) {
	r.record(fmt.Sprintf("config images=%d dry_run=%t", len(images), dryRun))
}

func (r *recordingReporter) RepositoryStarted(group types.RepositoryGroup) {
	r.record("repository " + group.Repository)
}

func (r *recordingReporter) ImageFinished(report types.ImageReport) {
	r.record("image " + report.Repository + "/" + report.Image)
}

func (r *recordingReporter) RepositoryFinished(report types.RepositoryReport) {
	r.record("repository done " + report.Repository)
}

func (r *recordingReporter) RunFinished(report types.RunReport) {
	r.record(fmt.Sprintf("run checked=%d", report.Totals.Checked))
}

func testService(registry *fakeRegistry) Service {
	return Service{
		Registry: registry,
		Clock:    func() time.Time { return testNow },
		NewRunID: func() string { return "run-1" },
	}
}

func baseRequest(images ...string) CleanupRequest {
	return CleanupRequest{
		URL:         "https://example.jfrog.io/artifactory",
		Username:    "admin",
		Password:    "secret",
		Images:      images,
		DaysOld:     30,
		KeepMinimum: 2,
		DryRun:      true,
	}
}

func intPtr(value int) *int {
	return &value
}

// captureLogs redirects the global logger into a buffer for one test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })
	return &buf
}
